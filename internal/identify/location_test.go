package identify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planttracker/internal/identify"
)

func TestResolveLocationStatic(t *testing.T) {
	loc := identify.ResolveLocation(context.Background(), identify.StaticLocator{Location: &identify.Location{Latitude: 1, Longitude: 2}}, time.Second, nil)
	require.NotNil(t, loc)
	assert.Equal(t, 1.0, loc.Latitude)
	assert.Equal(t, 2.0, loc.Longitude)

	assert.Nil(t, identify.ResolveLocation(context.Background(), identify.StaticLocator{}, time.Second, nil))
	assert.Nil(t, identify.ResolveLocation(context.Background(), nil, time.Second, nil))
}

func TestResolveLocationDegradesOnErrorAndTimeout(t *testing.T) {
	failing := identify.LocatorFunc(func(context.Context) (identify.Location, error) {
		return identify.Location{}, errors.New("permission denied")
	})
	assert.Nil(t, identify.ResolveLocation(context.Background(), failing, time.Second, nil))

	slow := identify.LocatorFunc(func(ctx context.Context) (identify.Location, error) {
		<-ctx.Done()
		return identify.Location{}, ctx.Err()
	})
	start := time.Now()
	assert.Nil(t, identify.ResolveLocation(context.Background(), slow, 20*time.Millisecond, nil))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestImageDataAcceptsStringOrList(t *testing.T) {
	var single identify.ImageData
	require.NoError(t, single.UnmarshalJSON([]byte(`"data:image/png;base64,AA=="`)))
	assert.Equal(t, identify.ImageData{"data:image/png;base64,AA=="}, single)

	var list identify.ImageData
	require.NoError(t, list.UnmarshalJSON([]byte(`["a","b"]`)))
	assert.Equal(t, identify.ImageData{"a", "b"}, list)

	var empty identify.ImageData
	require.NoError(t, empty.UnmarshalJSON([]byte(`null`)))
	assert.Nil(t, empty)

	assert.Error(t, list.UnmarshalJSON([]byte(`{}`)))
}
