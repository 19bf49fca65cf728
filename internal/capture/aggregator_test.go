package capture_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planttracker/internal/capture"
	"planttracker/internal/plant"
	"planttracker/internal/services"
	"planttracker/internal/testsupport"
)

func pngSource(t *testing.T, name string) capture.Source {
	t.Helper()
	return capture.Source{Name: name, MediaType: "image/png", Data: testsupport.PNGBytes(t, 32, 24)}
}

func waitPreviews(t *testing.T, agg *capture.Aggregator) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, agg.WaitPreviews(ctx))
}

func TestAddImageEnforcesCapacity(t *testing.T) {
	agg := capture.New()
	for i := 0; i < capture.MaxImages; i++ {
		idx, err := agg.AddImage(pngSource(t, "leaf.png"), plant.OrganLeaf)
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}

	_, err := agg.AddImage(pngSource(t, "extra.png"), plant.OrganAuto)
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrCapacityExceeded))
	assert.True(t, services.Recoverable(err))
	assert.Equal(t, capture.MaxImages, agg.Len())

	waitPreviews(t, agg)
}

func TestAddImageRejectsNonImages(t *testing.T) {
	agg := capture.New()

	_, err := agg.AddImage(capture.Source{Name: "notes.txt", MediaType: "text/plain", Data: []byte("hello")}, plant.OrganAuto)
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrInvalidMediaType))

	_, err = agg.AddImage(capture.Source{Name: "blob", Data: []byte("plain words, not pixels")}, plant.OrganAuto)
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrInvalidMediaType))

	assert.Zero(t, agg.Len())
}

func TestAddImageSniffsUndeclaredType(t *testing.T) {
	agg := capture.New()
	_, err := agg.AddImage(capture.Source{Name: "photo", Data: testsupport.JPEGBytes(t, 16, 16)}, "")
	require.NoError(t, err)

	entries := agg.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "image/jpeg", entries[0].MediaType)
	assert.Equal(t, plant.OrganAuto, entries[0].Organ)

	waitPreviews(t, agg)
}

func TestFinalizeOrdersBySequenceAndClears(t *testing.T) {
	agg := capture.New()
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		_, err := agg.AddImage(pngSource(t, name), plant.OrganAuto)
		require.NoError(t, err)
	}
	require.NoError(t, agg.RemoveImage(1))
	_, err := agg.AddImage(pngSource(t, "d.png"), plant.OrganBark)
	require.NoError(t, err)
	require.NoError(t, agg.SetOrgan(0, plant.OrganFlower))
	waitPreviews(t, agg)

	entries := agg.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, uint64(3), entries[1].Sequence, "sequence numbers survive index shifts")

	images := agg.Finalize()
	require.Len(t, images, 3)
	assert.Equal(t, []string{"a.png", "c.png", "d.png"}, []string{images[0].Name, images[1].Name, images[2].Name})
	assert.Equal(t, []uint64{1, 3, 4}, []uint64{images[0].Sequence, images[1].Sequence, images[2].Sequence})
	assert.Equal(t, plant.OrganFlower, images[0].Organ)
	assert.Equal(t, plant.OrganBark, images[2].Organ)
	assert.Zero(t, agg.Len())
	assert.Empty(t, agg.Finalize())
}

func TestSetOrganAndRemoveValidateInput(t *testing.T) {
	agg := capture.New()
	_, err := agg.AddImage(pngSource(t, "a.png"), plant.OrganAuto)
	require.NoError(t, err)

	assert.True(t, errors.Is(agg.SetOrgan(0, plant.Organ("root")), services.ErrValidation))
	assert.True(t, errors.Is(agg.SetOrgan(3, plant.OrganLeaf), services.ErrValidation))
	assert.True(t, errors.Is(agg.RemoveImage(-1), services.ErrValidation))

	waitPreviews(t, agg)
}

func TestPreviewProducesScaledJPEG(t *testing.T) {
	agg := capture.New(capture.WithPreviewSize(8))
	_, err := agg.AddImage(pngSource(t, "a.png"), plant.OrganLeaf)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url, err := agg.Preview(ctx, 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))
	assert.True(t, agg.Entries()[0].PreviewReady)
}

func TestPreviewDecodeFailureKeepsEntry(t *testing.T) {
	agg := capture.New()
	_, err := agg.AddImage(capture.Source{Name: "broken.png", MediaType: "image/png", Data: []byte("not really a png")}, plant.OrganAuto)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = agg.Preview(ctx, 0)
	require.Error(t, err)
	assert.Equal(t, 1, agg.Len())

	images := agg.Finalize()
	require.Len(t, images, 1)
	assert.Equal(t, "broken.png", images[0].Name)
}

func TestOpenFileDeclaresTypeFromExtension(t *testing.T) {
	path := testsupport.WriteImage(t, t.TempDir(), "leaf.png", testsupport.PNGBytes(t, 4, 4))
	src, err := capture.OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, "leaf.png", src.Name)
	assert.Equal(t, "image/png", src.MediaType)
	assert.NotEmpty(t, src.Data)

	_, err = capture.OpenFile(path + ".missing")
	require.Error(t, err)
}
