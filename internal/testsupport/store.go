package testsupport

import (
	"testing"

	"planttracker/internal/config"
	"planttracker/internal/logging"
	"planttracker/internal/plantdb"
)

// MustOpenStore opens the SQLite backend for cfg and closes it with the test.
func MustOpenStore(t testing.TB, cfg *config.Config, identifier plantdb.Identifier, opts ...plantdb.Option) *plantdb.Store {
	t.Helper()
	store, err := plantdb.Open(cfg, identifier, logging.NewNop(), opts...)
	if err != nil {
		t.Fatalf("open plant store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
