package capture

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"planttracker/internal/logging"
	"planttracker/internal/plant"
	"planttracker/internal/services"
)

// MaxImages is the largest batch a single submission may carry.
const MaxImages = 5

type entry struct {
	image   plant.PendingImage
	preview *preview
}

// Entry describes one pending image for display.
type Entry struct {
	Index        int
	Name         string
	MediaType    string
	Organ        plant.Organ
	Sequence     uint64
	Size         int
	PreviewReady bool
}

// Aggregator collects pending images. It is safe for concurrent use; preview
// decodes complete in the background while the caller keeps working.
type Aggregator struct {
	mu          sync.Mutex
	entries     []*entry
	next        uint64
	previewSize int
	logger      *slog.Logger
}

// Option customizes an Aggregator.
type Option func(*Aggregator)

// WithLogger attaches a logger for decode diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logging.NewComponentLogger(logger, "capture")
	}
}

// WithPreviewSize overrides the preview edge length.
func WithPreviewSize(size int) Option {
	return func(a *Aggregator) {
		if size > 0 {
			a.previewSize = size
		}
	}
}

// New constructs an empty aggregator.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{previewSize: PreviewSize, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AddImage registers src with the given organ tag and starts decoding its
// preview. It returns the entry's current index.
func (a *Aggregator) AddImage(src Source, organ plant.Organ) (int, error) {
	if organ == "" {
		organ = plant.OrganAuto
	}
	if !organ.Valid() {
		return 0, services.Wrap(services.ErrValidation, "capture", "add image", fmt.Sprintf("unknown organ %q", organ), nil)
	}
	mediaType := src.mediaType()
	if !strings.HasPrefix(mediaType, "image/") {
		return 0, services.Wrap(services.ErrInvalidMediaType, "capture", "add image", fmt.Sprintf("%s is %s", displayName(src.Name), mediaType), nil)
	}

	a.mu.Lock()
	if len(a.entries) >= MaxImages {
		a.mu.Unlock()
		return 0, services.Wrap(services.ErrCapacityExceeded, "capture", "add image", fmt.Sprintf("at most %d images per submission", MaxImages), nil)
	}
	a.next++
	e := &entry{
		image: plant.PendingImage{
			Data:      src.Data,
			MediaType: mediaType,
			Name:      src.Name,
			Organ:     organ,
			Sequence:  a.next,
		},
		preview: newPreview(),
	}
	a.entries = append(a.entries, e)
	index := len(a.entries) - 1
	size := a.previewSize
	a.mu.Unlock()

	go a.decode(e, size)

	a.logger.Debug("image added",
		logging.String("name", src.Name),
		logging.String("organ", organ.String()),
		logging.Uint64("sequence", e.image.Sequence),
	)
	return index, nil
}

func (a *Aggregator) decode(e *entry, size int) {
	url, err := renderPreview(e.image.Data, size)
	if err != nil {
		a.logger.Warn("preview decode failed",
			logging.String("name", e.image.Name),
			logging.Uint64("sequence", e.image.Sequence),
			logging.Error(err),
		)
	}
	e.preview.resolve(url, err)
}

// SetOrgan replaces the organ tag of the entry at index.
func (a *Aggregator) SetOrgan(index int, organ plant.Organ) error {
	if !organ.Valid() {
		return services.Wrap(services.ErrValidation, "capture", "set organ", fmt.Sprintf("unknown organ %q", organ), nil)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	e, err := a.entryLocked(index)
	if err != nil {
		return err
	}
	e.image.Organ = organ
	return nil
}

// RemoveImage drops the entry at index. Later indices shift down; sequence
// numbers are unchanged.
func (a *Aggregator) RemoveImage(index int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := a.entryLocked(index); err != nil {
		return err
	}
	a.entries = slices.Delete(a.entries, index, index+1)
	return nil
}

// Len returns the number of pending images.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

// Entries describes the pending images in index order.
func (a *Aggregator) Entries() []Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Entry, len(a.entries))
	for i, e := range a.entries {
		out[i] = Entry{
			Index:        i,
			Name:         e.image.Name,
			MediaType:    e.image.MediaType,
			Organ:        e.image.Organ,
			Sequence:     e.image.Sequence,
			Size:         len(e.image.Data),
			PreviewReady: e.preview.ready(),
		}
	}
	return out
}

// Preview blocks until the entry's preview is decoded or ctx ends.
func (a *Aggregator) Preview(ctx context.Context, index int) (string, error) {
	a.mu.Lock()
	e, err := a.entryLocked(index)
	a.mu.Unlock()
	if err != nil {
		return "", err
	}
	return e.preview.wait(ctx)
}

// WaitPreviews waits for every outstanding decode. Decode failures stay on
// their entries; only ctx errors are returned.
func (a *Aggregator) WaitPreviews(ctx context.Context) error {
	a.mu.Lock()
	pending := make([]*preview, len(a.entries))
	for i, e := range a.entries {
		pending[i] = e.preview
	}
	a.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range pending {
		g.Go(func() error {
			select {
			case <-p.done:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}
	return g.Wait()
}

// Finalize returns the pending images ordered by sequence number and clears
// the aggregator.
func (a *Aggregator) Finalize() []plant.PendingImage {
	a.mu.Lock()
	defer a.mu.Unlock()
	images := make([]plant.PendingImage, len(a.entries))
	for i, e := range a.entries {
		images[i] = e.image
	}
	slices.SortStableFunc(images, func(x, y plant.PendingImage) int {
		switch {
		case x.Sequence < y.Sequence:
			return -1
		case x.Sequence > y.Sequence:
			return 1
		default:
			return 0
		}
	})
	a.entries = nil
	return images
}

// Clear drops every pending image.
func (a *Aggregator) Clear() {
	a.mu.Lock()
	a.entries = nil
	a.mu.Unlock()
}

func (a *Aggregator) entryLocked(index int) (*entry, error) {
	if index < 0 || index >= len(a.entries) {
		return nil, services.Wrap(services.ErrValidation, "capture", "lookup", fmt.Sprintf("index %d out of range (%d pending)", index, len(a.entries)), nil)
	}
	return a.entries[index], nil
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "image"
	}
	return name
}
