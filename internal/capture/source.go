package capture

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Source is the raw material for one pending image.
type Source struct {
	Name string
	// MediaType is the declared type. When blank the content is sniffed.
	MediaType string
	Data      []byte
}

// OpenFile reads an image from disk, declaring its media type from the file
// extension when the platform knows it.
func OpenFile(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("read image %s: %w", path, err)
	}
	return Source{
		Name:      filepath.Base(path),
		MediaType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Data:      data,
	}, nil
}

func (s Source) mediaType() string {
	declared := strings.TrimSpace(s.MediaType)
	if declared == "" {
		declared = http.DetectContentType(s.Data)
	}
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return strings.ToLower(declared)
	}
	return mediaType
}
