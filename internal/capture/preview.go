package capture

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"

	// Registered decoders for preview generation.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// PreviewSize bounds the longest edge of a generated preview.
const PreviewSize = 256

type preview struct {
	done chan struct{}
	url  string
	err  error
}

func newPreview() *preview {
	return &preview{done: make(chan struct{})}
}

func (p *preview) resolve(url string, err error) {
	p.url = url
	p.err = err
	close(p.done)
}

func (p *preview) wait(ctx context.Context) (string, error) {
	select {
	case <-p.done:
		return p.url, p.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (p *preview) ready() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// renderPreview decodes data and returns a downscaled JPEG data URL.
func renderPreview(data []byte, size int) (string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return "", fmt.Errorf("decode image: empty bounds")
	}
	if w > size || h > size {
		if w >= h {
			h = max(1, h*size/w)
			w = size
		} else {
			w = max(1, w*size/h)
			h = size
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("encode preview: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
