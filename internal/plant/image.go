package plant

import (
	"encoding/base64"
	"strings"
)

// PendingImage is one captured photograph waiting for submission.
type PendingImage struct {
	Data      []byte
	MediaType string
	Name      string
	Organ     Organ
	// Sequence is assigned when the image is added, not when it finishes decoding.
	Sequence uint64
}

// DataURL encodes the image in the data URL form the identification backend expects.
func (p PendingImage) DataURL() string {
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(p.MediaType) + base64.StdEncoding.EncodedLen(len(p.Data)))
	b.WriteString("data:")
	b.WriteString(p.MediaType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(p.Data))
	return b.String()
}
