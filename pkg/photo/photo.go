// Package photo normalizes base64 check-in/check-out photos before storage.
package photo

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/disintegration/imaging"

	"fieldtrack/config"
)

var (
	ErrInvalidPhoto  = errors.New("photo is not a decodable image")
	ErrPhotoTooLarge = errors.New("photo exceeds the size limit")
)

const dataURLPrefix = "data:image/jpeg;base64,"

// Normalizer bounds photo dimensions and re-encodes them as JPEG.
type Normalizer struct {
	maxWidth int
	maxBytes int
	quality  int
}

// NewNormalizer builds a Normalizer from attendance config.
func NewNormalizer(cfg *config.AttendanceConfig) *Normalizer {
	n := &Normalizer{maxWidth: cfg.PhotoMaxWidth, maxBytes: cfg.PhotoMaxBytes, quality: cfg.PhotoQuality}
	if n.maxWidth <= 0 {
		n.maxWidth = 1280
	}
	if n.quality <= 0 || n.quality > 100 {
		n.quality = 80
	}
	return n
}

// Normalize accepts raw base64 or a data URL and returns a JPEG data URL.
// An empty input yields nil.
func (n *Normalizer) Normalize(encoded *string) (*string, error) {
	if encoded == nil || strings.TrimSpace(*encoded) == "" {
		return nil, nil
	}

	payload := *encoded
	if i := strings.Index(payload, ","); strings.HasPrefix(payload, "data:") && i > 0 {
		payload = payload[i+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalidPhoto
	}
	if n.maxBytes > 0 && len(raw) > n.maxBytes {
		return nil, ErrPhotoTooLarge
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, ErrInvalidPhoto
	}

	if img.Bounds().Dx() > n.maxWidth {
		img = imaging.Resize(img, n.maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(n.quality)); err != nil {
		return nil, err
	}

	out := dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes())
	return &out, nil
}
