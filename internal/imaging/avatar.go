package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// Avatar constraints.
const (
	AvatarSize     = 250
	MaxAvatarBytes = 1_000_000

	// MaxAvatarPixels bounds the declared canvas of an upload. Compressed
	// size says nothing about the decoded size.
	MaxAvatarPixels = 4096 * 4096
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Upload rejection reasons. Their messages are safe to show to clients.
var (
	ErrUnsupportedFormat = errors.New("Please upload an image")
	ErrTooLarge          = errors.New("File too large")
	ErrUndecodable       = errors.New("Unable to process image")
)

// ValidateUpload checks the filename extension and size of an upload.
func ValidateUpload(filename string, size int64) error {
	if !allowedExtensions[strings.ToLower(filepath.Ext(filename))] {
		return ErrUnsupportedFormat
	}
	if size > MaxAvatarBytes {
		return ErrTooLarge
	}
	return nil
}

// ProcessAvatar decodes a JPEG or PNG image, scales it to AvatarSize square
// and returns it PNG-encoded.
func ProcessAvatar(data []byte) ([]byte, error) {
	if len(data) > MaxAvatarBytes {
		return nil, ErrTooLarge
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty canvas", ErrUndecodable)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxAvatarPixels {
		return nil, fmt.Errorf("%w: %dx%d pixels", ErrTooLarge, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, AvatarSize, AvatarSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}
	return buf.Bytes(), nil
}
