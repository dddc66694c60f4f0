package imaging

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		want     error
	}{
		{"png", "me.png", 1024, nil},
		{"jpg upper case", "ME.JPG", 1024, nil},
		{"jpeg", "holiday.photo.jpeg", MaxAvatarBytes, nil},
		{"pdf", "resume.pdf", 1024, ErrUnsupportedFormat},
		{"no extension", "avatar", 1024, ErrUnsupportedFormat},
		{"too large", "me.png", MaxAvatarBytes + 1, ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.filename, tt.size)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestProcessAvatarPNG(t *testing.T) {
	out, err := ProcessAvatar(encodePNG(t, solidImage(640, 320)))
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, AvatarSize, cfg.Width)
	assert.Equal(t, AvatarSize, cfg.Height)
}

func TestProcessAvatarJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solidImage(40, 60), nil))

	out, err := ProcessAvatar(buf.Bytes())
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, AvatarSize, cfg.Width)
}

func TestProcessAvatarRejectsGarbage(t *testing.T) {
	_, err := ProcessAvatar([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUndecodable)

	_, err = ProcessAvatar(make([]byte, MaxAvatarBytes+1))
	assert.ErrorIs(t, err, ErrTooLarge)
}

// withCanvas rewrites the IHDR dimensions of a PNG without touching its
// pixel data, producing a tiny file that declares a huge canvas.
func withCanvas(t *testing.T, data []byte, w, h uint32) []byte {
	t.Helper()
	require.Greater(t, len(data), 33)
	require.Equal(t, "IHDR", string(data[12:16]))

	out := append([]byte(nil), data...)
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestProcessAvatarRejectsOversizedCanvas(t *testing.T) {
	small := encodePNG(t, image.NewGray(image.Rect(0, 0, 8, 8)))

	tests := []struct {
		name string
		w, h uint32
	}{
		{"huge square", 12000, 12000},
		{"very wide", 100000, 200},
		{"just over budget", 4097, 4096},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data := withCanvas(t, small, tc.w, tc.h)
			require.Less(t, len(data), MaxAvatarBytes)
			require.NoError(t, ValidateUpload("bomb.png", int64(len(data))))

			_, err := ProcessAvatar(data)
			assert.ErrorIs(t, err, ErrTooLarge)
		})
	}
}

func TestProcessAvatarAcceptsCanvasAtBudget(t *testing.T) {
	data := encodePNG(t, image.NewGray(image.Rect(0, 0, 4096, 4)))

	out, err := ProcessAvatar(data)
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, AvatarSize, cfg.Width)
}
