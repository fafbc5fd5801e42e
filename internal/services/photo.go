package services

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"net/http"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultPhotoMaxBytes = 10 << 20
	previewSize          = 256
)

var ErrInvalidPhoto = errors.New("invalid photo")

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// PhotoUpload is a validated upload with its circular preview.
type PhotoUpload struct {
	Data     []byte
	MIMEType string
	FileName string
	Preview  []byte
	Width    int
	Height   int
}

// ProcessPhoto sniffs and decodes an upload and renders the preview shown in
// the wizard. Only JPEG, PNG and WebP are accepted.
func ProcessPhoto(raw []byte, fileName string, maxBytes int64) (*PhotoUpload, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultPhotoMaxBytes
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidPhoto)
	}
	if int64(len(raw)) > maxBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrInvalidPhoto, maxBytes)
	}
	mime := sniffImageType(raw)
	if !allowedPhotoTypes[mime] {
		return nil, fmt.Errorf("%w: unsupported type %q", ErrInvalidPhoto, mime)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPhoto, err)
	}
	preview, err := circularPreview(raw, previewSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPhoto, err)
	}
	return &PhotoUpload{
		Data:     raw,
		MIMEType: mime,
		FileName: cleanFileName(fileName),
		Preview:  preview,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

// The multipart Content-Type header is never trusted.
func sniffImageType(raw []byte) string {
	ct := http.DetectContentType(raw)
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct)
}

func cleanFileName(name string) string {
	name = filepath.Base(strings.TrimSpace(strings.ReplaceAll(name, "\\", "/")))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// circularPreview center-crops to a square, scales and clips to a circle.
func circularPreview(raw []byte, size int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	side := w
	if h < w {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2

	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(dst, 0, 0)

	var out bytes.Buffer
	if err := dc.EncodePNG(&out); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return out.Bytes(), nil
}
