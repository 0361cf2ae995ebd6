package services

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	logger "github.com/Bparsons0904/goLogger"
	"golang.org/x/image/draw"
)

const (
	// MAX_IMAGE_EDGE caps the longer edge of the normalized preview. Kept
	// very small so the result embeds into an email payload.
	MAX_IMAGE_EDGE = 200

	// JPEG_QUALITY is deliberately low for the same reason.
	JPEG_QUALITY = 10
)

var (
	ErrDecode = errors.New("image could not be decoded")
	ErrEncode = errors.New("image could not be encoded")
)

// ImageService turns raw captured photos into small, low-fidelity previews
// suitable for embedding in a notification payload. Failures here never
// block the task save; the notification just goes out without a photo.
type ImageService struct {
	log logger.Logger
}

func NewImageService() *ImageService {
	return &ImageService{
		log: logger.New("imageService"),
	}
}

// Normalize decodes raw image bytes, scales them preserving aspect ratio so
// the longer edge does not exceed MAX_IMAGE_EDGE (never upscaling), and
// returns the result re-encoded as a JPEG data URL.
func (s *ImageService) Normalize(raw []byte) (string, error) {
	log := s.log.Function("Normalize")

	src, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", log.ErrorWithType(ErrDecode, "failed to decode image", "error", err)
	}

	bounds := src.Bounds()
	width, height := scaledSize(bounds.Dx(), bounds.Dy())

	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: JPEG_QUALITY}); err != nil {
		return "", log.ErrorWithType(ErrEncode, "failed to encode image", "error", err)
	}

	log.Debug(
		"Image normalized",
		"sourceFormat", format,
		"sourceWidth", bounds.Dx(),
		"sourceHeight", bounds.Dy(),
		"width", width,
		"height", height,
		"bytes", buf.Len(),
	)

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ImageHTML wraps a normalized data URL in the image tag embedded into the
// notification template.
func ImageHTML(dataURL string) string {
	return fmt.Sprintf(`<img src="%s" style="max-width:200px;margin:10px 0;" alt="Foto">`, dataURL)
}

func scaledSize(width, height int) (int, int) {
	if width > height && width > MAX_IMAGE_EDGE {
		height = height * MAX_IMAGE_EDGE / width
		width = MAX_IMAGE_EDGE
	} else if height > MAX_IMAGE_EDGE {
		width = width * MAX_IMAGE_EDGE / height
		height = MAX_IMAGE_EDGE
	}

	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	return width, height
}
