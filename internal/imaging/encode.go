package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// DefaultJPEGQuality is used when a caller asks for JPEG without a quality.
const DefaultJPEGQuality = 90

// EncodedImage is a PNG or JPEG rendered for transport.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as base64 PNG.
func EncodePNG(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return encoded(img, buf.Bytes(), "image/png"), nil
}

// EncodeJPEG encodes img as base64 JPEG. Quality outside 1..100 selects
// DefaultJPEGQuality. Alpha is dropped.
func EncodeJPEG(img image.Image, quality int) (*EncodedImage, error) {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return encoded(img, buf.Bytes(), "image/jpeg"), nil
}

func encoded(img image.Image, data []byte, mime string) *EncodedImage {
	bounds := img.Bounds()
	return &EncodedImage{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    mime,
	}
}

// Decode reverses EncodePNG and EncodeJPEG.
func Decode(enc *EncodedImage) (image.Image, error) {
	data, err := base64.StdEncoding.DecodeString(enc.ImageBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
