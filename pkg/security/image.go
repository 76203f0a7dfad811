package security

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

const jpegQuality = 85

// DownscaleImage shrinks a PNG or JPEG so its longer edge is at most
// maxDimension, keeping the aspect ratio and the original format.
// Other formats, small images and maxDimension <= 0 are returned unchanged.
func DownscaleImage(data []byte, maxDimension int) ([]byte, bool, error) {
	if maxDimension <= 0 {
		return data, false, nil
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read image header: %w", err)
	}
	if format != "png" && format != "jpeg" {
		return data, false, nil
	}
	if cfg.Width <= maxDimension && cfg.Height <= maxDimension {
		return data, false, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}

	newWidth, newHeight := fitWithin(cfg.Width, cfg.Height, maxDimension)
	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, resized)
	default:
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), true, nil
}

func fitWithin(width, height, maxDimension int) (int, int) {
	if width >= height {
		h := height * maxDimension / width
		if h < 1 {
			h = 1
		}
		return maxDimension, h
	}
	w := width * maxDimension / height
	if w < 1 {
		w = 1
	}
	return w, maxDimension
}
