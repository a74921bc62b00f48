package storage

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"

	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const thumbnailQuality = 75

// writeThumbnail decodes src and writes a width-capped JPEG to dst. Images
// narrower than maxWidth are re-encoded without enlargement.
func writeThumbnail(src, dst string, maxWidth int) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width > maxWidth {
		height = height * maxWidth / width
		width = maxWidth
	}
	if height < 1 {
		height = 1
	}

	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(scaled, scaled.Bounds(), img, bounds, xdraw.Over, nil)

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(out, scaled, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	return out.Close()
}
