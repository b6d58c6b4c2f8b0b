// Package annotate stamps capture timestamps into activity photos and
// turns them into transportable payloads: an uploaded public URL when
// the backend accepts the blob, an inline data URI otherwise.
package annotate

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"log"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const jpegQuality = 80

// Uploader is the blob capability of the remote gateway.
type Uploader interface {
	UploadImage(ctx context.Context, name string, data []byte) (string, error)
}

// Stamp renders t into the bottom-right corner of the image and returns
// it re-encoded as JPEG. The text is stroked: a dark ring under a light
// fill, readable on both light and dark backgrounds.
func Stamp(raw []byte, t time.Time) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("annotate: decode: %w", err)
	}
	img := imaging.Clone(src)
	h := img.Bounds().Dy()
	w := img.Bounds().Dx()

	size := h * 3 / 100
	if size < 24 {
		size = 24
	}
	face, err := newFace(float64(size))
	if err != nil {
		return nil, err
	}
	defer face.Close()

	text := t.Format("2/1/2006 15.04.05")
	margin := size / 2
	width := font.MeasureString(face, text).Ceil()
	x := w - margin - width
	y := h - margin
	stroke := size / 6
	if stroke < 1 {
		stroke = 1
	}

	drawText(img, face, text, x, y, stroke, color.Black, color.White)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("annotate: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func newFace(size float64) (font.Face, error) {
	ft, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("annotate: parse font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: size, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("annotate: build face: %w", err)
	}
	return face, nil
}

func drawText(dst *image.NRGBA, face font.Face, text string, x, y, stroke int, outline, fill color.Color) {
	d := font.Drawer{Dst: dst, Face: face}
	d.Src = image.NewUniform(outline)
	for dx := -stroke; dx <= stroke; dx++ {
		for dy := -stroke; dy <= stroke; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d.Dot = fixed.P(x+dx, y+dy)
			d.DrawString(text)
		}
	}
	d.Src = image.NewUniform(fill)
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}

// DataURI wraps a JPEG payload as a self-contained inline image.
func DataURI(jpeg []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpeg)
}

// Process stamps every image with the capture moment and uploads each
// one. A failed upload falls back to the inline payload for that image
// only; the whole batch never fails and attachment order is preserved.
func Process(ctx context.Context, up Uploader, raws [][]byte, t time.Time) ([]string, error) {
	out := make([]string, 0, len(raws))
	for i, raw := range raws {
		stamped, err := Stamp(raw, t)
		if err != nil {
			return nil, fmt.Errorf("annotate: image %d: %w", i, err)
		}
		name := uuid.NewString() + ".jpg"
		url, err := up.UploadImage(ctx, name, stamped)
		if err != nil {
			log.Printf("annotate: upload %s: %v", name, err)
			url = DataURI(stamped)
		}
		out = append(out, url)
	}
	return out, nil
}
