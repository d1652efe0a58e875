package canvas

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// ThumbnailOptions controls the rendered preview size.
type ThumbnailOptions struct {
	Width int
}

var (
	faceOnce  sync.Once
	faceErr   error
	thumbFace font.Face
)

func thumbnailFace() (font.Face, error) {
	faceOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			faceErr = fmt.Errorf("parse embedded font: %w", err)
			return
		}
		thumbFace = truetype.NewFace(f, &truetype.Options{Size: 11})
	})
	return thumbFace, faceErr
}

// RenderThumbnail draws a payload's bands and body blocks as labeled
// rectangles and returns PNG bytes. It is a preview of layout, not content:
// block labels render, block text does not.
func RenderThumbnail(payload Payload, opts ThumbnailOptions) ([]byte, error) {
	if payload.Dimensions.Width <= 0 || payload.Dimensions.Height <= 0 {
		return nil, fmt.Errorf("payload has no dimensions")
	}
	width := opts.Width
	if width <= 0 {
		width = 320
	}
	scale := float64(width) / payload.Dimensions.Width
	height := int(payload.Dimensions.Height * scale)

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	face, err := thumbnailFace()
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)

	m := payload.Margins
	headerH := payload.Header.Height * scale
	footerH := payload.Footer.Height * scale

	// margin bands
	dc.SetRGB255(226, 232, 240)
	dc.DrawRectangle(0, 0, float64(width), headerH)
	dc.Fill()
	dc.DrawRectangle(0, float64(height)-footerH, float64(width), footerH)
	dc.Fill()

	dc.SetRGB255(71, 85, 105)
	dc.DrawStringAnchored(payload.Header.Label, float64(width)/2, headerH/2, 0.5, 0.5)
	dc.DrawStringAnchored(payload.Footer.Label, float64(width)/2, float64(height)-footerH/2, 0.5, 0.5)

	// body blocks
	left := m.Left * scale
	right := float64(width) - m.Right*scale
	top := headerH + 6
	bottom := float64(height) - footerH - 6
	avail := bottom - top
	if avail < 0 {
		avail = 0
	}

	fixed := 0.0
	grow := 0.0
	for _, block := range payload.Body.Children {
		if block.FlexGrow > 0 {
			grow += block.FlexGrow
		} else {
			h := block.Height * scale
			if h <= 0 {
				h = 40 * scale
			}
			fixed += h
		}
	}
	growUnit := 0.0
	if grow > 0 && avail > fixed {
		growUnit = (avail - fixed) / grow
	}

	y := top
	for _, block := range payload.Body.Children {
		h := block.Height * scale
		if block.FlexGrow > 0 {
			h = block.FlexGrow * growUnit
		} else if h <= 0 {
			h = 40 * scale
		}
		if y+h > bottom {
			h = bottom - y
		}
		if h <= 0 {
			break
		}
		dc.SetRGB255(241, 245, 249)
		dc.DrawRoundedRectangle(left, y, right-left, h, 4)
		dc.Fill()
		dc.SetRGB255(148, 163, 184)
		dc.DrawRoundedRectangle(left, y, right-left, h, 4)
		dc.Stroke()

		label := block.Label
		if label == "" {
			label = block.BlockType
		}
		dc.SetRGB255(51, 65, 85)
		dc.DrawStringAnchored(label, left+8, y+h/2, 0, 0.5)

		y += h + 4
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
