package render

import (
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
)

type faces struct {
	title, artist, album font.Face
}

func loadFaces() (faces, error) {
	bold, err := opentype.Parse(gomonobold.TTF)
	if err != nil {
		return faces{}, err
	}
	regular, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return faces{}, err
	}

	var f faces
	if f.title, err = newFace(bold, 14); err != nil {
		return faces{}, err
	}
	if f.artist, err = newFace(regular, 11); err != nil {
		return faces{}, err
	}
	if f.album, err = newFace(regular, 10); err != nil {
		return faces{}, err
	}
	return f, nil
}

// newFace returns a face whose size is in pixels
func newFace(f *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// drawNote fills an eighth note centered on (cx, cy)
func drawNote(dc *gg.Context, cx, cy float64) {
	dc.DrawEllipse(cx-3, cy+8, 6, 4.5)
	dc.Fill()

	dc.DrawRectangle(cx+1, cy-12, 2, 20)
	dc.Fill()

	dc.MoveTo(cx+3, cy-12)
	dc.LineTo(cx+11, cy-6)
	dc.LineTo(cx+11, cy-2)
	dc.LineTo(cx+3, cy-7)
	dc.ClosePath()
	dc.Fill()
}

// drawPause fills two vertical bars, shown while playing
func drawPause(dc *gg.Context, cx, cy float64) {
	dc.DrawRectangle(cx-5, cy-6, 3.5, 12)
	dc.DrawRectangle(cx+1.5, cy-6, 3.5, 12)
	dc.Fill()
}

// drawPlay fills a right-pointing triangle, nudged right to look centered
func drawPlay(dc *gg.Context, cx, cy float64) {
	dc.MoveTo(cx-4, cy-7)
	dc.LineTo(cx+7, cy)
	dc.LineTo(cx-4, cy+7)
	dc.ClosePath()
	dc.Fill()
}
