// Package layout holds the fixed panel geometry shared by rendering and hit testing.
package layout

import (
	"math"

	"github.com/samber/lo"
)

const (
	Width  = 320
	Height = 100
	Margin = 20

	CardRadius = 18.0

	ArtSize   = 72
	ArtRadius = 10.0
	ArtX      = 14
	ArtY      = (Height - ArtSize) / 2

	ButtonRadius = 14.0
	ButtonCX     = Width - Margin - ButtonRadius
	ButtonCY     = Margin + ButtonRadius

	TextX = ArtX + ArtSize + 14
	// TextMaxWidth stops text rows 8px short of the button
	TextMaxWidth = ButtonCX - ButtonRadius - 8 - TextX

	TitleBaseline  = 38.0
	ArtistBaseline = 54.0
	AlbumBaseline  = 68.0

	ProgressX      = TextX
	ProgressY      = 80.0
	ProgressHeight = 2.0
	ProgressWidth  = TextMaxWidth
)

// ProgressFraction returns position/duration clamped to [0, 1].
// It is 0 whenever the duration is unknown.
func ProgressFraction(position, duration float64) float64 {
	if duration <= 0 || math.IsNaN(position) || math.IsNaN(duration) {
		return 0
	}
	return lo.Clamp(position/duration, 0, 1)
}

// ProgressFillWidth returns the width of the filled part of the progress bar
func ProgressFillWidth(position, duration float64) float64 {
	return ProgressWidth * ProgressFraction(position, duration)
}

// OverButton reports whether (x, y) lies within the play/pause button.
// Points exactly on the circle count as inside.
func OverButton(x, y float64) bool {
	return math.Hypot(x-ButtonCX, y-ButtonCY) <= ButtonRadius
}
