// Package render draws the widget frame.
package render

import (
	"context"
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/kantiankant/musicwidget/internal/domain"
	"github.com/kantiankant/musicwidget/internal/layout"
	"github.com/kantiankant/musicwidget/internal/processor"
	"go.uber.org/zap"
	"golang.org/x/image/font"
)

const (
	colorCard     = "#0F0F0F"
	colorBorder   = "#2A2A2A"
	colorArtBg    = "#1A1A1A"
	colorNote     = "#444444"
	colorTitle    = "#F0F0F0"
	colorArtist   = "#888888"
	colorAlbum    = "#505050"
	colorTrack    = "#2A2A2A"
	colorProgress = "#E0E0E0"
	colorButton   = "#FFFFFF"
	colorGlyph    = "#0F0F0F"

	fallbackTitle = "Nothing playing"

	// text rows are clipped to [baseline-20, baseline+10]
	textClipAbove  = 20.0
	textClipHeight = 30.0

	// frames to wait before resolving artwork again after a failure
	artRetryFrames = 10
)

// artKey identifies the track the cached thumbnail belongs to
type artKey struct {
	ref, title, artist, album string
}

// Renderer draws the widget into a single reused RGBA buffer
type Renderer struct {
	logger   *zap.Logger
	resolver domain.ArtworkResolver

	frame *image.RGBA
	dc    *gg.Context

	titleFace  font.Face
	artistFace font.Face
	albumFace  font.Face

	cached   bool
	cacheKey artKey
	thumb    *image.NRGBA
	retryIn  int
}

// NewRenderer allocates the frame buffer and loads the fonts
func NewRenderer(logger *zap.Logger, resolver domain.ArtworkResolver) (*Renderer, error) {
	faces, err := loadFaces()
	if err != nil {
		return nil, fmt.Errorf("failed to load fonts: %w", err)
	}

	frame := image.NewRGBA(image.Rect(0, 0, layout.Width, layout.Height))
	return &Renderer{
		logger:     logger,
		resolver:   resolver,
		frame:      frame,
		dc:         gg.NewContextForRGBA(frame),
		titleFace:  faces.title,
		artistFace: faces.artist,
		albumFace:  faces.album,
	}, nil
}

// Render overwrites the frame buffer from state and returns it
func (r *Renderer) Render(ctx context.Context, state *domain.AppState) *image.RGBA {
	dc := r.dc
	snap := &state.Snapshot

	dc.ResetClip()
	dc.SetRGBA(0, 0, 0, 0)
	dc.Clear()

	r.drawCard()
	r.drawArtwork(ctx, snap)

	title := snap.Title
	if title == "" {
		title = fallbackTitle
	}
	r.drawText(title, r.titleFace, colorTitle, layout.TitleBaseline)
	r.drawText(snap.Artist, r.artistFace, colorArtist, layout.ArtistBaseline)
	r.drawText(snap.Album, r.albumFace, colorAlbum, layout.AlbumBaseline)

	r.drawProgress(snap.Position, snap.Duration)
	r.drawButton(state.Transport.Playing)

	return r.frame
}

func (r *Renderer) drawCard() {
	dc := r.dc
	dc.DrawRoundedRectangle(0.5, 0.5, layout.Width-1, layout.Height-1, layout.CardRadius)
	dc.SetHexColor(colorCard)
	dc.FillPreserve()
	dc.SetHexColor(colorBorder)
	dc.SetLineWidth(1)
	dc.Stroke()
}

func (r *Renderer) drawArtwork(ctx context.Context, snap *domain.Snapshot) {
	dc := r.dc
	thumb := r.thumbnail(ctx, snap)

	dc.DrawRoundedRectangle(layout.ArtX, layout.ArtY, layout.ArtSize, layout.ArtSize, layout.ArtRadius)
	if thumb == nil {
		dc.SetHexColor(colorArtBg)
		dc.Fill()
		dc.SetHexColor(colorNote)
		drawNote(dc, layout.ArtX+layout.ArtSize/2, layout.ArtY+layout.ArtSize/2)
		return
	}

	dc.Clip()
	dc.DrawImage(thumb, layout.ArtX, layout.ArtY)
	dc.ResetClip()
}

// thumbnail returns the fitted artwork for the current track, resolving it
// when the track changes. A failed resolve is retried every artRetryFrames
// frames. nil means the placeholder is drawn.
func (r *Renderer) thumbnail(ctx context.Context, snap *domain.Snapshot) *image.NRGBA {
	key := artKey{ref: snap.ArtURL, title: snap.Title, artist: snap.Artist, album: snap.Album}
	if r.cached && key == r.cacheKey {
		if r.thumb != nil || snap.ArtURL == "" {
			return r.thumb
		}
		if r.retryIn > 0 {
			r.retryIn--
			return nil
		}
	}

	r.cached, r.cacheKey, r.thumb, r.retryIn = true, key, nil, 0
	if snap.ArtURL == "" {
		return nil
	}

	img, ok := r.resolver.Resolve(ctx, snap.ArtURL)
	if !ok {
		r.retryIn = artRetryFrames
		return nil
	}
	r.thumb = processor.Fill(img, layout.ArtSize)
	r.logger.Debug("Artwork loaded", zap.String("ref", snap.ArtURL))
	return r.thumb
}

func (r *Renderer) drawText(s string, face font.Face, color string, baseline float64) {
	if s == "" {
		return
	}
	dc := r.dc
	dc.DrawRectangle(layout.TextX, baseline-textClipAbove, layout.TextMaxWidth, textClipHeight)
	dc.Clip()
	dc.SetFontFace(face)
	dc.SetHexColor(color)
	dc.DrawString(s, layout.TextX, baseline)
	dc.ResetClip()
}

func (r *Renderer) drawProgress(position, duration float64) {
	dc := r.dc
	dc.DrawRectangle(layout.ProgressX, layout.ProgressY, layout.ProgressWidth, layout.ProgressHeight)
	dc.SetHexColor(colorTrack)
	dc.Fill()

	if w := layout.ProgressFillWidth(position, duration); w > 0 {
		dc.DrawRectangle(layout.ProgressX, layout.ProgressY, w, layout.ProgressHeight)
		dc.SetHexColor(colorProgress)
		dc.Fill()
	}
}

func (r *Renderer) drawButton(playing bool) {
	dc := r.dc
	dc.DrawCircle(layout.ButtonCX, layout.ButtonCY, layout.ButtonRadius)
	dc.SetHexColor(colorButton)
	dc.Fill()

	dc.SetHexColor(colorGlyph)
	if playing {
		drawPause(dc, layout.ButtonCX, layout.ButtonCY)
	} else {
		drawPlay(dc, layout.ButtonCX, layout.ButtonCY)
	}
}
