// Package input interprets pointer events against the play/pause button.
package input

import (
	"github.com/kantiankant/musicwidget/internal/domain"
	"github.com/kantiankant/musicwidget/internal/layout"
	"go.uber.org/zap"
)

// CursorSetter changes the cursor image shown over the surface
type CursorSetter interface {
	SetCursor(serial uint32, shape domain.CursorShape)
}

// Controller applies pointer events to the application state
type Controller struct {
	logger   *zap.Logger
	cursor   CursorSetter
	toggler  domain.Toggler
	debounce uint32 // ms
	suppress int
}

// NewController creates an input controller
func NewController(logger *zap.Logger, cursor CursorSetter, toggler domain.Toggler, cfg domain.Config) *Controller {
	return &Controller{
		logger:   logger,
		cursor:   cursor,
		toggler:  toggler,
		debounce: uint32(cfg.GetDebounceWindow().Milliseconds()),
		suppress: cfg.GetSuppressTicks(),
	}
}

// HandleEnter records the entry serial and resets the cursor
func (c *Controller) HandleEnter(st *domain.AppState, ev domain.EnterEvent) {
	st.Pointer.EnterSerial = ev.Serial
	st.Pointer.X, st.Pointer.Y = ev.X, ev.Y
	st.Pointer.Hovering = false
	c.cursor.SetCursor(ev.Serial, domain.CursorDefault)
}

// HandleMotion tracks the pointer and swaps the cursor when it crosses the button edge
func (c *Controller) HandleMotion(st *domain.AppState, ev domain.MotionEvent) {
	st.Pointer.X, st.Pointer.Y = ev.X, ev.Y

	over := layout.OverButton(ev.X, ev.Y)
	if over == st.Pointer.Hovering {
		return
	}
	st.Pointer.Hovering = over

	shape := domain.CursorDefault
	if over {
		shape = domain.CursorPointer
	}
	c.cursor.SetCursor(st.Pointer.EnterSerial, shape)
}

// HandleButton processes a button event at the last known pointer position.
// It reports whether the click was accepted. An accepted click flips the
// displayed state, calls redraw, fires the toggle and starts the poll
// suppression window, in that order.
func (c *Controller) HandleButton(st *domain.AppState, ev domain.ButtonEvent, redraw func()) bool {
	if !ev.Pressed || ev.Button != domain.ButtonLeft {
		return false
	}
	if !layout.OverButton(st.Pointer.X, st.Pointer.Y) {
		return false
	}

	// uint32 subtraction stays correct across timestamp wraparound
	if st.Pointer.Clicked && ev.Time-st.Pointer.LastClick < c.debounce {
		c.logger.Debug("Click debounced", zap.Uint32("sinceLast", ev.Time-st.Pointer.LastClick))
		return false
	}
	st.Pointer.LastClick = ev.Time
	st.Pointer.Clicked = true

	st.Transport.Playing = !st.Transport.Playing
	redraw()
	c.toggler.TogglePlayback()
	st.Transport.SuppressTicks = c.suppress

	c.logger.Debug("Playback toggled", zap.Bool("playing", st.Transport.Playing))
	return true
}
