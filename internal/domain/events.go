package domain

// Event is a compositor event delivered by the presentation session.
// The concrete types below are the only implementations.
type Event interface {
	event()
}

// EnterEvent is sent when the pointer enters the widget surface
type EnterEvent struct {
	Serial uint32
	X, Y   float64
}

// MotionEvent is sent when the pointer moves over the surface
type MotionEvent struct {
	// Time is a millisecond timestamp with an undefined base
	Time uint32
	X, Y float64
}

// ButtonEvent is sent on pointer button press and release
type ButtonEvent struct {
	Serial  uint32
	Time    uint32
	Button  uint32
	Pressed bool
}

// ConfigureEvent is sent when the compositor (re)configures the surface
type ConfigureEvent struct {
	Width, Height uint32
}

// ClosedEvent is sent when the compositor closes the surface
type ClosedEvent struct{}

func (EnterEvent) event()     {}
func (MotionEvent) event()    {}
func (ButtonEvent) event()    {}
func (ConfigureEvent) event() {}
func (ClosedEvent) event()    {}

// ButtonLeft is the Linux input code of the primary mouse button (BTN_LEFT)
const ButtonLeft uint32 = 0x110
