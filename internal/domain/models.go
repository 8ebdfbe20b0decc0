package domain

import "unicode/utf8"

// Byte limits for snapshot strings
const (
	MaxTextBytes = 255
	MaxURLBytes  = 511
)

// PlayerStatus represents the transport status reported by the media player
type PlayerStatus string

const (
	// StatusPlaying indicates the media is currently playing
	StatusPlaying PlayerStatus = "Playing"
	// StatusPaused indicates the media is paused
	StatusPaused PlayerStatus = "Paused"
	// StatusStopped indicates the media is stopped
	StatusStopped PlayerStatus = "Stopped"
)

// IsPlaying matches the status case-sensitively against "Playing".
// Anything else, including an empty reply, counts as not playing.
func (s PlayerStatus) IsPlaying() bool {
	return s == StatusPlaying
}

// Snapshot is the last known player metadata and transport state.
// It is replaced wholesale on every poll.
type Snapshot struct {
	// Title of the currently playing track
	Title string
	// Artist name
	Artist string
	// Album name
	Album string
	// ArtURL is the URL or local path to the album artwork
	ArtURL string
	// Position is the playback position in seconds
	Position float64
	// Duration is the track length in seconds, 0 when unknown
	Duration float64
	// Playing is the polled transport state
	Playing bool
}

// Bounded returns the snapshot with its strings cut to the byte limits
func (s Snapshot) Bounded() Snapshot {
	s.Title = Truncate(s.Title, MaxTextBytes)
	s.Artist = Truncate(s.Artist, MaxTextBytes)
	s.Album = Truncate(s.Album, MaxTextBytes)
	s.ArtURL = Truncate(s.ArtURL, MaxURLBytes)
	return s
}

// Truncate cuts s to at most n bytes without splitting a rune
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// PointerState tracks the pointer as reported by the compositor.
type PointerState struct {
	X, Y float64
	// EnterSerial is required to change the cursor image
	EnterSerial uint32
	// LastClick is the compositor timestamp (ms) of the last accepted click
	LastClick uint32
	// Clicked is false until the first click has been accepted
	Clicked bool
	// Hovering is true while the pointer is over the play/pause button
	Hovering bool
}

// TransportState is the displayed play/pause state, distinct from the polled one.
type TransportState struct {
	// Playing selects the button glyph; flipped optimistically on click
	Playing bool
	// SuppressTicks is the number of upcoming poll ticks to skip
	SuppressTicks int
}

// AppState is all mutable process state. It is owned by the event loop.
type AppState struct {
	Snapshot  Snapshot
	Transport TransportState
	Pointer   PointerState
}

// CursorShape selects the cursor image shown over the widget
type CursorShape int

const (
	CursorDefault CursorShape = iota
	CursorPointer
)
