package domain

import (
	"context"
	"image"
	"time"
)

// StateSource reads the current player state.
// Implementations never fail: unavailable fields degrade to zero values.
type StateSource interface {
	Poll(ctx context.Context) Snapshot
}

// Toggler flips the player between playing and paused.
// The call returns immediately; completion is never observed.
type Toggler interface {
	TogglePlayback()
}

// ArtworkResolver turns an artwork reference into a desaturated raster image.
// ok is false when the artwork is unavailable for any reason.
type ArtworkResolver interface {
	Resolve(ctx context.Context, ref string) (img *image.NRGBA, ok bool)
}

// Renderer composes the widget frame from the application state.
// The returned buffer is reused and overwritten by the next call.
type Renderer interface {
	Render(ctx context.Context, state *AppState) *image.RGBA
}

// Fetcher defines the interface for retrieving remote album artwork
type Fetcher interface {
	// Fetch downloads image data from a URL
	// Returns the raw image bytes or an error
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// CommandRunner executes external programs
type CommandRunner interface {
	// Output runs the command and returns the first line of its standard output
	// without the trailing newline. Standard error is discarded.
	Output(ctx context.Context, name string, args ...string) (string, error)

	// Run runs the command with standard output and error discarded
	Run(ctx context.Context, name string, args ...string) error

	// Start launches the command without waiting for it
	Start(name string, args ...string) error

	// Exists reports whether the binary can be found in PATH
	Exists(name string) bool
}

// Converter normalizes an image file into a PNG the renderer can decode
type Converter interface {
	Convert(ctx context.Context, src, dst string) error
}

// Session is the compositor connection the widget is presented on
type Session interface {
	// Connect performs the handshake and maps the surface.
	// An error here is fatal: the widget cannot run without a session.
	Connect(ctx context.Context) error

	// Events returns the channel of compositor events.
	// The channel is closed when the connection fails or is closed.
	Events() <-chan Event

	// Flush writes queued requests to the compositor
	Flush() error

	// Present copies a completed frame into the shared buffer and commits it
	Present(frame *image.RGBA) error

	// SetCursor changes the cursor image for the pointer that entered with serial
	SetCursor(serial uint32, shape CursorShape)

	// Close releases the surface, buffer and connection
	Close() error
}

// Config defines the interface for application configuration
type Config interface {
	// GetPlayerName returns the target player identity
	GetPlayerName() string

	// GetTempDir returns the directory for intermediate artwork files
	GetTempDir() string

	// GetPollInterval returns the interval between player state polls
	GetPollInterval() time.Duration

	// GetDebounceWindow returns the minimum time between accepted clicks
	GetDebounceWindow() time.Duration

	// GetSuppressTicks returns how many polls are skipped after a click
	GetSuppressTicks() int

	// GetToolTimeout returns the timeout for one status tool invocation
	GetToolTimeout() time.Duration

	// GetConvertTimeout returns the timeout for one artwork conversion
	GetConvertTimeout() time.Duration
}
