//go:build linux
// +build linux

package wayland

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/kantiankant/musicwidget/internal/domain"
	"github.com/kantiankant/musicwidget/internal/layout"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const eventBuffer = 64

var errDisconnected = errors.New("wayland: connection closed")

// objects holds the ids of every protocol object the session created
type objects struct {
	registry      uint32
	compositor    uint32
	shm           uint32
	seat          uint32
	layerShell    uint32
	cursorManager uint32

	surface      uint32
	layerSurface uint32
	buffer       uint32
	pointer      uint32
	cursorDevice uint32
}

// Session maps the widget as a bottom-layer surface anchored to the
// bottom-right corner of the output.
type Session struct {
	logger *zap.Logger
	conn   *conn
	shm    *shmBuffer

	events     chan domain.Event
	closing    chan struct{}
	readerDone chan struct{}
	configured chan struct{}

	mu         sync.Mutex
	ids        objects
	globals    map[string]global
	callbacks  map[uint32]chan struct{}
	configOnce sync.Once
	closeOnce  sync.Once
}

// NewSession creates an unconnected session
func NewSession(logger *zap.Logger) *Session {
	return &Session{
		logger:     logger,
		events:     make(chan domain.Event, eventBuffer),
		closing:    make(chan struct{}),
		readerDone: make(chan struct{}),
		configured: make(chan struct{}),
		globals:    make(map[string]global),
		callbacks:  make(map[uint32]chan struct{}),
	}
}

// Events returns the compositor event channel.
// It is closed when the connection fails or the session is closed.
func (s *Session) Events() <-chan domain.Event {
	return s.events
}

// Connect binds the required globals, maps the surface and waits for the
// first configure. Any failure is fatal for the widget.
func (s *Session) Connect(ctx context.Context) error {
	c, err := dial()
	if err != nil {
		return err
	}
	s.conn = c
	go s.readLoop()

	s.mu.Lock()
	s.ids.registry = c.newID()
	registry := s.ids.registry
	s.mu.Unlock()
	c.queue(newRequest(displayID, displayGetRegistry).putUint(registry))

	if err := s.roundtrip(ctx); err != nil {
		return fmt.Errorf("registry roundtrip failed: %w", err)
	}
	if err := s.bindGlobals(); err != nil {
		return err
	}
	// Seat capabilities arrive in response to the bind
	if err := s.roundtrip(ctx); err != nil {
		return fmt.Errorf("seat roundtrip failed: %w", err)
	}
	if err := s.createSurface(ctx); err != nil {
		return err
	}
	if err := s.createBuffer(); err != nil {
		return err
	}
	if err := s.roundtrip(ctx); err != nil {
		return fmt.Errorf("buffer roundtrip failed: %w", err)
	}

	s.logger.Info("Wayland surface mapped",
		zap.Int("width", layout.Width),
		zap.Int("height", layout.Height))
	return nil
}

func (s *Session) bindGlobals() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bind := func(iface string, required bool) (uint32, error) {
		g, ok := s.globals[iface]
		if !ok {
			if required {
				return 0, fmt.Errorf("compositor does not support %s", iface)
			}
			s.logger.Info("Optional global not available", zap.String("interface", iface))
			return 0, nil
		}
		id := s.conn.newID()
		version := min(g.version, wantVersions[iface])
		s.conn.queue(newRequest(s.ids.registry, registryBind).
			putUint(g.name).
			putString(iface).
			putUint(version).
			putUint(id))
		s.logger.Debug("Bound global",
			zap.String("interface", iface),
			zap.Uint32("version", version))
		return id, nil
	}

	var err error
	if s.ids.compositor, err = bind(ifaceCompositor, true); err != nil {
		return err
	}
	if s.ids.shm, err = bind(ifaceShm, true); err != nil {
		return err
	}
	if s.ids.layerShell, err = bind(ifaceLayerShell, true); err != nil {
		return err
	}
	if s.ids.seat, err = bind(ifaceSeat, true); err != nil {
		return err
	}
	s.ids.cursorManager, _ = bind(ifaceCursorManager, false)
	return nil
}

func (s *Session) createSurface(ctx context.Context) error {
	c := s.conn

	s.mu.Lock()
	s.ids.surface = c.newID()
	s.ids.layerSurface = c.newID()
	ids := s.ids
	s.mu.Unlock()

	c.queue(newRequest(ids.compositor, compositorCreateSurface).putUint(ids.surface))
	c.queue(newRequest(ids.layerShell, layerShellGetLayerSurface).
		putUint(ids.layerSurface).
		putUint(ids.surface).
		putUint(0). // compositor picks the output
		putUint(layerBottom).
		putString(namespace))

	ls := ids.layerSurface
	c.queue(newRequest(ls, layerSurfaceSetSize).putUint(layout.Width).putUint(layout.Height))
	c.queue(newRequest(ls, layerSurfaceSetAnchor).putUint(anchorBottom | anchorRight))
	c.queue(newRequest(ls, layerSurfaceSetExclusiveZone).putInt(-1))
	c.queue(newRequest(ls, layerSurfaceSetMargin).
		putInt(0).             // top
		putInt(layout.Margin). // right
		putInt(layout.Margin). // bottom
		putInt(0))             // left
	c.queue(newRequest(ls, layerSurfaceSetKeyboardInteractivity).putUint(keyboardInteractivityNone))

	// Accept pointer input over the whole surface
	region := c.newID()
	c.queue(newRequest(ids.compositor, compositorCreateRegion).putUint(region))
	c.queue(newRequest(region, regionAdd).putInt(0).putInt(0).putInt(layout.Width).putInt(layout.Height))
	c.queue(newRequest(ids.surface, surfaceSetInputRegion).putUint(region))
	c.queue(newRequest(region, regionDestroy))

	c.queue(newRequest(ids.surface, surfaceCommit))
	if err := c.flush(); err != nil {
		return err
	}

	select {
	case <-s.configured:
		return nil
	case <-s.readerDone:
		return fmt.Errorf("surface was never configured: %w", errDisconnected)
	case <-ctx.Done():
		return fmt.Errorf("waiting for surface configure: %w", ctx.Err())
	}
}

func (s *Session) createBuffer() error {
	buf, err := newShmBuffer(layout.Width, layout.Height)
	if err != nil {
		return fmt.Errorf("failed to allocate shared buffer: %w", err)
	}
	s.shm = buf

	c := s.conn
	pool := c.newID()

	s.mu.Lock()
	s.ids.buffer = c.newID()
	ids := s.ids
	s.mu.Unlock()

	req := newRequest(ids.shm, shmCreatePool).putUint(pool).putInt(int32(buf.size()))
	if err := c.sendFD(req, buf.fd); err != nil {
		return fmt.Errorf("failed to share buffer: %w", err)
	}
	c.queue(newRequest(pool, poolCreateBuffer).
		putUint(ids.buffer).
		putInt(0).
		putInt(int32(buf.width)).
		putInt(int32(buf.height)).
		putInt(int32(buf.stride)).
		putUint(formatARGB8888))
	// The buffer keeps the memory alive without the pool
	c.queue(newRequest(pool, poolDestroy))
	return nil
}

// roundtrip blocks until the compositor has processed every request sent so far
func (s *Session) roundtrip(ctx context.Context) error {
	done := make(chan struct{})
	id := s.conn.newID()

	s.mu.Lock()
	s.callbacks[id] = done
	s.mu.Unlock()

	s.conn.queue(newRequest(displayID, displaySync).putUint(id))
	if err := s.conn.flush(); err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-s.readerDone:
		return errDisconnected
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Flush writes queued requests to the compositor
func (s *Session) Flush() error {
	if s.conn == nil {
		return errDisconnected
	}
	return s.conn.flush()
}

// Present copies frame into the shared buffer and commits it
func (s *Session) Present(frame *image.RGBA) error {
	if s.shm == nil {
		return errDisconnected
	}
	b := frame.Bounds()
	if b.Dx() != s.shm.width || b.Dy() != s.shm.height {
		return fmt.Errorf("frame is %dx%d, buffer is %dx%d", b.Dx(), b.Dy(), s.shm.width, s.shm.height)
	}

	copyFrame(s.shm.data, frame)

	s.mu.Lock()
	ids := s.ids
	s.mu.Unlock()

	c := s.conn
	c.queue(newRequest(ids.surface, surfaceAttach).putUint(ids.buffer).putInt(0).putInt(0))
	c.queue(newRequest(ids.surface, surfaceDamage).putInt(0).putInt(0).putInt(int32(b.Dx())).putInt(int32(b.Dy())))
	c.queue(newRequest(ids.surface, surfaceCommit))
	return nil
}

// SetCursor selects the cursor shape for the pointer that entered with serial.
// Without the cursor-shape protocol the compositor default is kept.
func (s *Session) SetCursor(serial uint32, shape domain.CursorShape) {
	s.mu.Lock()
	device := s.ids.cursorDevice
	s.mu.Unlock()
	if device == 0 {
		return
	}

	value := shapeDefault
	if shape == domain.CursorPointer {
		value = shapePointer
	}
	s.conn.queue(newRequest(device, cursorDeviceSetShape).putUint(serial).putUint(value))
}

// Close destroys the surface and buffer and disconnects
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closing)
		if s.conn == nil {
			return
		}

		s.mu.Lock()
		ids := s.ids
		s.mu.Unlock()

		c := s.conn
		if ids.cursorDevice != 0 {
			c.queue(newRequest(ids.cursorDevice, cursorDeviceDestroy))
		}
		if ids.buffer != 0 {
			c.queue(newRequest(ids.buffer, bufferDestroy))
		}
		if ids.layerSurface != 0 {
			c.queue(newRequest(ids.layerSurface, layerSurfaceDestroy))
		}
		if ids.surface != 0 {
			c.queue(newRequest(ids.surface, surfaceDestroy))
		}

		err = multierr.Append(err, c.flush())
		err = multierr.Append(err, c.close())
		<-s.readerDone

		if s.shm != nil {
			err = multierr.Append(err, s.shm.close())
		}
		s.logger.Info("Wayland session closed")
	})
	return err
}
