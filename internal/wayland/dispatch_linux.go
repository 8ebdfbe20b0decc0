//go:build linux
// +build linux

package wayland

import (
	"fmt"

	"github.com/kantiankant/musicwidget/internal/domain"
	"go.uber.org/zap"
)

// readLoop decodes server messages until the connection fails or closes.
// Closing the event channel is how the loop learns about it.
func (s *Session) readLoop() {
	defer close(s.readerDone)
	defer close(s.events)

	for {
		ev, err := s.conn.read()
		if err != nil {
			select {
			case <-s.closing:
			default:
				s.logger.Error("Wayland read failed", zap.Error(err))
			}
			return
		}

		if err := s.handle(ev); err != nil {
			s.logger.Error("Wayland dispatch failed", zap.Error(err))
			return
		}
	}
}

func (s *Session) handle(ev *event) error {
	s.mu.Lock()
	ids := s.ids
	done, isCallback := s.callbacks[ev.sender]
	if isCallback && ev.opcode == callbackEventDone {
		delete(s.callbacks, ev.sender)
	}
	s.mu.Unlock()

	switch {
	case ev.sender == displayID:
		return s.handleDisplay(ev)

	case isCallback:
		if ev.opcode == callbackEventDone {
			close(done)
		}

	case ev.sender == ids.registry:
		s.handleRegistry(ev)

	case ev.sender == ids.seat && ids.seat != 0:
		s.handleSeat(ev)

	case ev.sender == ids.pointer && ids.pointer != 0:
		s.handlePointer(ev)

	case ev.sender == ids.layerSurface && ids.layerSurface != 0:
		s.handleLayerSurface(ev)
	}

	return ev.err
}

func (s *Session) handleDisplay(ev *event) error {
	switch ev.opcode {
	case displayEventError:
		object := ev.readUint()
		code := ev.readUint()
		msg := ev.readString()
		return fmt.Errorf("protocol error on object %d (code %d): %s", object, code, msg)
	case displayEventDeleteID:
		// ids are never reused
	}
	return ev.err
}

func (s *Session) handleRegistry(ev *event) {
	switch ev.opcode {
	case registryEventGlobal:
		name := ev.readUint()
		iface := ev.readString()
		version := ev.readUint()
		if _, wanted := wantVersions[iface]; !wanted || ev.err != nil {
			return
		}
		s.mu.Lock()
		s.globals[iface] = global{name: name, version: version}
		s.mu.Unlock()

	case registryEventGlobalRemove:
		// The seat or output may go away; the widget keeps its surface
	}
}

func (s *Session) handleSeat(ev *event) {
	if ev.opcode != seatEventCapabilities {
		return
	}
	caps := ev.readUint()
	if caps&seatCapabilityPointer == 0 {
		s.logger.Warn("Seat has no pointer, the widget will not react to clicks")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids.pointer != 0 {
		return
	}

	s.ids.pointer = s.conn.newID()
	s.conn.queue(newRequest(s.ids.seat, seatGetPointer).putUint(s.ids.pointer))

	if s.ids.cursorManager != 0 {
		s.ids.cursorDevice = s.conn.newID()
		s.conn.queue(newRequest(s.ids.cursorManager, cursorManagerGetPointer).
			putUint(s.ids.cursorDevice).
			putUint(s.ids.pointer))
	}
}

func (s *Session) handlePointer(ev *event) {
	switch ev.opcode {
	case pointerEventEnter:
		serial := ev.readUint()
		_ = ev.readUint() // surface
		x, y := ev.readFixed(), ev.readFixed()
		s.emit(domain.EnterEvent{Serial: serial, X: x, Y: y})

	case pointerEventLeave:
		// hover is recomputed on the next enter

	case pointerEventMotion:
		t := ev.readUint()
		x, y := ev.readFixed(), ev.readFixed()
		s.emit(domain.MotionEvent{Time: t, X: x, Y: y})

	case pointerEventButton:
		serial := ev.readUint()
		t := ev.readUint()
		button := ev.readUint()
		state := ev.readUint()
		s.emit(domain.ButtonEvent{
			Serial:  serial,
			Time:    t,
			Button:  button,
			Pressed: state == buttonStatePressed,
		})
	}
}

func (s *Session) handleLayerSurface(ev *event) {
	switch ev.opcode {
	case layerSurfaceEventConfigure:
		serial := ev.readUint()
		w, h := ev.readUint(), ev.readUint()
		if ev.err != nil {
			return
		}

		s.conn.queue(newRequest(ev.sender, layerSurfaceAckConfigure).putUint(serial))
		s.configOnce.Do(func() { close(s.configured) })
		s.emit(domain.ConfigureEvent{Width: w, Height: h})

	case layerSurfaceEventClosed:
		s.emit(domain.ClosedEvent{})
	}
}

// emit forwards ev to the event loop, giving up once the session is closing
func (s *Session) emit(ev domain.Event) {
	select {
	case s.events <- ev:
	case <-s.closing:
	}
}
