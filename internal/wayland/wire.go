// Package wayland is a minimal Wayland client: just enough of the wire
// protocol to map one layer-shell surface backed by a shared memory buffer
// and to receive pointer input on it.
package wayland

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const headerSize = 8

var (
	order = binary.NativeEndian

	errShortMessage = errors.New("wayland: message truncated")
)

// request builds one client request. Arguments are appended in wire order.
type request struct {
	buf []byte
}

func newRequest(object uint32, opcode uint16) *request {
	r := &request{buf: make([]byte, headerSize, 32)}
	order.PutUint32(r.buf[0:], object)
	order.PutUint32(r.buf[4:], uint32(opcode))
	return r
}

func (r *request) putUint(v uint32) *request {
	r.buf = order.AppendUint32(r.buf, v)
	return r
}

func (r *request) putInt(v int32) *request {
	return r.putUint(uint32(v))
}

// putFixed appends v as a signed 24.8 fixed-point number
func (r *request) putFixed(v float64) *request {
	return r.putInt(int32(math.Round(v * 256)))
}

// putString appends s with its NUL terminator, padded to 32 bits
func (r *request) putString(s string) *request {
	r.putUint(uint32(len(s) + 1))
	r.buf = append(r.buf, s...)
	r.buf = append(r.buf, make([]byte, padding(len(s)+1)+1)...)
	return r
}

// bytes patches the size into the header and returns the encoded message
func (r *request) bytes() []byte {
	word := order.Uint32(r.buf[4:])
	order.PutUint32(r.buf[4:], uint32(len(r.buf))<<16|word&0xffff)
	return r.buf
}

func padding(n int) int {
	return (4 - n%4) % 4
}

// event is one decoded server message. Readers consume arguments in order;
// the first decoding error sticks and later reads return zero values.
type event struct {
	sender uint32
	opcode uint16
	data   []byte
	off    int
	err    error
}

// readEvent reads one message from r
func readEvent(r io.Reader) (*event, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}

	word := order.Uint32(hdr[4:])
	size := int(word >> 16)
	if size < headerSize {
		return nil, fmt.Errorf("wayland: invalid message size %d", size)
	}

	ev := &event{
		sender: order.Uint32(hdr[0:]),
		opcode: uint16(word & 0xffff),
		data:   make([]byte, size-headerSize),
	}
	if _, err := io.ReadFull(r, ev.data); err != nil {
		return nil, fmt.Errorf("wayland: reading message body: %w", err)
	}
	return ev, nil
}

func (e *event) readUint() uint32 {
	if e.err != nil || e.off+4 > len(e.data) {
		e.err = errShortMessage
		return 0
	}
	v := order.Uint32(e.data[e.off:])
	e.off += 4
	return v
}

func (e *event) readInt() int32 {
	return int32(e.readUint())
}

func (e *event) readFixed() float64 {
	return float64(e.readInt()) / 256
}

func (e *event) readString() string {
	n := int(e.readUint())
	if e.err != nil || n == 0 {
		return ""
	}
	end := e.off + n + padding(n)
	if end > len(e.data) {
		e.err = errShortMessage
		return ""
	}
	s := string(e.data[e.off : e.off+n-1])
	e.off = end
	return s
}
