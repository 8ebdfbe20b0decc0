//go:build linux
// +build linux

package wayland

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

// conn is the client end of the compositor socket.
// Requests are queued under mu and written by flush; only the reader
// goroutine reads.
type conn struct {
	uc *net.UnixConn
	r  *bufio.Reader

	mu     sync.Mutex
	out    []byte
	nextID uint32
}

// socketPath resolves the compositor socket the way libwayland does
func socketPath() (string, error) {
	display := os.Getenv("WAYLAND_DISPLAY")
	if display == "" {
		display = "wayland-0"
	}
	if filepath.IsAbs(display) {
		return display, nil
	}

	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		return "", errors.New("XDG_RUNTIME_DIR is not set")
	}
	return filepath.Join(dir, display), nil
}

func dial() (*conn, error) {
	path, err := socketPath()
	if err != nil {
		return nil, err
	}

	uc, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", path, err)
	}

	return &conn{
		uc:     uc,
		r:      bufio.NewReader(uc),
		nextID: displayID + 1,
	}, nil
}

// newID allocates a client-side object id
func (c *conn) newID() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	return id
}

// queue appends a request to the outgoing buffer
func (c *conn) queue(r *request) {
	c.mu.Lock()
	c.out = append(c.out, r.bytes()...)
	c.mu.Unlock()
}

// flush writes every queued request
func (c *conn) flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeLocked(nil)
}

// sendFD flushes the queue together with r, passing fd alongside it
func (c *conn) sendFD(r *request, fd int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.out = append(c.out, r.bytes()...)
	return c.writeLocked(unix.UnixRights(fd))
}

func (c *conn) writeLocked(oob []byte) error {
	if len(c.out) == 0 {
		return nil
	}
	n, _, err := c.uc.WriteMsgUnix(c.out, oob, nil)
	if err != nil {
		return fmt.Errorf("wayland: write failed: %w", err)
	}
	// A stream socket may accept less than asked; fds went with the first chunk
	for n < len(c.out) {
		m, err := c.uc.Write(c.out[n:])
		if err != nil {
			return fmt.Errorf("wayland: write failed: %w", err)
		}
		n += m
	}
	c.out = c.out[:0]
	return nil
}

func (c *conn) read() (*event, error) {
	return readEvent(c.r)
}

func (c *conn) close() error {
	return c.uc.Close()
}
