//go:build linux
// +build linux

package wayland

import (
	"fmt"

	"go.uber.org/multierr"
	"golang.org/x/sys/unix"
)

// shmBuffer is an anonymous memory file mapped into this process and
// shared with the compositor.
type shmBuffer struct {
	fd     int
	data   []byte
	width  int
	height int
	stride int
}

func newShmBuffer(width, height int) (*shmBuffer, error) {
	stride := width * 4
	size := stride * height

	fd, err := unix.MemfdCreate("musicwidget-shm", unix.MFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("memfd_create failed: %w", err)
	}

	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("ftruncate failed: %w", err)
	}

	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("mmap failed: %w", err)
	}

	return &shmBuffer{
		fd:     fd,
		data:   data,
		width:  width,
		height: height,
		stride: stride,
	}, nil
}

func (b *shmBuffer) size() int {
	return len(b.data)
}

func (b *shmBuffer) close() error {
	return multierr.Append(unix.Munmap(b.data), unix.Close(b.fd))
}
