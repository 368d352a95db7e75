package mainloop

import "golang.org/x/sys/unix"

// Interest selects which readiness sets a descriptor is registered in.
type Interest uint8

const (
	Read Interest = 1 << iota
	Write
	Error
)

// Context is the per-cycle readiness snapshot. Sources add descriptors of
// interest before the wait call and inspect the same sets afterwards, once
// select has narrowed them down to the ready descriptors.
type Context struct {
	MaxFd    int
	ReadFds  unix.FdSet
	WriteFds unix.FdSet
	ErrorFds unix.FdSet
}

// Reset clears all sets and the max-fd watermark for a new cycle.
func (c *Context) Reset() {
	c.MaxFd = -1
	c.ReadFds.Zero()
	c.WriteFds.Zero()
	c.ErrorFds.Zero()
}

// AddFd registers fd in the sets selected by interest and bumps the
// watermark. Negative descriptors are ignored.
func (c *Context) AddFd(fd int, interest Interest) {
	if fd < 0 {
		return
	}
	if interest&Read != 0 {
		c.ReadFds.Set(fd)
	}
	if interest&Write != 0 {
		c.WriteFds.Set(fd)
	}
	if interest&Error != 0 {
		c.ErrorFds.Set(fd)
	}
	if fd > c.MaxFd {
		c.MaxFd = fd
	}
}

// ReadIsSet reports whether fd is in the read set.
func (c *Context) ReadIsSet(fd int) bool {
	return fd >= 0 && c.ReadFds.IsSet(fd)
}

// WriteIsSet reports whether fd is in the write set.
func (c *Context) WriteIsSet(fd int) bool {
	return fd >= 0 && c.WriteFds.IsSet(fd)
}

// ErrorIsSet reports whether fd is in the error set.
func (c *Context) ErrorIsSet(fd int) bool {
	return fd >= 0 && c.ErrorFds.IsSet(fd)
}
