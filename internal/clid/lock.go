package clid

import (
	"fmt"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"
)

// acquireLock takes the non-blocking exclusive advisory lock guaranteeing
// at most one daemon instance per logical interface name. The lock file
// descriptor is retained; Deinit never releases it, only Close does.
func (d *Daemon) acquireLock(path string) error {
	if d.lock != nil && d.lock.Path() != path {
		_ = d.lock.Unlock()
		d.lock = nil
	}
	if d.lock == nil {
		d.lock = flock.New(path)
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		// Held by another instance. Report it the same way any OS-level
		// lock failure would surface.
		return fmt.Errorf("acquire lock %s: %w", path, unix.EWOULDBLOCK)
	}
	return nil
}
