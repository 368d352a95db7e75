package clid

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

const (
	// DefaultInterfaceName is used when the caller supplies no logical
	// interface name.
	DefaultInterfaceName = "net0"

	// DefaultRuntimeDir is where the socket and lock files live unless the
	// caller overrides it.
	DefaultRuntimeDir = "/run"

	filePrefix   = "cmdchan-"
	socketSuffix = ".sock"
	lockSuffix   = ".lock"
)

// maxSocketPathLength is the longest path a sockaddr_un address can carry.
const maxSocketPathLength = len(unix.RawSockaddrUnix{}.Path) - 1

// Paths holds the resolved filesystem endpoints for one logical interface
// name. Socket and Lock are always distinct.
type Paths struct {
	Socket string
	Lock   string
}

// ResolvePaths derives the socket and lock file paths for the given runtime
// directory and interface name. Empty values select the defaults. A derived
// path longer than the platform sockaddr_un limit yields ErrPathTooLong.
func ResolvePaths(runtimeDir, ifname string) (Paths, error) {
	name := strings.TrimSpace(ifname)
	if name == "" {
		name = DefaultInterfaceName
	}
	dir := strings.TrimSpace(runtimeDir)
	if dir == "" {
		dir = DefaultRuntimeDir
	}

	paths := Paths{
		Socket: filepath.Join(dir, filePrefix+name+socketSuffix),
		Lock:   filepath.Join(dir, filePrefix+name+lockSuffix),
	}
	for _, path := range []string{paths.Socket, paths.Lock} {
		if len(path) > maxSocketPathLength {
			return Paths{}, fmt.Errorf("%w: %s (%d > %d bytes)", ErrPathTooLong, path, len(path), maxSocketPathLength)
		}
	}
	return paths, nil
}
