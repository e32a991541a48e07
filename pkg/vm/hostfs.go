package vm

import "golang.org/x/sys/unix"

// HostFS serves the file syscalls on real host descriptors, so guest fds
// are kernel fds. Guests own what they open; nothing is auto-closed.
type HostFS struct{}

func (HostFS) Open(path string, flags int) int {
	fd, err := unix.Open(path, flags, 0)
	if err != nil {
		return -1
	}
	return fd
}

func (HostFS) Read(fd int, p []byte) int {
	n, err := unix.Read(fd, p)
	if err != nil {
		return -1
	}
	return n
}

func (HostFS) Close(fd int) int {
	if unix.Close(fd) != nil {
		return -1
	}
	return 0
}
