//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import (
	"bufio"
	"os"

	"golang.org/x/sys/unix"
)

// readPINNoEcho reads one line with terminal echo switched off. It reports
// errNotTerminal before consuming input when stdin is not a terminal.
func readPINNoEcho(stdin *os.File, reader *bufio.Reader) (string, error) {
	if stdin == nil {
		return "", errNotTerminal
	}

	fd := int(stdin.Fd())
	termios, err := unix.IoctlGetTermios(fd, termiosReadRequest)
	if err != nil {
		return "", errNotTerminal
	}
	original := *termios
	silent := original
	silent.Lflag &^= unix.ECHO

	if err := unix.IoctlSetTermios(fd, termiosWriteRequest, &silent); err != nil {
		return "", err
	}
	defer func() {
		_ = unix.IoctlSetTermios(fd, termiosWriteRequest, &original)
	}()

	return readLine(reader)
}
