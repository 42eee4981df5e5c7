//go:build !windows && !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package cli

import (
	"bufio"
	"os"
)

func readPINNoEcho(_ *os.File, _ *bufio.Reader) (string, error) {
	return "", errNotTerminal
}
