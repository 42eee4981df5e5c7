//go:build windows

package cli

import (
	"bufio"
	"os"

	"golang.org/x/sys/windows"
)

func readPINNoEcho(stdin *os.File, reader *bufio.Reader) (string, error) {
	if stdin == nil {
		return "", errNotTerminal
	}

	handle := windows.Handle(stdin.Fd())
	var original uint32
	if err := windows.GetConsoleMode(handle, &original); err != nil {
		return "", errNotTerminal
	}

	if err := windows.SetConsoleMode(handle, original&^windows.ENABLE_ECHO_INPUT); err != nil {
		return "", err
	}
	defer func() {
		_ = windows.SetConsoleMode(handle, original)
	}()

	return readLine(reader)
}
