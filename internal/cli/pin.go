package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/terraincognita07/lunacycle/internal/config"
	"github.com/terraincognita07/lunacycle/internal/db"
	"github.com/terraincognita07/lunacycle/internal/services"
)

var (
	errNotTerminal = errors.New("stdin is not a terminal")
	errPINMismatch = errors.New("pins do not match")
)

// RunResetPINCommand replaces the current PIN with a random temporary one.
func RunResetPINCommand(cfg *config.Config, out io.Writer) error {
	lock, closeDB, err := openLockService(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	pin, err := lock.ResetPIN()
	if err != nil {
		return fmt.Errorf("reset pin: %w", err)
	}

	fmt.Fprintln(out, "PIN reset successful")
	fmt.Fprintf(out, "Temporary PIN: %s\n", pin)
	fmt.Fprintln(out, "Change it in the settings after unlocking.")
	return nil
}

// RunSetPINCommand asks for a new PIN twice and stores it.
func RunSetPINCommand(cfg *config.Config, in *os.File, out io.Writer) error {
	reader := bufio.NewReader(in)
	pin, err := promptPIN(in, reader, out, "New PIN: ")
	if err != nil {
		return err
	}
	confirmation, err := promptPIN(in, reader, out, "Repeat PIN: ")
	if err != nil {
		return err
	}
	if pin != confirmation {
		return errPINMismatch
	}
	if err := services.ValidatePIN(pin); err != nil {
		return err
	}

	lock, closeDB, err := openLockService(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := lock.SetPIN(pin); err != nil {
		return fmt.Errorf("set pin: %w", err)
	}
	fmt.Fprintln(out, "PIN updated")
	return nil
}

// RunClearPINCommand removes the lock entirely.
func RunClearPINCommand(cfg *config.Config, out io.Writer) error {
	lock, closeDB, err := openLockService(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := lock.ClearPIN(); err != nil {
		return fmt.Errorf("clear pin: %w", err)
	}
	fmt.Fprintln(out, "PIN lock removed")
	return nil
}

func openLockService(cfg *config.Config) (*services.LockService, func(), error) {
	database, err := db.OpenSQLite(cfg.DBPath, zap.NewNop())
	if err != nil {
		return nil, nil, fmt.Errorf("database init failed: %w", err)
	}
	closeDB := func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	repos := db.NewRepositories(database)
	lock, err := services.NewLockService(repos.Settings, []byte(cfg.SecretKey), cfg.Tokens.SessionTTL, nil)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return lock, closeDB, nil
}

func promptPIN(in *os.File, reader *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	pin, err := readPINNoEcho(in, reader)
	if errors.Is(err, errNotTerminal) {
		pin, err = readLine(reader)
	}
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read pin: %w", err)
	}
	return strings.TrimSpace(pin), nil
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
