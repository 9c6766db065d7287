package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// prompt prints label and reads one trimmed line.
func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.errOut, label+": ")
	line, err := a.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo.
func (a *App) promptPassword(label string) (string, error) {
	fmt.Fprint(a.errOut, label+": ")
	pw, err := a.readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(a.errOut)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}

// valueOrPrompt returns value, or asks for it when empty.
func (a *App) valueOrPrompt(value, label string, secret bool) (string, error) {
	if value != "" {
		return value, nil
	}
	if secret {
		return a.promptPassword(label)
	}
	return a.prompt(label)
}
