// Package prompt reads secrets from a terminal or from piped input.
package prompt

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/term"
)

// ReadPassword reads one line from stdin without echo when stdin is a
// terminal.
func ReadPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// Fallback for non-terminal (e.g. tests, pipes)
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
