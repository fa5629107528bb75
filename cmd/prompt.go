package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is swapped in tests that need to bypass the terminal.
var readPassword = term.ReadPassword

// readSecret prompts on w and reads one line from r without echo when r is
// a terminal.
func readSecret(r io.Reader, w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}

	if file, ok := r.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		secret, err := readPassword(int(file.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return "", fmt.Errorf("read API key: %w", err)
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := readLine(r)
	if err != nil {
		return "", fmt.Errorf("read API key: %w", err)
	}
	return line, nil
}

// confirm asks a yes/no question. Only y or yes accepts.
func confirm(r io.Reader, w io.Writer, question string) (bool, error) {
	if _, err := fmt.Fprintf(w, "%s [y/N]: ", question); err != nil {
		return false, err
	}

	answer, err := readLine(r)
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
