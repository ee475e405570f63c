package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// envPassword supplies the password for the password flow without a prompt.
const envPassword = "DRACOON_GO_PASSWORD"

var errEmptyInput = errors.New("empty input")

// readPassword returns the password from the environment, or prompts for it
// when in is a terminal. Non-terminal input is read as a single line.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if pw := os.Getenv(envPassword); pw != "" {
		return pw, nil
	}

	if f, ok := in.(*os.File); ok && isTerminal(f) {
		fmt.Fprint(prompt, "Password: ")

		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)

		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}

		if len(pw) == 0 {
			return "", fmt.Errorf("reading password: %w", errEmptyInput)
		}

		return string(pw), nil
	}

	pw, err := readLine(in)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	return pw, nil
}

// readLine reads one line from r with the trailing newline removed.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errEmptyInput
	}

	return line, nil
}
