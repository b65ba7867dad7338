// Package terminal wraps the few raw terminal operations the CLI needs:
// reading a line or a hidden secret from stdin and erasing a prompt afterwards.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNotTerminal is returned by ReadPassword when stdin is not a terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// IsInteractive reports whether stdin is attached to a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ReadLine prints prompt and reads one line from r, without the newline.
func ReadLine(r *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadPassword prints prompt and reads a line from the terminal with echo off.
func ReadPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNotTerminal
	}
	fmt.Print(prompt)
	b, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// LinesUsed returns how many terminal rows textLength characters occupy at
// the given width, never less than one.
func LinesUsed(textLength, width int) int {
	if width <= 0 {
		width = 80
	}
	n := int(math.Ceil(float64(textLength) / float64(width)))
	if n < 1 {
		n = 1
	}
	return n
}

// ClearPreviousLines erases the rows used by a prompt and its answer, plus
// the empty row left after Enter.
func ClearPreviousLines(textLength int) {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	rows := LinesUsed(textLength, width) + 1
	for i := 0; i < rows; i++ {
		fmt.Print("\r\x1b[2K")
		if i < rows-1 {
			fmt.Print("\x1b[1A")
		}
	}
}
