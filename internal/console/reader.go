// Package console is the input/output boundary of the interactive menu.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
)

// ErrInterrupted is returned when the user presses Ctrl-C at a prompt.
var ErrInterrupted = errors.New("interrupted")

// Reader collects one line of input after showing a prompt. Lines come back
// without surrounding whitespace; end of input is io.EOF.
type Reader interface {
	ReadLine(prompt string) (string, error)
}

// Terminal reads lines with editing and history through readline.
type Terminal struct {
	rl *readline.Instance
}

// NewTerminal opens a readline session on stdin/stdout. historyFile may be empty.
func NewTerminal(historyFile string) (*Terminal, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "> ",
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, fmt.Errorf("readline: %w", err)
	}
	return &Terminal{rl: rl}, nil
}

// IsTerminal reports whether stdin is an interactive terminal.
func IsTerminal() bool {
	return readline.IsTerminal(int(os.Stdin.Fd()))
}

func (t *Terminal) ReadLine(prompt string) (string, error) {
	t.rl.SetPrompt(prompt)
	line, err := t.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrInterrupted
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadPassword reads a line without echoing it.
func (t *Terminal) ReadPassword(prompt string) (string, error) {
	b, err := t.rl.ReadPassword(prompt)
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrInterrupted
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Stdout returns a writer that keeps the prompt line intact.
func (t *Terminal) Stdout() io.Writer {
	return t.rl.Stdout()
}

func (t *Terminal) Close() error {
	return t.rl.Close()
}

// LineReader reads lines from any io.Reader, for piped input and tests.
// Prompts are echoed to out when it is not nil.
type LineReader struct {
	sc  *bufio.Scanner
	out io.Writer
}

func NewLineReader(r io.Reader, out io.Writer) *LineReader {
	return &LineReader{sc: bufio.NewScanner(r), out: out}
}

func (l *LineReader) ReadLine(prompt string) (string, error) {
	if l.out != nil {
		fmt.Fprint(l.out, prompt)
	}
	if !l.sc.Scan() {
		if err := l.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(l.sc.Text()), nil
}
