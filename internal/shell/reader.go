package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"tsh/internal/config"
)

// ErrInterrupt is returned by ReadLine when the user typed ctrl-c at the
// prompt.
var ErrInterrupt = errors.New("interrupt")

// LineReader supplies command lines to the shell loop.
type LineReader interface {
	// ReadLine returns the next line, io.EOF at end of input, or
	// ErrInterrupt.
	ReadLine() (string, error)
	// Stdout is where output should go so it does not garble the prompt.
	Stdout() io.Writer
	Close() error
}

// NewReader picks line editing when prompting on a terminal and a plain
// line reader otherwise (pipes, scripts, -p).
func NewReader(cfg *config.Config, emitPrompt bool, past []string) (LineReader, error) {
	if emitPrompt && term.IsTerminal(int(os.Stdin.Fd())) {
		return newEditReader(renderPrompt(cfg.Prompt, cfg.PromptColor), past)
	}
	prompt := ""
	if emitPrompt {
		prompt = cfg.Prompt
	}
	return NewPlainReader(os.Stdin, os.Stdout, prompt), nil
}

type editReader struct {
	rl *readline.Instance
}

func newEditReader(prompt string, past []string) (*editReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, fmt.Errorf("error initializing readline: %w", err)
	}
	for _, line := range past {
		_ = rl.SaveHistory(line)
	}
	return &editReader{rl: rl}, nil
}

func (r *editReader) ReadLine() (string, error) {
	line, err := r.rl.Readline()
	if err == readline.ErrInterrupt {
		return "", ErrInterrupt
	}
	return line, err
}

func (r *editReader) Stdout() io.Writer {
	return r.rl.Stdout()
}

func (r *editReader) Close() error {
	return r.rl.Close()
}

type plainReader struct {
	in     *bufio.Reader
	out    io.Writer
	prompt string
}

// NewPlainReader reads lines from in, writing prompt to out before each
// one when prompt is not empty.
func NewPlainReader(in io.Reader, out io.Writer, prompt string) LineReader {
	return &plainReader{in: bufio.NewReader(in), out: out, prompt: prompt}
}

func (r *plainReader) ReadLine() (string, error) {
	if r.prompt != "" {
		fmt.Fprint(r.out, r.prompt)
	}
	line, err := r.in.ReadString('\n')
	if err == io.EOF && line != "" {
		return line, nil
	}
	return line, err
}

func (r *plainReader) Stdout() io.Writer {
	return r.out
}

func (r *plainReader) Close() error {
	return nil
}
