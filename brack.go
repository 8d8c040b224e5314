// Package brack is a high-level entry point for running brack programs.
// It wires an interpreter, a tape bounds policy and an I/O port together
// behind a functional options interface. Hosts that need finer control, such
// as a REPL keeping state across inputs, use the interp package directly.
package brack

import (
	"context"
	"io"
	"os"

	"github.com/brack-io/brack/interp"
	"github.com/brack-io/brack/tape"
)

// Option configures an evaluation.
type Option func(*config)

type config struct {
	bounds tape.Bounds
	input  io.Reader
	output io.Writer
}

// WithBounds sets the tape bounds policy. The default is tape.Unbounded().
func WithBounds(b tape.Bounds) Option {
	return func(c *config) {
		c.bounds = b
	}
}

// WithInput sets the byte source for the input instruction. The default is
// os.Stdin.
func WithInput(r io.Reader) Option {
	return func(c *config) {
		c.input = r
	}
}

// WithOutput sets the byte sink for the output instruction. The default is
// os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.output = w
	}
}

func collectOptions(opts []Option) *config {
	c := &config{
		bounds: tape.Unbounded(),
		input:  os.Stdin,
		output: os.Stdout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Eval runs a complete program and returns the final tape contents, trimmed
// of trailing zero cells. The program must be well formed: an unclosed loop
// is an error here, unlike when feeding fragments to an interpreter
// directly.
func Eval(ctx context.Context, source string, opts ...Option) ([]byte, error) {
	c := collectOptions(opts)
	in := interp.New(
		interp.WithBounds(c.bounds),
		interp.WithPort(interp.NewPort(c.output, c.input)),
	)
	if err := in.RunString(ctx, source); err != nil {
		return nil, err
	}
	return in.Evaluate()
}
