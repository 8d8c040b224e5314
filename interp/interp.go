// Package interp executes brack programs against a cell tape.
//
// The engine consumes a byte stream, decodes each byte into an instruction
// and dispatches it against mutable state. Loop bodies are not compiled
// ahead of time: instructions between a loop's open and its matching close
// are buffered as they stream in, and the buffered body is replayed through
// the same dispatcher while the current cell is non-zero. Nested loops are
// preserved literally in the buffer and re-enter the dispatcher on replay.
package interp

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/brack-io/brack/errz"
	"github.com/brack-io/brack/op"
	"github.com/brack-io/brack/tape"
)

// Interpreter holds the state for one execution context: the tape, the loop
// nesting counter, the pending loop-body buffer and the halt flag. State
// persists across Run calls, so one instance can execute a sequence of
// program fragments the way a REPL does. An Interpreter must not be shared
// between concurrent runs; the halt flag is the only field that may be
// touched from another goroutine, via the Stopper handle.
type Interpreter struct {
	tape    *tape.Tape
	port    *Port
	pending []op.Instruction
	nesting int
	halt    int32
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithBounds sets the tape bounds policy. The default is tape.Unbounded().
func WithBounds(b tape.Bounds) Option {
	return func(in *Interpreter) {
		in.tape = tape.New(b)
	}
}

// WithPort sets the I/O port. The default port uses os.Stdout and os.Stdin.
func WithPort(p *Port) Option {
	return func(in *Interpreter) {
		in.port = p
	}
}

// New returns an interpreter with a zeroed tape and the pointer at 0.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{}
	for _, opt := range opts {
		opt(in)
	}
	if in.tape == nil {
		in.tape = tape.New(tape.Unbounded())
	}
	if in.port == nil {
		in.port = NewPort(os.Stdout, os.Stdin)
	}
	return in
}

// Stopper is the write side of an interpreter's halt flag. Copies share the
// flag, and any copy may be used from any goroutine. A single Stop halts the
// current run at its next poll point.
type Stopper struct {
	flag *int32
}

// Stop requests that the current run halt.
func (s Stopper) Stop() {
	atomic.StoreInt32(s.flag, 1)
}

// Stopper returns a handle that halts this interpreter's runs.
func (in *Interpreter) Stopper() Stopper {
	return Stopper{flag: &in.halt}
}

// stopped is the non-blocking cancellation poll. A cancelled context feeds
// the same flag as the Stopper handle.
func (in *Interpreter) stopped(ctx context.Context) bool {
	if atomic.LoadInt32(&in.halt) == 1 {
		return true
	}
	select {
	case <-ctx.Done():
		atomic.StoreInt32(&in.halt, 1)
		return true
	default:
		return false
	}
}

// Run consumes the whole source stream, dispatching instructions in order.
// Bytes that are not instruction characters are skipped. The halt flag is
// polled before each instruction from the stream; a set flag unwinds with a
// stopped error and the stop request is consumed when Run returns.
//
// Run returning nil does not imply the program was well formed: a loop still
// open at end of stream is only reported by Evaluate, so that a later
// fragment can close it.
func (in *Interpreter) Run(ctx context.Context, src io.Reader) error {
	defer atomic.StoreInt32(&in.halt, 0)
	reader := bufio.NewReader(src)
	for {
		b, err := reader.ReadByte()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errz.IOFault(err)
		}
		ins, ok := op.Decode(b)
		if !ok {
			continue
		}
		if in.stopped(ctx) {
			return errz.Stopped()
		}
		if err := in.dispatch(ctx, ins); err != nil {
			return err
		}
	}
}

// RunString runs a program fragment held in a string.
func (in *Interpreter) RunString(ctx context.Context, source string) error {
	return in.Run(ctx, strings.NewReader(source))
}

// dispatch executes one instruction against the interpreter state. While a
// loop is being buffered (nesting > 0) most instructions are appended to the
// pending buffer instead of executing; the matching close takes the buffer
// and replays it through this same function, so nested loops re-enter here
// recursively.
func (in *Interpreter) dispatch(ctx context.Context, ins op.Instruction) error {
	switch {
	case ins == op.LoopOpen:
		in.nesting++
		// The open that starts buffering is itself never replayed.
		if in.nesting > 1 {
			in.pending = append(in.pending, ins)
		}
	case ins == op.LoopClose:
		switch in.nesting {
		case 0:
			return errz.UnmatchedLoopClose()
		case 1:
			in.nesting = 0
			body := in.pending
			in.pending = nil
			for in.tape.Current() != 0 {
				if in.stopped(ctx) {
					return errz.Stopped()
				}
				for _, b := range body {
					if err := in.dispatch(ctx, b); err != nil {
						return err
					}
				}
			}
		default:
			in.nesting--
			in.pending = append(in.pending, ins)
		}
	case in.nesting > 0:
		in.pending = append(in.pending, ins)
	default:
		return in.execute(ins)
	}
	return nil
}

// execute performs a non-loop instruction immediately.
func (in *Interpreter) execute(ins op.Instruction) error {
	switch ins {
	case op.MoveRight:
		return in.tape.Advance()
	case op.MoveLeft:
		return in.tape.Retreat()
	case op.Increment:
		in.tape.Increment()
	case op.Decrement:
		in.tape.Decrement()
	case op.Output:
		return in.port.Emit(in.tape.Current())
	case op.Input:
		b, err := in.port.Consume()
		if err != nil {
			return err
		}
		in.tape.Set(b)
	}
	return nil
}

// Evaluate is the finalization step: it fails if any loop is still open and
// otherwise returns the tape contents trimmed of trailing zero cells. It
// does not modify interpreter state.
func (in *Interpreter) Evaluate() ([]byte, error) {
	if in.nesting > 0 {
		return nil, errz.UnterminatedLoop(in.nesting)
	}
	return in.tape.Snapshot(true), nil
}

// Snapshot returns a read-only copy of the tape contents, optionally trimmed
// of trailing zero cells.
func (in *Interpreter) Snapshot(trim bool) []byte {
	return in.tape.Snapshot(trim)
}

// Pos returns the current pointer position.
func (in *Interpreter) Pos() int {
	return in.tape.Pos()
}
