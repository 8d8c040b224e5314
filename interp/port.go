package interp

import (
	"bufio"
	"io"

	"github.com/brack-io/brack/errz"
)

// Port is the byte sink and buffered byte source used by the output and
// input instructions. Nothing else in the engine touches it.
type Port struct {
	out io.Writer
	in  *bufio.Reader
}

// NewPort returns a port writing to out and reading buffered bytes from in.
func NewPort(out io.Writer, in io.Reader) *Port {
	return &Port{out: out, in: bufio.NewReader(in)}
}

// Emit writes exactly one byte to the sink.
func (p *Port) Emit(b byte) error {
	if _, err := p.out.Write([]byte{b}); err != nil {
		return errz.IOFault(err)
	}
	return nil
}

// Consume reads exactly one byte from the source, blocking until a byte is
// available. An exhausted or failing source is an I/O fault.
func (p *Port) Consume() (byte, error) {
	b, err := p.in.ReadByte()
	if err != nil {
		return 0, errz.IOFault(err)
	}
	return b, nil
}
