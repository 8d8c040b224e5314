package interp

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/brack-io/brack/errz"
	"github.com/brack-io/brack/tape"
	"github.com/stretchr/testify/require"
)

func testPort(input string) (*Port, *bytes.Buffer) {
	var out bytes.Buffer
	return NewPort(&out, strings.NewReader(input)), &out
}

func run(t *testing.T, source string, opts ...Option) *Interpreter {
	t.Helper()
	in := New(opts...)
	require.Nil(t, in.RunString(context.Background(), source))
	return in
}

func TestAddAndMove(t *testing.T) {
	port, _ := testPort("")
	in := run(t, "++>+++++[<+>-]", WithPort(port))

	cells, err := in.Evaluate()
	require.Nil(t, err)
	require.Equal(t, []byte{7}, cells)
	require.Equal(t, 1, in.Pos())
	require.Equal(t, []byte{7, 0}, in.Snapshot(false))
}

func TestEcho(t *testing.T) {
	port, out := testPort("A")
	run(t, ",.", WithPort(port))
	require.Equal(t, []byte{0x41}, out.Bytes())
}

func TestHelloWorld(t *testing.T) {
	port, out := testPort("")
	source := `++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.`
	run(t, source, WithPort(port))
	require.Equal(t, "Hello World!\n", out.String())
}

func TestCommentsAreSkipped(t *testing.T) {
	port, _ := testPort("")
	in := run(t, "add two: + + \n(and one more) +", WithPort(port))
	cells, err := in.Evaluate()
	require.Nil(t, err)
	require.Equal(t, []byte{3}, cells)
}

func TestNestedLoops(t *testing.T) {
	port, _ := testPort("")
	// 4 * 4 * 2 in the third cell
	in := run(t, "++++[>++++[>++<-]<-]", WithPort(port))
	cells, err := in.Evaluate()
	require.Nil(t, err)
	require.Equal(t, []byte{0, 0, 32}, cells)
}

func TestUnmatchedLoopCloseFailsImmediately(t *testing.T) {
	port, _ := testPort("")
	in := New(WithPort(port))
	err := in.RunString(context.Background(), "]")
	require.NotNil(t, err)
	k, ok := errz.KindOf(err)
	require.True(t, ok)
	require.Equal(t, errz.KindUnmatchedLoopClose, k)
}

func TestUnterminatedLoopFailsOnlyAtFinalization(t *testing.T) {
	port, _ := testPort("")
	in := New(WithPort(port))
	require.Nil(t, in.RunString(context.Background(), "["))

	_, err := in.Evaluate()
	require.NotNil(t, err)
	k, ok := errz.KindOf(err)
	require.True(t, ok)
	require.Equal(t, errz.KindUnterminatedLoop, k)
}

func TestLoopSpansFragments(t *testing.T) {
	port, _ := testPort("")
	in := New(WithPort(port))
	ctx := context.Background()
	require.Nil(t, in.RunString(ctx, "++[>+"))
	require.Nil(t, in.RunString(ctx, "+<-]"))

	cells, err := in.Evaluate()
	require.Nil(t, err)
	require.Equal(t, []byte{0, 4}, cells)
}

func TestStateReusedAcrossFragments(t *testing.T) {
	port, _ := testPort("")
	in := New(WithPort(port))
	ctx := context.Background()
	require.Nil(t, in.RunString(ctx, "+++"))
	require.Nil(t, in.RunString(ctx, ">++"))

	cells, err := in.Evaluate()
	require.Nil(t, err)
	require.Equal(t, []byte{3, 2}, cells)
	require.Equal(t, 1, in.Pos())
}

func TestFixedWrapPointer(t *testing.T) {
	port, _ := testPort("")
	in := run(t, "<+", WithPort(port), WithBounds(tape.FixedWrap(3)))
	require.Equal(t, []byte{0, 0, 1}, in.Snapshot(false))
	require.Equal(t, 2, in.Pos())
}

func TestFixedStrictPointer(t *testing.T) {
	port, _ := testPort("")
	in := New(WithPort(port), WithBounds(tape.FixedStrict(3)))
	err := in.RunString(context.Background(), ">>>")
	require.NotNil(t, err)
	k, _ := errz.KindOf(err)
	require.Equal(t, errz.KindOutOfBounds, k)
}

func TestInputExhausted(t *testing.T) {
	port, _ := testPort("")
	in := New(WithPort(port))
	err := in.RunString(context.Background(), ",")
	require.NotNil(t, err)
	require.True(t, errz.IsIOFault(err))
}

func TestStopBeforeFirstInstruction(t *testing.T) {
	port, out := testPort("")
	in := New(WithPort(port))
	in.Stopper().Stop()

	err := in.RunString(context.Background(), "+++.")
	require.True(t, errz.IsStopped(err))
	require.Equal(t, 0, out.Len())
	require.Equal(t, []byte{}, in.Snapshot(true))
}

func TestStopIsConsumedByTheRun(t *testing.T) {
	port, _ := testPort("")
	in := New(WithPort(port))
	in.Stopper().Stop()
	require.True(t, errz.IsStopped(in.RunString(context.Background(), "+")))

	// The next run proceeds normally.
	require.Nil(t, in.RunString(context.Background(), "+"))
	cells, err := in.Evaluate()
	require.Nil(t, err)
	require.Equal(t, []byte{1}, cells)
}

// stopWriter fires a stop handle as soon as the program emits a byte.
type stopWriter struct {
	out  bytes.Buffer
	stop Stopper
}

func (w *stopWriter) Write(p []byte) (int, error) {
	w.stop.Stop()
	return w.out.Write(p)
}

func TestStopMidLoopHaltsBeforeNextIteration(t *testing.T) {
	in := New()
	w := &stopWriter{stop: in.Stopper()}
	WithPort(NewPort(w, strings.NewReader("")))(in)

	// The first iteration emits 3 and decrements; the stop is then observed
	// before the second iteration's body runs.
	err := in.RunString(context.Background(), "+++[.-]")
	require.True(t, errz.IsStopped(err))
	require.Equal(t, []byte{3}, w.out.Bytes())
	require.Equal(t, []byte{2}, in.Snapshot(true))
}

func TestStopUnblocksInfiniteLoop(t *testing.T) {
	port, _ := testPort("")
	in := New(WithPort(port))
	stop := in.Stopper()

	done := make(chan error, 1)
	go func() {
		done <- in.RunString(context.Background(), "+[]")
	}()
	time.Sleep(10 * time.Millisecond)
	stop.Stop()

	select {
	case err := <-done:
		require.True(t, errz.IsStopped(err))
	case <-time.After(5 * time.Second):
		t.Fatal("interpreter did not honor the stop request")
	}
}

func TestContextCancellation(t *testing.T) {
	port, _ := testPort("")
	in := New(WithPort(port))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- in.RunString(ctx, "+[]")
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.True(t, errz.IsStopped(err))
	case <-time.After(5 * time.Second):
		t.Fatal("interpreter did not honor context cancellation")
	}
}

func TestStopperCopiesShareTheFlag(t *testing.T) {
	port, _ := testPort("")
	in := New(WithPort(port))
	a := in.Stopper()
	b := a
	b.Stop()
	require.True(t, errz.IsStopped(in.RunString(context.Background(), "+")))
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("sink closed")
}

func TestEmitFailure(t *testing.T) {
	in := New(WithPort(NewPort(failWriter{}, strings.NewReader(""))))
	err := in.RunString(context.Background(), "+.")
	require.True(t, errz.IsIOFault(err))
}

func TestCellWrapAround(t *testing.T) {
	port, _ := testPort("")
	in := run(t, "-", WithPort(port))
	require.Equal(t, []byte{255}, in.Snapshot(true))

	in2 := run(t, "-+", WithPort(port))
	require.Equal(t, []byte{}, in2.Snapshot(true))
}

func TestDefaultOptions(t *testing.T) {
	in := New()
	require.NotNil(t, in.tape)
	require.NotNil(t, in.port)
	require.Equal(t, 0, in.Pos())
}
