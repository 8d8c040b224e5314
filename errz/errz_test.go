package errz

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindStrings(t *testing.T) {
	require.Equal(t, "stopped", KindStopped.String())
	require.Equal(t, "out of bounds", KindOutOfBounds.String())
	require.Equal(t, "unmatched loop close", KindUnmatchedLoopClose.String())
	require.Equal(t, "unterminated loop", KindUnterminatedLoop.String())
	require.Equal(t, "io fault", KindIOFault.String())
	require.Equal(t, "error", Kind(99).String())
}

func TestStopped(t *testing.T) {
	err := Stopped()
	require.True(t, IsStopped(err))
	require.False(t, IsIOFault(err))
	require.Equal(t, "stopped", err.Error())
}

func TestIOFaultWrapping(t *testing.T) {
	err := IOFault(io.ErrUnexpectedEOF)
	require.True(t, IsIOFault(err))
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	require.Equal(t, "io fault: unexpected EOF", err.Error())
}

func TestErrorsIsByKind(t *testing.T) {
	err := fmt.Errorf("run failed: %w", UnterminatedLoop(2))
	require.True(t, errors.Is(err, UnterminatedLoop(0)))
	require.False(t, errors.Is(err, UnmatchedLoopClose()))

	k, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindUnterminatedLoop, k)
}

func TestKindOfForeignError(t *testing.T) {
	_, ok := KindOf(errors.New("boom"))
	require.False(t, ok)
}

func TestOutOfBoundsMessage(t *testing.T) {
	err := OutOfBounds("pointer %d outside [0, %d)", 7, 5)
	require.Equal(t, "out of bounds: pointer 7 outside [0, 5)", err.Error())
}
