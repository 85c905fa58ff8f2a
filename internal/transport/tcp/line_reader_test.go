package tcp

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineReader(t *testing.T) {
	input := "plain\r\n  padded  \n\x1b[31mred\x1b[0m\n" + strings.Repeat("x", 20) + "\nlast"
	lr := newLineReader(strings.NewReader(input), 8)

	for _, want := range []string{"plain", "padded", "red", strings.Repeat("x", 8), "last"} {
		got, err := lr.ReadLine()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := lr.ReadLine()
	require.ErrorIs(t, err, io.EOF)
}

func TestLineReaderDropsBrokenUTF8Tail(t *testing.T) {
	// "é" is two bytes; a limit of 2 cuts it in half.
	lr := newLineReader(strings.NewReader("aé\n"), 2)
	got, err := lr.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "a", got)
}

func TestIsTransient(t *testing.T) {
	require.True(t, isTransient(os.ErrDeadlineExceeded))
	require.False(t, isTransient(io.EOF))
	require.False(t, isTransient(errors.New("boom")))
}

func TestLineReaderStripsTerminalControl(t *testing.T) {
	input := "\x1b[2J\x1b[Hpwned\x1b[1;1H\n" +
		"\x1b]0;title\x07after osc\n" +
		"up\x1b[3Aand\x1b[Kclear\n"
	lr := newLineReader(strings.NewReader(input), 1024)

	for _, want := range []string{"pwned", "after osc", "upandclear"} {
		got, err := lr.ReadLine()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

// stepReader returns one scripted result per Read call.
type stepReader struct {
	steps []step
}

type step struct {
	data string
	err  error
}

func (s *stepReader) Read(p []byte) (int, error) {
	if len(s.steps) == 0 {
		return 0, io.EOF
	}
	next := s.steps[0]
	s.steps = s.steps[1:]
	return copy(p, next.data), next.err
}

func TestLineReaderResumesAfterTimeout(t *testing.T) {
	lr := newLineReader(&stepReader{steps: []step{
		{data: "hel", err: os.ErrDeadlineExceeded},
		{data: "lo\n"},
	}}, 64)

	_, err := lr.ReadLine()
	require.True(t, isTransient(err))

	got, err := lr.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "hello", got)

	_, err = lr.ReadLine()
	require.ErrorIs(t, err, io.EOF)
}
