package main

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saeidalz13/battleship-solo/models/match"
)

func newTestConsole(input string) (*console, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &console{in: bufio.NewScanner(strings.NewReader(input)), out: out}, out
}

func TestChooseName(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		c, out := newTestConsole("")
		name, err := c.chooseName("Saeid")
		require.NoError(t, err)
		assert.Equal(t, "Saeid", name)
		assert.Empty(t, out.String())
	})

	t.Run("opponent name asked again", func(t *testing.T) {
		c, out := newTestConsole(match.CpuName + "\nSaeid\n")
		name, err := c.chooseName(match.CpuName)
		require.NoError(t, err)
		assert.Equal(t, "Saeid", name)
		assert.Equal(t, 2, strings.Count(out.String(), "is the name of your opponent"))
	})

	t.Run("input ends", func(t *testing.T) {
		c, _ := newTestConsole("")
		_, err := c.chooseName(match.CpuName)
		require.ErrorIs(t, err, io.EOF)
	})
}
