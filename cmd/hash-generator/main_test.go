package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRun(t *testing.T) {
	t.Run("arguments", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run([]string{"letmein@45", "тест123"}, strings.NewReader(""), &out))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 2)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(lines[0]), []byte("letmein@45")))
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(lines[1]), []byte("тест123")))
	})

	t.Run("stdin skips blank lines", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run(nil, strings.NewReader("first\r\n\nsecond\n"), &out))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 2)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(lines[1]), []byte("second")))
	})

	t.Run("nothing to hash", func(t *testing.T) {
		assert.Error(t, run(nil, strings.NewReader(""), &bytes.Buffer{}))
	})

	t.Run("too long for bcrypt", func(t *testing.T) {
		assert.Error(t, run([]string{strings.Repeat("x", 73)}, nil, &bytes.Buffer{}))
	})
}
