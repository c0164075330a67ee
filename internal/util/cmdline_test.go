// SPDX-License-Identifier: Apache-2.0

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain word", "install", "install"},
		{"path", "/root/.venv/bin/python", "/root/.venv/bin/python"},
		{"embedded space", "my file.txt", "'my file.txt'"},
		{"empty", "", "''"},
		{"single quote", "it's", `'it'\''s'`},
		{"shell metacharacters", "a&&b", "'a&&b'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteArg(tt.in))
		})
	}
}

func TestRenderCommand(t *testing.T) {
	got := RenderCommand("python3", "-m", "pip", "install", "-r", "requirements.txt")
	assert.Equal(t, "python3 -m pip install -r requirements.txt", got)

	got = RenderCommand("python3", "umd2.py", "--serial", "/dev/tty usb")
	assert.Equal(t, "python3 umd2.py --serial '/dev/tty usb'", got)
}
