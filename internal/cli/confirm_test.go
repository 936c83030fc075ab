package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/Veraticus/spice-ledger/internal/controller"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmer_Confirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "y", input: "y\n", want: true},
		{name: "yes with whitespace", input: "  YES  \n", want: true},
		{name: "n", input: "n\n", want: false},
		{name: "empty line defaults to no", input: "\n", want: false},
		{name: "anything else", input: "maybe\n", want: false},
		{name: "eof without newline", input: "y", want: true},
		{name: "eof", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := NewConfirmer(strings.NewReader(tt.input), &out)

			got, err := c.Confirm(context.Background(), controller.DeletePrompt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), controller.DeletePrompt)
			assert.Contains(t, out.String(), "(y/N)")
		})
	}
}

func TestConfirmer_ContextCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	c := NewConfirmer(pr, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := c.Confirm(ctx, "Delete?")
	require.ErrorIs(t, err, ErrInputCancelled)
	assert.False(t, got)
}

func TestConfirmer_GatesControllerDelete(t *testing.T) {
	c := NewConfirmer(strings.NewReader("n\n"), io.Discard)
	ctrl := controller.New(nil, controller.WithConfirmer(c))

	// A declined prompt never reaches the (nil) store.
	confirmed, err := ctrl.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, confirmed)
}
