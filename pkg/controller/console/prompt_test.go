package console_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/smarthealth-ai/healthdesk/pkg/controller/console"
)

func TestPrompterConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"maybe\n", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			p := console.NewPrompter(strings.NewReader(tt.input), &out)
			ok, err := p.Confirm(context.Background(), "Delete?")
			gt.NoError(t, err).Required()
			gt.Value(t, ok).Equal(tt.want)
			gt.Value(t, out.String()).Equal("Delete? [y/N]: ")
		})
	}
}

func TestPrompterAsk(t *testing.T) {
	ctx := context.Background()
	p := console.NewPrompter(strings.NewReader("  first  \n\nlast"), io.Discard)

	answer, err := p.Ask(ctx, "> ")
	gt.NoError(t, err).Required()
	gt.Value(t, answer).Equal("first")

	answer, err = p.AskDefault(ctx, "Top K", "3")
	gt.NoError(t, err).Required()
	gt.Value(t, answer).Equal("3")

	answer, err = p.Ask(ctx, "> ")
	gt.NoError(t, err).Required()
	gt.Value(t, answer).Equal("last")

	_, err = p.Ask(ctx, "> ")
	gt.Error(t, err).Is(io.EOF)
}

func TestAutoConfirm(t *testing.T) {
	ok, err := console.AutoConfirm(true).Confirm(context.Background(), "x")
	gt.NoError(t, err).Required()
	gt.Bool(t, ok).True()
}
