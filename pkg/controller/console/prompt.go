package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/interfaces"
)

// Prompter reads answers line by line from an input stream
type Prompter struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

var _ interfaces.Confirmer = &Prompter{}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Ask prints the label and returns the trimmed answer. io.EOF is returned once the
// input is exhausted.
func (p *Prompter) Ask(ctx context.Context, label string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	_, _ = fmt.Fprint(p.out, label)

	line, err := p.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimSpace(line), nil
		}
		if err == io.EOF {
			return "", io.EOF
		}
		return "", goerr.Wrap(err, "failed to read input")
	}
	return strings.TrimSpace(line), nil
}

// AskDefault is Ask with a value used when the answer is empty
func (p *Prompter) AskDefault(ctx context.Context, label, def string) (string, error) {
	answer, err := p.Ask(ctx, fmt.Sprintf("%s [%s]: ", label, def))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (p *Prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	answer, err := p.Ask(ctx, prompt+" [y/N]: ")
	if err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// AutoConfirm answers every confirmation with a fixed value. It backs --yes.
type AutoConfirm bool

func (a AutoConfirm) Confirm(ctx context.Context, prompt string) (bool, error) {
	return bool(a), nil
}
