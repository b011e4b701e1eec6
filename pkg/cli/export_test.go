package cli

import (
	"context"
	"io"
)

// RunWithIO runs the CLI against the given terminal streams
func RunWithIO(ctx context.Context, args []string, version string, in io.Reader, out, errOut io.Writer) error {
	return run(ctx, args, version, stdio{in: in, out: out, err: errOut})
}
