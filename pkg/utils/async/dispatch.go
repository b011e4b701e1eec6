package async

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/errutil"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/logging"
)

// Dispatch executes a handler function asynchronously in a new goroutine.
// The handler gets a background context that keeps the caller's logger, so it is not
// cancelled with the caller. Errors and recovered panics go through errutil.Handle.
// The returned channel is closed once the handler has returned.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) <-chan struct{} {
	bgCtx := logging.With(context.Background(), logging.From(ctx))

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := invoke(bgCtx, handler); err != nil {
			_ = errutil.Handle(bgCtx, err, "async handler failed")
		}
	}()
	return done
}

func invoke(ctx context.Context, handler func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = goerr.New("panic in async handler", goerr.V("panic", r))
		}
	}()
	return handler(ctx)
}
