package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/types"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/async"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/errutil"
)

// SubmitFunc performs one remote request on behalf of a view
type SubmitFunc[T any] func(ctx context.Context) (T, error)

// Submission is the request lifecycle shared by every view:
// idle -> submitting -> success | failed, and back to idle on the next edit.
// At most one request is in flight at a time.
type Submission[T any] struct {
	mu        sync.Mutex
	state     types.SubmitState
	result    T
	hasResult bool
	err       error
	last      SubmitFunc[T]
	detached  bool
}

// SubmissionSnapshot is a consistent copy of a submission's state
type SubmissionSnapshot[T any] struct {
	State     types.SubmitState
	Result    T
	HasResult bool
	Err       error
}

// Message returns the error text a view displays, or an empty string
func (s SubmissionSnapshot[T]) Message() string {
	return errutil.Message(s.Err)
}

// Submitting reports whether a request is in flight
func (s SubmissionSnapshot[T]) Submitting() bool {
	return s.State == types.SubmitSubmitting
}

func (s *Submission[T]) begin(fn SubmitFunc[T]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.detached {
		return ErrViewClosed
	}
	if s.state == types.SubmitSubmitting {
		return ErrSubmitInProgress
	}
	s.state = types.SubmitSubmitting
	s.last = fn
	return nil
}

func (s *Submission[T]) finish(ctx context.Context, result T, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// late response for a view that is gone
	if s.detached {
		return
	}

	if err != nil {
		var zero T
		s.state = types.SubmitFailed
		s.result = zero
		s.hasResult = false
		s.err = err
		_ = errutil.Handle(ctx, err, "submission failed")
		return
	}

	s.state = types.SubmitSuccess
	s.result = result
	s.hasResult = true
	s.err = nil
}

// Run executes fn synchronously. A second Run while one is in flight returns
// ErrSubmitInProgress without calling fn.
func (s *Submission[T]) Run(ctx context.Context, fn SubmitFunc[T]) (T, error) {
	var zero T
	if err := s.begin(fn); err != nil {
		return zero, err
	}

	result, err := fn(ctx)
	s.finish(ctx, result, err)
	if err != nil {
		return zero, err
	}
	return result, nil
}

// Dispatch executes fn on a goroutine. The returned channel is closed once the
// submission settled.
func (s *Submission[T]) Dispatch(ctx context.Context, fn SubmitFunc[T]) (<-chan struct{}, error) {
	if err := s.begin(fn); err != nil {
		return nil, err
	}

	done := async.Dispatch(ctx, func(ctx context.Context) error {
		settled := false
		defer func() {
			// a panicking fn still settles as failed before the panic propagates
			if !settled {
				var zero T
				s.finish(ctx, zero, goerr.New("submission aborted"))
			}
		}()

		result, err := fn(ctx)
		settled = true
		s.finish(ctx, result, err)
		return nil
	})
	return done, nil
}

// Retry re-runs the last submission after a failure
func (s *Submission[T]) Retry(ctx context.Context) (T, error) {
	s.mu.Lock()
	state, last := s.state, s.last
	s.mu.Unlock()

	if state != types.SubmitFailed || last == nil {
		var zero T
		return zero, ErrNothingToRetry
	}
	return s.Run(ctx, last)
}

// Reject records a local validation failure. No request is issued.
func (s *Submission[T]) Reject(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == types.SubmitSubmitting {
		return ErrSubmitInProgress
	}

	var zero T
	s.state = types.SubmitFailed
	s.result = zero
	s.hasResult = false
	s.err = err
	s.last = nil
	return err
}

// Edit returns a settled submission to idle. The last result and error stay visible.
func (s *Submission[T]) Edit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == types.SubmitSuccess || s.state == types.SubmitFailed {
		s.state = types.SubmitIdle
	}
}

// ClearError drops the displayed error and returns to idle
func (s *Submission[T]) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == types.SubmitSubmitting {
		return
	}
	s.err = nil
	s.state = types.SubmitIdle
}

// Reset forgets result, error and the last submission
func (s *Submission[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == types.SubmitSubmitting {
		return
	}
	var zero T
	s.state = types.SubmitIdle
	s.result = zero
	s.hasResult = false
	s.err = nil
	s.last = nil
}

// Update applies a reducer to the current result. It reports false when there is no result.
func (s *Submission[T]) Update(reduce func(T) T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasResult || s.detached {
		return false
	}
	s.result = reduce(s.result)
	return true
}

// Detach marks the owning view as unmounted. Responses arriving afterwards are dropped.
func (s *Submission[T]) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detached = true
}

// Snapshot returns a copy of the current state
func (s *Submission[T]) Snapshot() SubmissionSnapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.state
	if state == "" {
		state = types.SubmitIdle
	}
	return SubmissionSnapshot[T]{
		State:     state,
		Result:    s.result,
		HasResult: s.hasResult,
		Err:       s.err,
	}
}
