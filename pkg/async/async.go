package async

import (
	"context"
	"sync"
)

// Future represents the result of an asynchronous computation.
// It completes exactly once, either with a value or with an error.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

func newFuture[U any]() *Future[U] {
	return &Future[U]{done: make(chan struct{})}
}

// complete settles the future. Only the first call has an effect.
func (f *Future[U]) complete(res U, err error) {
	f.once.Do(func() {
		f.result = res
		f.err = err
		close(f.done)
	})
}

// Await waits for the asynchronous function to complete and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext waits for completion or for ctx to be done, whichever happens first.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// Async executes a function asynchronously and returns a Future.
// The function accepts a context.Context and a parameter of any type T, and returns (U, error).
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := newFuture[U]()

	go func() {
		// Early exit prevents goroutine leak when context is pre-canceled
		if err := ctx.Err(); err != nil {
			var zero U
			f.complete(zero, err)
			return
		}

		res, err := fn(ctx, param)
		f.complete(res, err)
	}()

	return f
}

// Resolved returns a future that is already completed with v.
func Resolved[U any](v U) *Future[U] {
	f := newFuture[U]()
	f.complete(v, nil)
	return f
}

// Failed returns a future that is already completed with err.
func Failed[U any](err error) *Future[U] {
	f := newFuture[U]()
	var zero U
	f.complete(zero, err)
	return f
}

// Then chains fn after f. fn runs only when f succeeds; a failure of f
// is passed through to the returned future unchanged.
func Then[T any, U any](f *Future[T], fn func(T) *Future[U]) *Future[U] {
	next := newFuture[U]()

	go func() {
		res, err := f.Await()
		if err != nil {
			var zero U
			next.complete(zero, err)
			return
		}

		inner := fn(res)
		if inner == nil {
			var zero U
			next.complete(zero, ErrNilFuture)
			return
		}
		next.complete(inner.Await())
	}()

	return next
}

// Map transforms the value of a successful future. Failures skip fn.
func Map[T any, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	next := newFuture[U]()

	go func() {
		res, err := f.Await()
		if err != nil {
			var zero U
			next.complete(zero, err)
			return
		}
		next.complete(fn(res))
	}()

	return next
}

// Recover gives fn a chance to replace a failure with a value or another error.
// Successful results pass through untouched.
func Recover[U any](f *Future[U], fn func(error) (U, error)) *Future[U] {
	next := newFuture[U]()

	go func() {
		res, err := f.Await()
		if err != nil {
			next.complete(fn(err))
			return
		}
		next.complete(res, nil)
	}()

	return next
}

// WaitAll waits for all futures to complete and returns a slice of their results and an error
// if any of the futures returned an error.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
