// Package async provides small, generic helpers for running computations asynchronously
// and composing their results.
//
// The package is centred around the generic type Future that represents the eventual result of
// an asynchronous operation. A Future completes exactly once, either with a value or with an
// error. It can be obtained by calling Async, which starts the supplied function in its own
// goroutine, or by Resolved and Failed for values that are already known.
//
// Futures are composed with continuation combinators instead of nested callbacks:
//
//   - Then runs the next asynchronous step once the previous one succeeded.
//   - Map transforms a successful value.
//   - Recover turns a failure into a value (or into a different error).
//
// A failure skips every Then and Map stage until a Recover handles it, so a chain reads like
// straight-line code:
//
//	exists := client.IndexExists(ctx)
//	created := async.Then(exists, func(ok bool) *async.Future[bool] {
//	    if ok {
//	        return async.Resolved(true)
//	    }
//	    return client.CreateIndex(ctx, nil)
//	})
//	ack, err := created.Await()
//
// Callers that need the value block with Await or AwaitContext. WaitAll collects the
// results of several futures.
//
// # Error Handling
//
// The package does not wrap errors produced by user callbacks. Then returns ErrNilFuture
// when a continuation yields no future.
package async
