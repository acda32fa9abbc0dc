package dataset

import "context"

// Result is the outcome of one asynchronous load.
type Result struct {
	Gen       uint64
	Timeframe Timeframe
	Samples   []Sample
	Err       error
}

// Fetcher runs at most one load at a time off the UI thread. Starting a new
// load cancels the previous one; results from superseded loads are dropped
// when delivered. Fetch, Deliver and Cancel must be called from one goroutine.
type Fetcher struct {
	src     Source
	results chan Result
	gen     uint64
	cancel  context.CancelFunc
	pending bool
	stale   int
}

// NewFetcher wraps src.
func NewFetcher(src Source) *Fetcher {
	return &Fetcher{src: src, results: make(chan Result, 8)}
}

// Fetch starts loading tf and returns the generation that will be delivered.
func (f *Fetcher) Fetch(ctx context.Context, tf Timeframe) uint64 {
	f.Cancel()
	f.gen++
	gen := f.gen
	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.pending = true

	go func() {
		samples, err := f.src.Load(ctx, tf)
		r := Result{Gen: gen, Timeframe: tf, Samples: samples, Err: err}
		select {
		case f.results <- r:
		case <-ctx.Done():
		}
	}()
	return gen
}

// Cancel aborts the in-flight load, if any.
func (f *Fetcher) Cancel() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.pending = false
}

// Pending reports whether a load has been started and not yet delivered.
func (f *Fetcher) Pending() bool { return f.pending }

// Stale returns how many superseded results have been discarded so far.
func (f *Fetcher) Stale() int { return f.stale }

// Deliver hands completed results for the current generation to fn without
// blocking. It returns true when fn was called.
func (f *Fetcher) Deliver(fn func(Result)) bool {
	delivered := false
	for {
		select {
		case r := <-f.results:
			if r.Gen != f.gen || !f.pending {
				f.stale++
				continue
			}
			f.pending = false
			if f.cancel != nil {
				f.cancel()
				f.cancel = nil
			}
			fn(r)
			delivered = true
		default:
			return delivered
		}
	}
}

// Wait blocks until the current load completes and delivers it. Used by the
// headless report and tests, which have no frame loop.
func (f *Fetcher) Wait(ctx context.Context, fn func(Result)) error {
	for f.pending {
		select {
		case r := <-f.results:
			if r.Gen != f.gen {
				f.stale++
				continue
			}
			f.pending = false
			if f.cancel != nil {
				f.cancel()
				f.cancel = nil
			}
			fn(r)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
