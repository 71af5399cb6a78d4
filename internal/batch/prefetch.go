// internal/batch/prefetch.go - Cache warming across a worker pool
package batch

import (
	"context"
	"errors"
	"sync"

	pb "gopkg.in/cheggaaa/pb.v1"

	"tileblend/internal/config"
	"tileblend/internal/logging"
	"tileblend/internal/pipeline"
	"tileblend/internal/view"
)

// Prefetcher warms the tile cache for a sequence of frames. Each worker
// independently loads one view at a time; workers racing to load the same
// address serialize on the cache's exclusion and the loser observes a hit.
type Prefetcher struct {
	pipe     *pipeline.Pipeline
	workers  int
	failFast bool
	progress bool
}

// NewPrefetcher creates a prefetcher over a pipeline
func NewPrefetcher(pipe *pipeline.Pipeline, cfg *config.BatchConfig) *Prefetcher {
	return &Prefetcher{
		pipe:     pipe,
		workers:  cfg.Workers,
		failFast: cfg.FailFast,
		progress: true,
	}
}

// DisableProgress suppresses the progress bar (for tests and scripting)
func (p *Prefetcher) DisableProgress() {
	p.progress = false
}

// Prefetch loads every view's tiles. With fail_fast enabled the first
// failure cancels the remaining work; otherwise failures are collected and
// joined. Partial progress always stays in the cache.
func (p *Prefetcher) Prefetch(ctx context.Context, views []view.View) error {
	if len(views) == 0 {
		return nil
	}

	var bar *pb.ProgressBar
	if p.progress {
		bar = pb.StartNew(len(views))
		defer bar.Finish()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	viewCh := make(chan view.View)
	errCh := make(chan error, len(views))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case v, ok := <-viewCh:
					if !ok {
						return
					}
					if err := p.pipe.LoadView(v); err != nil {
						logging.L().Errorf("prefetch of view (%.4f, %.4f)@%.2f failed: %v",
							v.Center.X, v.Center.Y, v.Zoom, err)
						errCh <- err
						if p.failFast {
							cancel()
						}
					}
					if bar != nil {
						bar.Increment()
					}
				}
			}
		}()
	}

	go func() {
		defer close(viewCh)
		for _, v := range views {
			select {
			case <-ctx.Done():
				return
			case viewCh <- v:
			}
		}
	}()

	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
