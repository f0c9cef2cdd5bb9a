// Package fetch batches per-object describe calls with bounded concurrency
// and pacing between batches, tolerating individual failures.
package fetch

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/schemalens/core/internal/models"
	"github.com/schemalens/core/internal/transport"
)

// Describer is the single call the orchestrator needs from the transport.
type Describer interface {
	DescribeObject(ctx context.Context, name string) (*models.ObjectDescribe, error)
}

// Summary reports the outcome of one batch run for logging.
type Summary struct {
	Requested   int
	Succeeded   int
	Failed      int
	FailedNames []string
}

// Options tunes batching. Zero values fall back to defaults.
type Options struct {
	// BatchSize bounds concurrent in-flight describes; browsers and the remote
	// API both cap concurrent connections per host.
	BatchSize int
	// PacingDelay is inserted between batches to stay under burst rate limits.
	// Zero selects the 100ms default; a negative value disables pacing.
	PacingDelay time.Duration
}

type Orchestrator struct {
	describer Describer
	batchSize int
	pacing    time.Duration
	logger    *zap.Logger
}

func New(describer Describer, opts Options, logger *zap.Logger) *Orchestrator {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 15
	}
	if opts.PacingDelay < 0 {
		opts.PacingDelay = 0
	} else if opts.PacingDelay == 0 {
		opts.PacingDelay = 100 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		describer: describer,
		batchSize: opts.BatchSize,
		pacing:    opts.PacingDelay,
		logger:    logger,
	}
}

// BatchDescribe fetches describes for all names, batch by batch. Per-object
// failures are excluded from the result and counted in the summary; they never
// abort sibling fetches or later batches. The one exception is an
// authentication failure, which aborts the run and is returned, since no
// subsequent fetch can succeed without credentials.
func (o *Orchestrator) BatchDescribe(ctx context.Context, names []string) (map[string]*models.ObjectDescribe, *Summary, error) {
	results := make(map[string]*models.ObjectDescribe, len(names))
	summary := &Summary{Requested: len(names)}

	var mu sync.Mutex
	for start := 0; start < len(names); start += o.batchSize {
		end := start + o.batchSize
		if end > len(names) {
			end = len(names)
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, name := range names[start:end] {
			name := name
			g.Go(func() error {
				desc, err := o.describer.DescribeObject(gctx, name)
				if err != nil {
					if errors.Is(err, transport.ErrAuth) {
						return err
					}
					o.logger.Warn("describe failed", zap.String("object", name), zap.Error(err))
					mu.Lock()
					summary.FailedNames = append(summary.FailedNames, name)
					mu.Unlock()
					return nil
				}
				mu.Lock()
				results[name] = desc
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, summary, err
		}

		// Pace between batches; nothing to wait for after the last one.
		if end < len(names) && o.pacing > 0 {
			select {
			case <-time.After(o.pacing):
			case <-ctx.Done():
				return results, summary, ctx.Err()
			}
		}
	}

	sort.Strings(summary.FailedNames)
	summary.Succeeded = len(results)
	summary.Failed = len(summary.FailedNames)

	o.logger.Info("batch describe finished",
		zap.Int("requested", summary.Requested),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed))
	return results, summary, nil
}
