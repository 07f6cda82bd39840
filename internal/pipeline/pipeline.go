package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/AnyUserName/imgbudget/internal/encoder"
	"github.com/AnyUserName/imgbudget/internal/profile"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"
)

// Config holds all parameters for a batch run.
type Config struct {
	Profile  profile.Profile
	Workers  int               // 0 = NumCPU
	Registry *encoder.Registry // nil = built-in encoders
	Logger   hclog.Logger      // nil = discard
}

// Pipeline converts batches of images under one profile.
type Pipeline struct {
	cfg Config
	log hclog.Logger
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Registry == nil {
		cfg.Registry = encoder.NewRegistry()
	}
	log := cfg.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Pipeline{
		cfg: cfg,
		log: log.Named("pipeline"),
	}
}

// Run converts items and returns one result per item in input order.
//
// The profile is validated and its encoder resolved before any item is
// touched; a problem there returns a *profile.ConfigError and no report.
// Item failures never fail the run. Once ctx is done, items not yet
// started are recorded as failures.
func (p *Pipeline) Run(ctx context.Context, items []Item) (*Report, error) {
	start := time.Now()
	prof := p.cfg.Profile

	enc, err := p.resolve()
	if err != nil {
		return nil, err
	}

	p.log.Debug("starting batch", "items", len(items), "profile", prof.Name,
		"codec", prof.Codec, "workers", p.cfg.Workers, "target", prof.TargetSize)

	results := make([]Result, len(items))
	var g errgroup.Group
	g.SetLimit(p.cfg.Workers)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{
					Source:    item.Name,
					InputSize: int64(len(item.Data)),
					Err:       fmt.Errorf("batch cancelled: %w", err),
				}
				return nil
			}

			p.log.Debug("processing", "item", item.Name, "index", i)
			results[i] = processItem(ctx, item, prof, enc)

			r := results[i]
			if r.Err != nil {
				p.log.Warn("item failed", "item", item.Name, "error", r.Err)
				return nil
			}
			p.log.Debug("converted", "item", item.Name, "output", r.Output,
				"size", fmt.Sprintf("%dx%d", r.Width, r.Height),
				"quality", r.Quality, "bytes", r.Size, "met_budget", r.MetBudget,
				"attempts", len(r.Attempts))
			return nil
		})
	}
	_ = g.Wait() // workers record errors in results

	rep := &Report{
		Profile: prof,
		Results: results,
		Workers: p.cfg.Workers,
		Elapsed: time.Since(start),
	}
	p.log.Info("batch complete", "items", len(items), "converted", rep.Succeeded(),
		"failed", rep.Failed(), "over_budget", rep.OverBudget(),
		"elapsed", rep.Elapsed.Round(time.Millisecond))
	return rep, nil
}

// Check reports the configuration error Run would fail with, if any.
func (p *Pipeline) Check() error {
	_, err := p.resolve()
	return err
}

func (p *Pipeline) resolve() (encoder.Encoder, error) {
	if err := p.cfg.Profile.Validate(); err != nil {
		return nil, err
	}
	enc, err := p.cfg.Registry.Get(p.cfg.Profile.Codec)
	if err != nil {
		return nil, &profile.ConfigError{Problems: []string{err.Error()}}
	}
	return enc, nil
}
