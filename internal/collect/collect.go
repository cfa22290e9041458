package collect

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"leadgen-engine/internal/checkpoint"
	"leadgen-engine/internal/config"
	"leadgen-engine/internal/domain"
	"leadgen-engine/internal/events"
	"leadgen-engine/internal/export"
	"leadgen-engine/internal/harvest"
	"leadgen-engine/internal/ledger"
	"leadgen-engine/internal/source"
)

// Options are the per-run knobs of a collection.
type Options struct {
	Niches          []string
	Cities          []string
	MaxLeads        int // 0 means the configured default
	HarvestEmails   bool
	OutputPath      string
	ClearCheckpoint bool
}

// Engine drives the collection pipeline: niche×city fetch loop, dedup
// ledger, bounded email harvesting, periodic checkpoints, final export.
// A single control goroutine owns the lead list and the ledger; harvest
// workers hand finished leads back over a channel.
type Engine struct {
	cfg   config.Config
	src   source.Source
	harv  *harvest.Harvester
	store *checkpoint.Store
	hub   *events.Hub // optional
}

func New(cfg config.Config, src source.Source, harv *harvest.Harvester, store *checkpoint.Store, hub *events.Hub) *Engine {
	return &Engine{cfg: cfg, src: src, harv: harv, store: store, hub: hub}
}

// Run executes one collection and returns the path of the exported CSV.
// Partial success still yields a file; only input validation, provider
// configuration and checkpoint write failures surface as errors.
func (e *Engine) Run(ctx context.Context, opts Options) (string, error) {
	if len(opts.Niches) == 0 || len(opts.Cities) == 0 {
		return "", errors.New("niches and cities must be non-empty")
	}
	if opts.OutputPath == "" {
		return "", errors.New("output path is required")
	}

	budget := opts.MaxLeads
	if budget <= 0 {
		budget = e.cfg.Collect.MaxLeads
	}

	if opts.ClearCheckpoint {
		if err := e.store.Clear(); err != nil {
			return "", err
		}
		log.Printf("[collect] checkpoint cleared")
	}

	snap := e.store.Load()
	leads := snap.Leads
	led := ledger.New()
	led.Restore(snap.SeenPlaceIDs, snap.SeenDomains)

	e.publish("run_started", map[string]any{"budget": budget, "resumed_leads": len(leads)})

	var runErr error
	if len(leads) >= budget {
		log.Printf("[collect] already have %d leads (budget %d), exporting", len(leads), budget)
	} else {
		leads, runErr = e.collect(ctx, opts, leads, led, budget)
	}

	// Final checkpoint is unconditional; its failure (like any checkpoint
	// write failure) is unrecoverable for resumability.
	if err := e.save(leads, led); err != nil {
		return "", err
	}
	if runErr != nil {
		return "", runErr
	}

	// With harvesting on, only contactable leads (real emails + website) are
	// worth exporting. With it off no lead could ever qualify, so export all.
	if err := export.WriteCSV(leads, opts.OutputPath, opts.HarvestEmails); err != nil {
		return "", err
	}

	e.publish("run_finished", map[string]any{"leads": len(leads)})
	log.Printf("[collect] done, %d leads total", len(leads))
	return opts.OutputPath, nil
}

// collect runs the nested niche×city loop until the budget is reached or the
// catalog is exhausted. Only checkpoint write failures abort it.
func (e *Engine) collect(ctx context.Context, opts Options, leads []domain.Lead, led *ledger.Ledger, budget int) ([]domain.Lead, error) {
	interval := e.cfg.Collect.CheckpointInterval
	if interval <= 0 {
		interval = 100
	}
	workers := e.cfg.Collect.EmailWorkers
	if workers <= 0 {
		workers = 14
	}

	for _, niche := range opts.Niches {
		if len(leads) >= budget {
			break
		}
		for _, city := range opts.Cities {
			if len(leads) >= budget {
				break
			}
			if err := ctx.Err(); err != nil {
				log.Printf("[collect] canceled: %v", err)
				return leads, nil
			}

			log.Printf("[collect] %s in %s (%s)", niche, city, e.src.Name())
			places, err := e.src.Fetch(ctx, niche, city)
			if err != nil {
				// One bad pair never aborts the run.
				log.Printf("[collect] fetch %s in %s: %v (skipping pair)", niche, city, err)
				continue
			}
			log.Printf("[collect] %s returned %d places for %s in %s", e.src.Name(), len(places), niche, city)

			var candidates []domain.Place
			for _, p := range places {
				if len(leads) >= budget {
					break
				}
				if !led.Admit(p) {
					continue
				}
				if opts.HarvestEmails && p.Website != "" {
					candidates = append(candidates, p)
					continue
				}
				leads = append(leads, domain.LeadFromPlace(p, niche, city))
				e.publish("lead_added", map[string]any{"count": len(leads)})
				if len(leads)%interval == 0 {
					if err := e.save(leads, led); err != nil {
						return leads, err
					}
				}
			}

			if len(candidates) > 0 {
				leads, err = e.harvestBatch(ctx, niche, city, candidates, leads, led, budget, interval, workers)
				if err != nil {
					return leads, err
				}
			}
		}
	}
	return leads, nil
}

// harvestBatch fans one (niche, city) batch of candidates out to a bounded
// worker pool. Workers build their own Lead and send it back; only this
// goroutine appends. Leads land in completion order. Once the budget is hit,
// in-flight results are drained but no longer appended.
func (e *Engine) harvestBatch(ctx context.Context, niche, city string, candidates []domain.Place, leads []domain.Lead, led *ledger.Ledger, budget, interval, workers int) ([]domain.Lead, error) {
	results := make(chan domain.Lead, len(candidates))

	var g errgroup.Group
	g.SetLimit(workers)
	for _, p := range candidates {
		p := p
		g.Go(func() error {
			lead := domain.LeadFromPlace(p, niche, city)
			res := e.harv.Harvest(ctx, p.Website)
			lead.SetEmails(res.Emails, res.SourcePages)
			results <- lead
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(results)
	}()

	var saveErr error
	for lead := range results {
		if saveErr != nil || len(leads) >= budget {
			continue // drain without appending
		}
		leads = append(leads, lead)
		e.publish("lead_added", map[string]any{"count": len(leads)})
		if len(leads)%interval == 0 {
			saveErr = e.save(leads, led)
		}
	}
	return leads, saveErr
}

func (e *Engine) save(leads []domain.Lead, led *ledger.Ledger) error {
	err := e.store.Save(checkpoint.Snapshot{
		Leads:        leads,
		SeenPlaceIDs: led.PlaceIDs(),
		SeenDomains:  led.Domains(),
	})
	if err != nil {
		return fmt.Errorf("checkpoint save: %w", err)
	}
	e.publish("checkpoint_saved", map[string]any{"leads": len(leads)})
	return nil
}

func (e *Engine) publish(typ string, data any) {
	if e.hub != nil {
		e.hub.Publish(events.New(typ, data))
	}
}
