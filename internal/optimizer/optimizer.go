// Package optimizer coordinates a full optimization run: candidate box
// sets from the selector, placement per candidate on a worker pool under a
// wall-clock budget, carrier pricing, and the pick of the cheapest
// feasible outcome. Results are cached by request fingerprint.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/piwi3910/ShipPack/internal/cache"
	"github.com/piwi3910/ShipPack/internal/catalog"
	"github.com/piwi3910/ShipPack/internal/config"
	"github.com/piwi3910/ShipPack/internal/engine"
	"github.com/piwi3910/ShipPack/internal/model"
	"github.com/piwi3910/ShipPack/internal/pricing"
)

// Optimizer runs end-to-end optimization requests against a fixed catalog.
// Safe for concurrent use.
type Optimizer struct {
	catalog  catalog.Catalog
	settings config.Settings

	engine *engine.Engine
	pricer *pricing.Optimizer
	cache  *cache.Cache // nil when caching is disabled
	group  singleflight.Group
	logger *slog.Logger
}

// New builds an optimizer from the catalog and settings. A nil logger
// falls back to the default logger.
func New(cat catalog.Catalog, settings config.Settings, logger *slog.Logger) (*Optimizer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	strategy, err := engine.NewStrategy(settings.Strategy)
	if err != nil {
		return nil, err
	}

	o := &Optimizer{
		catalog:  cat,
		settings: settings,
		engine:   engine.New(strategy, logger),
		pricer:   pricing.New(cat.Carriers, logger),
		logger:   logger,
	}
	if settings.CacheEnabled {
		o.cache = cache.New(settings.CacheCapacity, settings.CacheTTL, settings.NegativeTTL, logger)
	}
	return o, nil
}

// OptimizeOrder expands order lines through the catalog and optimizes the
// resulting items.
func (o *Optimizer) OptimizeOrder(ctx context.Context, lines map[string]int, zone string) (model.BestResult, error) {
	items, err := o.catalog.ItemsForOrder(lines)
	if err != nil {
		return model.BestResult{}, err
	}
	return o.Optimize(ctx, items, zone)
}

// Optimize finds the cheapest feasible way to ship the items to the zone.
// It returns ErrInvalidItem for malformed input, ErrInfeasible when no box
// set can hold the items or no carrier can ship them, and ErrTimedOut when
// the budget expired before any candidate finished. A result with Partial
// set is the best among the candidates that finished in time.
func (o *Optimizer) Optimize(ctx context.Context, items []model.Item, zone string) (model.BestResult, error) {
	if len(items) == 0 {
		return model.BestResult{}, fmt.Errorf("%w: no items", model.ErrInvalidItem)
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return model.BestResult{}, err
		}
	}
	if zone == "" {
		zone = o.settings.DefaultZone
	}

	key := cache.Fingerprint(items, o.catalog.Boxes, zone, o.settings.Strategy)

	if o.cache != nil {
		if value, hit, err := o.cache.Get(key); hit {
			if err != nil {
				return model.BestResult{}, err
			}
			o.logger.Debug("optimize served from cache", "key", key[:8])
			return value.(model.BestResult), nil
		}
	}

	// Identical concurrent requests share one run even when the cache is
	// disabled or the outcome turns out uncacheable.
	value, err, _ := o.group.Do(key, func() (any, error) {
		result, err := o.run(ctx, items, zone)
		if o.cache != nil && cacheable(result, err) {
			o.cache.Put(key, result, err)
		}
		return result, err
	})
	if err != nil {
		return model.BestResult{}, err
	}
	return value.(model.BestResult), nil
}

// Quotes prices already packed layouts with every carrier in catalog
// order, for side-by-side rate comparison.
func (o *Optimizer) Quotes(layouts []model.Layout, zone string) ([]model.Quote, []model.NoRate) {
	if zone == "" {
		zone = o.settings.DefaultZone
	}
	return o.pricer.QuoteAll(layouts, zone)
}

// Catalog returns the optimizer's reference data.
func (o *Optimizer) Catalog() catalog.Catalog {
	return o.catalog
}

// cacheable excludes outcomes shaped by the deadline rather than the
// inputs: a partial result or a timeout could resolve differently on a
// less loaded retry.
func cacheable(result model.BestResult, err error) bool {
	if err == nil {
		return !result.Partial
	}
	return errors.Is(err, model.ErrInfeasible) || errors.Is(err, model.ErrInvalidItem)
}

// evaluation is the outcome of packing and pricing one candidate.
type evaluation struct {
	index    int
	layouts  []model.Layout
	quote    model.Quote
	feasible bool
}

func (o *Optimizer) run(ctx context.Context, items []model.Item, zone string) (model.BestResult, error) {
	started := time.Now()

	candidates := engine.Select(items, o.catalog.Boxes)
	if len(candidates) == 0 {
		return model.BestResult{}, fmt.Errorf("%w: no box set can hold the items", model.ErrInfeasible)
	}

	ctx, cancel := context.WithTimeout(ctx, o.settings.Budget)
	defer cancel()

	var evals []evaluation
	if o.settings.ParallelEnabled && o.settings.Workers > 1 {
		evals = o.evaluateParallel(ctx, candidates, zone)
	} else {
		evals = o.evaluateSequential(ctx, candidates, zone)
	}

	if len(evals) == 0 {
		return model.BestResult{}, fmt.Errorf("%w: budget %s expired before any candidate finished",
			model.ErrTimedOut, o.settings.Budget)
	}

	best, found := pickBest(evals)
	partial := len(evals) < len(candidates)

	if !found {
		if partial {
			return model.BestResult{}, fmt.Errorf("%w: no finished candidate was feasible before the budget expired",
				model.ErrTimedOut)
		}
		return model.BestResult{}, fmt.Errorf("%w: items fit no candidate box set, or no carrier serves zone %q",
			model.ErrInfeasible, zone)
	}

	result := model.BestResult{
		Layouts:        best.layouts,
		Quote:          best.quote,
		CandidateIndex: best.index,
		Evaluated:      len(evals),
		Partial:        partial,
	}
	o.logger.Info("optimization finished",
		"zone", zone,
		"items", len(items),
		"candidates", len(candidates),
		"evaluated", len(evals),
		"partial", partial,
		"carrier", best.quote.Carrier,
		"total", best.quote.Total.String(),
		"elapsed", time.Since(started),
	)
	return result, nil
}

// evaluateParallel fans candidates out to a fixed worker pool. The
// deadline stops dispatch; workers finish the candidate in hand, so every
// reported evaluation is complete.
func (o *Optimizer) evaluateParallel(ctx context.Context, candidates []engine.Candidate, zone string) []evaluation {
	jobs := make(chan engine.Candidate)
	results := make(chan evaluation)

	var wg sync.WaitGroup
	for w := 0; w < o.settings.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cand := range jobs {
				results <- o.evaluate(cand, zone)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, cand := range candidates {
			select {
			case jobs <- cand:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var evals []evaluation
	for eval := range results {
		evals = append(evals, eval)
	}
	return evals
}

// evaluateSequential walks candidates in selector order, checking the
// deadline between candidates. Same results as the pool, lower overhead.
func (o *Optimizer) evaluateSequential(ctx context.Context, candidates []engine.Candidate, zone string) []evaluation {
	var evals []evaluation
	for _, cand := range candidates {
		select {
		case <-ctx.Done():
			return evals
		default:
		}
		evals = append(evals, o.evaluate(cand, zone))
	}
	return evals
}

// evaluate packs and prices one candidate. Infeasibility is a value here,
// never an error: other candidates may still win.
func (o *Optimizer) evaluate(cand engine.Candidate, zone string) evaluation {
	eval := evaluation{index: cand.Index}

	layouts := make([]model.Layout, 0, len(cand.Boxes))
	for i, box := range cand.Boxes {
		layout, nofit := o.place(box, cand.Assignments[i])
		if nofit != nil {
			o.logger.Debug("candidate rejected",
				"candidate", cand.Index, "box", box.ID, "item", nofit.ItemID, "detail", nofit.Detail)
			return eval
		}
		layouts = append(layouts, layout)
	}

	quote, norates, ok := o.pricer.Quote(layouts, zone)
	if !ok {
		for _, nr := range norates {
			o.logger.Debug("carrier excluded", "candidate", cand.Index, "carrier", nr.Carrier, "detail", nr.Detail)
		}
		return eval
	}

	eval.layouts = layouts
	eval.quote = quote
	eval.feasible = true
	return eval
}

// layoutOutcome is the cached value of one packing attempt. A NoFit is a
// deterministic property of box, items and strategy, so it caches as a
// positive entry.
type layoutOutcome struct {
	layout model.Layout
	nofit  *model.NoFit
}

func (o *Optimizer) place(box model.Box, items []model.Item) (model.Layout, *model.NoFit) {
	if o.cache == nil {
		return o.engine.Place(box, items)
	}

	key := cache.LayoutFingerprint(box, items, o.settings.Strategy)
	value, _, err := o.cache.GetOrCompute(key, func() (any, error) {
		layout, nofit := o.engine.Place(box, items)
		return layoutOutcome{layout: layout, nofit: nofit}, nil
	})
	if err != nil {
		// The compute function never fails; fall back to a direct pack.
		return o.engine.Place(box, items)
	}
	outcome := value.(layoutOutcome)
	return outcome.layout, outcome.nofit
}

// pickBest selects the winner: lowest total cost, then fewer boxes, then
// lower candidate index. The ordering is strict, so the winner does not
// depend on evaluation order.
func pickBest(evals []evaluation) (evaluation, bool) {
	var best evaluation
	found := false
	for _, eval := range evals {
		if !eval.feasible {
			continue
		}
		if !found || better(eval, best) {
			best = eval
			found = true
		}
	}
	return best, found
}

func better(a, b evaluation) bool {
	if cmp := a.quote.Total.Cmp(b.quote.Total); cmp != 0 {
		return cmp < 0
	}
	if len(a.layouts) != len(b.layouts) {
		return len(a.layouts) < len(b.layouts)
	}
	return a.index < b.index
}
