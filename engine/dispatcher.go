package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/use-agent/menumaker/models"
)

// Dispatcher is the single fetch entry point. It validates the URL, applies
// the robots policy, then races the engines allowed by the request's mode
// with staged escalation: the first engine starts immediately, heavier ones
// only after their delay if nothing has succeeded yet.
type Dispatcher struct {
	engines          []Engine
	escalationDelays []time.Duration
	memory           *DomainMemory
	robots           *RobotsChecker
}

// NewDispatcher creates a Dispatcher. engines[i] starts after
// escalationDelays[i]; missing delays default to 0. robots may be nil.
func NewDispatcher(engines []Engine, escalationDelays []time.Duration, memory *DomainMemory, robots *RobotsChecker) *Dispatcher {
	delays := make([]time.Duration, len(engines))
	copy(delays, escalationDelays)
	return &Dispatcher{
		engines:          engines,
		escalationDelays: delays,
		memory:           memory,
		robots:           robots,
	}
}

// EngineNames lists the configured engines in escalation order.
func (d *Dispatcher) EngineNames() []string {
	names := make([]string, len(d.engines))
	for i, e := range d.engines {
		names[i] = e.Name()
	}
	return names
}

// Dispatch fetches req.URL and returns the first successful result. If all
// engines fail it returns the last error, always as a *models.ScrapeError.
func (d *Dispatcher) Dispatch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "url must be an absolute http(s) URL", err)
	}

	engines, delays := d.selectEngines(req.Mode)
	if len(engines) == 0 {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput,
			fmt.Sprintf("no fetch engine available for mode %q", req.Mode), nil)
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	if d.robots != nil && !d.robots.Allowed(ctx, u) {
		return nil, models.NewScrapeError(models.ErrCodeRobots, "fetch disallowed by robots.txt", nil)
	}

	domain := u.Hostname()
	if d.memory != nil && len(engines) > 1 {
		if remembered := d.memory.Get(domain); remembered != "" {
			for _, eng := range engines {
				if eng.Name() != remembered {
					continue
				}
				slog.Debug("domain memory hit", "domain", domain, "engine", remembered)
				result, err := eng.Fetch(ctx, req)
				if err == nil {
					err = checkPageHealth(result.HTML)
				}
				if err == nil {
					return result, nil
				}
				slog.Info("domain memory miss (engine failed), running full race",
					"domain", domain, "engine", remembered, "error", err)
				d.memory.Delete(domain)
				break
			}
		}
	}

	result, err := d.race(ctx, req, engines, delays)
	if err != nil {
		return nil, categorizeError(err, "all fetch engines failed")
	}
	if d.memory != nil {
		d.memory.Set(domain, result.EngineName)
	}
	return result, nil
}

// selectEngines filters the configured engines by fetch mode, keeping each
// engine's escalation delay. In a forced mode every engine starts at once.
func (d *Dispatcher) selectEngines(mode string) ([]Engine, []time.Duration) {
	var engines []Engine
	var delays []time.Duration
	for i, e := range d.engines {
		isBrowser := strings.HasPrefix(e.Name(), ModeBrowser)
		switch mode {
		case ModeHTTP:
			if e.Name() != ModeHTTP {
				continue
			}
		case ModeBrowser:
			if !isBrowser {
				continue
			}
		}
		delay := d.escalationDelays[i]
		if mode == ModeHTTP || mode == ModeBrowser {
			delay = 0
		}
		engines = append(engines, e)
		delays = append(delays, delay)
	}
	return engines, delays
}

// race runs the engines with staged delays and returns the first success.
func (d *Dispatcher) race(ctx context.Context, req *FetchRequest, engines []Engine, delays []time.Duration) (*FetchResult, error) {
	type raceResult struct {
		result *FetchResult
		err    error
	}

	raceCtx, raceCancel := context.WithCancel(ctx)
	defer raceCancel()

	results := make(chan raceResult, len(engines))
	var wg sync.WaitGroup

	for i, eng := range engines {
		wg.Add(1)
		go func(e Engine, delay time.Duration) {
			defer wg.Done()

			if delay > 0 {
				select {
				case <-raceCtx.Done():
					return
				case <-time.After(delay):
				}
			}

			// Another engine may already have won.
			select {
			case <-raceCtx.Done():
				return
			default:
			}

			slog.Debug("engine starting", "engine", e.Name(), "url", req.URL)
			result, err := e.Fetch(raceCtx, req)
			if err == nil {
				err = checkPageHealth(result.HTML)
			}
			if err != nil {
				slog.Debug("engine failed", "engine", e.Name(), "url", req.URL, "error", err)
			}
			results <- raceResult{result: result, err: err}
		}(eng, delays[i])
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var lastErr error
	for rr := range results {
		if rr.err != nil {
			lastErr = rr.err
			continue
		}
		raceCancel()
		slog.Info("engine won race", "engine", rr.result.EngineName, "url", req.URL)
		return rr.result, nil
	}

	if lastErr == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lastErr = fmt.Errorf("dispatcher: all engines failed for %s", req.URL)
	}
	return nil, lastErr
}
