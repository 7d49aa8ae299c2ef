package engine

import (
	"log/slog"

	"github.com/use-agent/menumaker/config"
)

// Stack is the assembled fetch layer. Close releases the browser and the
// domain memory goroutine.
type Stack struct {
	Dispatcher *Dispatcher
	browser    *Browser
	memory     *DomainMemory
}

// Build assembles the engines described by cfg: always the HTTP engine,
// plus the browser engines when enabled. A browser that fails to launch is
// logged and skipped so plain HTTP scraping still works.
func Build(fetch config.FetchConfig, browserCfg config.BrowserConfig) *Stack {
	httpEngine := NewHTTPEngine(HTTPOptions{
		UserAgent: fetch.UserAgent,
		Timeout:   fetch.MaxTimeout,
		ChromeTLS: fetch.ChromeTLS,
	})
	engines := []Engine{httpEngine}
	s := &Stack{}

	if browserCfg.Enabled {
		b, err := LaunchBrowser(BrowserOptions{
			Headless:       browserCfg.Headless,
			NoSandbox:      browserCfg.NoSandbox,
			BrowserBin:     browserCfg.BrowserBin,
			Proxy:          browserCfg.Proxy,
			MaxPages:       browserCfg.MaxPages,
			UserAgent:      fetch.UserAgent,
			BlockResources: browserCfg.BlockResources,
			BlockAds:       browserCfg.BlockAds,
		})
		if err != nil {
			slog.Warn("browser engine unavailable, continuing with http only", "error", err)
		} else {
			s.browser = b
			engines = append(engines, NewBrowserEngine(b, false))
			if browserCfg.Stealth {
				engines = append(engines, NewBrowserEngine(b, true))
			}
		}
	}

	var robots *RobotsChecker
	if fetch.RespectRobots {
		robots = NewRobotsChecker(httpEngine.Client(), httpEngine.UserAgent(), fetch.RobotsTTL)
	}
	if len(engines) > 1 {
		s.memory = NewDomainMemory(fetch.DomainMemoryTTL)
	}

	s.Dispatcher = NewDispatcher(engines, fetch.EscalationDelays, s.memory, robots)
	slog.Info("fetch engines ready",
		"engines", s.Dispatcher.EngineNames(),
		"delays", fetch.EscalationDelays,
		"robots", fetch.RespectRobots,
	)
	return s
}

func (s *Stack) Close() {
	if s.memory != nil {
		s.memory.Stop()
	}
	if s.browser != nil {
		s.browser.Close()
	}
}
