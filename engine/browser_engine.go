package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/use-agent/menumaker/models"
)

// BrowserOptions configures the headless Chrome instance.
type BrowserOptions struct {
	Headless   bool
	NoSandbox  bool
	BrowserBin string
	Proxy      string
	MaxPages   int

	// UserAgent replaces Chrome's identifier on every request.
	// Default: DefaultUserAgent.
	UserAgent string

	// BlockResources lists resource types never loaded ("Image",
	// "Stylesheet", "Font", "Media").
	BlockResources []string

	// BlockAds fails requests to known ad and tracking networks.
	BlockAds bool
}

// Browser owns one Chrome process and a pool of reusable tabs. It is
// shared by the plain and stealth browser engines.
type Browser struct {
	browser        *rod.Browser
	pagePool       rod.Pool[rod.Page]
	blockResources []string
	blockAds       bool
	userAgent      string
}

// LaunchBrowser starts Chrome and initialises the page pool.
func LaunchBrowser(opts BrowserOptions) (*Browser, error) {
	l := launcher.New().
		Headless(opts.Headless).
		NoSandbox(opts.NoSandbox)

	if opts.BrowserBin != "" {
		l = l.Bin(opts.BrowserBin)
	}
	if opts.Proxy != "" {
		l = l.Proxy(opts.Proxy)
	}
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to launch browser", err)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to connect to browser", err)
	}

	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = 4
	}
	return &Browser{
		browser:        browser,
		pagePool:       rod.NewPagePool(maxPages),
		blockResources: opts.BlockResources,
		blockAds:       opts.BlockAds,
		userAgent:      opts.UserAgent,
	}, nil
}

// Close drains the page pool and kills the browser process.
func (b *Browser) Close() {
	b.pagePool.Cleanup(func(p *rod.Page) {
		_ = p.Close()
	})
	if err := b.browser.Close(); err != nil {
		slog.Warn("browser close failed", "error", err)
	}
}

// BrowserEngine renders pages in headless Chrome, for recipe sites that
// build their ingredient lists client-side.
type BrowserEngine struct {
	b            *Browser
	forceStealth bool
	name         string
}

// NewBrowserEngine creates a BrowserEngine on top of b. With forceStealth
// every request gets the stealth evasions, otherwise only requests that ask.
func NewBrowserEngine(b *Browser, forceStealth bool) *BrowserEngine {
	name := ModeBrowser
	if forceStealth {
		name = ModeBrowser + "-stealth"
	}
	return &BrowserEngine{b: b, forceStealth: forceStealth, name: name}
}

func (e *BrowserEngine) Name() string { return e.name }

// newDocumentScripter is the part of *rod.Page that installs scripts run
// before any page script.
type newDocumentScripter interface {
	EvalOnNewDocument(js string) (remove func() error, err error)
}

// injectStealth installs the stealth evasions on p and returns the func
// that uninstalls them.
func injectStealth(p newDocumentScripter) func() {
	remove, err := p.EvalOnNewDocument(stealth.JS)
	if err != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", err)
		return func() {}
	}
	return func() {
		if err := remove(); err != nil {
			slog.Warn("stealth removal failed", "error", err)
		}
	}
}

// requestHeaders merges per-request headers over the configured identifier.
func (b *Browser) requestHeaders(extra map[string]string) map[string]string {
	ua := b.userAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	headers := map[string]string{"User-Agent": ua}
	for k, v := range extra {
		headers[k] = v
	}
	return headers
}

// Fetch navigates a pooled tab to req.URL, waits for the DOM to settle and
// returns the rendered HTML.
func (e *BrowserEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	page, err := e.b.pagePool.Get(func() (*rod.Page, error) {
		return e.b.browser.Page(proto.TargetCreateTarget{})
	})
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to acquire page from pool", err)
	}
	// Blank the tab before returning it so the previous DOM is released.
	defer func() {
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to navigate to about:blank", "error", navErr)
		}
		e.b.pagePool.Put(page)
	}()

	if e.forceStealth || req.Stealth {
		// Pooled tabs are reused, so the script must not outlive this fetch.
		defer injectStealth(page)()
	}

	if router := setupHijack(page, e.b.blockResources, e.b.blockAds); router != nil {
		defer func() { _ = router.Stop() }()
	}

	_ = proto.NetworkSetExtraHTTPHeaders{Headers: toHeadersMap(e.b.requestHeaders(req.Headers))}.Call(page)

	p := page.Context(ctx)
	if err := p.Navigate(req.URL); err != nil {
		return nil, categorizeError(err, e.name+": navigation failed")
	}
	if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM", "error", err)
	}

	var statusCode int
	if res, err := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch(e) {}
		return 0;
	}`); err == nil {
		statusCode = res.Value.Int()
	}

	rawHTML, err := p.HTML()
	if err != nil {
		return nil, categorizeError(err, e.name+": failed to read page HTML")
	}

	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = req.URL
	}

	return &FetchResult{
		HTML:       rawHTML,
		StatusCode: statusCode,
		FinalURL:   finalURL,
		EngineName: e.name,
	}, nil
}

func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
