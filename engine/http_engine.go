package engine

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	tls "github.com/refraction-networking/utls"
	"golang.org/x/net/html/charset"

	"github.com/use-agent/menumaker/models"
)

// DefaultUserAgent is the client identifier sent with every fetch.
const DefaultUserAgent = "MenuMaker Desktop/0.1"

// maxBody caps how much of a response is read.
const maxBody = 10 << 20

// HTTPOptions configures an HTTPEngine.
type HTTPOptions struct {
	// UserAgent identifies the client. Default: DefaultUserAgent.
	UserAgent string

	// Timeout bounds a whole request including the body read.
	Timeout time.Duration

	// ChromeTLS presents a Chrome TLS fingerprint (utls) instead of Go's.
	// Some recipe sites behind bot protection reject Go's ClientHello.
	ChromeTLS bool
}

// HTTPEngine fetches pages with a single plain HTTP GET. It is the fastest
// option and is enough for the server-rendered markup most recipe sites serve.
type HTTPEngine struct {
	client    *http.Client
	userAgent string
}

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to http/1.1
// only. Computed once at init time and reused for every connection.
var (
	chromeH1Spec   tls.ClientHelloSpec
	chromeH1SpecOK bool
)

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return
	}
	// Go's http.Transport cannot speak h2 over a utls connection, so the
	// server must never be offered it.
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
	chromeH1SpecOK = true
}

// NewHTTPEngine creates an HTTPEngine.
func NewHTTPEngine(opts HTTPOptions) *HTTPEngine {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.ChromeTLS && chromeH1SpecOK {
		transport.DialTLSContext = dialChromeTLS
		transport.ForceAttemptHTTP2 = false
	}

	return &HTTPEngine{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: opts.UserAgent,
	}
}

func dialChromeTLS(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
	if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
		conn.Close()
		return nil, fmt.Errorf("http_engine: apply tls spec: %w", err)
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return tlsConn, nil
}

func (e *HTTPEngine) Name() string { return ModeHTTP }

// Client returns the underlying HTTP client so that auxiliary requests
// (robots.txt) share its transport.
func (e *HTTPEngine) Client() *http.Client { return e.client }

// UserAgent returns the client identifier the engine sends.
func (e *HTTPEngine) UserAgent() string { return e.userAgent }

func (e *HTTPEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "http_engine: build request", err)
	}
	httpReq.Header.Set("User-Agent", e.userAgent)
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	httpReq.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, categorizeError(err, "http_engine: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, models.NewScrapeError(models.ErrCodeFetch,
			fmt.Sprintf("http_engine: HTTP %d for %s", resp.StatusCode, req.URL), nil)
	}

	ct := resp.Header.Get("Content-Type")
	if !isTextContentType(ct) {
		return nil, models.NewScrapeError(models.ErrCodeNonText,
			fmt.Sprintf("http_engine: non-text content-type %q", ct), nil)
	}

	// Recipe blogs still serve windows-1252 and friends; normalize to UTF-8
	// using the header, BOM or <meta charset> in that order.
	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBody), ct)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeFetch, "http_engine: unsupported charset", err)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, categorizeError(err, "http_engine: read body")
	}

	return &FetchResult{
		HTML:       string(raw),
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL.String(),
		EngineName: e.Name(),
	}, nil
}

// isTextContentType reports whether ct describes a textual body. An absent
// header is accepted since some servers omit it.
func isTextContentType(ct string) bool {
	if strings.TrimSpace(ct) == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
	}
	return strings.HasPrefix(mediaType, "text/") || mediaType == "application/xhtml+xml"
}
