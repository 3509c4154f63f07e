package crawler

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"fakenews-features/internal/models"
	"fakenews-features/internal/parser"
)

const robotsSizeCap = 512 << 10

var (
	ErrInvalidURL = errors.New("invalid url")
	ErrNotHTML    = errors.New("non-html content")
	ErrDisallowed = errors.New("disallowed by robots.txt")
	// ErrPrivateHost is returned for loopback, private and link-local
	// addresses unless Options.AllowPrivate is set.
	ErrPrivateHost = errors.New("private address")
	// ErrFetch wraps every transport and status failure so callers can
	// tell them apart from parse failures.
	ErrFetch = errors.New("fetch failed")
)

type Options struct {
	Timeout     time.Duration
	DialTimeout time.Duration
	SizeCap     int64
	UserAgent   string

	// HostInterval is the minimum gap between requests to one host;
	// zero disables throttling.
	HostInterval time.Duration
	// RespectRobots makes Fetch consult each host's robots.txt first.
	RespectRobots bool
	// AllowPrivate permits connections to loopback, private and
	// link-local addresses.
	AllowPrivate bool
}

type HTTPClient struct {
	client        *http.Client
	sizeCap       int64
	userAgent     string
	hostInterval  time.Duration
	respectRobots bool
	allowPrivate  bool

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	robots   map[string]*robotstxt.RobotsData
	robotsSF singleflight.Group
}

// Page is a fetched response body. Body is capped at the client's size
// limit and must be closed.
type Page struct {
	Body        io.ReadCloser
	FinalURL    string
	ContentType string
	Elapsed     time.Duration
}

func NewHTTPClient(opts Options) *HTTPClient {
	dialer := &net.Dialer{
		Timeout:   opts.DialTimeout,
		KeepAlive: 30 * time.Second,
	}
	if !opts.AllowPrivate {
		// checked on the resolved address so DNS names and redirects are covered
		dialer.Control = func(_, address string, _ syscall.RawConn) error {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				return err
			}
			if ip := net.ParseIP(host); ip != nil && privateIP(ip) {
				return fmt.Errorf("%w: %s", ErrPrivateHost, host)
			}
			return nil
		}
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "fakenews-features/1.0"
	}
	return &HTTPClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		sizeCap:       opts.SizeCap,
		userAgent:     ua,
		hostInterval:  opts.HostInterval,
		respectRobots: opts.RespectRobots,
		allowPrivate:  opts.AllowPrivate,
		limiters:      make(map[string]*rate.Limiter),
		robots:        make(map[string]*robotstxt.RobotsData),
	}
}

func (h *HTTPClient) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	start := time.Now()
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	if !h.allowPrivate && privateHost(u.Hostname()) {
		return nil, fmt.Errorf("%w: %s", ErrPrivateHost, u.Hostname())
	}
	if h.respectRobots && !h.allowed(ctx, u) {
		return nil, fmt.Errorf("%w: %s", ErrDisallowed, u.Redacted())
	}
	if err := h.wait(ctx, u.Host); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		if errors.Is(err, ErrPrivateHost) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: http status %d", ErrFetch, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(contentType)
	// servers that omit the header are given the benefit of the doubt
	if mediaType != "" && mediaType != "text/html" && mediaType != "application/xhtml+xml" {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotHTML, mediaType)
	}

	body := capped{body: resp.Body}
	var r io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %v", ErrFetch, err)
		}
		body.gz = gz
		r = gz
	}
	body.Reader = io.LimitReader(r, h.sizeCap)

	return &Page{
		Body:        body,
		FinalURL:    resp.Request.URL.String(),
		ContentType: contentType,
		Elapsed:     time.Since(start),
	}, nil
}

// FetchArticle fetches rawURL and parses it into an unlabeled article.
// Parse failures are returned unwrapped; everything before parsing wraps
// ErrFetch, ErrInvalidURL, ErrPrivateHost, ErrDisallowed or ErrNotHTML.
func (h *HTTPClient) FetchArticle(ctx context.Context, p *parser.Parser, rawURL string) (models.Article, *Page, error) {
	page, err := h.Fetch(ctx, rawURL)
	if err != nil {
		return models.Article{}, nil, err
	}
	defer page.Body.Close()
	a, err := p.Extract(page.Body, page.ContentType)
	if err != nil {
		return models.Article{}, page, err
	}
	return a, page, nil
}

func (h *HTTPClient) wait(ctx context.Context, host string) error {
	if h.hostInterval <= 0 {
		return nil
	}
	h.mu.Lock()
	lim, ok := h.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Every(h.hostInterval), 1)
		h.limiters[host] = lim
	}
	h.mu.Unlock()
	return lim.Wait(ctx)
}

// allowed checks u against its host's robots.txt, fetched once per
// scheme and host; concurrent first requests share one fetch. An
// unreachable robots.txt allows everything and is retried on the next call.
func (h *HTTPClient) allowed(ctx context.Context, u *url.URL) bool {
	base := u.Scheme + "://" + u.Host
	h.mu.Lock()
	data, ok := h.robots[base]
	h.mu.Unlock()
	if !ok {
		v, err, _ := h.robotsSF.Do(base, func() (any, error) {
			data, err := h.fetchRobots(ctx, u)
			if err != nil {
				return nil, err
			}
			h.mu.Lock()
			h.robots[base] = data
			h.mu.Unlock()
			return data, nil
		})
		if err != nil {
			return true
		}
		data = v.(*robotstxt.RobotsData)
	}
	return data.TestAgent(u.RequestURI(), h.userAgent)
}

func (h *HTTPClient) fetchRobots(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	if err := h.wait(ctx, u.Host); err != nil {
		return nil, err
	}
	robotsURL := url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/robots.txt"}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", h.userAgent)
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, robotsSizeCap))
	if err != nil {
		return nil, err
	}
	return robotstxt.FromStatusAndBytes(resp.StatusCode, body)
}

type capped struct {
	io.Reader
	gz   *gzip.Reader
	body io.Closer
}

func (c capped) Close() error {
	var gzErr error
	if c.gz != nil {
		gzErr = c.gz.Close()
	}
	return errors.Join(gzErr, c.body.Close())
}

func privateHost(host string) bool {
	if strings.EqualFold(host, "localhost") || strings.HasSuffix(strings.ToLower(host), ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && privateIP(ip)
}

func privateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsInterfaceLocalMulticast()
}
