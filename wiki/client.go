package wiki

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"time"
)

// Client fetches Wikipedia pages. Redirect handling is deliberately taken
// away from net/http: the client issues each GET itself and spends one unit
// of its redirect budget per hop, so a fetch performs a bounded number of
// requests no matter what the server does.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a client from config. A nil logger falls back to
// slog.Default.
func NewClient(config *Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     30 * time.Second,
			},
			// Redirects are followed manually against the budget.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger,
	}
}

// Config returns the configuration the client was built with.
func (c *Client) Config() *Config {
	return c.config
}

// Fetch starts one logical fetch of pathinfo under the given request kind
// and returns a handle to the in-flight work. URL construction errors are
// reported synchronously; everything that happens on the wire surfaces
// through the returned Pending.
func (c *Client) Fetch(kind RequestKind, pathinfo string) (*Pending, error) {
	target, err := c.urlFor(kind, pathinfo)
	if err != nil {
		return nil, err
	}

	pending := newPending(c.config.Timeout)
	go c.transport(pending, kind, target)
	return pending, nil
}

// Get fetches pathinfo with the config's default request kind and blocks
// for the parsed body.
func (c *Client) Get(pathinfo string) (Body, error) {
	return c.GetKind(c.config.Kind, pathinfo)
}

// GetKind fetches pathinfo with an explicit request kind and blocks for the
// parsed body.
func (c *Client) GetKind(kind RequestKind, pathinfo string) (Body, error) {
	pending, err := c.Fetch(kind, pathinfo)
	if err != nil {
		return nil, err
	}
	result := pending.Wait()
	if result.Err != nil {
		return nil, result.Err
	}
	return ParseBody(kind, result.Body)
}

// RandomTitle asks the wiki for one random main-namespace article title.
func (c *Client) RandomTitle() (string, error) {
	target := c.apiURL("action=query&format=json&list=random&rnnamespace=0&rnlimit=1&origin=*")

	pending := newPending(c.config.Timeout)
	go c.transport(pending, LinksAPI, target)
	result := pending.Wait()
	if result.Err != nil {
		return "", result.Err
	}

	payload, err := decodeObject(result.Body)
	if err != nil {
		return "", &DeserializationError{Kind: "random", Reason: err.Error()}
	}
	random, ok := getSlice(getObject(payload, "query"), "random")
	if !ok || len(random) == 0 {
		return "", &DeserializationError{Kind: "random", Reason: "no random article in response"}
	}
	entry, _ := random[0].(map[string]interface{})
	title := getString(entry, "title")
	if title == "" {
		return "", &DeserializationError{Kind: "random", Reason: "random article has no title"}
	}
	return title, nil
}

// Ping performs a cheap liveness probe against the wiki's API endpoint.
func (c *Client) Ping() error {
	target := c.apiURL("action=query&format=json&meta=siteinfo&siprop=general&origin=*")

	pending := newPending(c.config.Timeout)
	go c.transport(pending, LinksAPI, target)
	result := pending.Wait()
	return result.Err
}

// transport runs the whole redirect loop for one fetch and deposits exactly
// one terminal result into pending.
func (c *Client) transport(pending *Pending, kind RequestKind, target string) {
	remaining := c.config.Redirects
	start := time.Now()

	for {
		if remaining == 0 {
			c.logger.Debug("redirect budget exhausted", "url", target, "budget", c.config.Redirects)
			pending.complete(FetchResult{Err: ErrTooManyRedirects})
			return
		}
		remaining--

		req, err := http.NewRequest(http.MethodGet, target, nil)
		if err != nil {
			pending.complete(FetchResult{Err: &BackendError{Reason: err.Error()}})
			return
		}
		for _, h := range c.config.Headers() {
			req.Header.Set(h.Name, h.Value)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			pending.complete(FetchResult{Err: &BackendError{Reason: err.Error()}})
			return
		}

		switch {
		case resp.StatusCode >= 300 && resp.StatusCode < 400:
			location := resp.Header.Get("Location")
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if location == "" {
				pending.complete(FetchResult{Err: &UnknownStatusError{Code: resp.StatusCode}})
				return
			}
			next, err := resp.Request.URL.Parse(location)
			if err != nil {
				pending.complete(FetchResult{Err: &BackendError{Reason: fmt.Sprintf("bad redirect target %q", location)}})
				return
			}
			c.logger.Debug("following redirect", "from", target, "to", next.String(), "remaining", remaining)
			target = next.String()

		case resp.StatusCode == http.StatusNotFound:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			pending.complete(FetchResult{Err: ErrNotFound})
			return

		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil || len(body) == 0 {
				pending.complete(FetchResult{Err: ErrNoBody})
				return
			}
			c.logger.Debug("fetch complete",
				"url", target,
				"kind", kind.String(),
				"bytes", len(body),
				"duration", time.Since(start))
			pending.complete(FetchResult{Body: string(body)})
			return

		default:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			pending.complete(FetchResult{Err: &UnknownStatusError{Code: resp.StatusCode}})
			return
		}
	}
}

// urlFor resolves a request URL, honoring the BaseURL override for tests
// and private mirrors.
func (c *Client) urlFor(kind RequestKind, pathinfo string) (string, error) {
	resolved, err := Resolve(c.config.Language, kind, pathinfo)
	if err != nil {
		return "", err
	}
	if c.config.BaseURL == "" {
		return resolved, nil
	}
	return rebase(resolved, c.config.BaseURL)
}

// apiURL builds an api.php URL with the given raw query, honoring BaseURL.
func (c *Client) apiURL(query string) string {
	target := fmt.Sprintf("%s?%s", apiBase(c.config.Language), query)
	if c.config.BaseURL == "" {
		return target
	}
	rebased, err := rebase(target, c.config.BaseURL)
	if err != nil {
		return target
	}
	return rebased
}

// rebase swaps the scheme and host of target for those of base, keeping
// path and query intact.
func rebase(target, base string) (string, error) {
	t, err := url.Parse(target)
	if err != nil {
		return "", &BackendError{Reason: err.Error()}
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", &BackendError{Reason: fmt.Sprintf("bad base url %q", base)}
	}
	t.Scheme = b.Scheme
	t.Host = b.Host
	return t.String(), nil
}

// GetWithRetry is GetKind with retries for transient failures. Timeouts and
// redirect storms are retried with jittered backoff; hard failures such as
// a missing page return immediately.
func (c *Client) GetWithRetry(kind RequestKind, pathinfo string, attempts int) (Body, error) {
	if attempts < 1 {
		attempts = 1
	}
	backoff := 250 * time.Millisecond
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying fetch", "pathinfo", pathinfo, "attempt", attempt+1, "backoff", backoff)
			time.Sleep(jitter(backoff))
			backoff *= 2
		}
		body, err := c.GetKind(kind, pathinfo)
		if err == nil {
			return body, nil
		}
		if !Retryable(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// jitter perturbs d by up to 10 percent so concurrent retries spread out.
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	offset := time.Duration(rand.Int63n(int64(d) / 5))
	return d - d/10 + offset
}
