package network

import (
	"strings"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	fhttpcookiejar "github.com/bogdanfinn/fhttp/cookiejar"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/rs/zerolog"
)

const DefaultUserAgent = "vacancyctl"

type Options struct {
	Timeout   time.Duration
	Proxy     string
	UserAgent string
	Logger    zerolog.Logger
}

// Client is the only HTTP transport of the process.
type Client struct {
	http      tls_client.HttpClient
	userAgent string
	logger    zerolog.Logger
}

func NewClient(opts Options) (*Client, error) {
	jar, _ := fhttpcookiejar.New(nil)

	options := []tls_client.HttpClientOption{
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithCookieJar(jar),
		tls_client.WithNotFollowRedirects(),
	}
	if opts.Timeout > 0 {
		options = append(options, tls_client.WithTimeoutSeconds(int(opts.Timeout/time.Second)))
	}
	if proxy := strings.TrimSpace(opts.Proxy); proxy != "" {
		options = append(options, tls_client.WithProxyUrl(proxy))
	}

	client, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, err
	}

	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		http:      client,
		userAgent: userAgent,
		logger:    opts.Logger,
	}, nil
}

func (c *Client) Do(req *fhttp.Request) (*fhttp.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	event := c.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Dur("elapsed", time.Since(start))
	if err != nil {
		event.Err(err).Msg("http request failed")
		return nil, err
	}
	event.Int("status", resp.StatusCode).Msg("http request")
	return resp, nil
}
