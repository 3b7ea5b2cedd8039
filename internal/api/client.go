// Package api is the single gateway to the vacancy service.
//
// Every request carries the session token as a bearer credential when one is
// held. A 401 answer clears the session and navigates to login once per failing
// response; the call is not retried. Other failures come back as *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	crdb "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jimezsa/vacancyctl/internal/nav"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 4 << 20

// Doer sends one HTTP request. *network.Client satisfies it.
type Doer interface {
	Do(req *fhttp.Request) (*fhttp.Response, error)
}

// Credentials is the part of the session store the client may touch: it
// reads the token and, on authorization loss, invalidates it.
type Credentials interface {
	Token() string
	Invalidate()
}

type Options struct {
	BaseURL     string
	Doer        Doer
	Credentials Credentials
	Navigator   nav.Navigator
	Logger      zerolog.Logger
}

type Client struct {
	base   *url.URL
	doer   Doer
	creds  Credentials
	nav    nav.Navigator
	logger zerolog.Logger
	newID  func() string
}

func New(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		return nil, crdb.New("api url is required")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, crdb.Wrapf(err, "parse api url %q", raw)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, crdb.Newf("api url %q must be http or https", raw)
	}
	if opts.Doer == nil {
		return nil, crdb.New("api client needs a transport")
	}
	return &Client{
		base:   base,
		doer:   opts.Doer,
		creds:  opts.Credentials,
		nav:    opts.Navigator,
		logger: opts.Logger,
		newID:  uuid.NewString,
	}, nil
}

type call struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	// anonymous calls neither send the token nor treat 401 as authority loss.
	anonymous bool
}

func (c *Client) do(ctx context.Context, rc call, out any) error {
	target := *c.base
	target.Path = c.base.Path + rc.path
	if len(rc.query) > 0 {
		target.RawQuery = rc.query.Encode()
	}

	req, err := fhttp.NewRequestWithContext(ctx, rc.method, target.String(), rc.body)
	if err != nil {
		return &Error{Op: rc.op, Kind: KindTransient, Err: err}
	}
	requestID := c.newID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if rc.contentType != "" {
		req.Header.Set("Content-Type", rc.contentType)
	}
	if !rc.anonymous && c.creds != nil {
		if token := c.creds.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	log := c.logger.With().Str("op", rc.op).Str("request_id", requestID).Logger()

	resp, err := c.doer.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("transport error")
		return &Error{Op: rc.op, Kind: KindTransient, Err: crdb.Wrapf(err, "%s %s", rc.method, rc.path)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &Error{Op: rc.op, Kind: KindTransient, Status: resp.StatusCode, Err: crdb.Wrap(err, "read response")}
	}

	if resp.StatusCode >= 400 {
		apiErr := &Error{
			Op:     rc.op,
			Kind:   classify(resp.StatusCode),
			Status: resp.StatusCode,
			Detail: parseDetail(body),
		}
		if apiErr.Kind == KindAuthorizationLost && rc.anonymous {
			apiErr.Kind = KindRejected
		}
		if apiErr.Kind == KindAuthorizationLost {
			c.authorizationLost(log)
			return crdb.WithHint(apiErr, "session expired; run `vacancyctl login`")
		}
		log.Debug().Int("status", resp.StatusCode).Str("kind", apiErr.Kind.String()).Msg("call failed")
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Op: rc.op, Kind: KindTransient, Status: resp.StatusCode, Err: crdb.Wrap(err, "decode response")}
	}
	return nil
}

func (c *Client) authorizationLost(log zerolog.Logger) {
	log.Warn().Msg("authorization lost; clearing session")
	if c.creds != nil {
		c.creds.Invalidate()
	}
	if c.nav != nil {
		c.nav.Navigate(nav.Login())
	}
}

func jsonBody(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
