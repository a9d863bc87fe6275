// handlers/api/client.go
package api

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/valyala/fasthttp"

	"xfront/config"
	"xfront/utils"
)

// Client wraps the upstream X-news REST API with a base URL and automatic
// session-cookie attachment. A zero-cookie client speaks to the backend
// anonymously; LoginUser captures the cookie the backend sets, after which
// every call carries it. Only LoginUser writes the cookie, so a client
// bound via WithSessionCookie is safe for concurrent calls.
type Client struct {
	http       *fasthttp.Client
	baseURL    string
	cookieName string
	cookie     string
	timeout    time.Duration
}

// NewClient creates an anonymous backend client.
func NewClient(cfg *config.BackendConfig) *Client {
	return &Client{
		http: &fasthttp.Client{
			ReadTimeout:  cfg.BackendTimeout(),
			WriteTimeout: cfg.BackendTimeout(),
		},
		baseURL:    cfg.BaseURL,
		cookieName: cfg.SessionCookie,
		timeout:    cfg.BackendTimeout(),
	}
}

// WithSessionCookie returns a copy of the client bound to an existing
// upstream session.
func (c *Client) WithSessionCookie(cookie string) *Client {
	clone := *c
	clone.cookie = cookie
	return &clone
}

// SessionCookie returns the upstream session cookie captured by the last
// login call, or empty if none was set.
func (c *Client) SessionCookie() string {
	return c.cookie
}

// doJSON performs exactly one request and normalizes every failure into a
// single message-carrying *utils.AppError: the backend's `detail` field
// verbatim when present, otherwise the caller's fallback message. Success
// decodes the body into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}, fallback string) error {
	_, err := c.do(ctx, method, path, body, out, fallback)
	return err
}

// do is the request path behind doJSON. It additionally reports the value of
// the upstream session cookie when the response set one; it never stores it.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, fallback string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", utils.NewAppError(fasthttp.StatusBadGateway, fallback, err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json")
	if c.cookie != "" {
		req.Header.SetCookie(c.cookieName, c.cookie)
	}

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return "", utils.InternalServerError(fallback, err)
		}
		req.SetBody(payload)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return "", utils.NewAppError(fasthttp.StatusBadGateway, fallback, err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		msg := errorDetail(resp.Body())
		if msg == "" {
			msg = fallback
		}
		return "", utils.NewAppError(status, msg, nil)
	}

	setCookie := c.responseCookie(resp)

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return "", utils.InternalServerError(fallback, err)
		}
	}
	return setCookie, nil
}

// responseCookie reads the upstream session cookie from a response, or
// returns empty when the response set none.
func (c *Client) responseCookie(resp *fasthttp.Response) string {
	ck := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(ck)

	ck.SetKey(c.cookieName)
	if resp.Header.Cookie(ck) && len(ck.Value()) > 0 {
		return string(ck.Value())
	}
	return ""
}

// errorDetail extracts the backend's optional `detail` message.
func errorDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Detail
}

func pathSegment(s string) string {
	return url.PathEscape(s)
}
