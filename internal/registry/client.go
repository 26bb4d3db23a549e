package registry

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/valyala/fasthttp"
)

// Client talks to a registry at a base URL
type Client struct {
	baseURL string
	hc      *fasthttp.Client
}

// NewClient returns a client for baseURL. A nil hc uses a default fasthttp client.
func NewClient(baseURL string, hc *fasthttp.Client) *Client {
	if hc == nil {
		hc = &fasthttp.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      hc,
	}
}

// Fetch downloads the package called name
func (c *Client) Fetch(name string) (*Package, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + packagesPrefix + url.PathEscape(name))
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := c.hc.Do(req, resp); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}

	switch resp.StatusCode() {
	case fasthttp.StatusOK:
	case fasthttp.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	default:
		return nil, fmt.Errorf("fetch %s: registry answered %d: %s", name, resp.StatusCode(), resp.Body())
	}

	pkg := &Package{}
	if err := json.Unmarshal(resp.Body(), pkg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return pkg, nil
}

// Contribute publishes pkg
func (c *Client) Contribute(pkg *Package) error {
	body, err := json.Marshal(pkg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", pkg.Name, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + contributePath)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType(jsonContentType)
	req.SetBody(body)

	if err := c.hc.Do(req, resp); err != nil {
		return fmt.Errorf("contribute %s: %w", pkg.Name, err)
	}

	switch resp.StatusCode() {
	case fasthttp.StatusOK:
		return nil
	case fasthttp.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrRejected, resp.Body())
	default:
		return fmt.Errorf("contribute %s: registry answered %d: %s", pkg.Name, resp.StatusCode(), resp.Body())
	}
}
