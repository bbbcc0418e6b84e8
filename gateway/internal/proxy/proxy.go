package proxy

import (
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fashion_shop/pkg/logging"
)

var transport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 60 * time.Second,
	}).DialContext,
	MaxIdleConns:          200,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
}

// New forwards requests to target with stripPrefix removed from the path.
func New(name, target, stripPrefix string) (echo.HandlerFunc, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}

	p := httputil.NewSingleHostReverseProxy(u)
	p.Transport = transport

	origDirector := p.Director
	p.Director = func(req *http.Request) {
		originalHost := req.Host
		originalProto := "http"
		if req.TLS != nil {
			originalProto = "https"
		} else if xf := req.Header.Get("X-Forwarded-Proto"); xf != "" {
			originalProto = xf
		}

		if stripPrefix != "" && strings.HasPrefix(req.URL.Path, stripPrefix) {
			req.URL.Path = strings.TrimPrefix(req.URL.Path, stripPrefix)
			if rp := req.URL.RawPath; rp != "" && strings.HasPrefix(rp, stripPrefix) {
				req.URL.RawPath = strings.TrimPrefix(rp, stripPrefix)
			}
		}

		origDirector(req)

		if req.Header.Get("X-Forwarded-Proto") == "" {
			req.Header.Set("X-Forwarded-Proto", originalProto)
		}
		if req.Header.Get("X-Forwarded-Host") == "" && originalHost != "" {
			req.Header.Set("X-Forwarded-Host", originalHost)
		}
	}

	p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logging.FromContext(r.Context()).Error("upstream_error", "upstream", name, "status", 502, "error", err)
		w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message":"service unavailable"}`))
	}

	p.FlushInterval = 100 * time.Millisecond

	return func(c echo.Context) error {
		p.ServeHTTP(c.Response(), c.Request())
		return nil
	}, nil
}

type Route struct {
	Prefix   string
	Upstream string
	Target   string
}

type entry struct {
	prefix  string
	handler echo.HandlerFunc
}

// Table dispatches by path prefix. The longest matching prefix wins and a
// prefix only matches whole path segments.
type Table struct {
	entries []entry
}

func NewTable(stripPrefix string, routes []Route) (*Table, error) {
	t := &Table{}
	for _, r := range routes {
		if r.Target == "" {
			continue
		}
		h, err := New(r.Upstream, r.Target, stripPrefix)
		if err != nil {
			return nil, err
		}
		t.entries = append(t.entries, entry{prefix: r.Prefix, handler: h})
	}
	return t, nil
}

func (t *Table) Match(path string) (echo.HandlerFunc, bool) {
	var (
		best    echo.HandlerFunc
		bestLen = -1
	)
	for _, e := range t.entries {
		if path != e.prefix && !strings.HasPrefix(path, e.prefix+"/") {
			continue
		}
		if len(e.prefix) > bestLen {
			best, bestLen = e.handler, len(e.prefix)
		}
	}
	return best, best != nil
}

func (t *Table) Handler(c echo.Context) error {
	h, ok := t.Match(c.Request().URL.Path)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "route not found")
	}
	return h(c)
}
