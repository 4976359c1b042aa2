package httpserver

import (
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/pkg/logging"
)

const mediaCacheControl = "public, max-age=3600"

// newProxy serves product images and avatars from the API's upload host so
// the browser loads them from the storefront origin.
func newProxy(target, stripPrefix string) (echo.HandlerFunc, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}

	p := httputil.NewSingleHostReverseProxy(u)
	p.Transport = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:        50,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	director := p.Director
	p.Director = func(req *http.Request) {
		director(req)
		req.URL.Path = strings.TrimPrefix(req.URL.Path, stripPrefix)
		req.URL.RawPath = strings.TrimPrefix(req.URL.RawPath, stripPrefix)
		// Uploads are public; the visitor's cookies stay here.
		req.Header.Del("Cookie")
		req.Header.Del("Authorization")
	}
	p.ModifyResponse = func(res *http.Response) error {
		if res.StatusCode == http.StatusOK && res.Header.Get("Cache-Control") == "" {
			res.Header.Set("Cache-Control", mediaCacheControl)
		}
		return nil
	}
	p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logging.FromContext(r.Context()).Warn("media_proxy_failed", "path", r.URL.Path, "error", err)
		w.WriteHeader(http.StatusBadGateway)
	}

	return func(c echo.Context) error {
		p.ServeHTTP(c.Response(), c.Request())
		return nil
	}, nil
}
