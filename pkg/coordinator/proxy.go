package coordinator

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/rs/zerolog/log"
)

// Proxy returns a handler forwarding local requests to origin through the coordinator, so a media
// player pointed at the device sees cached bytes whenever the cache can answer.
func (c *Coordinator) Proxy(origin *url.URL) http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(origin)
	director := proxy.Director
	proxy.Director = func(req *http.Request) {
		director(req)
		req.Host = origin.Host
	}
	proxy.Transport = c
	proxy.ErrorHandler = func(w http.ResponseWriter, req *http.Request, err error) {
		log.Warn().Err(err).Str("path", req.URL.Path).Msg("Upstream request failed")
		w.WriteHeader(http.StatusBadGateway)
	}
	return proxy
}
