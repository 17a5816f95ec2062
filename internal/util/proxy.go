// Package util holds HTTP politeness helpers shared by the fetch paths.
package util

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// TransportOptions configures the transport shared by the article fetcher and
// the robots.txt checker
type TransportOptions struct {
	HTTPProxy   string
	HTTPSProxy  string
	NoProxy     string
	InsecureTLS bool
}

// NewTransport builds an HTTP transport honoring the proxy and TLS settings
func NewTransport(opts TransportOptions) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = NewProxyFunc(opts.HTTPProxy, opts.HTTPSProxy, opts.NoProxy)
	if opts.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via --insecure
	}
	return transport
}

// NewProxyFunc returns the proxy selector for outbound requests.
// Explicit proxy URLs win over HTTP_PROXY/HTTPS_PROXY; hosts listed in noProxy
// (comma separated, matched on suffix) always connect directly. An empty
// noProxy falls back to NO_PROXY.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	if noProxy == "" {
		noProxy = envNoProxy()
	}
	bypass := splitHosts(noProxy)

	return func(req *http.Request) (*url.URL, error) {
		if matchesHost(req.URL.Hostname(), bypass) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

func envNoProxy() string {
	if v := os.Getenv("NO_PROXY"); v != "" {
		return v
	}
	return os.Getenv("no_proxy")
}

func splitHosts(list string) []string {
	var hosts []string
	for _, h := range strings.Split(list, ",") {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			hosts = append(hosts, strings.TrimPrefix(h, "."))
		}
	}
	return hosts
}

func matchesHost(host string, patterns []string) bool {
	host = strings.ToLower(host)
	for _, p := range patterns {
		if host == p || strings.HasSuffix(host, "."+p) {
			return true
		}
	}
	return false
}
