package client

import (
	"net"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/helmcode/sns-qa/pkg/config"
)

// LocalDevOrigin is where the service listens during local development.
const LocalDevOrigin = "http://127.0.0.1:8000"

// apiPath is the relative path the service is mounted under when deployed.
const apiPath = "/api"

// ResolveBaseURL applies the deployment rule: loopback hosts go to the local
// development origin, anything else to the service path on that host.
// host may be a bare hostname, host:port, or a full URL.
func ResolveBaseURL(host string) string {
	host = strings.TrimSpace(host)
	scheme := "https"
	hostport := host

	if strings.Contains(host, "://") {
		u, err := url.Parse(host)
		if err == nil && u.Host != "" {
			scheme = u.Scheme
			hostport = u.Host
		}
	}

	if isLoopback(hostname(hostport)) {
		return LocalDevOrigin
	}
	return scheme + "://" + hostport + apiPath
}

func hostname(hostport string) string {
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		return h
	}
	return strings.Trim(hostport, "[]")
}

func isLoopback(h string) bool {
	h = strings.ToLower(strings.TrimSuffix(h, "."))
	if h == "" || h == "localhost" || strings.HasSuffix(h, ".localhost") {
		return true
	}
	if ip := net.ParseIP(h); ip != nil {
		return ip.IsLoopback()
	}
	return false
}

// FromConfig builds a client for the configured deployment. An explicit
// base URL wins over the host rule.
func FromConfig(cfg *config.Config, logger *logrus.Logger) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = ResolveBaseURL(cfg.Host)
	}
	return New(Options{
		BaseURL:    base,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})
}
