package exchange

import (
	"crypto/tls"
	"net/http"

	"github.com/pkg/errors"
)

const maxRedirects = 30

// BuildHTTPClient returns a client configured by options. Redirects are
// returned to the caller unless FollowRedirects is set.
func BuildHTTPClient(options *Options) (*http.Client, error) {
	return &http.Client{
		CheckRedirect: redirectPolicy(options.FollowRedirects),
		Timeout:       options.Timeout,
		Transport:     newTransport(options),
	}, nil
}

func redirectPolicy(follow bool) func(*http.Request, []*http.Request) error {
	if !follow {
		return func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return errors.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	}
}

// newTransport returns a copy of the configured transport with TLS options
// applied. Transports other than *http.Transport are used as they are.
func newTransport(options *Options) http.RoundTripper {
	base := options.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	t, ok := base.(*http.Transport)
	if !ok {
		return base
	}
	t = t.Clone()
	configureTLS(t, options)
	return t
}

func configureTLS(t *http.Transport, options *Options) {
	if t.TLSClientConfig == nil {
		t.TLSClientConfig = &tls.Config{}
	}
	t.TLSClientConfig.InsecureSkipVerify = options.SkipVerify
	if options.ForceHTTP1 {
		t.TLSClientConfig.NextProtos = []string{"http/1.1", "http/1.0"}
		t.TLSNextProto = make(map[string]func(string, *tls.Conn) http.RoundTripper)
	}
}
