package exchange

import (
	"net/http"
	"time"
)

type Options struct {
	Timeout         time.Duration
	FollowRedirects bool
	Auth            AuthOptions
	SkipVerify      bool
	ForceHTTP1      bool

	// Transport replaces http.DefaultTransport when set. It is cloned before
	// the TLS options are applied.
	Transport http.RoundTripper
}

type AuthOptions struct {
	Enabled  bool
	UserName string
	Password string
}
