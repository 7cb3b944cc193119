package exchange

import (
	"bytes"
	"io"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/nojima/restreq/request"
	"github.com/nojima/restreq/version"
	"github.com/pkg/errors"
)

// BuildHTTPRequest converts a descriptor into a request for net/http.
// Header names keep the case they have in the descriptor.
func BuildHTTPRequest(d *request.Descriptor, options *Options) (*http.Request, error) {
	if d == nil {
		return nil, errors.New("request descriptor is nil")
	}

	header := make(http.Header)
	for name, value := range d.Header() {
		header[name] = []string{value}
	}
	if lookupHeader(header, "User-Agent") == "" {
		header.Set("User-Agent", "restreq/"+version.Current().String())
	}

	r := http.Request{
		Method:     d.Method(),
		URL:        d.URL(),
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     header,
		Host:       lookupHeader(header, "Host"),
	}
	if d.HasBody() {
		body := d.Body()
		r.Body = ioutil.NopCloser(bytes.NewReader(body))
		r.ContentLength = int64(len(body))
		r.GetBody = func() (io.ReadCloser, error) {
			return ioutil.NopCloser(bytes.NewReader(body)), nil
		}
	}
	if options.Auth.Enabled && lookupHeader(header, "Authorization") == "" {
		r.SetBasicAuth(options.Auth.UserName, options.Auth.Password)
	}
	return &r, nil
}

func lookupHeader(header http.Header, name string) string {
	for k, values := range header {
		if strings.EqualFold(k, name) && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}
