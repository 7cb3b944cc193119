package request

import (
	"net/url"
)

// Descriptor is an immutable description of an HTTP request, ready to be
// handed to a transport. Accessors return copies.
type Descriptor struct {
	url     *url.URL
	method  string
	header  map[string]string
	body    []byte
	hasBody bool
}

func (d *Descriptor) URL() *url.URL {
	u := *d.url
	if d.url.User != nil {
		user := *d.url.User
		u.User = &user
	}
	return &u
}

func (d *Descriptor) Method() string {
	return d.method
}

func (d *Descriptor) Header() map[string]string {
	header := make(map[string]string, len(d.header))
	for k, v := range d.header {
		header[k] = v
	}
	return header
}

// Body returns the request payload. It is nil when HasBody reports false.
func (d *Descriptor) Body() []byte {
	if !d.hasBody {
		return nil
	}
	body := make([]byte, len(d.body))
	copy(body, d.body)
	return body
}

// HasBody reports whether the request carries a body. Body styles always
// do, even when the encoded parameters are empty.
func (d *Descriptor) HasBody() bool {
	return d.hasBody
}

func (d *Descriptor) ContentLength() int64 {
	return int64(len(d.body))
}
