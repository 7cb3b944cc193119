package request

import (
	"net/url"
	"regexp"
	"strings"
)

var reScheme = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+-.]*://`)

// draft is the mutable state a Descriptor is assembled from.
type draft struct {
	url         *url.URL
	body        []byte
	hasBody     bool
	contentType string
}

func (d *draft) appendQuery(query string) {
	d.url.RawQuery = joinQuery(d.url.RawQuery, query)
}

func (d *draft) setBody(body []byte, contentType string) {
	d.body = body
	d.hasBody = true
	d.contentType = contentType
}

// Build assembles a request descriptor from a base URL, a path relative to
// it, a method, parameters encoded according to style, and caller headers.
//
// Caller headers win over the defaults the builder would set; a caller
// Content-Type (matched case-insensitively) suppresses the default one.
// The method is used verbatim.
func Build(baseURL, path, method string, params Params, style ParameterStyle, header map[string]string) (*Descriptor, error) {
	if style == nil {
		style = StyleURL
	}

	u, err := composeURL(baseURL, path)
	if err != nil {
		return nil, err
	}

	d := &draft{url: u}
	if err := style.apply(d, params); err != nil {
		return nil, err
	}

	return &Descriptor{
		url:     d.url,
		method:  method,
		header:  mergeHeader(d.contentType, header),
		body:    d.body,
		hasBody: d.hasBody,
	}, nil
}

// composeURL joins baseURL and path so that exactly one '/' separates them.
// Query components of both sides are preserved, base first. A fragment on
// path replaces the one on baseURL.
func composeURL(baseURL, path string) (*url.URL, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, newInvalidURLError(baseURL, path, err.Error())
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, newInvalidURLError(baseURL, path, "base URL must be absolute")
	}

	if reScheme.MatchString(path) {
		return nil, newInvalidURLError(baseURL, path, "path must be relative")
	}
	// Anchoring the path keeps "a:b" from parsing as a scheme and "//a" as
	// a host.
	rel := path
	if rel != "" && !strings.HasPrefix(rel, "?") && !strings.HasPrefix(rel, "#") {
		rel = "/" + strings.TrimLeft(rel, "/")
	}
	ref, err := url.Parse(rel)
	if err != nil {
		return nil, newInvalidURLError(baseURL, path, err.Error())
	}

	u := *base

	if ref.Path != "" {
		joined := strings.TrimRight(base.EscapedPath(), "/") + "/" + strings.TrimLeft(ref.EscapedPath(), "/")
		unescaped, err := url.PathUnescape(joined)
		if err != nil {
			return nil, newInvalidURLError(baseURL, path, err.Error())
		}
		u.Path = unescaped
		u.RawPath = joined
	}
	u.RawQuery = joinQuery(base.RawQuery, ref.RawQuery)
	if ref.Fragment != "" {
		u.Fragment = ref.Fragment
		u.RawFragment = ref.RawFragment
	}
	return &u, nil
}

func joinQuery(queries ...string) string {
	var parts []string
	for _, q := range queries {
		q = strings.Trim(q, "&")
		if q != "" {
			parts = append(parts, q)
		}
	}
	return strings.Join(parts, "&")
}

func mergeHeader(contentType string, header map[string]string) map[string]string {
	merged := make(map[string]string, len(header)+1)
	if contentType != "" && !hasHeader(header, "Content-Type") {
		merged["Content-Type"] = contentType
	}
	for name, value := range header {
		merged[name] = value
	}
	return merged
}

func hasHeader(header map[string]string, name string) bool {
	for k := range header {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}
