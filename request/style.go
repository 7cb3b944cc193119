package request

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	jsonContentType = "application/json"
	formContentType = "application/x-www-form-urlencoded; charset=utf-8"
)

// ParameterStyle decides where request parameters end up: in the query
// string, or in a JSON or form-encoded body.
//
// The set of styles is closed; use StyleURL, StyleBodyJSON or StyleBodyForm.
type ParameterStyle interface {
	String() string
	apply(d *draft, params Params) error
}

var (
	// StyleURL appends parameters to the query string.
	StyleURL ParameterStyle = urlStyle{}
	// StyleBodyJSON serializes parameters as a JSON object body.
	StyleBodyJSON ParameterStyle = jsonBodyStyle{}
	// StyleBodyForm serializes parameters as an x-www-form-urlencoded body.
	StyleBodyForm ParameterStyle = formBodyStyle{}
)

// ParseParameterStyle maps a style name ("url", "query", "json", "form") to
// its ParameterStyle.
func ParseParameterStyle(name string) (ParameterStyle, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "url", "query":
		return StyleURL, nil
	case "json":
		return StyleBodyJSON, nil
	case "form":
		return StyleBodyForm, nil
	default:
		return nil, errors.Errorf("unknown parameter style: %s", name)
	}
}

type urlStyle struct{}

func (urlStyle) String() string { return "url" }

func (urlStyle) apply(d *draft, params Params) error {
	if len(params) == 0 {
		return nil
	}
	query, err := params.encodePairs()
	if err != nil {
		return err
	}
	d.appendQuery(query)
	return nil
}

type jsonBodyStyle struct{}

func (jsonBodyStyle) String() string { return "json" }

func (jsonBodyStyle) apply(d *draft, params Params) error {
	body, err := marshalJSON(params)
	if err != nil {
		return err
	}
	d.setBody(body, jsonContentType)
	return nil
}

type formBodyStyle struct{}

func (formBodyStyle) String() string { return "form" }

func (formBodyStyle) apply(d *draft, params Params) error {
	body, err := params.encodePairs()
	if err != nil {
		return err
	}
	d.setBody([]byte(body), formContentType)
	return nil
}
