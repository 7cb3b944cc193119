package input

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/url"
	"regexp"
	"strings"

	"github.com/nojima/restreq/request"
	"github.com/pkg/errors"
)

var (
	reMethod          = regexp.MustCompile(`^[a-zA-Z]+$`)
	reHeaderFieldName = regexp.MustCompile("^[-!#$%&'*+.^_|~a-zA-Z0-9]+$")
	reScheme          = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+-.]*://`)
)

type itemType int

const (
	unknownItem itemType = iota
	httpHeaderItem
	queryParameterItem
	dataFieldItem
	rawJSONFieldItem
)

type UsageError string

func (e *UsageError) Error() string {
	return string(*e)
}

func newUsageError(message string) error {
	u := UsageError(message)
	return errors.WithStack(&u)
}

type state struct {
	query         url.Values
	stdinConsumed bool
}

// ParseArgs parses "[METHOD] BASE_URL [PATH] [REQUEST_ITEM ...]".
func ParseArgs(args []string, stdin io.Reader, options *Options) (*Input, error) {
	var argMethod string
	var argURL string
	var argItems []string
	switch len(args) {
	case 0:
		return nil, newUsageError("URL is required")
	case 1:
		argURL = args[0]
	default:
		if reMethod.MatchString(args[0]) {
			argMethod = args[0]
			argURL = args[1]
			argItems = args[2:]
		} else {
			argURL = args[0]
			argItems = args[1:]
		}
	}

	in := Input{
		Parameters: request.Params{},
		Header:     map[string]string{},
	}
	state := state{query: url.Values{}}

	u, err := parseURL(argURL)
	if err != nil {
		return nil, err
	}
	in.BaseURL = u.String()

	if len(argItems) > 0 && isPath(argItems[0]) {
		in.Path = argItems[0]
		argItems = argItems[1:]
	}

	for _, arg := range argItems {
		if err := parseItem(arg, stdin, &state, &in); err != nil {
			return nil, err
		}
	}
	if len(state.query) > 0 {
		in.Path = appendQuery(in.Path, state.query.Encode())
	}

	in.Style = options.Style
	if in.Style == nil {
		if len(in.Parameters) > 0 || options.ReadStdin {
			in.Style = request.StyleBodyJSON
		} else {
			in.Style = request.StyleURL
		}
	}

	if options.ReadStdin && !state.stdinConsumed {
		if len(in.Parameters) != 0 {
			return nil, errors.New("request body (from stdin) and request item (key=value) cannot be mixed")
		}
		data, err := ioutil.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read stdin")
		}
		in.Parameters, err = parseStdinParameters(data, in.Style)
		if err != nil {
			return nil, err
		}
		state.stdinConsumed = true
	}

	if argMethod != "" {
		method, err := parseMethod(argMethod)
		if err != nil {
			return nil, err
		}
		in.Method = method
	} else {
		in.Method = guessMethod(&in)
	}

	return &in, nil
}

func parseMethod(s string) (string, error) {
	if !reMethod.MatchString(s) {
		return "", errors.Errorf("METHOD must consist of alphabets: %s", s)
	}
	return strings.ToUpper(s), nil
}

func guessMethod(in *Input) string {
	if in.Style == request.StyleURL {
		return "GET"
	}
	return "POST"
}

func parseURL(s string) (*url.URL, error) {
	defaultScheme := "http"
	defaultHost := "localhost"

	// ex) :8080/hello or /hello
	if strings.HasPrefix(s, ":") || strings.HasPrefix(s, "/") {
		s = defaultHost + s
	}

	// ex) example.com/hello
	if !reScheme.MatchString(s) {
		s = defaultScheme + "://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, newUsageError("Invalid URL: " + s)
	}
	u.Host = strings.TrimSuffix(u.Host, ":")
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}

// isPath reports whether the argument after BASE_URL names a path rather
// than a request item.
func isPath(s string) bool {
	if strings.HasPrefix(s, "/") {
		return true
	}
	t, _, _ := splitItem(s)
	return t == unknownItem
}

func appendQuery(path, query string) string {
	if strings.Contains(path, "?") {
		return path + "&" + query
	}
	return path + "?" + query
}

func parseItem(s string, stdin io.Reader, state *state, in *Input) error {
	itemType, name, value := splitItem(s)
	switch itemType {
	case dataFieldItem:
		value, err := resolveValue(name, value, stdin, state)
		if err != nil {
			return err
		}
		in.Parameters[name] = value
	case rawJSONFieldItem:
		value, err := resolveValue(name, value, stdin, state)
		if err != nil {
			return err
		}
		v, err := decodeJSON([]byte(value))
		if err != nil {
			return errors.Errorf("invalid JSON at '%s': %s", name, value)
		}
		in.Parameters[name] = v
	case httpHeaderItem:
		if !isValidHeaderFieldName(name) {
			return errors.Errorf("invalid header field name: %s", name)
		}
		value, err := resolveValue(name, value, stdin, state)
		if err != nil {
			return err
		}
		in.Header[name] = value
	case queryParameterItem:
		value, err := resolveValue(name, value, stdin, state)
		if err != nil {
			return err
		}
		state.query.Add(name, value)
	default:
		return errors.Errorf("unknown request item: %s", s)
	}
	return nil
}

func splitItem(s string) (itemType, string, string) {
	for i, c := range s {
		switch c {
		case ':':
			if i+1 < len(s) && s[i+1] == '=' {
				return rawJSONFieldItem, s[:i], s[i+2:]
			} else {
				return httpHeaderItem, s[:i], s[i+1:]
			}
		case '=':
			if i+1 < len(s) && s[i+1] == '=' {
				return queryParameterItem, s[:i], s[i+2:]
			} else {
				return dataFieldItem, s[:i], s[i+1:]
			}
		}
	}
	return unknownItem, "", ""
}

func isValidHeaderFieldName(s string) bool {
	return reHeaderFieldName.MatchString(s)
}

// resolveValue expands "@path" to the contents of a file and "@-" to stdin.
func resolveValue(name, value string, stdin io.Reader, state *state) (string, error) {
	if !strings.HasPrefix(value, "@") {
		return value, nil
	}
	if value[1:] == "-" {
		b, err := ioutil.ReadAll(stdin)
		if err != nil {
			return "", errors.Wrapf(err, "reading stdin for '%s'", name)
		}
		state.stdinConsumed = true
		return string(b), nil
	}
	data, err := ioutil.ReadFile(value[1:])
	if err != nil {
		return "", errors.Wrapf(err, "reading field value of '%s'", name)
	}
	return string(data), nil
}

func decodeJSON(data []byte) (interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var v interface{}
	if err := decoder.Decode(&v); err != nil {
		return nil, err
	}
	if decoder.More() {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

// parseStdinParameters reads parameters piped on stdin: a JSON object for
// the JSON style, a query string otherwise.
func parseStdinParameters(data []byte, style request.ParameterStyle) (request.Params, error) {
	params := request.Params{}
	if len(bytes.TrimSpace(data)) == 0 {
		return params, nil
	}

	if style == request.StyleBodyJSON {
		v, err := decodeJSON(data)
		if err != nil {
			return nil, errors.Wrap(err, "parsing stdin as JSON")
		}
		obj, ok := v.(map[string]interface{})
		if !ok {
			return nil, errors.New("JSON from stdin must be an object")
		}
		for k, v := range obj {
			params[k] = v
		}
		return params, nil
	}

	values, err := url.ParseQuery(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, errors.Wrap(err, "parsing stdin as query string")
	}
	for k, vs := range values {
		params[k] = vs[len(vs)-1]
	}
	return params, nil
}
