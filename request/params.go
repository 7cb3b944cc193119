package request

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Params holds request parameters keyed by name.
// Values are strings, booleans, numbers or anything of those kinds, plus
// nested mappings and lists for JSON bodies.
type Params map[string]interface{}

func (p Params) sortedKeys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// encodePairs serializes flat parameters as key=value pairs joined by '&'.
// Nested values are rejected since neither the query string nor a form body
// has a single agreed encoding for them.
func (p Params) encodePairs() (string, error) {
	var b strings.Builder
	for _, key := range p.sortedKeys() {
		value, err := scalarString(key, p[key])
		if err != nil {
			return "", err
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escape(key))
		b.WriteByte('=')
		b.WriteString(escape(value))
	}
	return b.String(), nil
}

// escape percent-encodes s for use in a query string or form body.
// Spaces become %20 rather than '+'.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func scalarString(key string, value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case fmt.Stringer:
		if isNil(v) {
			return "", newUnsupportedParameterTypeError(key, value)
		}
		return v.String(), nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return scalarString(key, rv.Elem().Interface())
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	default:
		return "", newUnsupportedParameterTypeError(key, value)
	}
}

// jsonValue converts a parameter value into something encoding/json can
// marshal without surprises, descending into nested mappings and lists.
// Nil pointers become null.
func jsonValue(key string, value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return v, nil
	case Params:
		return jsonObject(key, v)
	case map[string]interface{}:
		return jsonObject(key, v)
	case fmt.Stringer:
		if isNil(v) {
			return nil, nil
		}
		return v.String(), nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return nil, nil
		}
		return jsonValue(key, rv.Elem().Interface())
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, newUnsupportedParameterTypeError(key, value)
		}
		if rv.Kind() == reflect.Float32 {
			return float32(f), nil
		}
		return f, nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		list := make([]interface{}, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			converted, err := jsonValue(fmt.Sprintf("%s[%d]", key, i), rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			list = append(list, converted)
		}
		return list, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, newUnsupportedParameterTypeError(key, value)
		}
		if rv.IsNil() {
			return nil, nil
		}
		m := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return jsonObject(key, m)
	default:
		return nil, newUnsupportedParameterTypeError(key, value)
	}
}

// isNil reports whether v holds a nil pointer, map, slice, func or channel.
func isNil(v interface{}) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

func jsonObject(prefix string, m map[string]interface{}) (map[string]interface{}, error) {
	obj := make(map[string]interface{}, len(m))
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		converted, err := jsonValue(key, v)
		if err != nil {
			return nil, err
		}
		obj[k] = converted
	}
	return obj, nil
}

func marshalJSON(p Params) ([]byte, error) {
	obj, err := jsonObject("", p)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(obj)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling JSON of HTTP body")
	}
	return body, nil
}
