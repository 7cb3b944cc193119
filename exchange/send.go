package exchange

import (
	"net/http"

	"github.com/nojima/restreq/notify"
	"github.com/nojima/restreq/request"
	"github.com/pkg/errors"
)

// Call is a REST call together with the entity it was made for.
type Call struct {
	BaseURL    string
	Path       string
	Method     string
	Parameters request.Params
	Style      request.ParameterStyle
	Header     map[string]string

	// Class, RealmType and Realm identify the originating entity and its
	// backing store in notifications. All are optional.
	Class     string
	RealmType string
	Realm     string
}

func (c *Call) Build() (*request.Descriptor, error) {
	return request.Build(c.BaseURL, c.Path, c.Method, c.Parameters, c.Style, c.Header)
}

// Event describes the call on the notification bus; object is the response
// or the error the call ended with.
func (c *Call) Event(object interface{}) notify.Event {
	fields := notify.Fields{
		notify.BaseURLKey: c.BaseURL,
		notify.PathKey:    c.Path,
		notify.MethodKey:  c.Method,
	}
	if c.Class != "" {
		fields[notify.ClassKey] = c.Class
	}
	if c.RealmType != "" {
		fields[notify.RealmTypeKey] = c.RealmType
	}
	if c.Realm != "" {
		fields[notify.RealmKey] = c.Realm
	}
	if object != nil {
		fields[notify.ObjectKey] = object
	}
	return notify.NewEvent(fields)
}

// Send builds the call, executes it and reports the outcome on bus.
// The caller must close the body of the returned response.
func Send(call *Call, options *Options, bus *notify.Bus) (*http.Response, error) {
	d, err := call.Build()
	if err != nil {
		return nil, err
	}
	return Do(call, d, options, bus)
}

// Do executes an already built descriptor for call and reports the outcome
// on bus. A nil bus reports nothing.
func Do(call *Call, d *request.Descriptor, options *Options, bus *notify.Bus) (*http.Response, error) {
	client, err := BuildHTTPClient(options)
	if err != nil {
		return nil, err
	}
	r, err := BuildHTTPRequest(d, options)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(r)
	if err != nil {
		err = errors.Wrap(err, "sending HTTP request")
		bus.Notify(call.Event(err))
		return nil, err
	}

	bus.Notify(call.Event(resp))
	return resp, nil
}
