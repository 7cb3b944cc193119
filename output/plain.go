package output

import (
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"sort"
	"unicode/utf8"

	"code.cloudfoundry.org/bytefmt"
	"github.com/nojima/restreq/notify"
	"github.com/pkg/errors"
)

type PlainPrinter struct {
	writer io.Writer
}

func NewPlainPrinter(writer io.Writer) Printer {
	return &PlainPrinter{
		writer: writer,
	}
}

func (p *PlainPrinter) PrintStatusLine(proto string, status string, statusCode int) error {
	fmt.Fprintf(p.writer, "%s %s\n", proto, status)
	return nil
}

func (p *PlainPrinter) PrintRequestLine(req *http.Request) error {
	fmt.Fprintf(p.writer, "%s %s %s\n", req.Method, req.URL, req.Proto)
	return nil
}

func (p *PlainPrinter) PrintHeader(header http.Header) error {
	for _, name := range sortedHeaderNames(header) {
		for _, value := range header[name] {
			fmt.Fprintf(p.writer, "%s: %s\n", name, value)
		}
	}
	fmt.Fprintln(p.writer)
	return nil
}

func (p *PlainPrinter) PrintBody(body io.Reader, contentType string) error {
	data, err := ioutil.ReadAll(body)
	if err != nil {
		return errors.Wrap(err, "reading body")
	}
	if !utf8.Valid(data) {
		fmt.Fprintln(p.writer, binaryNote(len(data)))
		return nil
	}
	if _, err := p.writer.Write(data); err != nil {
		return errors.Wrap(err, "printing body")
	}
	return nil
}

func (p *PlainPrinter) PrintEvent(event notify.Event) error {
	fmt.Fprintf(p.writer, "%s\n", notify.Channel)
	for _, key := range event.Keys() {
		fmt.Fprintf(p.writer, "  %s: %s\n", key, describeObject(event.Get(key)))
	}
	return nil
}

func sortedHeaderNames(header http.Header) []string {
	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func binaryNote(size int) string {
	return fmt.Sprintf("+-----------------------------------------+\n"+
		"| NOTE: binary data not shown in terminal |\n"+
		"+-----------------------------------------+ (%s)", bytefmt.ByteSize(uint64(size)))
}

// describeObject renders an event field for humans.
func describeObject(v interface{}) string {
	switch o := v.(type) {
	case *http.Response:
		return fmt.Sprintf("%s %s", o.Proto, o.Status)
	case error:
		return o.Error()
	default:
		return fmt.Sprintf("%v", o)
	}
}
