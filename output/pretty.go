package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/logrusorgru/aurora"
	"github.com/nojima/restreq/notify"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const indentWidth = 4

type PrettyPrinter struct {
	writer        io.Writer
	plain         Printer
	aurora        aurora.Aurora
	headerPalette *HeaderPalette
	jsonPalette   *JSONPalette
}

type PrettyPrinterConfig struct {
	Writer      io.Writer
	EnableColor bool
}

type HeaderPalette struct {
	Method         aurora.Color
	URL            aurora.Color
	Proto          aurora.Color
	Status         aurora.Color
	FieldName      aurora.Color
	FieldValue     aurora.Color
	FieldSeparator aurora.Color
}

var defaultHeaderPalette = HeaderPalette{
	Method:         aurora.GreenFg | aurora.BoldFm,
	URL:            aurora.CyanFg,
	Proto:          aurora.BlueFg,
	Status:         aurora.BrownFg | aurora.BoldFm,
	FieldName:      aurora.GrayFg,
	FieldValue:     aurora.CyanFg,
	FieldSeparator: aurora.GrayFg,
}

type JSONPalette struct {
	Name    aurora.Color
	String  aurora.Color
	Number  aurora.Color
	Boolean aurora.Color
	Null    aurora.Color
	Symbol  aurora.Color
}

var defaultJSONPalette = JSONPalette{
	Name:    aurora.BlueFg,
	String:  aurora.BrownFg,
	Number:  aurora.CyanFg,
	Boolean: aurora.CyanFg | aurora.BoldFm,
	Null:    aurora.RedFg | aurora.BoldFm,
	Symbol:  aurora.GrayFg,
}

func NewPrettyPrinter(config PrettyPrinterConfig) Printer {
	return &PrettyPrinter{
		writer:        config.Writer,
		plain:         NewPlainPrinter(config.Writer),
		aurora:        aurora.NewAurora(config.EnableColor),
		headerPalette: &defaultHeaderPalette,
		jsonPalette:   &defaultJSONPalette,
	}
}

func (p *PrettyPrinter) PrintStatusLine(proto string, status string, statusCode int) error {
	fmt.Fprintf(p.writer, "%s %s\n",
		p.aurora.Colorize(proto, p.headerPalette.Proto),
		p.aurora.Colorize(status, p.headerPalette.Status))
	return nil
}

func (p *PrettyPrinter) PrintRequestLine(req *http.Request) error {
	fmt.Fprintf(p.writer, "%s %s %s\n",
		p.aurora.Colorize(req.Method, p.headerPalette.Method),
		p.aurora.Colorize(req.URL.String(), p.headerPalette.URL),
		p.aurora.Colorize(req.Proto, p.headerPalette.Proto))
	return nil
}

func (p *PrettyPrinter) PrintHeader(header http.Header) error {
	for _, name := range sortedHeaderNames(header) {
		for _, value := range header[name] {
			fmt.Fprintf(p.writer, "%s%s %s\n",
				p.aurora.Colorize(name, p.headerPalette.FieldName),
				p.aurora.Colorize(":", p.headerPalette.FieldSeparator),
				p.aurora.Colorize(value, p.headerPalette.FieldValue))
		}
	}
	fmt.Fprintln(p.writer)
	return nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	}
	mediaType = strings.ToLower(mediaType)
	return mediaType == "application/json" ||
		(strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json"))
}

func (p *PrettyPrinter) PrintBody(body io.Reader, contentType string) error {
	data, err := ioutil.ReadAll(body)
	if err != nil {
		return errors.Wrap(err, "reading body")
	}

	// Fallback to PlainPrinter when the body is not JSON
	if !isJSON(contentType) || !gjson.ValidBytes(data) {
		return p.plain.PrintBody(bytes.NewReader(data), contentType)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := p.printJSONValue(decoder, 0); err != nil {
		return errors.Wrap(err, "formatting JSON body")
	}
	fmt.Fprintln(p.writer)
	return nil
}

func (p *PrettyPrinter) PrintEvent(event notify.Event) error {
	fmt.Fprintf(p.writer, "%s\n", p.aurora.Colorize(notify.Channel, p.headerPalette.Method))
	for _, key := range event.Keys() {
		fmt.Fprintf(p.writer, "  %s%s %s\n",
			p.aurora.Colorize(string(key), p.headerPalette.FieldName),
			p.aurora.Colorize(":", p.headerPalette.FieldSeparator),
			p.aurora.Colorize(describeObject(event.Get(key)), p.headerPalette.FieldValue))
	}
	return nil
}

func (p *PrettyPrinter) printJSONValue(decoder *json.Decoder, depth int) error {
	token, err := decoder.Token()
	if err != nil {
		return err
	}
	switch v := token.(type) {
	case json.Delim:
		switch v {
		case '{':
			return p.printJSONObject(decoder, depth)
		case '[':
			return p.printJSONArray(decoder, depth)
		default:
			return errors.Errorf("unexpected delimiter: %v", v)
		}
	case string:
		fmt.Fprint(p.writer, p.aurora.Colorize(quoteJSON(v), p.jsonPalette.String))
	case json.Number:
		fmt.Fprint(p.writer, p.aurora.Colorize(v.String(), p.jsonPalette.Number))
	case bool:
		fmt.Fprint(p.writer, p.aurora.Colorize(fmt.Sprintf("%t", v), p.jsonPalette.Boolean))
	case nil:
		fmt.Fprint(p.writer, p.aurora.Colorize("null", p.jsonPalette.Null))
	default:
		return errors.Errorf("unexpected token: %v", v)
	}
	return nil
}

func (p *PrettyPrinter) printJSONObject(decoder *json.Decoder, depth int) error {
	fmt.Fprint(p.writer, p.aurora.Colorize("{", p.jsonPalette.Symbol))
	empty := true
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return err
		}
		name, ok := token.(string)
		if !ok {
			return errors.Errorf("unexpected object key: %v", token)
		}
		if !empty {
			fmt.Fprint(p.writer, p.aurora.Colorize(",", p.jsonPalette.Symbol))
		}
		empty = false
		p.breakLine(depth + 1)
		fmt.Fprintf(p.writer, "%s%s ",
			p.aurora.Colorize(quoteJSON(name), p.jsonPalette.Name),
			p.aurora.Colorize(":", p.jsonPalette.Symbol))
		if err := p.printJSONValue(decoder, depth+1); err != nil {
			return err
		}
	}
	if _, err := decoder.Token(); err != nil {
		return err
	}
	if !empty {
		p.breakLine(depth)
	}
	fmt.Fprint(p.writer, p.aurora.Colorize("}", p.jsonPalette.Symbol))
	return nil
}

func (p *PrettyPrinter) printJSONArray(decoder *json.Decoder, depth int) error {
	fmt.Fprint(p.writer, p.aurora.Colorize("[", p.jsonPalette.Symbol))
	empty := true
	for decoder.More() {
		if !empty {
			fmt.Fprint(p.writer, p.aurora.Colorize(",", p.jsonPalette.Symbol))
		}
		empty = false
		p.breakLine(depth + 1)
		if err := p.printJSONValue(decoder, depth+1); err != nil {
			return err
		}
	}
	if _, err := decoder.Token(); err != nil {
		return err
	}
	if !empty {
		p.breakLine(depth)
	}
	fmt.Fprint(p.writer, p.aurora.Colorize("]", p.jsonPalette.Symbol))
	return nil
}

func (p *PrettyPrinter) breakLine(depth int) {
	fmt.Fprint(p.writer, "\n"+strings.Repeat(" ", depth*indentWidth))
}

// quoteJSON quotes s as a JSON string without escaping HTML characters or
// non-ASCII runes.
func quoteJSON(s string) string {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(s); err != nil || !utf8.Valid(buf.Bytes()) {
		return fmt.Sprintf("%q", s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
