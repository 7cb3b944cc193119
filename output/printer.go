package output

import (
	"io"
	"net/http"

	"github.com/nojima/restreq/notify"
)

type Printer interface {
	PrintStatusLine(proto string, status string, statusCode int) error
	PrintRequestLine(req *http.Request) error
	PrintHeader(header http.Header) error
	PrintBody(body io.Reader, contentType string) error
	PrintEvent(event notify.Event) error
}
