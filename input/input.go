package input

import (
	"github.com/nojima/restreq/request"
)

// Input is a REST call described on the command line.
type Input struct {
	Method     string
	BaseURL    string
	Path       string
	Parameters request.Params
	Header     map[string]string
	Style      request.ParameterStyle
}
