package input

import "github.com/nojima/restreq/request"

type Options struct {
	// Style is the parameter style used when no flag overrides it.
	// Nil selects StyleBodyJSON when there are parameters or stdin is read,
	// and StyleURL otherwise.
	Style     request.ParameterStyle
	ReadStdin bool
}
