package flags

import (
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/nojima/restreq/config"
	"github.com/nojima/restreq/exchange"
	"github.com/nojima/restreq/input"
	"github.com/nojima/restreq/output"
	"github.com/nojima/restreq/request"
	"github.com/pborman/getopt"
	"github.com/pkg/errors"
)

var reNumber = regexp.MustCompile(`^[0-9.]+$`)

const requestIDHeader = "X-Request-ID"

type Usage interface {
	PrintUsage(w io.Writer)
}

// Origin identifies the entity a call is made for in notifications.
type Origin struct {
	Class     string
	RealmType string
	Realm     string
}

type OptionSet struct {
	InputOptions    input.Options
	ExchangeOptions exchange.Options
	OutputOptions   output.Options
	Origin          Origin

	// Header holds defaults from the config file and generated headers.
	// Request items override them.
	Header map[string]string

	Offline      bool
	Verbose      bool
	PrintVersion bool
	PrintLicense bool
}

type terminalInfo struct {
	stdinIsTerminal  bool
	stdoutIsTerminal bool
}

func Parse(args []string) ([]string, Usage, *OptionSet, error) {
	return parse(args, terminalInfo{
		stdinIsTerminal:  isatty.IsTerminal(os.Stdin.Fd()),
		stdoutIsTerminal: isatty.IsTerminal(os.Stdout.Fd()),
	})
}

func parse(args []string, terminal terminalInfo) ([]string, Usage, *OptionSet, error) {
	inputOptions := input.Options{}
	outputOptions := output.Options{}
	exchangeOptions := exchange.Options{}
	optionSet := &OptionSet{Header: map[string]string{}}
	var jsonFlag, formFlag, queryFlag bool
	var ignoreStdin bool
	var followRedirects bool
	var forceHTTP1 bool
	var requestID bool
	printFlag := "\000" // "\000" is a special value that indicates user did not specified --print
	timeout := ""
	verifyFlag := ""
	authFlag := ""
	configPath := ""

	flagSet := getopt.New()
	flagSet.SetProgram("rq")
	flagSet.SetParameters("[METHOD] BASE_URL [PATH] [REQUEST_ITEM [REQUEST_ITEM ...]]")
	flagSet.BoolVarLong(&jsonFlag, "json", 'j', "serialize parameters as a JSON object body")
	flagSet.BoolVarLong(&formFlag, "form", 'f', "serialize parameters as an application/x-www-form-urlencoded body")
	flagSet.BoolVarLong(&queryFlag, "query", 'q', "serialize parameters into the query string")
	flagSet.StringVarLong(&printFlag, "print", 'p', "specifies what the output should contain (HBhb)")
	flagSet.StringVarLong(&timeout, "timeout", 0, "Timeout seconds that you allow the whole operation to take")
	flagSet.BoolVarLong(&followRedirects, "follow", 'F', "follow 30x Location redirects")
	flagSet.StringVarLong(&verifyFlag, "verify", 0, "verify TLS certificates (yes|no)")
	flagSet.BoolVarLong(&forceHTTP1, "http1", 0, "force HTTP/1.1 protocol")
	flagSet.StringVarLong(&authFlag, "auth", 'a', "colon-separated username and password for basic authentication")
	flagSet.BoolVarLong(&optionSet.Offline, "offline", 0, "build and print the request without sending it")
	flagSet.BoolVarLong(&optionSet.Verbose, "verbose", 'v', "print the request and every notification event")
	flagSet.BoolVarLong(&requestID, "request-id", 0, "add an "+requestIDHeader+" header with a random UUID")
	flagSet.BoolVarLong(&outputOptions.Download, "download", 'd', "download the response body to a file")
	flagSet.StringVarLong(&outputOptions.OutputFile, "output", 'o', "file the downloaded body is saved to")
	flagSet.BoolVarLong(&outputOptions.Overwrite, "overwrite", 0, "overwrite an existing download file")
	flagSet.StringVarLong(&optionSet.Origin.Class, "class", 0, "class name reported in notifications")
	flagSet.StringVarLong(&optionSet.Origin.RealmType, "realm-type", 0, "backing store type reported in notifications")
	flagSet.StringVarLong(&optionSet.Origin.Realm, "realm", 0, "backing store identifier reported in notifications")
	flagSet.StringVarLong(&configPath, "config", 0, "path to a YAML config file")
	flagSet.BoolVarLong(&ignoreStdin, "ignore-stdin", 0, "do not attempt to read stdin")
	flagSet.BoolVarLong(&optionSet.PrintVersion, "version", 0, "print version and exit")
	flagSet.BoolVarLong(&optionSet.PrintLicense, "license", 0, "print license information and exit")
	if err := flagSet.Getopt(args, nil); err != nil {
		return nil, flagSet, nil, errors.Wrap(err, "parsing flags")
	}

	// Config file
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, flagSet, nil, err
	}
	for name, value := range cfg.Headers {
		optionSet.Header[name] = value
	}

	// Parameter style
	inputOptions.Style, err = parseStyleFlags(jsonFlag, formFlag, queryFlag)
	if err != nil {
		return nil, flagSet, nil, err
	}
	if inputOptions.Style == nil {
		inputOptions.Style = cfg.ParameterStyle()
	}

	// Check stdin
	if !ignoreStdin && !terminal.stdinIsTerminal {
		inputOptions.ReadStdin = true
	}

	// Parse --print
	if err := parsePrintFlag(printFlag, optionSet.Verbose, terminal.stdoutIsTerminal, &outputOptions); err != nil {
		return nil, flagSet, nil, err
	}

	// Parse --timeout
	if timeout == "" {
		timeout = cfg.Timeout
	}
	if timeout == "" {
		timeout = "30s"
	}
	d, err := parseDurationOrSeconds(timeout)
	if err != nil {
		return nil, flagSet, nil, err
	}
	exchangeOptions.Timeout = d

	// Parse --verify
	exchangeOptions.SkipVerify = cfg.SkipVerify()
	if verifyFlag != "" {
		skip, err := parseVerifyFlag(verifyFlag)
		if err != nil {
			return nil, flagSet, nil, err
		}
		exchangeOptions.SkipVerify = skip
	}

	// Parse --auth
	if authFlag != "" {
		auth, err := parseAuth(authFlag)
		if err != nil {
			return nil, flagSet, nil, err
		}
		exchangeOptions.Auth = auth
	}

	exchangeOptions.FollowRedirects = followRedirects || cfg.FollowRedirects()
	exchangeOptions.ForceHTTP1 = forceHTTP1

	if requestID {
		optionSet.Header[requestIDHeader] = uuid.New().String()
	}

	// Color
	outputOptions.EnableColor = terminal.stdoutIsTerminal

	optionSet.InputOptions = inputOptions
	optionSet.ExchangeOptions = exchangeOptions
	optionSet.OutputOptions = outputOptions
	return flagSet.Args(), flagSet, optionSet, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path, true)
	}
	return config.Load(config.DefaultPath(), false)
}

func parseStyleFlags(jsonFlag, formFlag, queryFlag bool) (request.ParameterStyle, error) {
	var style request.ParameterStyle
	count := 0
	if jsonFlag {
		style = request.StyleBodyJSON
		count++
	}
	if formFlag {
		style = request.StyleBodyForm
		count++
	}
	if queryFlag {
		style = request.StyleURL
		count++
	}
	if count > 1 {
		return nil, errors.New("You cannot specify more than one of --json, --form and --query")
	}
	return style, nil
}

func parsePrintFlag(printFlag string, verbose, stdoutIsTerminal bool, outputOptions *output.Options) error {
	if printFlag == "\000" {
		// --print is not specified
		if verbose {
			outputOptions.PrintRequestHeader = true
			outputOptions.PrintRequestBody = true
		}
		if stdoutIsTerminal {
			outputOptions.PrintResponseHeader = true
			outputOptions.PrintResponseBody = true
		} else {
			outputOptions.PrintResponseBody = true
		}
		return nil
	}
	for _, c := range printFlag {
		switch c {
		case 'H':
			outputOptions.PrintRequestHeader = true
		case 'B':
			outputOptions.PrintRequestBody = true
		case 'h':
			outputOptions.PrintResponseHeader = true
		case 'b':
			outputOptions.PrintResponseBody = true
		default:
			return errors.Errorf("Invalid char in --print value (must be consist of HBhb): %c", c)
		}
	}
	return nil
}

func parseDurationOrSeconds(timeout string) (time.Duration, error) {
	if reNumber.MatchString(timeout) {
		timeout += "s"
	}
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return time.Duration(0), errors.Errorf("Value of --timeout must be a number or duration string: %v", timeout)
	}
	return d, nil
}

func parseVerifyFlag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true":
		return false, nil
	case "no", "false":
		return true, nil
	default:
		return false, errors.Errorf("Value of --verify must be yes or no: %s", s)
	}
}

func parseAuth(s string) (exchange.AuthOptions, error) {
	i := strings.Index(s, ":")
	if i != -1 {
		return exchange.AuthOptions{Enabled: true, UserName: s[:i], Password: s[i+1:]}, nil
	}
	password, err := askPassword(s)
	if err != nil {
		return exchange.AuthOptions{}, err
	}
	return exchange.AuthOptions{Enabled: true, UserName: s, Password: password}, nil
}
