package restreq

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/nojima/restreq/exchange"
	"github.com/nojima/restreq/flags"
	"github.com/nojima/restreq/input"
	"github.com/nojima/restreq/notify"
	"github.com/nojima/restreq/output"
	"github.com/nojima/restreq/version"
	"github.com/pkg/errors"
)

func Main() error {
	// Parse flags
	args, usage, optionSet, err := flags.Parse(os.Args)
	if err != nil {
		return err
	}
	if optionSet.PrintVersion {
		fmt.Printf("rq %s\n", version.Current())
		return nil
	}
	if optionSet.PrintLicense {
		version.PrintLicenses(os.Stdout)
		return nil
	}

	// Parse positional arguments
	in, err := input.ParseArgs(args, os.Stdin, &optionSet.InputOptions)
	if _, ok := errors.Cause(err).(*input.UsageError); ok {
		usage.PrintUsage(os.Stderr)
		return err
	}
	if err != nil {
		return err
	}

	call := newCall(in, optionSet)
	bus := notify.NewBus(os.Stderr)
	if optionSet.Verbose {
		bus.Subscribe(newEventLogger(os.Stderr))
	}

	return run(call, bus, optionSet, os.Stdout)
}

func newCall(in *input.Input, optionSet *flags.OptionSet) *exchange.Call {
	header := map[string]string{}
	for name, value := range optionSet.Header {
		header[name] = value
	}
	for name, value := range in.Header {
		header[name] = value
	}
	return &exchange.Call{
		BaseURL:    in.BaseURL,
		Path:       in.Path,
		Method:     in.Method,
		Parameters: in.Parameters,
		Style:      in.Style,
		Header:     header,
		Class:      optionSet.Origin.Class,
		RealmType:  optionSet.Origin.RealmType,
		Realm:      optionSet.Origin.Realm,
	}
}

// newEventLogger returns a listener that prints every notification to w.
func newEventLogger(w io.Writer) notify.Listener {
	printer := output.NewPrettyPrinter(output.PrettyPrinterConfig{
		Writer:      w,
		EnableColor: isatty.IsTerminal(os.Stderr.Fd()),
	})
	return func(event notify.Event) {
		printer.PrintEvent(event)
	}
}

func run(call *exchange.Call, bus *notify.Bus, optionSet *flags.OptionSet, stdout io.Writer) error {
	d, err := call.Build()
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(stdout)
	defer writer.Flush()
	printer := output.NewPrettyPrinter(output.PrettyPrinterConfig{
		Writer:      writer,
		EnableColor: optionSet.OutputOptions.EnableColor,
	})
	outputOptions := &optionSet.OutputOptions

	// Print request
	if outputOptions.PrintRequestHeader || outputOptions.PrintRequestBody || optionSet.Offline {
		r, err := exchange.BuildHTTPRequest(d, &optionSet.ExchangeOptions)
		if err != nil {
			return err
		}
		if err := printRequest(printer, writer, r, optionSet); err != nil {
			return err
		}
		writer.Flush()
	}
	if optionSet.Offline {
		return nil
	}

	// Send request and receive response
	resp, err := exchange.Do(call, d, &optionSet.ExchangeOptions, bus)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Print response
	if outputOptions.PrintResponseHeader {
		if err := printer.PrintStatusLine(resp.Proto, resp.Status, resp.StatusCode); err != nil {
			return err
		}
		if err := printer.PrintHeader(resp.Header); err != nil {
			return err
		}
		writer.Flush()
	}
	if outputOptions.Download {
		fileWriter := output.NewFileWriter(resp.Request.URL, outputOptions)
		return fileWriter.Download(resp, os.Stderr)
	}
	if outputOptions.PrintResponseBody {
		if err := printer.PrintBody(resp.Body, resp.Header.Get("Content-Type")); err != nil {
			return err
		}
	}
	return nil
}

func printRequest(printer output.Printer, w io.Writer, r *http.Request, optionSet *flags.OptionSet) error {
	// Offline mode shows the full request unless --print narrows it.
	printHeader := optionSet.OutputOptions.PrintRequestHeader
	printBody := optionSet.OutputOptions.PrintRequestBody
	if optionSet.Offline && !printHeader && !printBody {
		printHeader = true
		printBody = true
	}

	if printHeader {
		if err := printer.PrintRequestLine(r); err != nil {
			return err
		}
		if err := printer.PrintHeader(requestHeader(r)); err != nil {
			return err
		}
	}
	if printBody && r.GetBody != nil {
		body, err := r.GetBody()
		if err != nil {
			return errors.Wrap(err, "reading request body")
		}
		defer body.Close()
		if err := printer.PrintBody(body, r.Header.Get("Content-Type")); err != nil {
			return err
		}
		if _, err := fmt.Fprint(w, "\n\n"); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// requestHeader returns the header as it goes on the wire, Host included.
// A Host given by the caller is already part of r.Header.
func requestHeader(r *http.Request) http.Header {
	header := r.Header.Clone()
	if r.Host == "" {
		header["Host"] = []string{r.URL.Host}
	}
	return header
}
