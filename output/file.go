package output

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"code.cloudfoundry.org/bytefmt"
	"github.com/pkg/errors"
)

var reIndexSuffix = regexp.MustCompile(`\.(\d+)$`)

type FileWriter struct {
	fullPath string
}

func NewFileWriter(u *url.URL, options *Options) *FileWriter {
	var fullPath string

	if options.OutputFile == "" {
		name := path.Base(u.Path)
		if name == "/" || name == "." || name == "" {
			name = "index"
		}
		fullPath = filepath.Join(".", name)
	} else {
		fullPath = options.OutputFile
	}

	if !options.Overwrite {
		fullPath = makeNonOverlappingFilename(fullPath)
	}

	return &FileWriter{
		fullPath: fullPath,
	}
}

func makeNonOverlappingFilename(name string) string {
	for {
		if _, err := os.Stat(name); err != nil {
			return name
		}
		newName := reIndexSuffix.ReplaceAllStringFunc(name, func(index string) string {
			i, _ := strconv.Atoi(strings.TrimPrefix(index, "."))
			return fmt.Sprintf(".%d", i+1)
		})
		if newName == name {
			newName = fmt.Sprintf("%s.%d", name, 1)
		}
		name = newName
	}
}

// Download writes the response body to the file, reporting progress on
// progress when the response announces its length.
func (f *FileWriter) Download(resp *http.Response, progress io.Writer) error {
	file, err := os.Create(f.fullPath)
	if err != nil {
		return errors.Wrapf(err, "creating %s", f.fullPath)
	}
	defer file.Close()

	contentLength := resp.ContentLength
	if contentLength <= 0 || progress == nil {
		if _, err := io.Copy(file, resp.Body); err != nil {
			return errors.Wrap(err, "downloading response body")
		}
		return nil
	}

	buf := make([]byte, 32*1024)
	var totalRead int64
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := file.Write(buf[:n]); err != nil {
				return errors.Wrapf(err, "writing %s", f.fullPath)
			}
			totalRead += int64(n)
			fmt.Fprintf(progress, "\rDownloading %s / %s (%d%%)",
				bytefmt.ByteSize(uint64(totalRead)),
				bytefmt.ByteSize(uint64(contentLength)),
				totalRead*100/contentLength)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return errors.Wrap(readErr, "downloading response body")
		}
	}

	fmt.Fprintf(progress, "\nDone. %s saved to %s\n", bytefmt.ByteSize(uint64(totalRead)), f.fullPath)
	return nil
}

func (f *FileWriter) Filename() string {
	return filepath.Base(f.fullPath)
}
