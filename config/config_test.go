package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/nojima/restreq/request"
)

func TestParse(t *testing.T) {
	// Setup
	data := []byte(`
style: form
timeout: 5s
follow: true
verify: false
headers:
  X-Api-Key: secret
  Accept: application/json
`)

	// Exercise
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	// Verify
	if c.ParameterStyle() != request.StyleBodyForm {
		t.Errorf("unexpected style: %v", c.ParameterStyle())
	}
	if c.Timeout != "5s" {
		t.Errorf("unexpected timeout: %s", c.Timeout)
	}
	if !c.FollowRedirects() || !c.SkipVerify() {
		t.Errorf("unexpected flags: follow=%v, skipVerify=%v", c.FollowRedirects(), c.SkipVerify())
	}
	expectedHeaders := map[string]string{"X-Api-Key": "secret", "Accept": "application/json"}
	if !reflect.DeepEqual(c.Headers, expectedHeaders) {
		t.Errorf("unexpected headers: expected=%v, actual=%v", expectedHeaders, c.Headers)
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		title string
		data  string
	}{
		{title: "Unknown style", data: "style: xml\n"},
		{title: "Malformed YAML", data: "headers: [\n"},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "restreq-test-")
	if err != nil {
		t.Fatalf("failed to create temporary directory: %v", err)
	}
	defer os.RemoveAll(dir)
	missing := filepath.Join(dir, "missing.yaml")

	c, err := Load(missing, false)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	if !reflect.DeepEqual(c, &Config{}) {
		t.Errorf("missing optional file should yield an empty config: %+v", c)
	}
	if c.ParameterStyle() != nil || c.FollowRedirects() || c.SkipVerify() {
		t.Errorf("empty config should not set anything")
	}

	if _, err := Load(missing, true); err == nil {
		t.Errorf("missing required file should be an error")
	}

	present := filepath.Join(dir, "config.yaml")
	if err := ioutil.WriteFile(present, []byte("style: query\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	c, err = Load(present, true)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	if c.ParameterStyle() != request.StyleURL {
		t.Errorf("unexpected style: %v", c.ParameterStyle())
	}
}
