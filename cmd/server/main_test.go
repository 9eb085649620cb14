package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flowdesk/internal/config"
)

const sampleFlow = `{"drawflow": {"Home": {"data": {
	"1": {"id": 1, "name": "start", "data": {}, "class": "", "html": "", "typenode": false,
	      "inputs": {}, "outputs": {"output_1": {"connections": [{"node": "2", "output": "input_1"}]}},
	      "pos_x": 10, "pos_y": 20},
	"2": {"id": 2, "name": "end", "data": {}, "class": "", "html": "", "typenode": false,
	      "inputs": {"input_1": {"connections": [{"node": "1", "input": "output_1"}]}}, "outputs": {},
	      "pos_x": 300, "pos_y": 20}
}}}}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestValidate(t *testing.T) {
	if _, err := execute(t, "validate", writeFile(t, "flow.json", sampleFlow)); err != nil {
		t.Fatalf("validate valid document: %v", err)
	}

	if _, err := execute(t, "validate", writeFile(t, "bad.json", `{"drawflow": {}}`)); err == nil {
		t.Error("expected error for document without Home")
	}

	if _, err := execute(t, "validate"); err == nil {
		t.Error("expected error without file argument")
	}
}

func TestConvert(t *testing.T) {
	path := writeFile(t, "flow.json", sampleFlow)

	tests := []struct {
		to   string
		want string
	}{
		{"yaml", "drawflow:"},
		{"dot", "digraph"},
		{"json", `"drawflow"`},
	}

	for _, tt := range tests {
		t.Run(tt.to, func(t *testing.T) {
			out, err := execute(t, "convert", path, "--to", tt.to)
			if err != nil {
				t.Fatalf("convert: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestConvertToFile(t *testing.T) {
	path := writeFile(t, "flow.json", sampleFlow)
	dest := filepath.Join(t.TempDir(), "flow.yaml")

	if _, err := execute(t, "convert", path, "--to", "yaml", "-o", dest); err != nil {
		t.Fatalf("convert: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Home:") {
		t.Errorf("unexpected yaml output:\n%s", data)
	}
}

func TestConvertUnknownFormat(t *testing.T) {
	path := writeFile(t, "flow.json", sampleFlow)
	if _, err := execute(t, "convert", path, "--to", "png"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestServeFlagsOverrideConfig(t *testing.T) {
	cmd := newServeCmd(&rootFlags{})
	if err := cmd.ParseFlags([]string{"--addr", ":9999", "--watch", "--document", "flow.yaml"}); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	opts := &serveOptions{addr: ":9999", watch: true, document: "flow.yaml"}
	opts.apply(cmd, cfg)

	if cfg.Server.Addr != ":9999" {
		t.Errorf("addr = %q, want :9999", cfg.Server.Addr)
	}
	if !cfg.Editor.Watch {
		t.Error("watch should be enabled")
	}
	if cfg.Editor.InitialDocument != "flow.yaml" {
		t.Errorf("document = %q, want flow.yaml", cfg.Editor.InitialDocument)
	}
	if cfg.Database.Path != config.DefaultDatabasePath {
		t.Errorf("db path changed without flag: %q", cfg.Database.Path)
	}
}
