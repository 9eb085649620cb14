package codec

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flowdesk/internal/domain"
)

const sampleDocument = `{"drawflow": {"Home": {"data": {
  "1": {"id": 1, "name": "Start", "data": {"templateId": "basic_start", "title": "Kickoff", "tooltip": "begin"},
        "class": "drawflow-node start-node", "html": "", "typenode": false, "inputs": {},
        "outputs": {"output_1": {"connections": [{"node": "2", "output": "input_1"}]}}, "pos_x": 50, "pos_y": 50},
  "2": {"id": 2, "name": "End", "data": {"templateId": "basic_end", "title": "Done"},
        "class": "drawflow-node end-node", "html": "", "typenode": false,
        "inputs": {"input_1": {"connections": [{"node": "1", "input": "output_1"}]}},
        "outputs": {}, "pos_x": 320.25, "pos_y": 50}
}}}}`

func parseSample(t *testing.T) *domain.Document {
	t.Helper()
	doc, err := NewJSONCodec().Parse(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatalf("parse sample: %v", err)
	}
	return doc
}

func TestJSONCodecRoundTrip(t *testing.T) {
	codec := NewJSONCodec()
	doc := parseSample(t)

	var buf bytes.Buffer
	if err := codec.Export(doc, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"drawflow\": {") {
		t.Errorf("expected two-space indentation, got:\n%s", buf.String())
	}

	again, err := codec.Parse(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !doc.Equal(again) {
		t.Error("JSON round trip changed the document")
	}
}

func TestJSONCodecRejectsMalformed(t *testing.T) {
	_, err := NewJSONCodec().Parse(strings.NewReader(`{"drawflow": {}}`))
	if !errors.Is(err, domain.ErrMalformedDocument) {
		t.Errorf("expected ErrMalformedDocument, got %v", err)
	}
}

func TestPretty(t *testing.T) {
	out, err := Pretty(domain.NewDocument())
	if err != nil {
		t.Fatalf("pretty: %v", err)
	}
	want := "{\n  \"drawflow\": {\n    \"Home\": {\n      \"data\": {}\n    }\n  }\n}"
	if out != want {
		t.Errorf("Pretty =\n%s\nwant\n%s", out, want)
	}
}

func TestYAMLCodecRoundTrip(t *testing.T) {
	codec := NewYAMLCodec()
	doc := parseSample(t)

	var buf bytes.Buffer
	if err := codec.Export(doc, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(buf.String(), "drawflow:") {
		t.Errorf("expected drawflow key, got:\n%s", buf.String())
	}

	again, err := codec.Parse(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !doc.Equal(again) {
		t.Errorf("YAML round trip changed the document:\n%s", buf.String())
	}
}

func TestYAMLCodecUnquotedKeys(t *testing.T) {
	input := `
drawflow:
  Home:
    data:
      1:
        id: 1
        name: Solo
        inputs: {}
        outputs: {}
        pos_x: 10
        pos_y: 20
`
	doc, err := NewYAMLCodec().Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	node := doc.Module(domain.DefaultModule).Data["1"]
	if node == nil || node.Name != "Solo" || node.PosY != 20 {
		t.Errorf("unexpected node: %+v", node)
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(parseSample(t))

	for _, want := range []string{
		"rankdir=LR;",
		`label="Home";`,
		`"1" [label="Kickoff", fillcolor="#eef2ff", color="#4f46e5", tooltip="begin"];`,
		`"2" [label="Done"`,
		`"1" -> "2" [taillabel="output_1", headlabel="input_1"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("expected DOT to contain %q, got:\n%s", want, dot)
		}
	}
}

func TestToDOTSkipsEmptyModules(t *testing.T) {
	dot := ToDOT(domain.NewDocument())
	if strings.Contains(dot, "subgraph") {
		t.Errorf("expected no clusters for an empty document, got:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}

	svg, err := RenderSVG(context.Background(), ToDOT(parseSample(t)))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("expected SVG output")
	}
}

func TestCodecLookup(t *testing.T) {
	for _, format := range []string{"json", "yaml", "dot", "svg"} {
		exp, err := ExporterFor(format)
		if err != nil {
			t.Errorf("ExporterFor(%s): %v", format, err)
			continue
		}
		if exp.Format() != format {
			t.Errorf("ExporterFor(%s).Format() = %s", format, exp.Format())
		}
	}

	if _, err := ImporterFor("dot"); err == nil {
		t.Error("expected DOT import to be unsupported")
	}
	if _, err := ExporterFor("xml"); err == nil {
		t.Error("expected xml export to be unsupported")
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "flow.json")
	if err := os.WriteFile(jsonPath, []byte(sampleDocument), 0o644); err != nil {
		t.Fatal(err)
	}

	var yamlOut bytes.Buffer
	if err := NewYAMLCodec().Export(parseSample(t), &yamlOut); err != nil {
		t.Fatal(err)
	}
	yamlPath := filepath.Join(dir, "flow.YAML")
	if err := os.WriteFile(yamlPath, yamlOut.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{jsonPath, yamlPath} {
		doc, err := ParseFile(path)
		if err != nil {
			t.Fatalf("ParseFile(%s): %v", path, err)
		}
		if !doc.Equal(parseSample(t)) {
			t.Errorf("ParseFile(%s) document differs from sample", path)
		}
	}

	if _, err := ParseFile(filepath.Join(dir, "flow.dot")); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := ParseFile(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}
