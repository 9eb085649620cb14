package domain

import (
	"encoding/json"
	"testing"
)

func TestNodeIDJSON(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		numeric bool
	}{
		{`1`, "1", true},
		{`42`, "42", true},
		{`"7"`, "7", false},
		{`"node-a"`, "node-a", false},
	}

	for _, tt := range tests {
		var id NodeID
		if err := json.Unmarshal([]byte(tt.input), &id); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.input, err)
		}
		if id.String() != tt.want || id.IsNumeric() != tt.numeric {
			t.Errorf("NodeID(%s) = %q numeric=%v, want %q numeric=%v", tt.input, id, id.IsNumeric(), tt.want, tt.numeric)
		}

		out, err := json.Marshal(id)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(out) != tt.input {
			t.Errorf("marshal = %s, want %s", out, tt.input)
		}
	}

	t.Run("rejects null and bool", func(t *testing.T) {
		for _, input := range []string{`null`, `true`} {
			var id NodeID
			if err := json.Unmarshal([]byte(input), &id); err == nil {
				t.Errorf("expected error for %s", input)
			}
		}
	})
}

func TestRenderKindJSON(t *testing.T) {
	tests := []struct {
		input string
		want  RenderKind
		out   string
	}{
		{`false`, RenderMarkup, `false`},
		{`true`, RenderComponent, `true`},
		{`"vue"`, RenderComponent, `true`},
		{`""`, RenderMarkup, `false`},
	}

	for _, tt := range tests {
		var k RenderKind
		if err := json.Unmarshal([]byte(tt.input), &k); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.input, err)
		}
		if k != tt.want {
			t.Errorf("RenderKind(%s) = %s, want %s", tt.input, k, tt.want)
		}
		out, _ := json.Marshal(k)
		if string(out) != tt.out {
			t.Errorf("marshal = %s, want %s", out, tt.out)
		}
	}
}

func TestNodeMarshalDefaults(t *testing.T) {
	node := Node{ID: IntNodeID(3), Name: "Bare"}

	data, err := json.Marshal(node)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"data", "inputs", "outputs"} {
		if _, ok := raw[key].(map[string]any); !ok {
			t.Errorf("expected %s to be an object, got %v", key, raw[key])
		}
	}
	if raw["typenode"] != false {
		t.Errorf("expected typenode false, got %v", raw["typenode"])
	}
}

func TestPortMarshalsEmptyConnections(t *testing.T) {
	data, err := json.Marshal(Port{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"connections":[]}` {
		t.Errorf("got %s", data)
	}
}
