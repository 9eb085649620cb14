package domain

import (
	"slices"
	"testing"
)

func TestDisplayNameResolutionIsTotal(t *testing.T) {
	known := []TemplateID{
		TemplateBasicStart,
		TemplateBasicIntermediate,
		TemplateBasicEnd,
		TemplateDetailedIntermediate,
	}

	names := DisplayNames()
	if len(names) != len(known) {
		t.Fatalf("expected %d display names, got %d", len(known), len(names))
	}

	for _, name := range names {
		tpl, ok := TemplateByDisplayName(name)
		if !ok {
			t.Errorf("display name %q does not resolve", name)
			continue
		}
		if !slices.Contains(known, tpl.ID) {
			t.Errorf("display name %q resolves to unknown id %q", name, tpl.ID)
		}
		if tpl.ID.DisplayName() != name {
			t.Errorf("id %q maps back to %q, want %q", tpl.ID, tpl.ID.DisplayName(), name)
		}
	}
}

func TestDisplayNamesSorted(t *testing.T) {
	names := DisplayNames()
	if !slices.IsSorted(names) {
		t.Errorf("expected sorted names, got %v", names)
	}
	if !slices.Contains(names, DefaultTemplate.DisplayName()) {
		t.Errorf("default template %q missing from selector", DefaultTemplate.DisplayName())
	}
}

func TestTemplateNodeClass(t *testing.T) {
	tests := []struct {
		id   TemplateID
		want string
	}{
		{TemplateBasicStart, "drawflow-node start-node"},
		{TemplateBasicIntermediate, "drawflow-node intermediate-node"},
		{TemplateBasicEnd, "drawflow-node end-node"},
		{TemplateDetailedIntermediate, "drawflow-node intermediate-node"},
	}

	for _, tt := range tests {
		tpl, ok := TemplateByID(tt.id)
		if !ok {
			t.Fatalf("template %s missing", tt.id)
		}
		if tpl.Class != tt.want || tpl.NodeClass() != tt.want {
			t.Errorf("%s class = %q, want %q", tt.id, tpl.Class, tt.want)
		}
	}
}

func TestTemplateIDValid(t *testing.T) {
	if !TemplateBasicEnd.Valid() {
		t.Error("expected basic_end to be valid")
	}
	if TemplateID("fancy").Valid() {
		t.Error("expected unknown id to be invalid")
	}
	if _, ok := TemplateByDisplayName("Fancy Node"); ok {
		t.Error("expected unknown display name to fail")
	}
}

func TestTemplatesReturnsCopy(t *testing.T) {
	tpls := Templates()
	tpls[0].DisplayName = "Changed"

	if Templates()[0].DisplayName == "Changed" {
		t.Error("expected Templates to return a copy")
	}
}
