package domain

import (
	"errors"
	"strings"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func TestNodeParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  NodeParams
		wantErr string
	}{
		{
			name:   "all required fields",
			params: NewNodeParams("My Node", 50, 50),
		},
		{
			name:   "empty title is present",
			params: NewNodeParams("", 0, 0),
		},
		{
			name:    "missing title",
			params:  NodeParams{X: ptr(1.0), Y: ptr(2.0)},
			wantErr: "title is required",
		},
		{
			name:    "missing x",
			params:  NodeParams{Title: ptr("t"), Y: ptr(2.0)},
			wantErr: "x is required",
		},
		{
			name:    "missing y",
			params:  NodeParams{Title: ptr("t"), X: ptr(1.0)},
			wantErr: "y is required",
		},
		{
			name:    "missing everything",
			params:  NodeParams{Content: "only content"},
			wantErr: "title is required; x is required; y is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidParams) {
				t.Fatalf("expected ErrInvalidParams, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected %q in %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestNodeParamsBuilders(t *testing.T) {
	p := NewNodeParams("My Node", 50, 60).WithContent("Node details...").WithTooltip("More info here")

	if *p.Title != "My Node" || *p.X != 50 || *p.Y != 60 {
		t.Errorf("unexpected required fields: %+v", p)
	}
	if p.Content != "Node details..." || p.Tooltip != "More info here" {
		t.Errorf("unexpected optional fields: %+v", p)
	}
}
