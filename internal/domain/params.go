package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// NodeParams are the arguments of a template node creation.
// Title, X and Y must be present; Content and Tooltip are optional.
type NodeParams struct {
	Title   *string  `json:"title" validate:"required"`
	X       *float64 `json:"x" validate:"required"`
	Y       *float64 `json:"y" validate:"required"`
	Content string   `json:"content,omitempty"`
	Tooltip string   `json:"tooltip,omitempty"`
}

// NewNodeParams creates params with all required fields set
func NewNodeParams(title string, x, y float64) NodeParams {
	return NodeParams{Title: &title, X: &x, Y: &y}
}

// WithContent sets the node body text
func (p NodeParams) WithContent(content string) NodeParams {
	p.Content = content
	return p
}

// WithTooltip sets the node header tooltip
func (p NodeParams) WithTooltip(tooltip string) NodeParams {
	p.Tooltip = tooltip
	return p
}

// Validate checks the required fields and returns an error wrapping ErrInvalidParams
func (p NodeParams) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidParams, formatValidationError(err))
	}
	return nil
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}
