package bridge

import "strconv"

// LayoutOptions configures the widget's layered auto-layout
type LayoutOptions struct {
	Algorithm       string  `json:"algorithm"`
	Direction       string  `json:"direction"`
	NodeSpacing     int     `json:"nodeSpacing"`
	PortSpacing     int     `json:"portSpacing"`
	EdgeNodeSpacing int     `json:"edgeNodeSpacing"`
	LayerSpacing    int     `json:"layerSpacing"`
	NodePlacement   string  `json:"nodePlacement"`
	Padding         int     `json:"padding"`
	EdgeRouting     string  `json:"edgeRouting"`
	OffsetX         float64 `json:"offsetX"`
	OffsetY         float64 `json:"offsetY"`
}

// DefaultLayoutOptions lays flows out left to right with orthogonal edges
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		Algorithm:       "layered",
		Direction:       "RIGHT",
		NodeSpacing:     70,
		PortSpacing:     10,
		EdgeNodeSpacing: 40,
		LayerSpacing:    100,
		NodePlacement:   "SIMPLE",
		Padding:         20,
		EdgeRouting:     "ORTHOGONAL",
		OffsetX:         50,
		OffsetY:         50,
	}
}

// ELK returns the options as layout engine properties
func (o LayoutOptions) ELK() map[string]string {
	pad := strconv.Itoa(o.Padding)
	return map[string]string{
		"elk.algorithm":                             o.Algorithm,
		"elk.direction":                             o.Direction,
		"elk.spacing.nodeNode":                      strconv.Itoa(o.NodeSpacing),
		"elk.spacing.portPort":                      strconv.Itoa(o.PortSpacing),
		"elk.spacing.edgeNode":                      strconv.Itoa(o.EdgeNodeSpacing),
		"elk.layered.spacing.nodeNodeBetweenLayers": strconv.Itoa(o.LayerSpacing),
		"elk.layered.nodePlacement.strategy":        o.NodePlacement,
		"elk.padding":                               "[top=" + pad + ",left=" + pad + ",bottom=" + pad + ",right=" + pad + "]",
		"elk.edgeRouting":                           o.EdgeRouting,
	}
}

// LayoutRequest is the argument of the widget's autoLayoutNodes method
type LayoutRequest struct {
	LayoutOptions map[string]string `json:"layoutOptions"`
	OffsetX       float64           `json:"offsetX"`
	OffsetY       float64           `json:"offsetY"`
}

// Request builds the widget-side layout request
func (o LayoutOptions) Request() LayoutRequest {
	return LayoutRequest{
		LayoutOptions: o.ELK(),
		OffsetX:       o.OffsetX,
		OffsetY:       o.OffsetY,
	}
}
