package domain

import "encoding/json"

// Port is a named connection point. Its direction comes from whether it sits
// in a node's inputs or outputs map.
type Port struct {
	Connections []Connection
}

type portWire struct {
	Connections []Connection `json:"connections"`
}

// MarshalJSON always emits a connections array, never null
func (p Port) MarshalJSON() ([]byte, error) {
	conns := p.Connections
	if conns == nil {
		conns = []Connection{}
	}
	return json.Marshal(portWire{Connections: conns})
}

// UnmarshalJSON decodes a port
func (p *Port) UnmarshalJSON(data []byte) error {
	var w portWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.Connections = w.Connections
	return nil
}

// Connection references the node on the other end of a port.
//
// On an output port, Output names the input port of the target node.
// On an input port, Input names the output port of the source node.
type Connection struct {
	Node   string  `json:"node"`
	Output string  `json:"output,omitempty"`
	Input  string  `json:"input,omitempty"`
	Points []Point `json:"points,omitempty"`
}
