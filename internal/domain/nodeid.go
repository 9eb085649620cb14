package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// NodeID identifies a node within a document. The editor emits integer ids
// in node records and string ids in map keys and connections, so both forms
// are accepted and the original form is kept for encoding.
type NodeID struct {
	raw     string
	numeric bool
}

// IntNodeID creates a numeric node id
func IntNodeID(n int) NodeID {
	return NodeID{raw: strconv.Itoa(n), numeric: true}
}

// StringNodeID creates a string node id
func StringNodeID(s string) NodeID {
	return NodeID{raw: s}
}

// String returns the id in the form used for map keys and connections
func (id NodeID) String() string {
	return id.raw
}

// IsZero reports whether the id is unset
func (id NodeID) IsZero() bool {
	return id.raw == ""
}

// IsNumeric reports whether the id was given as a number
func (id NodeID) IsNumeric() bool {
	return id.numeric
}

// MarshalJSON encodes numeric ids as numbers and the rest as strings
func (id NodeID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.raw), nil
	}
	return json.Marshal(id.raw)
}

// UnmarshalJSON accepts a JSON number or string
func (id *NodeID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("%w: node id is null", ErrMalformedDocument)
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StringNodeID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: node id must be a number or string", ErrMalformedDocument)
	}
	*id = NodeID{raw: n.String(), numeric: true}
	return nil
}
