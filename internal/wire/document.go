package wire

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// LogicDocument is the decoded form of a device's logic configuration.
//
// The JSON keys are the compact names the provisioning backend emits:
//
//	{"data":{"n":[...nodes],"r":[...relationships]}}
type LogicDocument struct {
	Data *LogicData `json:"data" validate:"required"`
}

// LogicData holds the node and relationship lists of a configuration.
type LogicData struct {
	Nodes         []NodeSpec         `json:"n" validate:"dive"`
	Relationships []RelationshipSpec `json:"r" validate:"dive"`
}

// NodeSpec describes one node: its operator selector (aId), a free-text kind
// label, and its input/output connectors.
type NodeSpec struct {
	ID          int          `json:"id" validate:"required"`
	AvailableID int          `json:"aId"`
	Kind        string       `json:"k"`
	Inputs      []InputSpec  `json:"i" validate:"dive"`
	Outputs     []OutputSpec `json:"o" validate:"dive"`
}

// InputSpec describes an input connector. Default, when present and
// non-null, is the literal the connector starts out with; otherwise the
// connector holds the Absent sentinel until an upstream output fills it.
type InputSpec struct {
	ID       int     `json:"id" validate:"required"`
	DataType string  `json:"dt"`
	Default  *string `json:"d"`
}

// OutputSpec describes an output connector. DeviceID tags the external
// source a value-source node copies from; it has no meaning for other kinds.
type OutputSpec struct {
	ID       int    `json:"id" validate:"required"`
	DataType string `json:"dt"`
	DeviceID int    `json:"dId"`
	ConfigID int    `json:"cId"`
}

// RelationshipSpec wires a producing output connector (O) to a consuming
// input connector (I).
type RelationshipSpec struct {
	ID       int `json:"id"`
	InputID  int `json:"i" validate:"required"`
	OutputID int `json:"o" validate:"required"`
	ConfigID int `json:"c"`
}

// ValueUpdate is the decoded form of a sensor reading batch:
//
//	{"sensorArray":[{"deviceId":101,"value":true}, ...]}
type ValueUpdate struct {
	Readings []Reading `json:"sensorArray" validate:"required,dive"`
}

// Reading is one externally supplied value, already normalized to a tagged
// Value. Booleans, numbers and strings are accepted on the wire; anything
// else fails the decode.
type Reading struct {
	SourceID int
	Value    Value
}

// UnmarshalJSON decodes a reading, tagging the value by its JSON type.
func (r *Reading) UnmarshalJSON(data []byte) error {
	var raw struct {
		DeviceID int             `json:"deviceId"`
		Value    json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.SourceID = raw.DeviceID

	if len(raw.Value) == 0 {
		return fmt.Errorf("reading for source %d: missing value", raw.DeviceID)
	}
	switch raw.Value[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return err
		}
		r.Value = Text(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw.Value, &b); err != nil {
			return err
		}
		r.Value = Boolean(b)
	case 'n', '[', '{':
		return fmt.Errorf("reading for source %d: value must be a boolean, number, or string", raw.DeviceID)
	default:
		f, err := strconv.ParseFloat(string(raw.Value), 64)
		if err != nil {
			return fmt.Errorf("reading for source %d: %w", raw.DeviceID, err)
		}
		r.Value = Number(f)
	}
	return nil
}

// MarshalJSON renders a reading back into its wire shape. The scenario
// harness composes its timeline updates through it.
func (r Reading) MarshalJSON() ([]byte, error) {
	var v any
	switch val := r.Value.(type) {
	case Boolean:
		v = bool(val)
	case Number:
		v = float64(val)
	case Text:
		v = string(val)
	case Absent, nil:
		return nil, fmt.Errorf("reading for source %d: absent value", r.SourceID)
	}
	return json.Marshal(struct {
		DeviceID int `json:"deviceId"`
		Value    any `json:"value"`
	}{DeviceID: r.SourceID, Value: v})
}
