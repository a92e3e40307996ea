package scene

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// Vector is a core.Vec3 that can be written in YAML either as a sequence
// [x, y, z] or as a mapping {x: .., y: .., z: ..}.
type Vector core.Vec3

// Vec3 converts back to the core type
func (v Vector) Vec3() core.Vec3 {
	return core.Vec3(v)
}

// UnmarshalYAML implements yaml.Unmarshaler
func (v *Vector) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var xyz []float64
		if err := node.Decode(&xyz); err != nil {
			return err
		}
		if len(xyz) != 3 {
			return errors.Errorf("line %d: vector needs 3 components, got %d", node.Line, len(xyz))
		}
		*v = Vector{X: xyz[0], Y: xyz[1], Z: xyz[2]}
		return nil

	case yaml.MappingNode:
		var xyz struct {
			X float64 `yaml:"x"`
			Y float64 `yaml:"y"`
			Z float64 `yaml:"z"`
		}
		if err := node.Decode(&xyz); err != nil {
			return err
		}
		*v = Vector{X: xyz.X, Y: xyz.Y, Z: xyz.Z}
		return nil
	}
	return errors.Errorf("line %d: vector must be a sequence or a mapping", node.Line)
}

// MarshalYAML implements yaml.Marshaler using the compact sequence form
func (v Vector) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, c := range []float64{v.X, v.Y, v.Z} {
		var item yaml.Node
		if err := item.Encode(c); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &item)
	}
	return node, nil
}
