package pipeline

import (
	"fmt"

	"github.com/coinbase/adfmap/target"
	"gopkg.in/yaml.v3"
)

// Param is a single entry of a pipeline's params, usually one key
type Param map[string]string

// UnmarshalYAML keeps scalar values as written so account ids stay strings
func (p *Param) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %v: param must be a mapping", node.Line)
	}

	param := Param{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %v: param %q must be a scalar", value.Line, key.Value)
		}
		param[key.Value] = value.Value
	}

	*p = param
	return nil
}

// CompletionTrigger lists pipelines started when this one completes
type CompletionTrigger struct {
	Pipelines []string `yaml:"pipelines" json:"pipelines,omitempty"`
}

// Description is a pipeline as declared in a deployment map
type Description struct {
	Name              string            `yaml:"name" json:"name"`
	Type              string            `yaml:"type" json:"type"`
	Params            []Param           `yaml:"params" json:"params,omitempty"`
	Targets           target.Specs      `yaml:"targets" json:"targets,omitempty"`
	Regions           target.StringList `yaml:"regions" json:"regions,omitempty"`
	CompletionTrigger CompletionTrigger `yaml:"completion_trigger" json:"completion_trigger"`
	Schedule          string            `yaml:"schedule" json:"schedule,omitempty"`
	ContainsTransform string            `yaml:"contains_transform" json:"contains_transform,omitempty"`
}

// Validate returns
func (d *Description) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("pipeline name must be defined")
	}

	for i := range d.Targets {
		if err := d.Targets[i].Validate(); err != nil {
			return fmt.Errorf("pipeline %v target %v: %v", d.Name, i, err.Error())
		}
	}

	return nil
}
