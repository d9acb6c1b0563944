package artifact

import "gopkg.in/yaml.v3"

// modelEnvelope mirrors the on-wire shape of a Model document: kind and
// name are pulled out for classification and lookup, everything else
// (image, hostNetwork, tolerations, ...) round-trips as opaque bytes.
type modelEnvelope struct {
	Kind Kind   `yaml:"kind"`
	Name string `yaml:"name"`
}

// UnmarshalYAML implements yaml.Unmarshaler. It captures kind/name and
// preserves the full document (including kind/name) as ContainerSpec so
// the backend receives exactly what was submitted.
func (m *Model) UnmarshalYAML(node *yaml.Node) error {
	var env modelEnvelope
	if err := node.Decode(&env); err != nil {
		return err
	}
	raw, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	m.Kind = env.Kind
	m.Name = env.Name
	m.ContainerSpec = raw
	return nil
}

// MarshalYAML implements yaml.Marshaler by re-emitting the captured
// ContainerSpec bytes verbatim.
func (m Model) MarshalYAML() (any, error) {
	var node yaml.Node
	if len(m.ContainerSpec) == 0 {
		return modelEnvelope{Kind: m.Kind, Name: m.Name}, nil
	}
	if err := yaml.Unmarshal(m.ContainerSpec, &node); err != nil {
		return nil, err
	}
	return &node, nil
}
