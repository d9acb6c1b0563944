package artifact

import (
	"bytes"
	"io"

	"piccolo/pkg/logging"

	"gopkg.in/yaml.v3"
)

// kindProbe is decoded first from every document to read its `kind` field
// before committing to a concrete type.
type kindProbe struct {
	Kind Kind `yaml:"kind"`
}

// Bundle is the classified result of split_and_classify: at most one
// Scenario and one Package, plus every Model/Volume/Network document found
// in the body.
type Bundle struct {
	Scenario *Scenario
	Package  *Package
	Models   []Model
	Volumes  []Volume
	Networks []Network
}

// SplitAndClassify ingests a multi-document artifact body (documents
// separated by "---"), classifies each by its kind field, and deserializes
// it into the corresponding entity. Unknown kinds are skipped with a
// warning but do not abort the bundle.
func SplitAndClassify(body []byte) (Bundle, error) {
	var bundle Bundle

	dec := yaml.NewDecoder(bytes.NewReader(body))
	for {
		var raw yaml.Node
		if err := dec.Decode(&raw); err != nil {
			if err == io.EOF {
				break
			}
			return Bundle{}, newErr(ErrInvalidArgument, "malformed artifact document: %v", err)
		}
		if raw.Kind == 0 {
			continue // blank document between delimiters
		}

		var probe kindProbe
		if err := raw.Decode(&probe); err != nil {
			return Bundle{}, newErr(ErrInvalidArgument, "document missing or invalid kind field: %v", err)
		}

		switch probe.Kind {
		case KindScenario:
			var s Scenario
			if err := raw.Decode(&s); err != nil {
				return Bundle{}, newErr(ErrInvalidArgument, "invalid Scenario document: %v", err)
			}
			bundle.Scenario = &s
		case KindPackage:
			var p Package
			if err := raw.Decode(&p); err != nil {
				return Bundle{}, newErr(ErrInvalidArgument, "invalid Package document: %v", err)
			}
			bundle.Package = &p
		case KindModel:
			var m Model
			if err := raw.Decode(&m); err != nil {
				return Bundle{}, newErr(ErrInvalidArgument, "invalid Model document: %v", err)
			}
			bundle.Models = append(bundle.Models, m)
		case KindVolume:
			var v Volume
			if err := raw.Decode(&v); err != nil {
				return Bundle{}, newErr(ErrInvalidArgument, "invalid Volume document: %v", err)
			}
			bundle.Volumes = append(bundle.Volumes, v)
		case KindNetwork:
			var n Network
			if err := raw.Decode(&n); err != nil {
				return Bundle{}, newErr(ErrInvalidArgument, "invalid Network document: %v", err)
			}
			bundle.Networks = append(bundle.Networks, n)
		default:
			logging.Warn("ArtifactParser", "skipping document with unknown kind %q", probe.Kind)
		}
	}

	return bundle, nil
}
