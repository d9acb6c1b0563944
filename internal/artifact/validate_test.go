package artifact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeResolver struct {
	models map[string]bool
	nodes  map[string]bool
}

func (f *fakeResolver) ModelExists(_ context.Context, name string) (bool, error) {
	return f.models[name], nil
}

func (f *fakeResolver) NodeExists(_ context.Context, name string) (bool, error) {
	return f.nodes[name], nil
}

func validBundle() Bundle {
	return Bundle{
		Scenario: &Scenario{Name: "s", Action: ActionLaunch, Target: "p"},
		Package: &Package{
			Name:   "p",
			Models: []ModelRef{{Name: "m", Node: "n"}},
		},
		Models: []Model{{Name: "m"}},
	}
}

func TestValidateBundle_OK(t *testing.T) {
	b := validBundle()
	resolver := &fakeResolver{nodes: map[string]bool{"n": true}}
	assert.NoError(t, ValidateBundle(context.Background(), b, resolver))
}

func TestValidateBundle_MissingScenario(t *testing.T) {
	b := validBundle()
	b.Scenario = nil
	err := ValidateBundle(context.Background(), b, &fakeResolver{})
	assert.True(t, IsMissingScenario(err))
}

func TestValidateBundle_MissingPackage(t *testing.T) {
	b := validBundle()
	b.Package = nil
	err := ValidateBundle(context.Background(), b, &fakeResolver{})
	assert.True(t, IsMissingPackage(err))
}

func TestValidateBundle_DanglingModelReference(t *testing.T) {
	b := validBundle()
	b.Models = nil // model not in bundle
	resolver := &fakeResolver{models: map[string]bool{}, nodes: map[string]bool{"n": true}}
	err := ValidateBundle(context.Background(), b, resolver)
	assert.True(t, IsDanglingReference(err))
}

func TestValidateBundle_ModelResolvedFromStore(t *testing.T) {
	b := validBundle()
	b.Models = nil // not in bundle, but already persisted
	resolver := &fakeResolver{models: map[string]bool{"m": true}, nodes: map[string]bool{"n": true}}
	assert.NoError(t, ValidateBundle(context.Background(), b, resolver))
}

func TestValidateBundle_UnknownNode(t *testing.T) {
	b := validBundle()
	resolver := &fakeResolver{nodes: map[string]bool{}}
	err := ValidateBundle(context.Background(), b, resolver)
	assert.True(t, IsDanglingReference(err))
}

func TestValidateBundle_ScenarioTargetMismatch(t *testing.T) {
	b := validBundle()
	b.Scenario.Target = "someone-else"
	err := ValidateBundle(context.Background(), b, &fakeResolver{nodes: map[string]bool{"n": true}})
	assert.True(t, IsDanglingReference(err))
}
