package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBundle = `
kind: Scenario
name: hello-scenario
action: launch
target: hello-package
condition:
  express: ge
  value: "80"
  operand:
    name: temperature
    value: vehicle/engine/temp
    type: DDS
---
kind: Package
name: hello-package
pattern: unused
models:
  - name: hello-model
    node: node-a
    resources:
      volume: hello-volume
---
kind: Model
name: hello-model
image: registry.example/hello:latest
hostNetwork: false
---
kind: Volume
name: hello-volume
---
kind: UnknownThing
name: ignored
`

func TestSplitAndClassify(t *testing.T) {
	b, err := SplitAndClassify([]byte(sampleBundle))
	require.NoError(t, err)

	require.NotNil(t, b.Scenario)
	assert.Equal(t, "hello-scenario", b.Scenario.Name)
	assert.False(t, b.Scenario.Unconditional())
	assert.Equal(t, ExpressGe, b.Scenario.Condition.Express)

	require.NotNil(t, b.Package)
	assert.Equal(t, "hello-package", b.Package.Name)
	require.Len(t, b.Package.Models, 1)
	assert.Equal(t, "hello-model", b.Package.Models[0].Name)
	assert.Equal(t, "hello-volume", b.Package.Models[0].Resources.Volume)

	require.Len(t, b.Models, 1)
	assert.Equal(t, "hello-model", b.Models[0].Name)
	assert.Contains(t, string(b.Models[0].ContainerSpec), "registry.example/hello")

	require.Len(t, b.Volumes, 1)
	assert.Equal(t, "hello-volume", b.Volumes[0].Name)

	assert.Empty(t, b.Networks)
}

func TestSplitAndClassify_MalformedDocument(t *testing.T) {
	_, err := SplitAndClassify([]byte("kind: [this is not a mapping"))
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
}

func TestSplitAndClassify_UnconditionalScenario(t *testing.T) {
	body := `
kind: Scenario
name: always-on
action: launch
target: hello-package
`
	b, err := SplitAndClassify([]byte(body))
	require.NoError(t, err)
	require.NotNil(t, b.Scenario)
	assert.True(t, b.Scenario.Unconditional())
}
