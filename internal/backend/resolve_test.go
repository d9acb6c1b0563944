package backend

import (
	"context"
	"errors"
	"testing"

	"piccolo/internal/artifact"

	"github.com/stretchr/testify/assert"
)

type fakeBackend struct{ kind string }

func (f *fakeBackend) Kind() string                                              { return f.kind }
func (f *fakeBackend) Start(context.Context, string, string) error               { return nil }
func (f *fakeBackend) Stop(context.Context, string, string) error                { return nil }
func (f *fakeBackend) ReloadAll(context.Context, string) error                   { return nil }

type fakeNodes struct {
	nodes map[string]*artifact.Node
}

func (f *fakeNodes) GetNode(_ context.Context, name string) (*artifact.Node, error) {
	n, ok := f.nodes[name]
	if !ok {
		return nil, errors.New("not found")
	}
	return n, nil
}

func TestRegistry_ResolvesBluechiRole(t *testing.T) {
	bluechi := &fakeBackend{kind: "bluechi"}
	nodeAgent := &fakeBackend{kind: "nodeagent"}
	reg := NewRegistry(bluechi, nodeAgent, "", nil)

	nodes := &fakeNodes{nodes: map[string]*artifact.Node{
		"node-a": {Name: "node-a", Role: artifact.RoleBluechi},
	}}

	got := reg.Resolve(context.Background(), nodes, "node-a")
	assert.Same(t, Backend(bluechi), got)
}

func TestRegistry_ResolvesNodeAgentRole(t *testing.T) {
	bluechi := &fakeBackend{kind: "bluechi"}
	nodeAgent := &fakeBackend{kind: "nodeagent"}
	reg := NewRegistry(bluechi, nodeAgent, "", nil)

	nodes := &fakeNodes{nodes: map[string]*artifact.Node{
		"node-b": {Name: "node-b", Role: artifact.RoleNodeAgent},
	}}

	got := reg.Resolve(context.Background(), nodes, "node-b")
	assert.Same(t, Backend(nodeAgent), got)
}

func TestRegistry_FallsBackToConfiguredHostType(t *testing.T) {
	fallback := &fakeBackend{kind: "nodeagent"}
	reg := NewRegistry(&fakeBackend{kind: "bluechi"}, &fakeBackend{kind: "nodeagent"}, artifact.RoleNodeAgent, fallback)

	nodes := &fakeNodes{nodes: map[string]*artifact.Node{}}
	got := reg.Resolve(context.Background(), nodes, "unknown-node")
	assert.Same(t, Backend(fallback), got)
}

func TestRegistry_SkipsUnclassifiedNodeWithNoFallback(t *testing.T) {
	reg := NewRegistry(&fakeBackend{kind: "bluechi"}, &fakeBackend{kind: "nodeagent"}, "", nil)
	nodes := &fakeNodes{nodes: map[string]*artifact.Node{}}
	got := reg.Resolve(context.Background(), nodes, "unknown-node")
	assert.Nil(t, got)
}
