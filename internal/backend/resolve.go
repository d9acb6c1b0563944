package backend

import (
	"context"

	"piccolo/internal/artifact"

	"piccolo/pkg/logging"
)

// NodeRepository is the subset of artifact.Repository resolution needs.
type NodeRepository interface {
	GetNode(ctx context.Context, name string) (*artifact.Node, error)
}

// Registry holds the constructed backends, keyed by the role they serve.
type Registry struct {
	bluechi         Backend
	nodeAgent       Backend
	fallbackRole    artifact.NodeRole
	fallbackBackend Backend
}

// NewRegistry builds a Registry. fallbackRole/fallbackBackend implement
// step 3 of node->backend resolution: the static process configuration's
// host.type, consulted when the store has no record for a node or
// records a role that is neither bluechi- nor nodeagent-like.
func NewRegistry(bluechi, nodeAgent Backend, fallbackRole artifact.NodeRole, fallbackBackend Backend) *Registry {
	return &Registry{
		bluechi:         bluechi,
		nodeAgent:       nodeAgent,
		fallbackRole:    fallbackRole,
		fallbackBackend: fallbackBackend,
	}
}

// Resolve implements the §4.6 node->backend resolution order:
//  1. Read cluster/nodes/{name}; if role is bluechi-like, use that backend.
//  2. Else if role is nodeagent-like, use that backend.
//  3. Else consult the static process configuration's host.type.
//  4. Else skip the node with a warning — never operate on an
//     unclassified node.
func (r *Registry) Resolve(ctx context.Context, nodes NodeRepository, nodeName string) Backend {
	node, err := nodes.GetNode(ctx, nodeName)
	if err == nil {
		switch node.Role {
		case artifact.RoleBluechi:
			return r.bluechi
		case artifact.RoleNodeAgent, artifact.RoleNodeAgentGuest:
			return r.nodeAgent
		}
	}

	if r.fallbackBackend != nil {
		logging.Debug("BackendRegistry", "node %q unclassified in store, falling back to configured host.type %q", nodeName, r.fallbackRole)
		return r.fallbackBackend
	}

	logging.Warn("BackendRegistry", "skipping node %q: no known role and no configured fallback", nodeName)
	return nil
}
