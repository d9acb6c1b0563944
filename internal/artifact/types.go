// Package artifact implements the declarative YAML artifact kinds (§3) and
// their parsing, classification, and cross-reference validation (§4.2).
package artifact

// Kind is the `kind` discriminator field every artifact document carries.
type Kind string

const (
	KindScenario Kind = "Scenario"
	KindPackage  Kind = "Package"
	KindModel    Kind = "Model"
	KindVolume   Kind = "Volume"
	KindNetwork  Kind = "Network"
	KindNode     Kind = "Node"
)

// Action is one of the four operations a Scenario may request against its
// target Package.
type Action string

const (
	ActionLaunch    Action = "launch"
	ActionTerminate Action = "terminate"
	ActionUpdate    Action = "update"
	ActionRollback  Action = "rollback"
)

// Express is a condition's comparison operator.
type Express string

const (
	ExpressEq Express = "eq"
	ExpressLt Express = "lt"
	ExpressLe Express = "le"
	ExpressGe Express = "ge"
	ExpressGt Express = "gt"
)

// Operand names the signal field a Condition reads and the topic it reads
// it from.
type Operand struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
	Type  string `yaml:"type" json:"type"`
}

// Condition is a Scenario's single-operand predicate.
type Condition struct {
	Express Express `yaml:"express" json:"express"`
	Value   string  `yaml:"value" json:"value"`
	Operand Operand `yaml:"operand" json:"operand"`
}

// Scenario is a declarative rule pairing an optional Condition with an
// Action against a target Package.
type Scenario struct {
	Kind      Kind       `yaml:"kind" json:"kind"`
	Name      string     `yaml:"name" json:"name"`
	Condition *Condition `yaml:"condition,omitempty" json:"condition,omitempty"`
	Action    Action     `yaml:"action" json:"action"`
	Target    string     `yaml:"target" json:"target"`
}

// Unconditional reports whether this Scenario fires immediately on
// activation rather than waiting on a signal condition.
func (s *Scenario) Unconditional() bool { return s.Condition == nil }

// ModelRef is a Package's reference to one Model, placed on one node, with
// optional auxiliary resources.
type ModelRef struct {
	Name      string    `yaml:"name" json:"name"`
	Node      string    `yaml:"node" json:"node"`
	Resources Resources `yaml:"resources,omitempty" json:"resources,omitempty"`
}

// Resources names the Volume/Network a ModelRef draws on. Both are
// optional and opaque to the core beyond their names.
type Resources struct {
	Volume  string `yaml:"volume,omitempty" json:"volume,omitempty"`
	Network string `yaml:"network,omitempty" json:"network,omitempty"`
}

// Package is a deployment bundle: a set of Models placed on nodes.
type Package struct {
	Kind    Kind       `yaml:"kind" json:"kind"`
	Name    string     `yaml:"name" json:"name"`
	Pattern string     `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Models  []ModelRef `yaml:"models" json:"models"`
}

// Model is a single workload specification. The container-level spec
// (image, hostNetwork, tolerations, etc.) is kept as opaque YAML bytes:
// core never interprets it, it is handed verbatim to the runtime backend.
type Model struct {
	Kind          Kind
	Name          string
	ContainerSpec []byte
}

// Volume is an auxiliary resource spec, opaque to the core beyond its name.
type Volume struct {
	Kind Kind   `yaml:"kind" json:"kind"`
	Name string `yaml:"name" json:"name"`
}

// Network is an auxiliary resource spec, opaque to the core beyond its
// name.
type Network struct {
	Kind Kind   `yaml:"kind" json:"kind"`
	Name string `yaml:"name" json:"name"`
}

// NodeRole identifies which runtime backend family a Node speaks.
type NodeRole string

const (
	RoleMaster         NodeRole = "master"
	RoleNodeAgent      NodeRole = "nodeagent"
	RoleBluechi        NodeRole = "bluechi"
	RoleNodeAgentGuest NodeRole = "nodeagent-guest"
)

// NodeStatus is a Node's externally-observed liveness.
type NodeStatus string

const (
	NodeReady    NodeStatus = "ready"
	NodeNotReady NodeStatus = "notready"
	NodeUnknown  NodeStatus = "unknown"
)

// Node is an operand in the fleet.
type Node struct {
	Kind   Kind       `yaml:"kind" json:"kind"`
	Name   string     `yaml:"name" json:"name"`
	IP     string     `yaml:"ip" json:"ip"`
	Role   NodeRole   `yaml:"role" json:"role"`
	Status NodeStatus `yaml:"status" json:"status"`
}
