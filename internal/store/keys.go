package store

import "fmt"

// Artifact key prefixes (capitalized kind names) and state key prefixes
// (lowercase kind names) per §9's normalization: artifacts and state must
// never share casing, and this file is the only place that is allowed to
// know the mapping.
const (
	PrefixScenario = "Scenario/"
	PrefixPackage  = "Package/"
	PrefixModel    = "Model/"
	PrefixVolume   = "Volume/"
	PrefixNetwork  = "Network/"

	PrefixClusterNodes = "cluster/nodes/"
	PrefixNodesByIP    = "nodes/"

	prefixScenarioState = "/scenario/"
	prefixPackageState  = "/package/"
	prefixModelState    = "/model/"
)

// ScenarioKey returns the artifact key for a Scenario named name.
func ScenarioKey(name string) string { return PrefixScenario + name }

// PackageKey returns the artifact key for a Package named name.
func PackageKey(name string) string { return PrefixPackage + name }

// ModelKey returns the artifact key for a Model named name.
func ModelKey(name string) string { return PrefixModel + name }

// VolumeKey returns the artifact key for a Volume named name.
func VolumeKey(name string) string { return PrefixVolume + name }

// NetworkKey returns the artifact key for a Network named name.
func NetworkKey(name string) string { return PrefixNetwork + name }

// NodeKey returns the cluster/nodes/{name} key for a Node.
func NodeKey(name string) string { return PrefixClusterNodes + name }

// NodeIPKey returns the nodes/{ip} reverse-lookup key.
func NodeIPKey(ip string) string { return PrefixNodesByIP + ip }

// ResourceType identifies one of the three resource kinds the state
// machine tracks (§4.3). It is distinct from artifact kinds because a
// Volume/Network has no state-machine presence.
type ResourceType int

const (
	ResourceUnknown ResourceType = iota
	ResourceScenario
	ResourcePackage
	ResourceModel
)

func (t ResourceType) String() string {
	switch t {
	case ResourceScenario:
		return "SCENARIO"
	case ResourcePackage:
		return "PACKAGE"
	case ResourceModel:
		return "MODEL"
	default:
		return "UNKNOWN"
	}
}

// ParseResourceType parses the String() form, or its all-lowercase form,
// back into a ResourceType, for wire-facing adapters that carry the
// resource type as a string. Mixed-case input yields ResourceUnknown.
func ParseResourceType(s string) ResourceType {
	switch s {
	case "SCENARIO", "scenario":
		return ResourceScenario
	case "PACKAGE", "package":
		return ResourcePackage
	case "MODEL", "model":
		return ResourceModel
	default:
		return ResourceUnknown
	}
}

// lower is the lowercase form used in state-record keys.
func (t ResourceType) lower() string {
	switch t {
	case ResourceScenario:
		return "scenario"
	case ResourcePackage:
		return "package"
	case ResourceModel:
		return "model"
	default:
		return "unknown"
	}
}

// StateKey returns the authoritative latest-state key for (resourceType, name).
func StateKey(resourceType ResourceType, name string) string {
	return fmt.Sprintf("/%s/%s/state", resourceType.lower(), name)
}

// HistoryKeyPrefix returns the prefix under which a resource's transition
// history is appended, one entry per transition, ordered by the store's
// creation-order guarantee.
func HistoryKeyPrefix(resourceType ResourceType, name string) string {
	return fmt.Sprintf("/%s/%s/history/", resourceType.lower(), name)
}

// HistoryKey returns the key for the seq'th history entry of a resource.
func HistoryKey(resourceType ResourceType, name string, seq uint64) string {
	return fmt.Sprintf("%s%020d", HistoryKeyPrefix(resourceType, name), seq)
}
