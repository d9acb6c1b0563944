package statemachine

// transitionGraph maps a resource type's current state to the set of
// states apply() will accept as target_state. Every resource type also
// implicitly allows a transition from any state into its terminal failure
// state ("any state -> error (fatal local)", §4.3) — see allowed().
var transitionGraph = map[ResourceType]map[State][]State{
	ResourceScenario: {
		ScenarioIdle:      {ScenarioWaiting},
		ScenarioWaiting:   {ScenarioSatisfied},
		ScenarioSatisfied: {ScenarioAllowed},
		ScenarioAllowed:   {ScenarioCompleted, ScenarioDenied},
		ScenarioCompleted: {ScenarioIdle},
		ScenarioDenied:    {ScenarioIdle},
	},
	// pending/updating/running form the deploy/redeploy cycle the action
	// controller drives; terminate returns a running Package to pending.
	ResourcePackage: {
		PackagePending:  {PackageRunning, PackageUpdating},
		PackageUpdating: {PackageRunning},
		PackageRunning:  {PackageUpdating, PackagePending},
	},
	// init/ready/running/done track a single model's deploy lifecycle; the
	// action controller may hop init->running directly on a successful
	// launch (it does not pass through an intermediate "ready" observation).
	ResourceModel: {
		ModelInit:    {ModelReady, ModelRunning, ModelDone},
		ModelReady:   {ModelRunning, ModelDone},
		ModelRunning: {ModelDone, ModelReady},
		ModelDone:    {ModelInit, ModelRunning},
	},
}

// terminalState is the fatal-local sink every resource type may enter from
// any state.
func terminalState(rt ResourceType) State {
	switch rt {
	case ResourceScenario:
		return ScenarioError
	case ResourcePackage:
		return PackageFailed
	case ResourceModel:
		return ModelFailed
	default:
		return StateUnknown
	}
}

// allowed reports whether (resourceType, from -> to) is a permitted
// transition: either the explicit graph allows it, or to is that
// resource type's terminal failure state.
func allowed(resourceType ResourceType, from, to State) bool {
	if from == to {
		return true // idempotent reapplication of the current state
	}
	if to == terminalState(resourceType) {
		return true
	}
	graph, ok := transitionGraph[resourceType]
	if !ok {
		return false
	}
	for _, candidate := range graph[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// initialState is the state a resource starts in before any StateChange
// has been applied to it.
func initialState(rt ResourceType) State {
	switch rt {
	case ResourceScenario:
		return ScenarioIdle
	case ResourcePackage:
		return PackagePending
	case ResourceModel:
		return ModelInit
	default:
		return StateUnknown
	}
}
