package entities

// ScenarioIdentity names the running step for artifact paths
type ScenarioIdentity struct {
	Feature  string
	Scenario string
	Step     string
}

// WithStep returns a copy of the identity pointing at step
func (id ScenarioIdentity) WithStep(step string) ScenarioIdentity {
	id.Step = step
	return id
}

// Feature is a named group of scenarios loaded from one suite file
type Feature struct {
	Name      string
	Source    string
	Scenarios []Scenario
}

// Scenario is an ordered list of steps run against one browser session
type Scenario struct {
	Name  string
	Steps []Step
}

// Step pairs a human-readable step name with its typed action
type Step struct {
	Name   string
	Action Action
}
