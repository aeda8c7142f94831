package types

import "time"

// ScenarioTask is one step of a behaviour scenario. Only the task name
// matters to deployment; args are consumed by the engine at runtime.
type ScenarioTask struct {
	Task string `yaml:"task"`
	Arg  any    `yaml:"arg,omitempty"`
}

type Scenario struct {
	Scenario []ScenarioTask `yaml:"scenario"`
}

// Functions returns the distinct task names in first-seen order.
func (s Scenario) Functions() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, task := range s.Scenario {
		if task.Task == "" {
			continue
		}
		if _, ok := seen[task.Task]; ok {
			continue
		}
		seen[task.Task] = struct{}{}
		out = append(out, task.Task)
	}
	return out
}

// HookSpec configures a side effect that runs after repository
// acquisition for a given middleware package.
type HookSpec struct {
	Package     string   `mapstructure:"package" yaml:"package"`
	Kind        string   `mapstructure:"kind" yaml:"kind"`
	Source      string   `mapstructure:"source" yaml:"source,omitempty"`
	Destination string   `mapstructure:"destination" yaml:"destination,omitempty"`
	Command     []string `mapstructure:"command" yaml:"command,omitempty"`
	Packages    []string `mapstructure:"packages" yaml:"packages,omitempty"`
}

// Environment carries the process environment and operator settings,
// read once at startup and injected everywhere else.
type Environment struct {
	Home              string
	User              string
	SystemDir         string
	ROSWorkspace      string
	RTMWorkspace      string
	ROSDistro         string
	PackageIndexURL   string
	SudoPassword      string
	Terminal          []string
	CloneSettle       time.Duration
	CoordinatorSettle time.Duration
}

// ROSSource is the directory engines and git repositories are cloned into.
func (e Environment) ROSSource() string {
	return e.ROSWorkspace + "/src"
}
