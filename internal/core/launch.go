package core

import (
	"strings"

	"rtsi-fw/internal/types"
)

const structuredLaunchMarker = ".launch"

// ClassifyLaunchItem applies the suffix convention: a target mentioning
// ".launch" is a structured launch, anything else is a direct run.
func ClassifyLaunchItem(item string) (types.LaunchDescriptor, bool) {
	target := strings.TrimSpace(item)
	if target == "" {
		return types.LaunchDescriptor{}, false
	}
	if strings.Contains(target, structuredLaunchMarker) {
		return types.LaunchDescriptor{Kind: types.LaunchKindStructured, Target: target}, true
	}
	return types.LaunchDescriptor{Kind: types.LaunchKindDirect, Target: target}, true
}

// ResolveLaunchItems lists what an engine needs to run a scenario: the
// engine entry script followed by one script per function.  Nothing is
// launched when the scenario has no functions.
func ResolveLaunchItems(engine string, entryScript string, functions []string) []string {
	if len(functions) == 0 {
		return nil
	}
	items := make([]string, 0, len(functions)+1)
	if entryScript != "" {
		items = append(items, engine+" "+scriptName(entryScript))
	}
	for _, fn := range functions {
		items = append(items, engine+" "+scriptName(fn))
	}
	return items
}

func scriptName(name string) string {
	if strings.HasSuffix(name, ".py") {
		return name
	}
	return name + ".py"
}

// LaunchCommand renders the shell command that starts a launch item.
func LaunchCommand(descriptor types.LaunchDescriptor) string {
	switch descriptor.Kind {
	case types.LaunchKindStructured:
		return "roslaunch " + descriptor.Target
	case types.LaunchKindDirect:
		return "rosrun " + descriptor.Target
	default:
		return middlewareRunCommand
	}
}

const middlewareRunCommand = "./mgr.py system run -v"
