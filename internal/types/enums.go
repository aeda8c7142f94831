package types

type DependencyType string

const (
	DependencyTypeApt DependencyType = "apt"
	DependencyTypePip DependencyType = "pip"
)

// ProvenanceCategory is the resolved origin of an imported symbol.
type ProvenanceCategory string

const (
	ProvenanceStandardLibrary      ProvenanceCategory = "standard_library"
	ProvenanceMiddlewareCore       ProvenanceCategory = "middleware_core"
	ProvenanceMiddlewareAdditional ProvenanceCategory = "middleware_additional"
	ProvenancePackageIndex         ProvenanceCategory = "package_index"
	ProvenanceSystemRepo           ProvenanceCategory = "system_repo"
	ProvenanceUnresolvable         ProvenanceCategory = "unresolvable"
)

// AllProvenanceCategories lists every category in report order.
var AllProvenanceCategories = []ProvenanceCategory{
	ProvenanceStandardLibrary,
	ProvenanceMiddlewareCore,
	ProvenanceMiddlewareAdditional,
	ProvenancePackageIndex,
	ProvenanceSystemRepo,
	ProvenanceUnresolvable,
}

type Phase string

const (
	PhaseCollect Phase = "collect"
	PhaseBuild   Phase = "build"
	PhaseRun     Phase = "run"
	PhaseStop    Phase = "stop"
)

// ParsePhase accepts the lifecycle selectors; "nameserver" is a CLI
// command, not a phase.
func ParsePhase(value string) (Phase, bool) {
	switch Phase(value) {
	case PhaseCollect, PhaseBuild, PhaseRun, PhaseStop:
		return Phase(value), true
	default:
		return "", false
	}
}

type LaunchKind string

const (
	LaunchKindStructured LaunchKind = "roslaunch"
	LaunchKindDirect     LaunchKind = "rosrun"
	LaunchKindMiddleware LaunchKind = "rtm"
)

type ItemStatus string

const (
	ItemSucceeded ItemStatus = "succeeded"
	ItemSkipped   ItemStatus = "skipped"
	ItemFailed    ItemStatus = "failed"
)

// Manifest keys as they appear in the YAML documents.
const (
	CollectKeyRTM    = "rtm"
	CollectKeyApt    = "apt"
	CollectKeyPip    = "pip"
	CollectKeyGit    = "git"
	CollectKeyEngine = "engine"
	CollectKeyOther  = "other"

	RunKeyRTM       = "rtm"
	RunKeyRosrun    = "rosrun"
	RunKeyRoslaunch = "roslaunch"
)
