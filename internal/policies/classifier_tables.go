package policies

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"dario.cat/mergo"
	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"

	"rtsi-fw/internal/shared"
)

// ClassifierTables holds the data that drives import classification.
// Every table can be extended from configuration.
type ClassifierTables struct {
	MiddlewareCore       []string          `mapstructure:"middleware_core" yaml:"middleware_core"`
	MiddlewareAdditional map[string]string `mapstructure:"middleware_additional" yaml:"middleware_additional"`
	SpecialCases         map[string]string `mapstructure:"special_cases" yaml:"special_cases"`
	Pins                 map[string]string `mapstructure:"pins" yaml:"pins"`
	IndexExclusions      []string          `mapstructure:"index_exclusions" yaml:"index_exclusions"`
}

func DefaultClassifierTables() ClassifierTables {
	return ClassifierTables{
		MiddlewareCore: []string{
			"ros", "rospy", "roslib", "std_msgs", "geometry_msgs", "move_base_msgs",
			"modules", "nav_msgs", "rosparam", "rosnode", "actionlib", "sensor_msgs", "tf",
		},
		MiddlewareAdditional: map[string]string{
			"moveit_commander":   "moveit",
			"cv_bridge":          "cv-bridge",
			"ros_control":        "ros-controllers",
			"ros_arduino_bridge": "ros_arduino_bridge",
		},
		SpecialCases: map[string]string{
			"speech_recognition": "SpeechRecognition",
			"cv2":                "opencv-python",
			"yaml":               "PyYAML",
		},
		Pins: map[string]string{
			"openai": "0.27.8",
		},
		IndexExclusions: []string{"modules", "time"},
	}
}

// MergeClassifierTables layers override on top of base.  Map entries in
// override replace those in base and list entries are appended.
func MergeClassifierTables(base ClassifierTables, override ClassifierTables) (ClassifierTables, error) {
	merged := base.clone()
	if err := mergo.Merge(&merged, override.clone(), mergo.WithOverride, mergo.WithAppendSlice); err != nil {
		return ClassifierTables{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to merge classifier tables").
			WithCause(err)
	}
	merged.MiddlewareCore = shared.DedupeStrings(merged.MiddlewareCore)
	merged.IndexExclusions = shared.DedupeStrings(merged.IndexExclusions)
	return merged, nil
}

func (t ClassifierTables) clone() ClassifierTables {
	return ClassifierTables{
		MiddlewareCore:       slices.Clone(t.MiddlewareCore),
		MiddlewareAdditional: maps.Clone(t.MiddlewareAdditional),
		SpecialCases:         maps.Clone(t.SpecialCases),
		Pins:                 maps.Clone(t.Pins),
		IndexExclusions:      slices.Clone(t.IndexExclusions),
	}
}

// ClassifierPolicy is the compiled, lookup-ready form of ClassifierTables.
type ClassifierPolicy struct {
	core       map[string]struct{}
	additional map[string]string
	special    map[string]string
	pins       map[string]string
	excluded   map[string]struct{}
}

// NewClassifierPolicy validates pins as PEP 440 versions and compiles the
// tables.
func NewClassifierPolicy(tables ClassifierTables) (ClassifierPolicy, error) {
	policy := ClassifierPolicy{
		core:       map[string]struct{}{},
		additional: map[string]string{},
		special:    map[string]string{},
		pins:       map[string]string{},
		excluded:   map[string]struct{}{},
	}
	for _, name := range tables.MiddlewareCore {
		policy.core[strings.TrimSpace(name)] = struct{}{}
	}
	for symbol, pkg := range tables.MiddlewareAdditional {
		policy.additional[strings.TrimSpace(symbol)] = strings.TrimSpace(pkg)
	}
	for symbol, pkg := range tables.SpecialCases {
		policy.special[strings.TrimSpace(symbol)] = strings.TrimSpace(pkg)
	}
	for name, version := range tables.Pins {
		version = strings.TrimSpace(version)
		if _, err := pep440.Parse(version); err != nil {
			return ClassifierPolicy{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid pin version for %s: %s", name, version)).
				WithCause(err)
		}
		policy.pins[shared.NormalizePipName(name)] = version
	}
	for _, name := range tables.IndexExclusions {
		policy.excluded[strings.TrimSpace(name)] = struct{}{}
	}
	return policy, nil
}

// DefaultClassifierPolicy compiles the built-in tables.  They are known
// to be valid.
func DefaultClassifierPolicy() ClassifierPolicy {
	policy, err := NewClassifierPolicy(DefaultClassifierTables())
	if err != nil {
		panic(err)
	}
	return policy
}

func (p ClassifierPolicy) IsMiddlewareCore(symbol string) bool {
	_, ok := p.core[symbol]
	return ok
}

// MiddlewareAdditional returns the installable package for symbol.
func (p ClassifierPolicy) MiddlewareAdditional(symbol string) (string, bool) {
	pkg, ok := p.additional[symbol]
	return pkg, ok
}

func (p ClassifierPolicy) SpecialCase(symbol string) (string, bool) {
	pkg, ok := p.special[symbol]
	return pkg, ok
}

// IndexExcluded names are never reported as available on the package
// index, whatever the index says.
func (p ClassifierPolicy) IndexExcluded(name string) bool {
	_, ok := p.excluded[name]
	return ok
}

// Pin appends the pinned version to name when one is configured.
func (p ClassifierPolicy) Pin(name string) string {
	if version, ok := p.pins[shared.NormalizePipName(name)]; ok {
		return name + "==" + version
	}
	return name
}
