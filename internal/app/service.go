package app

import (
	"context"
	"path/filepath"
	"strings"

	"rtsi-fw/internal/adapters"
	"rtsi-fw/internal/core"
	"rtsi-fw/internal/policies"
	"rtsi-fw/internal/ports"
	"rtsi-fw/internal/types"
)

const (
	combinedCollectFile = "combined_collect.yaml"
	seedLaunchFile      = "seed_hri.yaml"
	launchFile          = "Launch.yaml"
	descriptorFile      = "hri.xml"
)

type Service struct {
	Env          types.Environment
	Manifests    ports.ManifestStorePort
	Scenarios    ports.ScenarioPort
	Descriptors  ports.ServiceDescriptorPort
	Workspace    ports.WorkspacePort
	Classifier   core.Classifier
	Orchestrator core.Orchestrator
}

// ServiceConfig carries everything read from flags, environment and the
// config file.
type ServiceConfig struct {
	Env               types.Environment
	ClassifierTables  policies.ClassifierTables
	Hooks             []types.HookSpec
	BuildFailure      string
	PythonInterpreter string
}

func NewService(ctx context.Context, cfg ServiceConfig) (Service, error) {
	policy, err := policies.NewClassifierPolicy(cfg.ClassifierTables)
	if err != nil {
		return Service{}, err
	}
	buildPolicy, err := policies.ParseFailurePolicy(cfg.BuildFailure)
	if err != nil {
		return Service{}, err
	}

	runner := adapters.NewExecRunner()
	workspace := adapters.NewWorkspaceAdapter()
	sleeper := adapters.ContextSleeper{}
	hooks, err := core.BuildHookRegistry(cfg.Hooks, cfg.Env, runner, workspace)
	if err != nil {
		return Service{}, err
	}
	supervisor := core.NewSupervisor(
		cfg.Env,
		adapters.NewProcessTableAdapter(),
		adapters.NewTerminalSpawner(cfg.Env.Terminal),
		adapters.NewLocaleAdapter(runner),
		adapters.NewPTYSession(),
		sleeper,
	)
	classifier := core.NewClassifier(
		policy,
		adapters.NewPythonStdlibAdapter(runner, cfg.PythonInterpreter),
		adapters.NewPackageIndexAdapter(cfg.Env.PackageIndexURL),
		adapters.NewAptCacheAdapter(runner),
	)
	return Service{
		Env:          cfg.Env,
		Manifests:    adapters.NewManifestFileAdapter(),
		Scenarios:    adapters.NewScenarioFileAdapter(),
		Descriptors:  adapters.NewServiceDescriptorAdapter(),
		Workspace:    workspace,
		Classifier:   classifier,
		Orchestrator: core.NewOrchestrator(ctx, cfg.Env, runner, workspace, sleeper, supervisor, hooks, buildPolicy),
	}, nil
}

// systemFile resolves a robot or scenario selector.  Bare names refer to
// <system_dir>/<name>.yaml; anything that looks like a path is used as is.
func (s Service) systemFile(selector string) string {
	selector = strings.TrimSpace(selector)
	if strings.ContainsRune(selector, filepath.Separator) || strings.HasSuffix(selector, ".yaml") || strings.HasSuffix(selector, ".yml") {
		return selector
	}
	return filepath.Join(s.Env.SystemDir, selector+".yaml")
}

func (s Service) systemPath(name string) string {
	return filepath.Join(s.Env.SystemDir, name)
}

func (s Service) enginePath(engine string, parts ...string) string {
	return filepath.Join(append([]string{s.Env.ROSSource(), engine}, parts...)...)
}
