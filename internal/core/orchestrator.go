package core

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"rtsi-fw/internal/policies"
	"rtsi-fw/internal/ports"
	"rtsi-fw/internal/shared"
	"rtsi-fw/internal/types"
)

const middlewareCLI = "wasanbon-admin.py"

// Orchestrator executes one lifecycle phase per call.  Phases never chain
// into each other.
type Orchestrator struct {
	Env         types.Environment
	Runner      ports.CommandRunner
	Workspace   ports.WorkspacePort
	Sleeper     ports.Sleeper
	Supervisor  *Supervisor
	Hooks       HookRegistry
	BuildPolicy policies.FailurePolicy
}

func NewOrchestrator(ctx context.Context, env types.Environment, runner ports.CommandRunner, workspace ports.WorkspacePort, sleeper ports.Sleeper, supervisor *Supervisor, hooks HookRegistry, buildPolicy policies.FailurePolicy) Orchestrator {
	assert.NotEmpty(ctx, env.ROSWorkspace, "ros workspace must be set")
	assert.NotEmpty(ctx, env.RTMWorkspace, "rtm workspace must be set")
	return Orchestrator{
		Env:         env,
		Runner:      runner,
		Workspace:   workspace,
		Sleeper:     sleeper,
		Supervisor:  supervisor,
		Hooks:       hooks,
		BuildPolicy: buildPolicy,
	}
}

// Collect acquires every item of manifest in the order rtm, engine, apt,
// pip, git, then runs hooks registered for the rtm packages.
func (o Orchestrator) Collect(ctx context.Context, manifest types.CollectManifest) (types.PhaseResult, error) {
	result := types.PhaseResult{Phase: types.PhaseCollect}
	steps := []struct {
		name string
		run  func(context.Context) types.CategoryResult
	}{
		{types.CollectKeyRTM, func(ctx context.Context) types.CategoryResult {
			return o.cloneMiddleware(ctx, types.CollectKeyRTM, manifest.RTM, o.Env.RTMWorkspace)
		}},
		{types.CollectKeyEngine, func(ctx context.Context) types.CategoryResult {
			return o.cloneMiddleware(ctx, types.CollectKeyEngine, manifest.Engine, o.Env.ROSSource())
		}},
		{types.CollectKeyApt, func(ctx context.Context) types.CategoryResult {
			return o.installApt(ctx, manifest.Apt)
		}},
		{types.CollectKeyPip, func(ctx context.Context) types.CategoryResult {
			return o.installPip(ctx, manifest.Pip)
		}},
		{types.CollectKeyGit, func(ctx context.Context) types.CategoryResult {
			return o.cloneRepositories(ctx, manifest.Git)
		}},
		{types.CollectKeyOther, func(ctx context.Context) types.CategoryResult {
			return o.reportManual(ctx, manifest.Other)
		}},
		{"hooks", func(ctx context.Context) types.CategoryResult {
			return o.runHooks(ctx, manifest.RTM)
		}},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		category := step.run(ctx)
		result.Categories = append(result.Categories, category)
		if err := categoryAbort(ctx, result.Phase, category); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (o Orchestrator) cloneMiddleware(ctx context.Context, name string, items []string, dir string) types.CategoryResult {
	category := types.CategoryResult{Name: name}
	for _, item := range shared.DedupeStrings(items) {
		if o.Workspace.DirExists(filepath.Join(dir, item)) {
			category.Record(o.outcome(ctx, types.PhaseCollect, name, item, types.ItemSkipped, "already present"))
			continue
		}
		_, err := o.Runner.Run(ctx, ports.CommandSpec{
			Name: middlewareCLI,
			Args: []string{"repository", "clone", item, "-v"},
			Dir:  dir,
		})
		category.Record(o.result(ctx, types.PhaseCollect, name, item, err))
	}
	return category
}

func (o Orchestrator) installApt(ctx context.Context, items []string) types.CategoryResult {
	category := types.CategoryResult{Name: types.CollectKeyApt}
	for _, item := range shared.DedupeStrings(items) {
		if _, err := ParseRequirement(item, types.DependencyTypeApt); err != nil {
			category.Record(o.result(ctx, types.PhaseCollect, category.Name, item, err))
			continue
		}
		_, err := o.Runner.Run(ctx, aptInstallSpec(item, o.Env.SudoPassword))
		category.Record(o.result(ctx, types.PhaseCollect, category.Name, item, err))
	}
	return category
}

func (o Orchestrator) installPip(ctx context.Context, items []string) types.CategoryResult {
	category := types.CategoryResult{Name: types.CollectKeyPip}
	for _, item := range shared.DedupeStrings(items) {
		if _, err := ParseRequirement(item, types.DependencyTypePip); err != nil {
			category.Record(o.result(ctx, types.PhaseCollect, category.Name, item, err))
			continue
		}
		_, err := o.Runner.Run(ctx, ports.CommandSpec{Name: "pip", Args: []string{"install", item}})
		category.Record(o.result(ctx, types.PhaseCollect, category.Name, item, err))
	}
	return category
}

func (o Orchestrator) cloneRepositories(ctx context.Context, repos []types.RepositoryDescriptor) types.CategoryResult {
	category := types.CategoryResult{Name: types.CollectKeyGit}
	for _, repo := range repos {
		if !repo.Resolvable() {
			continue
		}
		item := repo.URL
		if repo.Branch != "" {
			item = repo.URL + "@" + repo.Branch
		}
		if repo.Name != "" && o.Workspace.DirExists(filepath.Join(o.Env.ROSSource(), repo.Name)) {
			category.Record(o.outcome(ctx, types.PhaseCollect, category.Name, item, types.ItemSkipped, "already present"))
			continue
		}
		args := []string{"clone"}
		if repo.Branch != "" {
			args = append(args, "-b", repo.Branch)
		}
		args = append(args, repo.URL)
		if repo.Name != "" {
			args = append(args, repo.Name)
		}
		_, err := o.Runner.Run(ctx, ports.CommandSpec{Name: "git", Args: args, Dir: o.Env.ROSSource()})
		category.Record(o.result(ctx, types.PhaseCollect, category.Name, item, err))
		if repo.Branch != "" {
			if err := o.Sleeper.Sleep(ctx, o.Env.CloneSettle); err != nil {
				log.Ctx(ctx).Warn().Err(err).Str("item", item).Msg("clone settle interrupted")
			}
		}
	}
	return category
}

func (o Orchestrator) reportManual(ctx context.Context, items []string) types.CategoryResult {
	category := types.CategoryResult{Name: types.CollectKeyOther}
	for _, item := range shared.DedupeStrings(items) {
		category.Record(o.outcome(ctx, types.PhaseCollect, category.Name, item, types.ItemSkipped, "no installable source, acquire manually"))
	}
	return category
}

func (o Orchestrator) runHooks(ctx context.Context, rtm []string) types.CategoryResult {
	category := types.CategoryResult{Name: "hooks"}
	for _, pkg := range shared.DedupeStrings(rtm) {
		for _, hook := range o.Hooks.For(pkg) {
			item := pkg + ": " + hook.Name()
			category.Record(o.result(ctx, types.PhaseCollect, category.Name, item, hook.Run(ctx)))
		}
	}
	return category
}

// Build resolves system dependencies of the ROS workspace, builds the
// engine package, then builds every middleware component.
func (o Orchestrator) Build(ctx context.Context, manifest types.CollectManifest) (types.PhaseResult, error) {
	result := types.PhaseResult{Phase: types.PhaseBuild}

	workspace := types.CategoryResult{Name: "workspace"}
	_, err := o.Runner.Run(ctx, ports.CommandSpec{
		Name: "rosdep",
		Args: []string{"install", "-y", "-r", "--from-paths", "src", "--ignore-src"},
		Dir:  o.Env.ROSWorkspace,
	})
	workspace.Record(o.result(ctx, types.PhaseBuild, workspace.Name, "rosdep install", err))
	if err != nil && o.BuildPolicy.StopOnFailure() {
		result.Categories = append(result.Categories, workspace)
		return result, buildAbort("rosdep install", err)
	}

	catkinArgs := []string{"build"}
	item := "catkin build"
	if engines := shared.DedupeStrings(manifest.Engine); len(engines) > 0 {
		catkinArgs = append(catkinArgs, engines[0])
		item += " " + engines[0]
	}
	_, err = o.Runner.Run(ctx, ports.CommandSpec{Name: "catkin", Args: catkinArgs, Dir: o.Env.ROSWorkspace})
	workspace.Record(o.result(ctx, types.PhaseBuild, workspace.Name, item, err))
	result.Categories = append(result.Categories, workspace)
	if err != nil && o.BuildPolicy.StopOnFailure() {
		return result, buildAbort(item, err)
	}

	rtm := types.CategoryResult{Name: types.CollectKeyRTM}
	for _, pkg := range shared.DedupeStrings(manifest.RTM) {
		if err := ctx.Err(); err != nil {
			result.Categories = append(result.Categories, rtm)
			return result, err
		}
		_, err := o.Runner.Run(ctx, ports.CommandSpec{
			Name: "./mgr.py",
			Args: []string{"rtc", "build", "all", "-v"},
			Dir:  filepath.Join(o.Env.RTMWorkspace, pkg),
		})
		rtm.Record(o.result(ctx, types.PhaseBuild, rtm.Name, pkg, err))
		if err != nil && o.BuildPolicy.StopOnFailure() {
			result.Categories = append(result.Categories, rtm)
			return result, buildAbort(pkg, err)
		}
	}
	result.Categories = append(result.Categories, rtm)
	return result, nil
}

func buildAbort(item string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("build stopped at %s", item)).
		WithCause(err)
}

// Run makes sure the naming services are up, then launches every item of
// manifest detached, in the order roslaunch, rosrun, rtm.  A failed launch
// is recorded in the result and never stops the remaining items; only a
// service or context failure returns an error.
func (o Orchestrator) Run(ctx context.Context, manifest types.RunManifest) (types.PhaseResult, error) {
	result := types.PhaseResult{Phase: types.PhaseRun}
	if err := o.Supervisor.EnsureServices(ctx); err != nil {
		return result, err
	}
	manifest = Compact(manifest)

	launches := []struct {
		kind  types.LaunchKind
		items []string
	}{
		{types.LaunchKindStructured, manifest.Roslaunch},
		{types.LaunchKindDirect, manifest.Rosrun},
		{types.LaunchKindMiddleware, manifest.RTM},
	}
	for _, launch := range launches {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		category := types.CategoryResult{Name: string(launch.kind)}
		for index, item := range launch.items {
			category.Record(o.launch(ctx, launch.kind, index, item))
		}
		result.Categories = append(result.Categories, category)
	}
	return result, nil
}

func (o Orchestrator) launch(ctx context.Context, kind types.LaunchKind, index int, item string) types.ItemOutcome {
	dir := ""
	if kind == types.LaunchKindMiddleware {
		output, err := o.Runner.Run(ctx, ports.CommandSpec{
			Name: middlewareCLI,
			Args: []string{"package", "directory_show", item},
		})
		if err != nil {
			return o.result(ctx, types.PhaseRun, string(kind), item, err)
		}
		dir = lastLine(output)
		if dir == "" {
			return o.outcome(ctx, types.PhaseRun, string(kind), item, types.ItemFailed, "package directory not found")
		}
	}
	command := LaunchCommand(types.LaunchDescriptor{Kind: kind, Target: item})
	handle, err := o.Supervisor.Launch(ctx, kind, index, command, dir)
	if err != nil {
		return o.result(ctx, types.PhaseRun, string(kind), item, err)
	}
	return o.outcome(ctx, types.PhaseRun, string(kind), item, types.ItemSucceeded, fmt.Sprintf("%s pid=%d", handle.Label, handle.PID))
}

// Stop kills every node registered with the coordinator.
func (o Orchestrator) Stop(ctx context.Context) (types.PhaseResult, error) {
	result := types.PhaseResult{Phase: types.PhaseStop}
	category := types.CategoryResult{Name: "nodes"}
	_, err := o.Runner.Run(ctx, ports.CommandSpec{Name: "rosnode", Args: []string{"kill", "-a"}})
	category.Record(o.result(ctx, types.PhaseStop, category.Name, "rosnode kill -a", err))
	result.Categories = append(result.Categories, category)
	return result, categoryAbort(ctx, result.Phase, category)
}

// SpawnServiceApp starts the optional service application for the
// interaction engine.
func (o Orchestrator) SpawnServiceApp(ctx context.Context) (types.ProcessHandle, error) {
	return o.Supervisor.LaunchLabeled(ctx, "service_app", LaunchCommand(types.LaunchDescriptor{
		Kind:   types.LaunchKindDirect,
		Target: "rois_env service_app.py",
	}), "")
}

func categoryAbort(ctx context.Context, phase types.Phase, category types.CategoryResult) error {
	if !category.AllFailed() {
		return nil
	}
	log.Ctx(ctx).Error().
		Str("phase", string(phase)).
		Str("category", category.Name).
		Int("failed", len(category.Failed)).
		Msg("every item in category failed")
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("%s: every %s item failed", phase, category.Name))
}

func (o Orchestrator) result(ctx context.Context, phase types.Phase, category string, item string, err error) types.ItemOutcome {
	if err != nil {
		return o.outcome(ctx, phase, category, item, types.ItemFailed, errorDetail(err))
	}
	return o.outcome(ctx, phase, category, item, types.ItemSucceeded, "")
}

func (o Orchestrator) outcome(ctx context.Context, phase types.Phase, category string, item string, status types.ItemStatus, detail string) types.ItemOutcome {
	event := log.Ctx(ctx).Info()
	if status == types.ItemFailed {
		event = log.Ctx(ctx).Warn()
	}
	event.
		Str("phase", string(phase)).
		Str("category", category).
		Str("item", item).
		Str("status", string(status)).
		Str("detail", detail).
		Msg("step")
	return types.ItemOutcome{Item: item, Status: status, Detail: detail}
}

func errorDetail(err error) string {
	return strings.TrimSpace(err.Error())
}

func lastLine(output []byte) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
