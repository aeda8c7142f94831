package app

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"rtsi-fw/internal/core"
	"rtsi-fw/internal/types"
)

// Run starts the robot's processes, then the engine and the scenario's
// functions through the generated launch manifest.  Launch failures do not
// stop later launches; they are reported once everything was attempted.
func (s Service) Run(ctx context.Context, req RunRequest) (RunResult, error) {
	robot, err := s.loadRobot(req.Robot)
	if err != nil {
		return RunResult{}, err
	}
	functions, err := s.loadFunctions(req.Scenario)
	if err != nil {
		return RunResult{}, err
	}
	result := RunResult{}

	robotPhase, err := s.Orchestrator.Run(ctx, robot.RunOrEmpty())
	result.Phases = append(result.Phases, robotPhase)
	if err != nil {
		return s.withHandles(result), err
	}

	launch, err := s.PrepareLaunch(ctx, engineOf(robot), functions)
	if err != nil {
		return s.withHandles(result), err
	}
	result.LaunchPath = s.systemPath(launchFile)

	launchPhase, err := s.Orchestrator.Run(ctx, launch)
	result.Phases = append(result.Phases, launchPhase)
	if err != nil {
		return s.withHandles(result), err
	}

	failed := 0
	for _, phase := range result.Phases {
		failed += phase.FailedCount()
	}
	if req.ServiceApp {
		handle, err := s.Orchestrator.SpawnServiceApp(ctx)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("service app failed to start")
			failed++
		} else {
			log.Ctx(ctx).Info().Str("label", handle.Label).Int("pid", handle.PID).Msg("service app started")
		}
	}
	if failed > 0 {
		return s.withHandles(result), errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("run: %d launch item(s) failed", failed))
	}
	return s.withHandles(result), nil
}

func (s Service) withHandles(result RunResult) RunResult {
	result.Processes = s.Orchestrator.Supervisor.Handles()
	return result
}

// PrepareLaunch rewrites the seed launch manifest with the engine entry
// script and one item per function, then publishes it as the launch
// manifest.
func (s Service) PrepareLaunch(ctx context.Context, engine string, functions []string) (types.RunManifest, error) {
	var items []string
	if engine != "" && len(functions) > 0 {
		entry, err := s.Descriptors.EntryScript(s.enginePath(engine, descriptorFile))
		if err != nil {
			return types.RunManifest{}, err
		}
		items = core.ResolveLaunchItems(engine, entry, functions)
	}

	seed, err := s.Manifests.Update(s.systemPath(seedLaunchFile), func(doc *types.ManifestDocument) error {
		run := core.ResetRunLists(doc.RunOrEmpty(), types.RunKeyRTM, types.RunKeyRoslaunch, types.RunKeyRosrun)
		run = core.AppendLaunchItems(run, items)
		doc.Run = &run
		return nil
	})
	if err != nil {
		return types.RunManifest{}, err
	}

	launch, err := s.Manifests.Update(s.systemPath(launchFile), func(doc *types.ManifestDocument) error {
		run := core.MergeRun(seed.RunOrEmpty())
		doc.Run = &run
		doc.Collect = nil
		return nil
	})
	if err != nil {
		return types.RunManifest{}, err
	}
	log.Ctx(ctx).Info().Strs("items", items).Int("revision", launch.Revision).Msg("launch manifest prepared")
	return launch.RunOrEmpty(), nil
}
