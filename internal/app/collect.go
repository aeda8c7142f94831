package app

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"rtsi-fw/internal/core"
	"rtsi-fw/internal/shared"
	"rtsi-fw/internal/types"
)

// Collect acquires the robot's own dependencies, then works out and
// acquires what the scenario's engine functions need.
func (s Service) Collect(ctx context.Context, req CollectRequest) (CollectResult, error) {
	robot, err := s.loadRobot(req.Robot)
	if err != nil {
		return CollectResult{}, err
	}
	functions, err := s.loadFunctions(req.Scenario)
	if err != nil {
		return CollectResult{}, err
	}
	result := CollectResult{Functions: functions, Engine: engineOf(robot)}

	robotPhase, err := s.Orchestrator.Collect(ctx, robot.CollectOrEmpty())
	result.Phases = append(result.Phases, robotPhase)
	if err != nil {
		return result, err
	}

	if result.Engine == "" {
		log.Ctx(ctx).Warn().Str("robot", req.Robot).Msg("robot declares no engine, skipping function analysis")
		return result, nil
	}

	fragments := make([]types.CollectManifest, 0, len(functions))
	for _, fn := range functions {
		fragment, ok, err := s.functionFragment(ctx, result.Engine, fn)
		if err != nil {
			return result, err
		}
		if ok {
			fragments = append(fragments, fragment)
		}
	}

	result.CombinedPath = s.systemPath(combinedCollectFile)
	combined, err := s.Manifests.Update(result.CombinedPath, func(doc *types.ManifestDocument) error {
		merged := core.MergeCollect(types.CollectManifest{}, fragments...)
		doc.Collect = &merged
		return nil
	})
	if err != nil {
		return result, err
	}

	combinedPhase, err := s.Orchestrator.Collect(ctx, combined.CollectOrEmpty())
	result.Phases = append(result.Phases, combinedPhase)
	return result, err
}

// functionFragment returns the collect fragment for one engine function:
// the function's yaml manifest when shipped, otherwise a classification
// of its script.
func (s Service) functionFragment(ctx context.Context, engine string, fn string) (types.CollectManifest, bool, error) {
	manifestPath := s.enginePath(engine, "yaml", fn+".yaml")
	if s.Workspace.FileExists(manifestPath) {
		doc, err := s.Manifests.Load(manifestPath)
		if err != nil {
			return types.CollectManifest{}, false, err
		}
		log.Ctx(ctx).Debug().Str("function", fn).Str("manifest", manifestPath).Msg("function manifest loaded")
		return doc.CollectOrEmpty(), true, nil
	}

	scriptPath := s.enginePath(engine, "scripts", fn+".py")
	if !s.Workspace.FileExists(scriptPath) {
		log.Ctx(ctx).Warn().Str("function", fn).Str("engine", engine).Msg("no manifest or script for function")
		return types.CollectManifest{}, false, nil
	}
	source, err := s.Workspace.ReadFile(scriptPath)
	if err != nil {
		return types.CollectManifest{}, false, err
	}
	classification, err := s.Classifier.ClassifySource(ctx, source)
	if err != nil {
		return types.CollectManifest{}, false, err
	}
	log.Ctx(ctx).Info().Str("function", fn).Str("script", scriptPath).Msg("function script classified")
	return core.ToCollectFragment(classification, s.Env.ROSDistro), true, nil
}

func (s Service) loadRobot(selector string) (types.ManifestDocument, error) {
	if selector == "" {
		return types.ManifestDocument{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("robot is required")
	}
	return s.Manifests.Load(s.systemFile(selector))
}

func (s Service) loadFunctions(selector string) ([]string, error) {
	if selector == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("scenario is required")
	}
	scenario, err := s.Scenarios.LoadScenario(s.systemFile(selector))
	if err != nil {
		return nil, err
	}
	return scenario.Functions(), nil
}

func engineOf(robot types.ManifestDocument) string {
	engines := shared.DedupeStrings(robot.CollectOrEmpty().Engine)
	if len(engines) == 0 {
		return ""
	}
	return engines[0]
}
