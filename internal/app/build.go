package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"rtsi-fw/internal/core"
	"rtsi-fw/internal/types"
)

// Build compiles the robot's workspace.  Middleware components pulled in
// by the last collected scenario are built as well.
func (s Service) Build(ctx context.Context, req BuildRequest) (types.PhaseResult, error) {
	robot, err := s.loadRobot(req.Robot)
	if err != nil {
		return types.PhaseResult{}, err
	}
	manifest := robot.CollectOrEmpty()
	combinedPath := s.systemPath(combinedCollectFile)
	if s.Workspace.FileExists(combinedPath) {
		combined, err := s.Manifests.Load(combinedPath)
		if err != nil {
			return types.PhaseResult{}, err
		}
		manifest = core.MergeCollect(manifest, combined.CollectOrEmpty())
		log.Ctx(ctx).Debug().Str("manifest", combinedPath).Msg("including collected scenario components")
	}
	return s.Orchestrator.Build(ctx, manifest)
}
