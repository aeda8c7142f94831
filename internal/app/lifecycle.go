package app

import (
	"context"

	"rtsi-fw/internal/types"
)

// Stop shuts down every running node.
func (s Service) Stop(ctx context.Context) (types.PhaseResult, error) {
	return s.Orchestrator.Stop(ctx)
}

// NameServer brings up the coordinator and the naming service without
// launching anything else.
func (s Service) NameServer(ctx context.Context) error {
	return s.Orchestrator.Supervisor.EnsureServices(ctx)
}
