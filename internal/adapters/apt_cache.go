package adapters

import (
	"context"
	"strings"

	"rtsi-fw/internal/ports"
)

// AptCacheAdapter searches the local apt package lists.
type AptCacheAdapter struct {
	Runner ports.CommandRunner
}

func NewAptCacheAdapter(runner ports.CommandRunner) AptCacheAdapter {
	return AptCacheAdapter{Runner: runner}
}

// Search is true when `apt-cache search keyword` prints anything.
func (a AptCacheAdapter) Search(ctx context.Context, keyword string) (bool, error) {
	output, err := a.Runner.Run(ctx, ports.CommandSpec{Name: "apt-cache", Args: []string{"search", keyword}})
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(string(output)) != "", nil
}

var _ ports.SystemRepoPort = AptCacheAdapter{}
