package adapters

import (
	"context"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/shirou/gopsutil/v4/process"

	"rtsi-fw/internal/ports"
)

// ProcessTableAdapter looks for live processes by command line.
type ProcessTableAdapter struct{}

func NewProcessTableAdapter() ProcessTableAdapter {
	return ProcessTableAdapter{}
}

// IsRunning reports whether any process other than this one, and other
// than a grep for the same pattern, has pattern in its command line.
func (a ProcessTableAdapter) IsRunning(ctx context.Context, pattern string) (bool, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to list processes").
			WithCause(err)
	}
	self := int32(os.Getpid())
	for _, proc := range procs {
		if proc.Pid == self {
			continue
		}
		cmdline, err := proc.CmdlineWithContext(ctx)
		if err != nil || cmdline == "" {
			continue
		}
		if matchesProcess(cmdline, pattern) {
			return true, nil
		}
	}
	return false, nil
}

func matchesProcess(cmdline string, pattern string) bool {
	if !strings.Contains(cmdline, pattern) {
		return false
	}
	fields := strings.Fields(cmdline)
	return len(fields) == 0 || !strings.HasSuffix(fields[0], "grep")
}

var _ ports.ProcessTablePort = ProcessTableAdapter{}
