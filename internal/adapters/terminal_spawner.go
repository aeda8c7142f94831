package adapters

import (
	"context"
	"os/exec"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"rtsi-fw/internal/ports"
)

// DefaultTerminal opens each launch in a new tab of the desktop terminal.
var DefaultTerminal = []string{"gnome-terminal", "--tab", "--"}

// TerminalSpawner starts commands in their own terminal window through
// `bash -c`, without waiting for them.
type TerminalSpawner struct {
	Terminal []string
}

func NewTerminalSpawner(terminal []string) TerminalSpawner {
	if len(terminal) == 0 {
		terminal = DefaultTerminal
	}
	return TerminalSpawner{Terminal: terminal}
}

func (s TerminalSpawner) Spawn(ctx context.Context, command string, dir string) (int, error) {
	args := append(append([]string{}, s.Terminal[1:]...), "bash", "-c", command)
	// Not bound to ctx: spawned processes outlive the invocation.
	cmd := exec.Command(s.Terminal[0], args...)
	cmd.Dir = dir
	if err := cmd.Start(); err != nil {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to spawn " + command).
			WithCause(err)
	}
	pid := cmd.Process.Pid
	go func() {
		_ = cmd.Wait()
	}()
	log.Ctx(ctx).Debug().Str("cmd", command).Str("dir", dir).Int("pid", pid).Msg("spawned")
	return pid, nil
}

var _ ports.ProcessSpawner = TerminalSpawner{}
