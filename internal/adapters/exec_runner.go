package adapters

import (
	"context"
	"errors"
	"os/exec"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"rtsi-fw/internal/ports"
	"rtsi-fw/internal/shared"
)

// ExecRunner runs commands through os/exec and waits for them.
type ExecRunner struct{}

func NewExecRunner() ExecRunner {
	return ExecRunner{}
}

func (r ExecRunner) Run(ctx context.Context, spec ports.CommandSpec) ([]byte, error) {
	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	if spec.Stdin != nil {
		cmd.Stdin = spec.Stdin
	}
	log.Ctx(ctx).Debug().Str("cmd", shared.CommandLine(spec.Name, spec.Args)).Str("dir", spec.Dir).Msg("exec")
	output, err := cmd.CombinedOutput()
	if err != nil {
		code := errbuilder.CodeInternal
		if errors.Is(err, exec.ErrNotFound) {
			code = errbuilder.CodeNotFound
		}
		return output, errbuilder.New().
			WithCode(code).
			WithMsg(shared.CommandLine(spec.Name, spec.Args) + " failed").
			WithCause(shared.CommandError(output, err))
	}
	return output, nil
}

var _ ports.CommandRunner = ExecRunner{}
