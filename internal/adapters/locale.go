package adapters

import (
	"context"

	"rtsi-fw/internal/ports"
)

type LocaleAdapter struct {
	Runner ports.CommandRunner
}

func NewLocaleAdapter(runner ports.CommandRunner) LocaleAdapter {
	return LocaleAdapter{Runner: runner}
}

func (a LocaleAdapter) Locale(ctx context.Context) (string, error) {
	output, err := a.Runner.Run(ctx, ports.CommandSpec{Name: "locale"})
	if err != nil {
		return "", err
	}
	return string(output), nil
}

var _ ports.LocaleProbe = LocaleAdapter{}
