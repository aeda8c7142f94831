package adapters

import (
	"context"
	"strings"
	"sync"

	"rtsi-fw/internal/ports"
)

const stdlibListing = "import sys; print('\\n'.join(sorted(sys.stdlib_module_names)))"

// PythonStdlibAdapter asks the interpreter for its standard library module
// names once and answers from that list afterwards.
type PythonStdlibAdapter struct {
	Runner      ports.CommandRunner
	Interpreter string

	once  sync.Once
	names map[string]struct{}
	err   error
}

func NewPythonStdlibAdapter(runner ports.CommandRunner, interpreter string) *PythonStdlibAdapter {
	if interpreter == "" {
		interpreter = "python3"
	}
	return &PythonStdlibAdapter{Runner: runner, Interpreter: interpreter}
}

func (a *PythonStdlibAdapter) IsStandardLibrary(ctx context.Context, symbol string) (bool, error) {
	a.once.Do(func() {
		output, err := a.Runner.Run(ctx, ports.CommandSpec{
			Name: a.Interpreter,
			Args: []string{"-c", stdlibListing},
		})
		if err != nil {
			a.err = err
			return
		}
		a.names = map[string]struct{}{}
		for _, line := range strings.Split(string(output), "\n") {
			if name := strings.TrimSpace(line); name != "" {
				a.names[name] = struct{}{}
			}
		}
	})
	if a.err != nil {
		return false, a.err
	}
	_, ok := a.names[symbol]
	return ok, nil
}

var _ ports.StdlibProbe = (*PythonStdlibAdapter)(nil)
