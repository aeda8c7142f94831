package ports

import (
	"context"
	"io"
	"time"
)

// CommandSpec describes one external command invocation.
type CommandSpec struct {
	Name  string
	Args  []string
	Dir   string
	Stdin io.Reader
}

// CommandRunner executes a command to completion and returns its combined
// output.  A non-zero exit is reported as an error.
type CommandRunner interface {
	Run(ctx context.Context, spec CommandSpec) ([]byte, error)
}

// ProcessSpawner starts a command detached from the caller and returns
// the pid without waiting for it.
type ProcessSpawner interface {
	Spawn(ctx context.Context, command string, dir string) (int, error)
}

// ProcessTablePort reports whether a process matching pattern is alive.
type ProcessTablePort interface {
	IsRunning(ctx context.Context, pattern string) (bool, error)
}

// InteractiveSession drives a command that asks for a credential on its
// controlling terminal.
type InteractiveSession interface {
	// Start launches the command attached to a pseudo terminal.  The
	// returned reader yields terminal output, the writer feeds input.
	Start(ctx context.Context, spec CommandSpec) (io.Reader, io.Writer, error)
	// Interact hands the terminal over to the operator until the command
	// exits.
	Interact(ctx context.Context) error
	Close() error
}

type LocaleProbe interface {
	// Locale returns the raw output of the system locale query.
	Locale(ctx context.Context) (string, error)
}

// Sleeper waits for d or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}
