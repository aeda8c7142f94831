package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"rtsi-fw/internal/ports"
	"rtsi-fw/internal/types"
)

const (
	coordinatorProcess   = "rosmaster"
	coordinatorCommand   = "roscore"
	namingServiceProcess = "omni"
)

// Supervisor keeps the middleware coordinator and naming service alive and
// tracks the processes launched during one invocation.
type Supervisor struct {
	Env       types.Environment
	Processes ports.ProcessTablePort
	Spawner   ports.ProcessSpawner
	Locale    ports.LocaleProbe
	Session   ports.InteractiveSession
	Sleeper   ports.Sleeper

	mu      sync.Mutex
	handles []types.ProcessHandle
}

func NewSupervisor(env types.Environment, processes ports.ProcessTablePort, spawner ports.ProcessSpawner, locale ports.LocaleProbe, session ports.InteractiveSession, sleeper ports.Sleeper) *Supervisor {
	return &Supervisor{
		Env:       env,
		Processes: processes,
		Spawner:   spawner,
		Locale:    locale,
		Session:   session,
		Sleeper:   sleeper,
	}
}

// EnsureServices brings up the coordinator, then the naming service.
func (s *Supervisor) EnsureServices(ctx context.Context) error {
	if _, err := s.EnsureCoordinator(ctx); err != nil {
		return err
	}
	_, err := s.EnsureNamingService(ctx)
	return err
}

// EnsureCoordinator starts roscore when no rosmaster is running.  It
// reports whether a new instance was started.
func (s *Supervisor) EnsureCoordinator(ctx context.Context) (bool, error) {
	running, err := s.Processes.IsRunning(ctx, coordinatorProcess)
	if err != nil {
		return false, err
	}
	if running {
		log.Ctx(ctx).Info().Str("service", coordinatorProcess).Msg("already running")
		return false, nil
	}
	pid, err := s.Spawner.Spawn(ctx, coordinatorCommand, "")
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to start coordinator").
			WithCause(err)
	}
	s.record(types.ProcessHandle{Label: coordinatorCommand, PID: pid})
	log.Ctx(ctx).Info().Str("service", coordinatorProcess).Int("pid", pid).Msg("started")
	if err := s.Sleeper.Sleep(ctx, s.Env.CoordinatorSettle); err != nil {
		return true, err
	}
	return true, nil
}

// EnsureNamingService starts the middleware naming service when it is not
// running.  The start command asks for a credential on its terminal; the
// expected prompt depends on the system locale.
func (s *Supervisor) EnsureNamingService(ctx context.Context) (bool, error) {
	running, err := s.Processes.IsRunning(ctx, namingServiceProcess)
	if err != nil {
		return false, err
	}
	if running {
		log.Ctx(ctx).Info().Str("service", namingServiceProcess).Msg("already running")
		return false, nil
	}

	tag := defaultLocaleTag
	if output, err := s.Locale.Locale(ctx); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("locale probe failed, assuming english prompts")
	} else {
		tag = LocaleTag(output)
	}
	prompt := CredentialPrompt(tag, s.Env.User)

	out, in, err := s.Session.Start(ctx, ports.CommandSpec{
		Name: "wasanbon-admin.py",
		Args: []string{"nameserver", "start"},
	})
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to start naming service").
			WithCause(err)
	}
	defer s.Session.Close()

	if err := WaitForPrompt(ctx, out, prompt); err != nil {
		return false, err
	}
	if _, err := fmt.Fprintln(in, s.credential()); err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to send credential").
			WithCause(err)
	}
	log.Ctx(ctx).Info().Str("service", namingServiceProcess).Str("locale", tag).Msg("credential sent")
	if err := s.Session.Interact(ctx); err != nil {
		return true, err
	}
	return true, nil
}

func (s *Supervisor) credential() string {
	if s.Env.SudoPassword != "" {
		return s.Env.SudoPassword
	}
	return s.Env.User
}

// Launch spawns command detached and records it as <kind>_<index>.
func (s *Supervisor) Launch(ctx context.Context, kind types.LaunchKind, index int, command string, dir string) (types.ProcessHandle, error) {
	return s.LaunchLabeled(ctx, fmt.Sprintf("%s_%d", kind, index), command, dir)
}

func (s *Supervisor) LaunchLabeled(ctx context.Context, label string, command string, dir string) (types.ProcessHandle, error) {
	pid, err := s.Spawner.Spawn(ctx, command, dir)
	if err != nil {
		return types.ProcessHandle{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to launch %s", label)).
			WithCause(err)
	}
	handle := types.ProcessHandle{Label: label, PID: pid}
	s.record(handle)
	return handle, nil
}

func (s *Supervisor) record(handle types.ProcessHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handles = append(s.handles, handle)
}

// Handles lists the processes spawned so far in spawn order.  The list
// lives only as long as this invocation.
func (s *Supervisor) Handles() []types.ProcessHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.ProcessHandle(nil), s.handles...)
}
