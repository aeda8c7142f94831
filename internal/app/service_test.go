package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rtsi-fw/internal/adapters"
	"rtsi-fw/internal/core"
	"rtsi-fw/internal/policies"
	"rtsi-fw/internal/ports"
	"rtsi-fw/internal/types"
)

type recordingRunner struct {
	lines   []string
	outputs map[string]string
}

func (r *recordingRunner) Run(_ context.Context, spec ports.CommandSpec) ([]byte, error) {
	line := strings.Join(append([]string{spec.Name}, spec.Args...), " ")
	r.lines = append(r.lines, line)
	return []byte(r.outputs[line]), nil
}

type recordingSpawner struct {
	commands []string
	pid      int
	fail     map[string]bool
}

func (s *recordingSpawner) Spawn(_ context.Context, command string, _ string) (int, error) {
	s.commands = append(s.commands, command)
	if s.fail[command] {
		return 0, errors.New("terminal not found")
	}
	s.pid++
	return s.pid, nil
}

type staticProcesses map[string]bool

func (p staticProcesses) IsRunning(_ context.Context, pattern string) (bool, error) {
	return p[pattern], nil
}

type noSession struct{}

func (noSession) Start(context.Context, ports.CommandSpec) (io.Reader, io.Writer, error) {
	return nil, nil, errors.New("no terminal in tests")
}
func (noSession) Interact(context.Context) error { return nil }
func (noSession) Close() error                   { return nil }

type noLocale struct{}

func (noLocale) Locale(context.Context) (string, error) { return "LANG=C.UTF-8", nil }

type noSleep struct{}

func (noSleep) Sleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

type stubStdlib map[string]bool

func (s stubStdlib) IsStandardLibrary(_ context.Context, symbol string) (bool, error) {
	return s[symbol], nil
}

type stubIndex map[string]bool

func (s stubIndex) Exists(_ context.Context, name string) (bool, error) { return s[name], nil }

type stubRepo map[string]bool

func (s stubRepo) Search(_ context.Context, keyword string) (bool, error) { return s[keyword], nil }

type harness struct {
	home    string
	env     types.Environment
	runner  *recordingRunner
	spawner *recordingSpawner
	service Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	home := t.TempDir()
	env := types.Environment{
		Home:              home,
		User:              "robot",
		SystemDir:         filepath.Join(home, "RTSI_FW"),
		ROSWorkspace:      filepath.Join(home, "catkin_ws"),
		RTMWorkspace:      filepath.Join(home, "rtm_ws"),
		ROSDistro:         "noetic",
		CloneSettle:       time.Second,
		CoordinatorSettle: time.Millisecond,
	}
	require.NoError(t, os.MkdirAll(env.SystemDir, 0755))
	require.NoError(t, os.MkdirAll(env.ROSSource(), 0755))

	h := &harness{
		home:    home,
		env:     env,
		runner:  &recordingRunner{outputs: map[string]string{}},
		spawner: &recordingSpawner{fail: map[string]bool{}},
	}
	workspace := adapters.NewWorkspaceAdapter()
	supervisor := core.NewSupervisor(env, staticProcesses{"rosmaster": true, "omni": true}, h.spawner, noLocale{}, noSession{}, noSleep{})
	h.service = Service{
		Env:         env,
		Manifests:   adapters.ManifestFileAdapter{Clock: time.Now, InvocationID: "test"},
		Scenarios:   adapters.NewScenarioFileAdapter(),
		Descriptors: adapters.NewServiceDescriptorAdapter(),
		Workspace:   workspace,
		Classifier: core.NewClassifier(
			policies.DefaultClassifierPolicy(),
			stubStdlib{"os": true},
			stubIndex{"openai": true},
			stubRepo{"pyaudio": true},
		),
		Orchestrator: core.NewOrchestrator(context.Background(), env, h.runner, workspace, noSleep{}, supervisor, core.NewHookRegistry(), policies.DefaultFailurePolicy()),
	}
	return h
}

func (h *harness) write(t *testing.T, path string, content string) string {
	t.Helper()
	full := filepath.Join(h.home, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	return full
}
