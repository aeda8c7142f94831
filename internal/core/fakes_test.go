package core

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"rtsi-fw/internal/policies"
	"rtsi-fw/internal/ports"
	"rtsi-fw/internal/types"
)

type runCall struct {
	Line  string
	Dir   string
	Stdin string
}

type fakeRunner struct {
	mu      sync.Mutex
	calls   []runCall
	fail    map[string]bool
	outputs map[string]string
}

func (f *fakeRunner) Run(_ context.Context, spec ports.CommandSpec) ([]byte, error) {
	line := strings.Join(append([]string{spec.Name}, spec.Args...), " ")
	stdin := ""
	if spec.Stdin != nil {
		data, _ := io.ReadAll(spec.Stdin)
		stdin = string(data)
	}
	f.mu.Lock()
	f.calls = append(f.calls, runCall{Line: line, Dir: spec.Dir, Stdin: stdin})
	f.mu.Unlock()
	if f.fail[line] {
		return []byte("boom"), errors.New("exit status 1")
	}
	return []byte(f.outputs[line]), nil
}

func (f *fakeRunner) lines() []string {
	out := make([]string, 0, len(f.calls))
	for _, call := range f.calls {
		out = append(out, call.Line)
	}
	return out
}

type fakeWorkspace struct {
	dirs  map[string]bool
	files map[string][]byte
}

func (f fakeWorkspace) DirExists(path string) bool { return f.dirs[path] }

func (f fakeWorkspace) FileExists(path string) bool {
	_, ok := f.files[path]
	return ok
}

func (f fakeWorkspace) FindScripts(string) ([]string, error) { return nil, nil }

func (f fakeWorkspace) ReadFile(path string) ([]byte, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

type fakeSleeper struct {
	slept []time.Duration
}

func (f *fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	f.slept = append(f.slept, d)
	return ctx.Err()
}

type fakeSpawner struct {
	nextPID  int
	commands []string
	dirs     []string
	fail     map[string]bool
}

func (f *fakeSpawner) Spawn(_ context.Context, command string, dir string) (int, error) {
	f.commands = append(f.commands, command)
	f.dirs = append(f.dirs, dir)
	if f.fail[command] {
		return 0, errors.New("terminal not found")
	}
	f.nextPID++
	return 1000 + f.nextPID, nil
}

type fakeProcessTable map[string]bool

func (f fakeProcessTable) IsRunning(_ context.Context, pattern string) (bool, error) {
	return f[pattern], nil
}

type fakeLocale struct {
	output string
	err    error
}

func (f fakeLocale) Locale(context.Context) (string, error) { return f.output, f.err }

type fakeSession struct {
	transcript string
	input      bytes.Buffer
	started    []string
	interacted bool
	closed     bool
}

func (f *fakeSession) Start(_ context.Context, spec ports.CommandSpec) (io.Reader, io.Writer, error) {
	f.started = append(f.started, strings.Join(append([]string{spec.Name}, spec.Args...), " "))
	return strings.NewReader(f.transcript), &f.input, nil
}

func (f *fakeSession) Interact(context.Context) error {
	f.interacted = true
	return nil
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

func testEnv() types.Environment {
	return types.Environment{
		Home:              "/home/robot",
		User:              "robot",
		SystemDir:         "/home/robot/RTSI_FW",
		ROSWorkspace:      "/home/robot/catkin_ws",
		RTMWorkspace:      "/home/robot/rtm_ws",
		SudoPassword:      "secret",
		CloneSettle:       15 * time.Second,
		CoordinatorSettle: 500 * time.Millisecond,
	}
}

type orchestratorFixture struct {
	runner    *fakeRunner
	workspace fakeWorkspace
	sleeper   *fakeSleeper
	spawner   *fakeSpawner
	processes fakeProcessTable
	session   *fakeSession
	orch      Orchestrator
}

func newOrchestratorFixture() *orchestratorFixture {
	f := &orchestratorFixture{
		runner:    &fakeRunner{fail: map[string]bool{}, outputs: map[string]string{}},
		workspace: fakeWorkspace{dirs: map[string]bool{}, files: map[string][]byte{}},
		sleeper:   &fakeSleeper{},
		spawner:   &fakeSpawner{fail: map[string]bool{}},
		processes: fakeProcessTable{"rosmaster": true, "omni": true},
		session:   &fakeSession{},
	}
	f.rebuild(NewHookRegistry(), policies.DefaultFailurePolicy())
	return f
}

func (f *orchestratorFixture) rebuild(hooks HookRegistry, policy policies.FailurePolicy) {
	env := testEnv()
	supervisor := NewSupervisor(env, f.processes, f.spawner, fakeLocale{output: "LANG=en_US.UTF-8"}, f.session, f.sleeper)
	f.orch = NewOrchestrator(context.Background(), env, f.runner, f.workspace, f.sleeper, supervisor, hooks, policy)
}
