package core

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"rtsi-fw/internal/ports"
	"rtsi-fw/internal/types"
)

const (
	HookKindFileMove = "file-move"
	HookKindCommand  = "command"
	HookKindApt      = "apt"
)

// Hook is a side effect attached to a middleware package.  It runs during
// Collect after every repository has been acquired.
type Hook interface {
	Name() string
	Run(ctx context.Context) error
}

// HookRegistry maps middleware package identities to their hooks.
type HookRegistry struct {
	hooks map[string][]Hook
}

func NewHookRegistry() HookRegistry {
	return HookRegistry{hooks: map[string][]Hook{}}
}

func (r *HookRegistry) Register(pkg string, hook Hook) {
	if r.hooks == nil {
		r.hooks = map[string][]Hook{}
	}
	r.hooks[pkg] = append(r.hooks[pkg], hook)
}

func (r HookRegistry) For(pkg string) []Hook {
	return r.hooks[pkg]
}

type FileMoveHook struct {
	Mover       ports.FileMover
	Source      string
	Destination string
}

func (h FileMoveHook) Name() string {
	return fmt.Sprintf("move %s -> %s", h.Source, h.Destination)
}

func (h FileMoveHook) Run(_ context.Context) error {
	return h.Mover.Move(h.Source, h.Destination)
}

type CommandHook struct {
	Runner ports.CommandRunner
	Spec   ports.CommandSpec
}

func (h CommandHook) Name() string {
	return strings.Join(append([]string{h.Spec.Name}, h.Spec.Args...), " ")
}

func (h CommandHook) Run(ctx context.Context) error {
	_, err := h.Runner.Run(ctx, h.Spec)
	return err
}

// AptHook installs system packages the same way the apt category does.
type AptHook struct {
	Runner   ports.CommandRunner
	Password string
	Packages []string
}

func (h AptHook) Name() string {
	return "apt install " + strings.Join(h.Packages, " ")
}

func (h AptHook) Run(ctx context.Context) error {
	for _, pkg := range h.Packages {
		if _, err := h.Runner.Run(ctx, aptInstallSpec(pkg, h.Password)); err != nil {
			return err
		}
	}
	return nil
}

// DefaultHookSpecs returns the hooks that ship with the tool.
func DefaultHookSpecs() []types.HookSpec {
	return []types.HookSpec{
		{Package: "MobileRobotControl", Kind: HookKindApt, Packages: []string{"libsfml-dev"}},
	}
}

// BuildHookRegistry compiles hook specs.  Relative paths are resolved
// against the middleware workspace.
func BuildHookRegistry(specs []types.HookSpec, env types.Environment, runner ports.CommandRunner, mover ports.FileMover) (HookRegistry, error) {
	registry := NewHookRegistry()
	for _, spec := range specs {
		pkg := strings.TrimSpace(spec.Package)
		if pkg == "" {
			return HookRegistry{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("hook package must be set")
		}
		switch spec.Kind {
		case HookKindFileMove:
			if spec.Source == "" || spec.Destination == "" {
				return HookRegistry{}, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("file-move hook for %s needs source and destination", pkg))
			}
			registry.Register(pkg, FileMoveHook{
				Mover:       mover,
				Source:      resolveHookPath(env.RTMWorkspace, spec.Source),
				Destination: resolveHookPath(env.RTMWorkspace, spec.Destination),
			})
		case HookKindCommand:
			if len(spec.Command) == 0 {
				return HookRegistry{}, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("command hook for %s needs a command", pkg))
			}
			registry.Register(pkg, CommandHook{
				Runner: runner,
				Spec: ports.CommandSpec{
					Name: spec.Command[0],
					Args: spec.Command[1:],
					Dir:  filepath.Join(env.RTMWorkspace, pkg),
				},
			})
		case HookKindApt:
			if len(spec.Packages) == 0 {
				return HookRegistry{}, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("apt hook for %s needs packages", pkg))
			}
			registry.Register(pkg, AptHook{Runner: runner, Password: env.SudoPassword, Packages: spec.Packages})
		default:
			return HookRegistry{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unsupported hook kind %q for %s", spec.Kind, pkg))
		}
	}
	return registry, nil
}

func resolveHookPath(base string, path string) string {
	if filepath.IsAbs(path) || base == "" {
		return path
	}
	return filepath.Join(base, path)
}

func aptInstallSpec(item string, password string) ports.CommandSpec {
	return ports.CommandSpec{
		Name:  "sudo",
		Args:  []string{"-S", "apt", "-y", "install", item},
		Stdin: bytes.NewBufferString(password + "\n"),
	}
}
