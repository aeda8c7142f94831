package adapters

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/creack/pty"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"rtsi-fw/internal/ports"
)

// PTYSession runs a command on a pseudo terminal so it can be fed a
// credential and then handed to the operator.
type PTYSession struct {
	Stdin  *os.File
	Stdout io.Writer

	cmd *exec.Cmd
	tty *os.File
}

func NewPTYSession() *PTYSession {
	return &PTYSession{Stdin: os.Stdin, Stdout: os.Stdout}
}

func (s *PTYSession) Start(ctx context.Context, spec ports.CommandSpec) (io.Reader, io.Writer, error) {
	cmd := exec.Command(spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	tty, err := pty.Start(cmd)
	if err != nil {
		return nil, nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to start " + spec.Name + " on a pseudo terminal").
			WithCause(err)
	}
	s.cmd = cmd
	s.tty = tty
	log.Ctx(ctx).Debug().Str("cmd", spec.Name).Int("pid", cmd.Process.Pid).Msg("pty session started")
	return tty, tty, nil
}

// Interact forwards the operator's terminal to the session until the
// command exits or ctx is done.
func (s *PTYSession) Interact(ctx context.Context) error {
	if s.tty == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("pty session not started")
	}
	if fd := int(s.Stdin.Fd()); term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err == nil {
			defer func() { _ = term.Restore(fd, state) }()
		}
		if err := pty.InheritSize(s.Stdin, s.tty); err != nil {
			log.Ctx(ctx).Debug().Err(err).Msg("failed to size pty")
		}
	}

	go func() { _, _ = io.Copy(s.tty, s.Stdin) }()
	done := make(chan error, 1)
	go func() {
		_, err := io.Copy(s.Stdout, s.tty)
		// the pty reports EIO once the child has exited
		if errors.Is(err, syscall.EIO) {
			err = nil
		}
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("pty session failed").
				WithCause(err)
		}
	}
	if err := s.cmd.Wait(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("interactive command failed").
			WithCause(err)
	}
	return nil
}

func (s *PTYSession) Close() error {
	if s.tty == nil {
		return nil
	}
	err := s.tty.Close()
	s.tty = nil
	return err
}

var _ ports.InteractiveSession = (*PTYSession)(nil)
