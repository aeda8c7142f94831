package adapters

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"rtsi-fw/internal/ports"
)

type WorkspaceAdapter struct{}

func NewWorkspaceAdapter() WorkspaceAdapter {
	return WorkspaceAdapter{}
}

func (a WorkspaceAdapter) DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (a WorkspaceAdapter) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (a WorkspaceAdapter) ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read " + path).
			WithCause(err)
	}
	return content, nil
}

// FindScripts lists the Python scripts below root, skipping build output.
func (a WorkspaceAdapter) FindScripts(root string) ([]string, error) {
	var paths []string
	if root == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("workspace root is empty")
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && shouldSkipWorkspaceDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".py") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to scan workspace").
			WithCause(err)
	}
	sort.Strings(paths)
	return paths, nil
}

func shouldSkipWorkspaceDir(name string) bool {
	switch name {
	case "install", "build", "log", ".git", ".catkin_tools", ".ros", "devel", "__pycache__":
		return true
	default:
		return false
	}
}

// Move renames source to destination, copying when they sit on
// different filesystems.
func (a WorkspaceAdapter) Move(source string, destination string) error {
	if err := os.MkdirAll(filepath.Dir(destination), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create destination directory").
			WithCause(err)
	}
	if err := os.Rename(source, destination); err == nil {
		return nil
	}
	if err := copyFile(source, destination); err != nil {
		return err
	}
	if err := os.Remove(source); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to remove moved file").
			WithCause(err)
	}
	return nil
}

func copyFile(source string, destination string) error {
	in, err := os.Open(source)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to open " + source).
			WithCause(err)
	}
	defer in.Close()
	out, err := os.Create(destination)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create " + destination).
			WithCause(err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to copy " + source).
			WithCause(err)
	}
	return out.Close()
}

var (
	_ ports.WorkspacePort = WorkspaceAdapter{}
	_ ports.FileMover     = WorkspaceAdapter{}
)
