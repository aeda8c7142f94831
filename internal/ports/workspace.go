package ports

// WorkspacePort inspects the ROS and RTM workspaces on disk.
type WorkspacePort interface {
	DirExists(path string) bool
	FileExists(path string) bool
	FindScripts(root string) ([]string, error)
	ReadFile(path string) ([]byte, error)
}

// FileMover relocates a file, used by post-acquisition hooks.
type FileMover interface {
	Move(source string, destination string) error
}
