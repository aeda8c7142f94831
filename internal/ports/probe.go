package ports

import "context"

// StdlibProbe answers whether a symbol ships with the interpreter.
type StdlibProbe interface {
	IsStandardLibrary(ctx context.Context, symbol string) (bool, error)
}

// PackageIndexPort answers whether a package name is published on the
// language package index.
type PackageIndexPort interface {
	Exists(ctx context.Context, name string) (bool, error)
}

// SystemRepoPort answers whether a keyword search of the OS package
// repository returns anything.
type SystemRepoPort interface {
	Search(ctx context.Context, keyword string) (bool, error)
}
