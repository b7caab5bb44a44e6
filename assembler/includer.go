package assembler

import (
	"os"
	"path/filepath"
)

// Includer reads the files named by #include.
type Includer interface {
	ReadFile(path string) ([]byte, error)
}

// Resolver is implemented by includers that locate #include paths themselves.
// Resolve returns the path to read for an include written in the file from.
// Includers without it receive the cleaned path as written.
type Resolver interface {
	Resolve(from, path string) string
}

// DirIncluder reads include files from disk. A relative path is looked up beside the
// file that includes it first, then in Dir.
type DirIncluder struct {
	Dir string
}

// Resolve finds path for an #include in the file from.
func (d DirIncluder) Resolve(from, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	local := filepath.Join(filepath.Dir(from), path)
	if d.Dir == "" {
		return local
	}
	if _, err := os.Stat(local); err == nil {
		return local
	}
	return filepath.Join(d.Dir, path)
}

// ReadFile reads the whole file. The path is used as given, so pass it through
// Resolve first.
func (d DirIncluder) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
