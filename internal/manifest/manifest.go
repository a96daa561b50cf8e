package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DefaultFile is the manifest file name looked up in the working directory.
const DefaultFile = "package.json"

var (
	// ErrManifestNotFound is returned when the manifest file does not exist.
	ErrManifestNotFound = errors.New("manifest not found")

	// ErrInvalidManifest is returned when the manifest is not valid JSON or
	// its dependencies field is not an object.
	ErrInvalidManifest = errors.New("invalid manifest")
)

// packageJSON is the subset of package.json this package reads.
// Specifiers are kept raw since only the names matter.
type packageJSON struct {
	Dependencies map[string]json.RawMessage `json:"dependencies"`
}

// DependencySet is the immutable set of direct dependency names.
// It is safe for concurrent reads. A nil *DependencySet is empty.
type DependencySet struct {
	names map[string]struct{}
}

// NewDependencySet returns a set holding names.
func NewDependencySet(names ...string) *DependencySet {
	s := &DependencySet{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.names[n] = struct{}{}
	}
	return s
}

// Has reports whether name is a direct dependency.
func (s *DependencySet) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.names[name]
	return ok
}

// Len returns the number of dependencies.
func (s *DependencySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns the dependency names in sorted order.
func (s *DependencySet) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.names))
	for n := range s.names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Load reads DefaultFile from dir.
func Load(dir string) (*DependencySet, error) {
	return LoadFile(filepath.Join(dir, DefaultFile))
}

// LoadFile reads the manifest at path. A manifest without a dependencies
// field yields an empty set.
func LoadFile(path string) (*DependencySet, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Manifest path comes from the user's working directory
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a package.json document.
func Parse(data []byte) (*DependencySet, error) {
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}

	s := &DependencySet{names: make(map[string]struct{}, len(pkg.Dependencies))}
	for name := range pkg.Dependencies {
		s.names[name] = struct{}{}
	}
	return s, nil
}
