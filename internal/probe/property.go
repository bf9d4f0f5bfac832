package probe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"regexp"
	"runtime"
	"strings"

	"github.com/nao1215/devfingerprint/internal/buildprop"
)

// PropertyStore is a string-keyed key-value source. Lookup returns
// ErrPropertyNotFound for a missing key and ErrStoreUnavailable when the
// store cannot be consulted at all.
type PropertyStore interface {
	Lookup(key string) (string, error)
}

// BuildProperty looks key up in a platform build-property store and renders
// the outcome as report text.
func BuildProperty(store PropertyStore, key string) string {
	if store == nil {
		return "Unable to access property store"
	}
	v, err := store.Lookup(key)
	switch {
	case err == nil:
		return v
	case errors.Is(err, ErrPropertyNotFound):
		return "Property not found: " + key
	default:
		return "Unable to access property store"
	}
}

// RuntimeProperty looks key up in a runtime property store and renders the
// outcome as report text.
func RuntimeProperty(store PropertyStore, key string) string {
	if store == nil {
		return "Unable to access System class"
	}
	v, err := store.Lookup(key)
	switch {
	case err == nil:
		return v
	case errors.Is(err, ErrPropertyNotFound):
		return "System property not found: " + key
	default:
		return "Unable to access System class"
	}
}

// MapStore is a fixed set of properties.
type MapStore map[string]string

// Lookup implements PropertyStore.
func (m MapStore) Lookup(key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrPropertyNotFound, key)
	}
	return v, nil
}

// ChainStore consults each store in order and returns the first hit.
// The chain is unavailable only when every store in it is unavailable.
type ChainStore []PropertyStore

// Lookup implements PropertyStore.
func (c ChainStore) Lookup(key string) (string, error) {
	reachable := false
	for _, s := range c {
		if s == nil {
			continue
		}
		v, err := s.Lookup(key)
		if err == nil {
			return v, nil
		}
		if errors.Is(err, ErrPropertyNotFound) {
			reachable = true
		}
	}
	if reachable {
		return "", fmt.Errorf("%w: %s", ErrPropertyNotFound, key)
	}
	return "", ErrStoreUnavailable
}

// propertyKeyPattern restricts keys passed to getprop to plain identifiers.
var propertyKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._\-]+$`)

// GetpropStore reads Android system properties through the getprop utility.
type GetpropStore struct {
	// Runner executes the command. Nil means a ShellRunner, after checking
	// the binary is on PATH.
	Runner Runner

	// Binary is the getprop executable. Empty means "getprop".
	Binary string
}

// Lookup implements PropertyStore. Empty output means the key is unset.
func (g GetpropStore) Lookup(key string) (string, error) {
	bin := g.Binary
	if bin == "" {
		bin = "getprop"
	}

	runner := g.Runner
	if runner == nil {
		if _, err := exec.LookPath(bin); err != nil {
			return "", fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		runner = ShellRunner{}
	}

	if !propertyKeyPattern.MatchString(key) {
		return "", fmt.Errorf("%w: %s", ErrPropertyNotFound, key)
	}

	out, err := runner.Run(context.Background(), bin+" "+key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	v := strings.TrimRight(out, "\r\n")
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrPropertyNotFound, key)
	}
	return v, nil
}

// BuildPropStore serves properties parsed from build.prop files. For a key
// set in several files the first file wins, as with read-only properties.
type BuildPropStore struct {
	props  map[string]string
	loaded bool
}

// NewBuildPropStore reads every existing file in paths through fs.
func NewBuildPropStore(fs FS, paths []string) *BuildPropStore {
	s := &BuildPropStore{props: make(map[string]string)}
	for _, p := range paths {
		content, err := fs.Read(p)
		if err != nil {
			continue
		}
		s.loaded = true
		for _, prop := range buildprop.Properties(content) {
			if _, ok := s.props[prop.Key]; !ok {
				s.props[prop.Key] = prop.Value
			}
		}
	}
	return s
}

// Lookup implements PropertyStore.
func (s *BuildPropStore) Lookup(key string) (string, error) {
	if !s.loaded {
		return "", ErrStoreUnavailable
	}
	v, ok := s.props[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrPropertyNotFound, key)
	}
	return v, nil
}

// Len returns the number of distinct keys loaded.
func (s *BuildPropStore) Len() int {
	return len(s.props)
}

// RuntimeStore answers runtime property lookups for the current process.
// Overrides take precedence over the built-in values.
type RuntimeStore struct {
	Overrides map[string]string
	values    map[string]func() string
}

// NewRuntimeStore returns a RuntimeStore describing this process.
func NewRuntimeStore(overrides map[string]string) *RuntimeStore {
	return &RuntimeStore{
		Overrides: overrides,
		values: map[string]func() string{
			"os.name": func() string {
				if u, err := Uname(); err == nil && u.Sysname != "" {
					return u.Sysname
				}
				return runtime.GOOS
			},
			"os.version": func() string {
				if u, err := Uname(); err == nil {
					return u.Release
				}
				return ""
			},
			"os.arch": func() string {
				if u, err := Uname(); err == nil && u.Machine != "" {
					return u.Machine
				}
				return runtime.GOARCH
			},
			"file.encoding":  func() string { return "UTF-8" },
			"line.separator": func() string { return "\n" },
			"user.name": func() string {
				if u, err := user.Current(); err == nil {
					return u.Username
				}
				return ""
			},
			"user.home": func() string {
				home, _ := os.UserHomeDir() //nolint:errcheck // empty means unset
				return home
			},
			"java.io.tmpdir": os.TempDir,
			"go.version":     runtime.Version,
			"http.agent":     func() string { return os.Getenv("HTTP_AGENT") },
		},
	}
}

// Lookup implements PropertyStore.
func (s *RuntimeStore) Lookup(key string) (string, error) {
	if v, ok := s.Overrides[key]; ok {
		return v, nil
	}
	if fn, ok := s.values[key]; ok {
		if v := fn(); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrPropertyNotFound, key)
}
