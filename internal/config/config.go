// Package config loads the pkc.toml project manifest: where the kernel
// sources live, where artifacts go, and which runtime the generated code
// targets.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
)

// ManifestName is the file looked up from the working directory upward.
const ManifestName = "pkc.toml"

// Manifest is a located and validated project configuration.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package PackageConfig `toml:"package"`
	Kernels KernelsConfig `toml:"kernels"`
	Runtime RuntimeConfig `toml:"runtime"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type KernelsConfig struct {
	// Sources are glob patterns relative to the project root.
	Sources []string `toml:"sources"`
	// OutDir receives generated artifacts, relative to the project root.
	OutDir string `toml:"out_dir"`
}

type RuntimeConfig struct {
	// Kokkos is a semver constraint on the runtime the artifacts will be
	// built against, e.g. ">= 3.7".
	Kokkos string `toml:"kokkos"`
	// Space is the default execution space.
	Space string `toml:"space"`
	// Precision selects the default floating type.
	Precision string `toml:"precision"`
}

var spaces = map[string]bool{
	"OpenMP":  true,
	"Serial":  true,
	"Cuda":    true,
	"Threads": true,
}

// Find walks up from startDir to locate the manifest file.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load locates and parses the manifest. ok is false when no manifest
// exists anywhere above startDir.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if len(cfg.Kernels.Sources) == 0 {
		cfg.Kernels.Sources = []string{"*.py"}
	}
	if cfg.Kernels.OutDir == "" {
		cfg.Kernels.OutDir = "pk_cpp"
	}
	if cfg.Runtime.Space == "" {
		cfg.Runtime.Space = "OpenMP"
	}
	if !spaces[cfg.Runtime.Space] {
		return Config{}, fmt.Errorf("%s: unknown execution space %q", path, cfg.Runtime.Space)
	}
	switch cfg.Runtime.Precision {
	case "":
		cfg.Runtime.Precision = "double"
	case "double", "float":
	default:
		return Config{}, fmt.Errorf("%s: precision must be double or float, got %q", path, cfg.Runtime.Precision)
	}
	if cfg.Runtime.Kokkos != "" {
		if _, err := semver.NewConstraint(cfg.Runtime.Kokkos); err != nil {
			return Config{}, fmt.Errorf("%s: invalid [runtime].kokkos constraint: %w", path, err)
		}
	}
	return cfg, nil
}

// SourceFiles expands the source globs against the project root. The
// result is sorted and de-duplicated so compilation order is stable.
func (m *Manifest) SourceFiles() ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range m.Config.Kernels.Sources {
		matches, err := filepath.Glob(filepath.Join(m.Root, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, fmt.Errorf("%s: bad source pattern %q: %w", m.Path, pattern, err)
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				files = append(files, match)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// OutDir is the artifact directory resolved against the project root.
func (m *Manifest) OutDir() string {
	return filepath.Join(m.Root, filepath.FromSlash(m.Config.Kernels.OutDir))
}

// CheckRuntime validates a detected runtime version against the manifest
// constraint. An empty constraint accepts everything.
func (m *Manifest) CheckRuntime(version string) error {
	constraint := m.Config.Runtime.Kokkos
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return err
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid runtime version %q: %w", version, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("runtime version %s does not satisfy constraint %q", version, constraint)
	}
	return nil
}
