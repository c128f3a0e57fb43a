package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/protofab/protofab/internal/errors"
	"github.com/protofab/protofab/internal/logging"
	"github.com/protofab/protofab/internal/validation"
)

// Loader reads component definition files from disk into a registry.
// Definitions that fail validation are reported through the collector and
// skipped; a bad file never aborts the rest of a load pass.
type Loader struct {
	registry  *DefinitionRegistry
	collector *errors.ErrorCollector
	logger    logging.Logger

	// sources maps definition file paths to the definition name they
	// produced, so file deletions can be mapped back to registry entries.
	sources map[string]string
	mutex   sync.Mutex
}

// NewLoader creates a loader that feeds the given registry.
func NewLoader(reg *DefinitionRegistry, collector *errors.ErrorCollector, logger logging.Logger) *Loader {
	if collector == nil {
		collector = errors.NewErrorCollector()
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Loader{
		registry:  reg,
		collector: collector,
		logger:    logger.WithComponent("loader"),
		sources:   make(map[string]string),
	}
}

// DefinitionForFile reports which definition a previously loaded file
// produced.
func (l *Loader) DefinitionForFile(path string) (string, bool) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	name, ok := l.sources[path]
	return name, ok
}

// Forget drops the file-to-definition mapping for a path, typically after
// the file has been deleted and its definition removed.
func (l *Loader) Forget(path string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	delete(l.sources, path)
}

// Collector returns the error collector used by this loader.
func (l *Loader) Collector() *errors.ErrorCollector {
	return l.collector
}

// LoadFile parses and validates a single definition file and registers it.
// Validation failures are recorded in the collector and returned as an error.
func (l *Loader) LoadFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read definition file %s: %w", path, err)
	}

	def, problems := validation.ParseDefinition(data)
	if len(problems) > 0 {
		name := ""
		if def != nil {
			name = def.Name
		}
		l.collector.AddMessages(name, path, problems)
		l.logger.Warn(ctx, nil, "definition rejected",
			"file", path,
			"problems", len(problems))
		return fmt.Errorf("definition %s failed validation with %d problem(s)", path, len(problems))
	}

	l.registry.Register(def)
	l.mutex.Lock()
	l.sources[path] = def.Name
	l.mutex.Unlock()
	l.logger.Info(ctx, "definition loaded",
		"name", def.Name,
		"file", path)
	return nil
}

// LoadDir walks a directory tree and loads every .json definition file.
// It returns the number of definitions successfully loaded. Invalid files
// are recorded in the collector rather than returned as errors.
func (l *Loader) LoadDir(ctx context.Context, dir string) (int, error) {
	loaded := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Hidden directories like .git hold no definitions.
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		if loadErr := l.LoadFile(ctx, path); loadErr == nil {
			loaded++
		}
		return nil
	})
	if err != nil {
		return loaded, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	return loaded, nil
}

// LoadPaths loads each configured path, accepting both files and directories.
func (l *Loader) LoadPaths(ctx context.Context, paths []string) (int, error) {
	loaded := 0
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			l.logger.Warn(ctx, err, "skipping component path", "path", path)
			continue
		}
		if info.IsDir() {
			n, err := l.LoadDir(ctx, path)
			loaded += n
			if err != nil {
				return loaded, err
			}
			continue
		}
		if err := l.LoadFile(ctx, path); err == nil {
			loaded++
		}
	}
	return loaded, nil
}
