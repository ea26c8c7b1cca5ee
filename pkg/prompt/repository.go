package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrTemplateNotFound is returned when a template name is not registered.
// A missing template is a hard error, never a silent default.
var ErrTemplateNotFound = errors.New("template not found")

// Well-known template names consumed by the engine.
const (
	TemplateStorytelling = "storytelling"
	TemplateOpening      = "opening"
)

// Template is one named prompt template with its declared variable list.
type Template struct {
	Name      string
	Text      string
	Variables []string
}

// jsonTemplate is the structured template file format: a JSON document
// naming type, input_variables, and template.
type jsonTemplate struct {
	Type           string   `json:"type"`
	InputVariables []string `json:"input_variables"`
	Template       string   `json:"template"`
}

// Repository holds named templates loaded from an external directory. It is
// constructed once at startup and passed by handle to consumers — there is no
// process-global template table.
type Repository struct {
	mu        sync.RWMutex
	templates map[string]Template
	dir       string
	logger    *zap.Logger
}

// NewRepository creates an empty template repository.
func NewRepository(logger *zap.Logger) *Repository {
	return &Repository{
		templates: make(map[string]Template),
		logger:    logger,
	}
}

// LoadDir loads every .txt and .json template file in dir. The template name
// is the file name without its extension. Later loads replace earlier
// entries of the same name.
func (r *Repository) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading template dir: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := r.loadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
		loaded++
	}

	r.mu.Lock()
	r.dir = dir
	r.mu.Unlock()

	r.logger.Info("templates loaded",
		zap.String("dir", dir),
		zap.Int("count", loaded),
	)

	return nil
}

// loadFile parses one template file and registers it.
func (r *Repository) loadFile(path string) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading template %s: %w", path, err)
	}

	var tmpl Template
	switch filepath.Ext(path) {
	case ".json":
		var jt jsonTemplate
		if err := json.Unmarshal(data, &jt); err != nil {
			return fmt.Errorf("parsing template %s: %w", path, err)
		}
		tmpl = Template{Name: name, Text: jt.Template, Variables: jt.InputVariables}

	case ".txt":
		text := string(data)
		tmpl = Template{Name: name, Text: text, Variables: ScanVariables(text)}

	default:
		// Unknown extensions are skipped, not errors.
		return nil
	}

	r.mu.Lock()
	r.templates[name] = tmpl
	r.mu.Unlock()

	return nil
}

// Get returns the named template or ErrTemplateNotFound.
func (r *Repository) Get(name string) (Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tmpl, ok := r.templates[name]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return tmpl, nil
}

// Put registers a template directly. Used by tests and embedders that don't
// load from disk.
func (r *Repository) Put(tmpl Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[tmpl.Name] = tmpl
}

// Names returns the sorted-insertion view of registered template names.
func (r *Repository) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	return names
}

// Watch reloads template files as they change on disk until ctx is done.
// LoadDir must have been called first. Reload failures are logged and the
// previous template content stays active.
func (r *Repository) Watch(ctx context.Context) error {
	r.mu.RLock()
	dir := r.dir
	r.mu.RUnlock()

	if dir == "" {
		return errors.New("no template directory loaded")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating template watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching template dir: %w", err)
	}

	go func() {
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := r.loadFile(event.Name); err != nil {
					r.logger.Warn("template reload failed",
						zap.String("path", event.Name),
						zap.Error(err),
					)
					continue
				}
				r.logger.Debug("template reloaded", zap.String("path", event.Name))

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.logger.Warn("template watcher error", zap.Error(err))
			}
		}
	}()

	return nil
}
