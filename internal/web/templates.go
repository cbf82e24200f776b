// Package web serves the interactive calculator pages.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

//go:embed templates
var templatesDirEmbed embed.FS

// TemplateManager parses and renders the HTML pages. With an external
// directory configured it reloads templates on change, so layout edits go
// live without a rebuild.
type TemplateManager struct {
	templates *template.Template
	mutex     sync.RWMutex
	logger    zerolog.Logger
}

// NewTemplateManager loads the embedded templates, or watches extDir when it
// is non-empty.
func NewTemplateManager(logger zerolog.Logger, extDir string) (*TemplateManager, error) {
	tm := &TemplateManager{logger: logger}

	if strings.TrimSpace(extDir) != "" {
		if err := tm.loadExternalTemplates(extDir); err != nil {
			return nil, err
		}
	} else if err := tm.loadInternalTemplates(); err != nil {
		return nil, err
	}

	return tm, nil
}

func (tm *TemplateManager) loadInternalTemplates() error {
	tm.logger.Debug().Msg("loading embedded templates")
	tmpl, err := template.New("").ParseFS(templatesDirEmbed, "templates/*.html")
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	tm.templates = tmpl
	return nil
}

func (tm *TemplateManager) loadExternalTemplates(extDir string) error {
	reload := func() error {
		tm.logger.Debug().Str("dir", extDir).Msg("loading external templates")
		tmpl, err := template.New("").ParseGlob(filepath.Join(extDir, "*.html"))
		if err != nil {
			return fmt.Errorf("parse templates: %w", err)
		}

		tm.mutex.Lock()
		tm.templates = tmpl
		tm.mutex.Unlock()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create template watcher: %w", err)
	}

	go func() {
		for {
			select {
			case event := <-watcher.Events:
				if event.Op&fsnotify.Write == fsnotify.Write {
					if err := reload(); err != nil {
						tm.logger.Error().Err(err).Msg("reload templates")
					} else {
						tm.logger.Debug().Msg("templates reloaded")
					}
				}
			case err := <-watcher.Errors:
				tm.logger.Debug().Err(err).Msg("watch templates")
			}
		}
	}()

	if err := watcher.Add(extDir); err != nil {
		return fmt.Errorf("watch templates: %w", err)
	}

	return reload()
}

// Render executes the named template. The page is buffered first so a failed
// execution never sends half a page.
func (tm *TemplateManager) Render(w http.ResponseWriter, name string, data any) error {
	tm.mutex.RLock()
	tmpl := tm.templates
	tm.mutex.RUnlock()
	if tmpl == nil {
		return errors.New("templates not loaded")
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// Ready reports whether every page the server renders has been parsed. It
// backs the readiness probe.
func (tm *TemplateManager) Ready() error {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	if tm.templates == nil {
		return errors.New("templates not loaded")
	}
	for _, name := range []string{"index.html", "quote.html"} {
		if tm.templates.Lookup(name) == nil {
			return fmt.Errorf("template %s missing", name)
		}
	}
	return nil
}
