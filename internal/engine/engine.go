package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"catalog-matcher/internal/config"
	"catalog-matcher/internal/mapping"
	"catalog-matcher/internal/matcher/model"
	"catalog-matcher/internal/matcher/service"
	"catalog-matcher/internal/matcher/text"
)

var (
	// ErrEmptyList: the order text has no product lines.
	ErrEmptyList = errors.New("order list has no products")
	// ErrUnknownKey: the file key is not in the current index.
	ErrUnknownKey = errors.New("file key not indexed")
)

type Options struct {
	Fs            afero.Fs // defaults to the OS filesystem
	SettingsFile  string
	MappingsFile  string
	AutomationDir string
	Dictionaries  *text.Dictionaries // nil: built-in vocabulary
	Logger        zerolog.Logger
}

// Engine wires settings, index, learned mappings, matcher, list processor
// and exporter. Safe for concurrent use.
type Engine struct {
	fs           afero.Fs
	settingsFile string
	logger       zerolog.Logger

	mu       sync.RWMutex
	settings config.Settings

	pipe     *text.Pipeline
	index    *service.FileIndex
	store    *mapping.Store
	matcher  *service.Matcher
	lists    *service.ListProcessor
	exporter *service.Exporter
}

// New loads settings and learned mappings. The index starts empty; call
// Reload to walk the image directories.
func New(opts Options) *Engine {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	dict := text.Default()
	if opts.Dictionaries != nil {
		dict = *opts.Dictionaries
	}

	e := &Engine{
		fs:           fs,
		settingsFile: opts.SettingsFile,
		logger:       opts.Logger,
		settings:     config.LoadSettings(fs, opts.SettingsFile, opts.Logger),
		pipe:         text.NewPipeline(dict),
	}
	e.index = service.NewFileIndex(fs, opts.Logger)
	e.store = mapping.Open(fs, opts.MappingsFile, e.pipe, opts.Logger)
	e.matcher = service.NewMatcher(e.pipe, e.index, e.store, opts.Logger)
	e.lists = service.NewListProcessor(e.matcher, e.Thresholds)
	e.exporter = service.NewExporter(fs, opts.AutomationDir, e.index, opts.Logger)
	return e
}

// Reload rebuilds the index from the configured directories.
func (e *Engine) Reload() int {
	return e.index.Rebuild(e.Settings().Dirs())
}

func (e *Engine) Search(term string, topN int) []model.Candidate {
	return e.matcher.Search(term, topN)
}

// Process resolves every product of a raw order list.
func (e *Engine) Process(raw string) ([]model.MatchResult, error) {
	res := e.lists.Process(raw)
	if len(res) == 0 {
		return nil, ErrEmptyList
	}
	return res, nil
}

// Learn confirms term → key. The key must be indexed.
func (e *Engine) Learn(term, key string) error {
	if !e.index.Has(key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	e.store.Add(term, key)
	return nil
}

// Export writes the accepted results for the automation tool.
func (e *Engine) Export(results []model.MatchResult) (string, int, error) {
	return e.exporter.Export(results)
}

func (e *Engine) Mappings() []mapping.Entry { return e.store.All() }

func (e *Engine) IndexedKeys() []string { return e.index.Keys() }

// Preprocess exposes the comparison key of a term.
func (e *Engine) Preprocess(term string) string { return e.pipe.Preprocess(term) }

func (e *Engine) Settings() config.Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s := e.settings
	s.ExtraDirs = append([]string(nil), e.settings.ExtraDirs...)
	return s
}

func (e *Engine) Thresholds() model.Thresholds {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return model.Thresholds{High: e.settings.HighConf, Medium: e.settings.MediumConf}
}

// UpdateSettings applies fn and saves. Directory changes take effect on the
// next Reload. When saving fails the current settings stay in place and are
// returned with the error.
func (e *Engine) UpdateSettings(fn func(*config.Settings)) (config.Settings, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.settings
	s.ExtraDirs = append([]string(nil), e.settings.ExtraDirs...)
	fn(&s)
	s = s.Sanitized()

	// unsaved changes are not applied
	if err := s.Save(e.fs, e.settingsFile); err != nil {
		return e.settings, fmt.Errorf("save settings: %w", err)
	}
	e.settings = s
	return s, nil
}

type Stats struct {
	Indexed  int `json:"indexed"`
	Mappings int `json:"mappings"`
}

func (e *Engine) Stats() Stats {
	return Stats{Indexed: e.index.Len(), Mappings: e.store.Len()}
}

// ExportTarget is where Export writes.
func (e *Engine) ExportTarget() string { return e.exporter.Target() }
