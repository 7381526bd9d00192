package service

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"catalog-matcher/internal/matcher/text"
)

// snapshot is one immutable build of the index.
type snapshot struct {
	keys  []string          // walk order
	paths map[string]string // key -> absolute path
}

// FileIndex maps "<rootName>/<relative/path>" keys to image files.
// Rebuild swaps the whole snapshot; readers never see a partial build.
type FileIndex struct {
	fs     afero.Fs
	logger zerolog.Logger

	mu   sync.RWMutex
	snap *snapshot
}

func NewFileIndex(fs afero.Fs, logger zerolog.Logger) *FileIndex {
	return &FileIndex{
		fs:     fs,
		logger: logger,
		snap:   &snapshot{paths: map[string]string{}},
	}
}

// Rebuild walks every existing directory and replaces the index.
// Missing directories are skipped. Returns the number of entries.
func (idx *FileIndex) Rebuild(dirs []string) int {
	next := &snapshot{paths: make(map[string]string)}

	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if ok, _ := afero.DirExists(idx.fs, dir); !ok {
			idx.logger.Debug().Str("dir", dir).Msg("image dir missing, skipped")
			continue
		}
		idx.walk(dir, next)
	}

	idx.mu.Lock()
	idx.snap = next
	idx.mu.Unlock()

	idx.logger.Info().Int("count", len(next.keys)).Msg("images indexed")
	return len(next.keys)
}

func (idx *FileIndex) walk(root string, into *snapshot) {
	rootName := filepath.Base(filepath.Clean(root))
	if rootName == string(filepath.Separator) || rootName == "." {
		rootName = "" // a filesystem root has no name: keys become "/x.png"
	}

	_ = afero.Walk(idx.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			idx.logger.Warn().Err(err).Str("path", path).Msg("walk entry skipped")
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if _, ok := text.ImageExtensions[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		key := strings.ReplaceAll(rootName+"/"+filepath.ToSlash(rel), `\`, "/")

		abs := path
		if !filepath.IsAbs(abs) {
			if a, err := filepath.Abs(path); err == nil {
				abs = a
			}
		}

		if _, dup := into.paths[key]; !dup {
			into.keys = append(into.keys, key)
		}
		into.paths[key] = abs // last wins
		return nil
	})
}

// Keys returns the indexed keys in walk order. The slice must not be modified.
func (idx *FileIndex) Keys() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.snap.keys
}

func (idx *FileIndex) Has(key string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.snap.paths[key]
	return ok
}

// Path resolves a key to its absolute path.
func (idx *FileIndex) Path(key string) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	p, ok := idx.snap.paths[key]
	return p, ok
}

func (idx *FileIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.snap.keys)
}
