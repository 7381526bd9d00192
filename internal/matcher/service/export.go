package service

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"catalog-matcher/internal/matcher/model"
)

const (
	ExportFileName = "dados.txt"
	zeroPrice      = "0,00"
	fieldSep       = ";"
	lineEnd        = "\r\n" // read by a Windows automation macro
)

// legacyEncoder: cp1252 with '?' for anything the codepage cannot hold.
// Transformers carry state, so each export gets its own.
func legacyEncoder() transform.Transformer {
	return transform.Chain(
		runes.Map(func(r rune) rune {
			if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
				return '?'
			}
			return r
		}),
		charmap.Windows1252.NewEncoder(),
	)
}

// Resolver turns an index key into an absolute path.
type Resolver interface {
	Path(key string) (string, bool)
}

// Exporter writes accepted matches as "product;price;path" lines.
type Exporter struct {
	fs       afero.Fs
	dir      string
	resolver Resolver
	logger   zerolog.Logger
}

func NewExporter(fs afero.Fs, dir string, r Resolver, logger zerolog.Logger) *Exporter {
	return &Exporter{fs: fs, dir: dir, resolver: r, logger: logger}
}

// Target is the fixed output path.
func (e *Exporter) Target() string { return filepath.Join(e.dir, ExportFileName) }

// Export writes every OK result with a match and returns the path and the
// number of rows written. Any I/O failure is returned.
func (e *Exporter) Export(results []model.MatchResult) (string, int, error) {
	if err := e.fs.MkdirAll(e.dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create export dir %s: %w", e.dir, err)
	}
	target := e.Target()
	f, err := e.fs.Create(target)
	if err != nil {
		return "", 0, fmt.Errorf("create %s: %w", target, err)
	}
	defer f.Close()

	tw := transform.NewWriter(f, legacyEncoder())
	bw := bufio.NewWriter(tw)

	rows := 0
	for _, r := range results {
		if r.Status != model.StatusOK || r.Match == "" {
			continue
		}
		if _, err := bw.WriteString(e.line(r) + lineEnd); err != nil {
			return "", rows, fmt.Errorf("write %s: %w", target, err)
		}
		rows++
	}

	if err := bw.Flush(); err != nil {
		return "", rows, fmt.Errorf("flush %s: %w", target, err)
	}
	if err := tw.Close(); err != nil {
		return "", rows, fmt.Errorf("encode %s: %w", target, err)
	}
	if err := f.Close(); err != nil {
		return "", rows, fmt.Errorf("close %s: %w", target, err)
	}

	e.logger.Info().Str("path", target).Int("rows", rows).Msg("export written")
	return target, rows, nil
}

var fieldCleaner = strings.NewReplacer(fieldSep, ",", "\n", " ", "\r", "")

func (e *Exporter) line(r model.MatchResult) string {
	product := strings.TrimSpace(fieldCleaner.Replace(r.Product))
	price := strings.TrimSpace(fieldCleaner.Replace(r.Price))
	if price == "" {
		price = zeroPrice
	}
	path, ok := e.resolver.Path(r.Match)
	if !ok {
		path = r.Match
	}
	return strings.Join([]string{product, price, path}, fieldSep)
}
