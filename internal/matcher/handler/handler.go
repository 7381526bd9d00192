package handler

import (
	"errors"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"catalog-matcher/internal/config"
	"catalog-matcher/internal/engine"
	"catalog-matcher/internal/matcher/model"
	"catalog-matcher/internal/middleware"
)

type searchRequest struct {
	Term string `json:"term"`
	Top  int    `json:"top"`
}

type searchResponse struct {
	Term       string            `json:"term"`
	Normalized string            `json:"normalized"`
	Results    []model.Candidate `json:"results"`
}

type processResponse struct {
	Results []model.MatchResult `json:"results"`
	Summary model.Summary       `json:"summary"`
}

type exportRequest struct {
	Text    string              `json:"text"`
	Results []model.MatchResult `json:"results"` // reviewed results, exported as is
}

type exportResponse struct {
	Path    string        `json:"path"`
	Rows    int           `json:"rows"`
	Summary model.Summary `json:"summary"`
}

type mappingRequest struct {
	Term string `json:"term"`
	Key  string `json:"key"`
}

// settingsPatch: nil fields are left untouched.
type settingsPatch struct {
	ImageDir    *string   `json:"pasta_imagens"`
	HighConf    *int      `json:"confianca_alta"`
	MediumConf  *int      `json:"confianca_media"`
	RemoveBgKey *string   `json:"remove_bg_key"`
	ExtraDirs   *[]string `json:"pastas_extras"`
}

// Search: POST {"term": "...", "top": 5} or GET ?q=...&top=5.
func Search(eng *engine.Engine, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if r.Method == http.MethodGet {
			req.Term = r.URL.Query().Get("q")
			req.Top = atoi(r.URL.Query().Get("top"), 0)
		} else if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.Term = strings.TrimSpace(req.Term)
		if req.Term == "" {
			writeError(w, http.StatusBadRequest, "missing term")
			return
		}

		res := eng.Search(req.Term, req.Top)
		if err := writeJSON(w, http.StatusOK, searchResponse{
			Term:       req.Term,
			Normalized: eng.Preprocess(req.Term),
			Results:    res,
		}); err != nil {
			middleware.Log(r, logger).Error().Err(err).Msg("write json")
		}
	}
}

// Process resolves an order list without exporting it.
func Process(eng *engine.Engine, cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := middleware.Log(r, logger)

		raw, err := readOrderText(r, int64(cfg.MaxUploadMB)<<20)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		results, err := eng.Process(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		sum := model.Summarize(results)
		if err := writeJSON(w, http.StatusOK, processResponse{Results: results, Summary: sum}); err != nil {
			log.Error().Err(err).Msg("write json")
			return
		}
		log.Info().
			Int("products", sum.Total).
			Int("ok", sum.ByStatus[model.StatusOK]).
			Dur("elapsed", time.Since(start)).
			Msg("list processed")
	}
}

// Export processes (or takes reviewed results) and writes the automation file.
func Export(eng *engine.Engine, cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := middleware.Log(r, logger)

		var results []model.MatchResult
		ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if ct == "application/json" {
			var req exportRequest
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			results = req.Results
			if len(results) == 0 {
				res, err := eng.Process(req.Text)
				if err != nil {
					writeError(w, http.StatusBadRequest, err.Error())
					return
				}
				results = res
			}
		} else {
			raw, err := readOrderText(r, int64(cfg.MaxUploadMB)<<20)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			res, err := eng.Process(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			results = res
		}

		path, rows, err := eng.Export(results)
		if err != nil {
			log.Error().Err(err).Msg("export failed")
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := writeJSON(w, http.StatusOK, exportResponse{
			Path:    path,
			Rows:    rows,
			Summary: model.Summarize(results),
		}); err != nil {
			log.Error().Err(err).Msg("write json")
		}
	}
}

func Reload(eng *engine.Engine, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := eng.Reload()
		log := middleware.Log(r, logger)
		log.Info().Int("count", n).Msg("index reloaded")
		_ = writeJSON(w, http.StatusOK, map[string]int{"indexed": n})
	}
}

func ListMappings(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = writeJSON(w, http.StatusOK, eng.Mappings())
	}
}

// AddMapping confirms a term → file key association.
func AddMapping(eng *engine.Engine, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req mappingRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(req.Term) == "" || strings.TrimSpace(req.Key) == "" {
			writeError(w, http.StatusBadRequest, "term and key are required")
			return
		}
		if err := eng.Learn(req.Term, req.Key); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, engine.ErrUnknownKey) {
				status = http.StatusNotFound
			}
			writeError(w, status, err.Error())
			return
		}
		log := middleware.Log(r, logger)
		log.Info().Str("term", req.Term).Str("key", req.Key).Msg("mapping learned")
		_ = writeJSON(w, http.StatusCreated, map[string]string{
			"term": eng.Preprocess(req.Term),
			"key":  req.Key,
		})
	}
}

func GetSettings(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := eng.Settings()
		s.RemoveBgKey = mask(s.RemoveBgKey)
		_ = writeJSON(w, http.StatusOK, s)
	}
}

// PutSettings merges the given fields and saves. Nothing is applied when the
// settings file cannot be written.
func PutSettings(eng *engine.Engine, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p settingsPatch
		if err := decodeJSON(r, &p); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s, err := eng.UpdateSettings(func(s *config.Settings) {
			if p.ImageDir != nil {
				s.ImageDir = *p.ImageDir
			}
			if p.HighConf != nil {
				s.HighConf = *p.HighConf
			}
			if p.MediumConf != nil {
				s.MediumConf = *p.MediumConf
			}
			if p.RemoveBgKey != nil {
				s.RemoveBgKey = *p.RemoveBgKey
			}
			if p.ExtraDirs != nil {
				s.ExtraDirs = *p.ExtraDirs
			}
		})
		if err != nil {
			log := middleware.Log(r, logger)
			log.Error().Err(err).Msg("settings not saved")
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.RemoveBgKey = mask(s.RemoveBgKey)
		_ = writeJSON(w, http.StatusOK, s)
	}
}

// Stats reports index and mapping sizes.
func Stats(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = writeJSON(w, http.StatusOK, eng.Stats())
	}
}
