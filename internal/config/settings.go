package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Settings is the engine configuration persisted as JSON.
type Settings struct {
	ImageDir    string   `mapstructure:"pasta_imagens" json:"pasta_imagens"`
	HighConf    int      `mapstructure:"confianca_alta" json:"confianca_alta"`
	MediumConf  int      `mapstructure:"confianca_media" json:"confianca_media"`
	RemoveBgKey string   `mapstructure:"remove_bg_key" json:"remove_bg_key"` // optional, never logged
	ExtraDirs   []string `mapstructure:"pastas_extras" json:"pastas_extras"`
}

// DefaultSettings is used whenever the stored file is missing or broken.
func DefaultSettings() Settings {
	return Settings{
		ImageDir:   defaultImageDir(),
		HighConf:   80,
		MediumConf: 55,
		ExtraDirs:  []string{},
	}
}

// Dirs lists the primary image directory followed by the extra ones.
func (s Settings) Dirs() []string {
	out := make([]string, 0, 1+len(s.ExtraDirs))
	out = append(out, s.ImageDir)
	return append(out, s.ExtraDirs...)
}

// Sanitized clamps thresholds into 0..100 with medium <= high.
func (s Settings) Sanitized() Settings {
	s.HighConf = clamp(s.HighConf, 0, 100)
	s.MediumConf = clamp(s.MediumConf, 0, 100)
	if s.MediumConf > s.HighConf {
		s.MediumConf = s.HighConf
	}
	if s.ExtraDirs == nil {
		s.ExtraDirs = []string{}
	}
	return s
}

// LoadSettings merges the stored fields over the defaults. It never fails:
// a missing file is silent, a malformed one is logged.
func LoadSettings(fs afero.Fs, path string, logger zerolog.Logger) Settings {
	def := DefaultSettings()

	if ok, _ := afero.Exists(fs, path); !ok {
		return def
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	v.SetConfigType("json")
	setDefaults(v, def)

	if err := v.ReadInConfig(); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("settings unreadable, using defaults")
		return def
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("settings invalid, using defaults")
		return def
	}
	return s.Sanitized()
}

func setDefaults(v *viper.Viper, def Settings) {
	v.SetDefault("pasta_imagens", def.ImageDir)
	v.SetDefault("confianca_alta", def.HighConf)
	v.SetDefault("confianca_media", def.MediumConf)
	v.SetDefault("remove_bg_key", def.RemoveBgKey)
	v.SetDefault("pastas_extras", def.ExtraDirs)
}

// Save writes the settings as indented JSON.
func (s Settings) Save(fs afero.Fs, path string) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(fs, path, b, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func defaultImageDir() string {
	if runtime.GOOS == "windows" {
		return `C:\Users\Public\Pictures`
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "Pictures")
	}
	return "Pictures"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
