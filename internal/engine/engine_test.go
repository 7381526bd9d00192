package engine

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"catalog-matcher/internal/config"
	"catalog-matcher/internal/matcher/model"
	"catalog-matcher/internal/matcher/text"
)

const (
	settingsFile = "/app/config_motor_busca.json"
	mappingsFile = "/app/mapeamentos_aprendidos.json"
)

func newTestEngine(t *testing.T) (*Engine, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, p := range []string{
		"/img/produtos/linguica_temperado_500g.jpg",
		"/img/produtos/arroz_tio_joao_5kg.png",
		"/img/produtos/graos/feijao_carioca.jpeg",
		"/extra/bebidas/suco_uva.png",
	} {
		require.NoError(t, afero.WriteFile(fs, p, []byte("img"), 0o644))
	}
	require.NoError(t, afero.WriteFile(fs, settingsFile, []byte(`{
		"pasta_imagens": "/img/produtos",
		"pastas_extras": ["/extra/bebidas", "/nao/existe"]
	}`), 0o644))

	e := New(Options{
		Fs:            fs,
		SettingsFile:  settingsFile,
		MappingsFile:  mappingsFile,
		AutomationDir: "/automacao",
		Logger:        zerolog.Nop(),
	})
	return e, fs
}

const pedido = `# pedido loja 3
Ling Temp 12,90
Arroz Tio Joao 5kg 22,50
*Suco Uva ou Pepino Japones 4,20*
`

func TestEngineProcessAndExport(t *testing.T) {
	e, fs := newTestEngine(t)
	require.Equal(t, 4, e.Reload())

	res, err := e.Process(pedido)
	require.NoError(t, err)
	require.Len(t, res, 4)

	byProduct := map[string]model.MatchResult{}
	for _, r := range res {
		byProduct[r.Product] = r
	}
	assert.Equal(t, model.StatusOK, byProduct["Ling Temp"].Status)
	assert.Equal(t, "produtos/linguica_temperado_500g.jpg", byProduct["Ling Temp"].Match)
	assert.Equal(t, model.StatusOK, byProduct["Arroz Tio Joao 5kg"].Status)
	assert.Equal(t, model.StatusOK, byProduct["Suco Uva"].Status)
	assert.Equal(t, "4,20", byProduct["Suco Uva"].Price)
	assert.Equal(t, model.StatusNotFound, byProduct["Pepino Japones"].Status)
	assert.Equal(t, "4,20", byProduct["Pepino Japones"].Price)

	path, rows, err := e.Export(res)
	require.NoError(t, err)
	assert.Equal(t, 3, rows)
	assert.Equal(t, e.ExportTarget(), path)

	raw, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	out, err := charmap.Windows1252.NewDecoder().String(string(raw))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\r\n"), "\r\n")
	assert.Equal(t, []string{
		"Ling Temp;12,90;/img/produtos/linguica_temperado_500g.jpg",
		"Arroz Tio Joao 5kg;22,50;/img/produtos/arroz_tio_joao_5kg.png",
		"Suco Uva;4,20;/extra/bebidas/suco_uva.png",
	}, lines)
}

func TestEngineProcessEmptyList(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Process("# nada\n\n")
	assert.ErrorIs(t, err, ErrEmptyList)
}

func TestEngineLearn(t *testing.T) {
	e, fs := newTestEngine(t)
	e.Reload()

	require.NoError(t, e.Learn("Pepino Japones", "produtos/graos/feijao_carioca.jpeg"))
	res := e.Search("pepino japones", 5)
	require.Len(t, res, 1)
	assert.Equal(t, 100.0, res[0].Score)

	err := e.Learn("x", "produtos/sumiu.png")
	assert.ErrorIs(t, err, ErrUnknownKey)

	// a fresh engine on the same storage keeps the mapping
	again := New(Options{Fs: fs, SettingsFile: settingsFile, MappingsFile: mappingsFile, Logger: zerolog.Nop()})
	again.Reload()
	assert.Equal(t, []model.Candidate{{Key: "produtos/graos/feijao_carioca.jpeg", Score: 100}},
		again.Search("Pepino Japonês", 5))
	assert.Equal(t, Stats{Indexed: 4, Mappings: 1}, again.Stats())
}

func TestEngineStaleMappingFallsThrough(t *testing.T) {
	e, fs := newTestEngine(t)
	e.Reload()
	require.NoError(t, e.Learn("pepino japones", "bebidas/suco_uva.png"))

	require.NoError(t, fs.Remove("/extra/bebidas/suco_uva.png"))
	e.Reload()

	res, err := e.Process("Pepino Japones")
	require.NoError(t, err)
	assert.Equal(t, model.StatusNotFound, res[0].Status)
	assert.Empty(t, res[0].Match)
	assert.Len(t, e.Mappings(), 1)
}

func TestEngineUpdateSettings(t *testing.T) {
	e, fs := newTestEngine(t)

	s, err := e.UpdateSettings(func(s *config.Settings) {
		s.HighConf = 99
		s.ExtraDirs = nil
	})
	require.NoError(t, err)
	assert.Equal(t, 99, s.HighConf)
	assert.Equal(t, model.Thresholds{High: 99, Medium: 55}, e.Thresholds())

	assert.Equal(t, 3, e.Reload())

	stored := config.LoadSettings(fs, settingsFile, zerolog.Nop())
	assert.Equal(t, 99, stored.HighConf)
	assert.Empty(t, stored.ExtraDirs)
}

func TestEngineUpdateSettingsSaveFailureKeepsCurrent(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, settingsFile, []byte(`{"confianca_alta": 80}`), 0o644))

	e := New(Options{
		Fs:           afero.NewReadOnlyFs(base),
		SettingsFile: settingsFile,
		MappingsFile: mappingsFile,
		Logger:       zerolog.Nop(),
	})

	s, err := e.UpdateSettings(func(s *config.Settings) { s.HighConf = 95 })
	require.Error(t, err)
	assert.Equal(t, 80, s.HighConf)
	assert.Equal(t, 80, e.Settings().HighConf)
	assert.Equal(t, 80, e.Thresholds().High)
}

func TestEngineInjectedDictionaries(t *testing.T) {
	fs := afero.NewMemMapFs()
	d := text.Dictionaries{Abbreviations: map[string]string{"fgo": "frango"}}
	e := New(Options{Fs: fs, Dictionaries: &d, Logger: zerolog.Nop()})

	assert.Equal(t, "frango", e.Preprocess("FGO"))
	assert.Equal(t, "pct", e.Preprocess("pct"))
}

func TestEngineReloadIdempotent(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Reload()
	first := append([]string(nil), e.IndexedKeys()...)
	e.Reload()
	assert.Equal(t, first, e.IndexedKeys())
}
