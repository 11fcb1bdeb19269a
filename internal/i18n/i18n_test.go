package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeLocale(t *testing.T, dir, lang, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, lang+".json"), []byte(body), 0o600))
}

func TestResolveHonorsQValues(t *testing.T) {
	dir := t.TempDir()
	writeLocale(t, dir, "en", `{"nav.cars":"Cars"}`)
	writeLocale(t, dir, "fr", `{"nav.cars":"Voitures"}`)

	b, err := Load(dir, "en", []string{"en", "fr"})
	require.NoError(t, err)
	require.Equal(t, "fr", b.Resolve("en;q=0.8, fr-CA;q=0.9"))
	require.Equal(t, "en", b.Resolve("yo-NG, ha"))
	require.Equal(t, "en", b.Resolve("fr;q=0"))
}

func TestTFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeLocale(t, dir, "en", `{"nav.cars":"Cars","catalog.results":"%d cars found"}`)

	b, err := Load(dir, "en", nil)
	require.NoError(t, err)
	require.Equal(t, "Cars", b.T("fr", "nav.cars"))
	require.Equal(t, "12 cars found", b.T("en", "catalog.results", 12))
	require.Equal(t, "missing.key", b.T("en", "missing.key"))
}

func TestShippedCatalogLoads(t *testing.T) {
	b, err := Load("../../locales", "en", []string{"en"})
	require.NoError(t, err)
	require.Equal(t, "Cars", b.T("en", "nav.cars"))
}

func TestLoadRequiresFallback(t *testing.T) {
	_, err := Load(t.TempDir(), "en", nil)
	require.Error(t, err)
}
