package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMovies() []Movie {
	return []Movie{
		{MDBID: "m1", Titulo: "Acción total", Sinopsis: "Explosiones sin parar", Keywords: []string{"accion", "popular"}},
		{MDBID: "m2", Titulo: "Drama en París", Sinopsis: "Una historia de amor", Keywords: []string{"drama", "romance"}},
		{MDBID: "m3", Titulo: "Robots del futuro", Sinopsis: "Acción y ciencia ficción", Keywords: []string{"accion", "ciencia ficcion"}},
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "accion", Fold("Acción"))
	assert.Equal(t, "cancion del nino", Fold("Canción del Niño"))
	assert.Equal(t, "plain", Fold("plain"))
}

func TestSearchIsAccentInsensitive(t *testing.T) {
	c := NewCatalog(testMovies())
	got := c.Search("ACCIÓN", 5)
	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].MDBID)
	assert.Equal(t, "m3", got[1].MDBID)
}

func TestSearchRanksByTokenHits(t *testing.T) {
	c := NewCatalog(testMovies())
	// m3 hits both tokens, m1 only "accion"
	got := c.Search("accion futuro", 5)
	require.Len(t, got, 2)
	assert.Equal(t, "m3", got[0].MDBID)
	assert.Equal(t, "m1", got[1].MDBID)
}

func TestSearchHonorsLimit(t *testing.T) {
	c := NewCatalog(testMovies())
	got := c.Search("accion", 1)
	require.Len(t, got, 1)

	assert.Empty(t, c.Search("accion", 0))
	assert.Empty(t, c.Search("   ", 5))
	assert.Empty(t, c.Search("inexistente", 5))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `peliculas:
  - mdb_id: m1
    titulo: "Acción total"
    sinopsis: "Explosiones sin parar"
    fecha_estreno: "2020-01-01"
    keywords: [accion, popular]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	got := c.Search("popular", 5)
	require.Len(t, got, 1)
	assert.Equal(t, "2020-01-01", got[0].FechaEstreno)
}

func TestLoadRejectsEmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("peliculas: []\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
