// Package catalog is the movie source the local gateway recommends from.
// It stands in for the remote movie database the hosted backend queries.
package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

type Movie struct {
	MDBID        string   `yaml:"mdb_id"`
	Titulo       string   `yaml:"titulo"`
	Sinopsis     string   `yaml:"sinopsis"`
	FechaEstreno string   `yaml:"fecha_estreno"`
	Keywords     []string `yaml:"keywords"`
}

type Catalog struct {
	movies []Movie
	// folded search text per movie, precomputed at load time
	haystacks []string
}

type catalogFile struct {
	Peliculas []Movie `yaml:"peliculas"`
}

// Load reads a YAML catalog from path.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(f.Peliculas) == 0 {
		return nil, fmt.Errorf("catalog %s has no movies", path)
	}
	return NewCatalog(f.Peliculas), nil
}

func NewCatalog(movies []Movie) *Catalog {
	c := &Catalog{movies: movies}
	c.haystacks = make([]string, len(movies))
	for i, m := range movies {
		parts := append([]string{m.Titulo, m.Sinopsis}, m.Keywords...)
		c.haystacks[i] = Fold(strings.Join(parts, " "))
	}
	return c
}

func (c *Catalog) Len() int { return len(c.movies) }

// Search returns up to max movies matching the query, ranked by how many
// query tokens hit the movie's title, synopsis or keywords. Matching is
// case- and accent-insensitive.
func (c *Catalog) Search(consulta string, max int) []Movie {
	tokens := strings.Fields(Fold(consulta))
	if len(tokens) == 0 || max <= 0 {
		return nil
	}
	type scored struct {
		idx  int
		hits int
	}
	var matches []scored
	for i, hay := range c.haystacks {
		hits := 0
		for _, t := range tokens {
			if strings.Contains(hay, t) {
				hits++
			}
		}
		if hits > 0 {
			matches = append(matches, scored{idx: i, hits: hits})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].hits > matches[j].hits })
	if len(matches) > max {
		matches = matches[:max]
	}
	out := make([]Movie, len(matches))
	for i, m := range matches {
		out[i] = c.movies[m.idx]
	}
	return out
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and strips combining marks, so "Acción" matches
// "accion". Queries and catalog text go through the same fold.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}
