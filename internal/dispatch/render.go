package dispatch

import (
	"fmt"
	"strings"

	"cinechat/internal/types"
)

const (
	noTitleFallback    = "(sin título)"
	noSynopsisFallback = "(sin sinopsis)"
)

func renderRecommendations(detalles []types.Detalle) string {
	var b strings.Builder
	b.WriteString("🎬 Recomendaciones:")
	for i, d := range detalles {
		titulo := noTitleFallback
		if d.Pelicula != nil && strings.TrimSpace(d.Pelicula.Titulo) != "" {
			titulo = d.Pelicula.Titulo
		}
		fmt.Fprintf(&b, "\n%d. %s", i+1, titulo)
		if d.Evaluacion.Valid {
			b.WriteString("  " + starStrip(d.Evaluacion.Stars))
		}
		if razon := strings.TrimSpace(d.RazonRecomendacion); razon != "" {
			fmt.Fprintf(&b, "\n   %s", razon)
		}
	}
	return b.String()
}

// starStrip renders a fixed five-glyph strip, positions 1..n filled.
func starStrip(n int) string {
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func renderPendingEvaluation(d *types.PendingDetail) string {
	titulo, sinopsis := noTitleFallback, noSynopsisFallback
	if d.Pelicula != nil {
		if t := strings.TrimSpace(d.Pelicula.Titulo); t != "" {
			titulo = t
		}
		if s := strings.TrimSpace(d.Pelicula.Sinopsis); s != "" {
			sinopsis = s
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "⭐ Evaluación pendiente: «%s»\n%s", titulo, sinopsis)
	if razon := strings.TrimSpace(d.RazonRecomendacion); razon != "" {
		fmt.Fprintf(&b, "\nMotivo: %s", razon)
	}
	b.WriteString("\nCalifica del 0 al 5, o escribe \"salir\" para terminar.")
	return b.String()
}
