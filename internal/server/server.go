// Package server is the local recommender gateway the chat client talks
// to. It mirrors the hosted backend's wire contract: POST /gateway for the
// conversation and POST /evaluar/{id} for ratings. Utterance routing is
// naive keyword matching; real intent classification lives server-side in
// the hosted service and is out of scope here.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"cinechat/internal/catalog"
	"cinechat/internal/config"
	"cinechat/internal/store"
	"cinechat/internal/types"
)

const maxResults = 5

type Server struct {
	router  *chi.Mux
	store   store.Store
	catalog *catalog.Catalog
	cfg     config.Config
}

func NewServer(cfg config.Config, st store.Store, cat *catalog.Catalog) *Server {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.AllowedOrigin},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s := &Server{router: r, store: st, catalog: cat, cfg: cfg}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/", s.handleHealth)
	s.router.Post("/gateway", s.handleGateway)
	s.router.Post("/evaluar/{objectID}", s.handleEvaluate)
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "mensaje": "cinechat gateway running"})
}

func (s *Server) handleGateway(w http.ResponseWriter, r *http.Request) {
	var req types.GatewayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "cuerpo JSON inválido", http.StatusBadRequest)
		return
	}
	utterance := strings.TrimSpace(req.Utterance)
	if utterance == "" {
		http.Error(w, "utterance es requerido", http.StatusBadRequest)
		return
	}

	folded := catalog.Fold(utterance)
	switch {
	case strings.Contains(folded, "pendiente"):
		s.nextPending(w)
	case containsAny(folded, []string{"recomienda", "recomiendame", "busca", "buscame", "sugiere", "quiero ver"}):
		s.createRecommendations(w, utterance)
	case containsAny(folded, []string{"muestra", "muestrame", "lista", "ver recomendaciones", "mis recomendaciones"}):
		s.listRecommendations(w)
	default:
		http.Error(w, fmt.Sprintf("Operación no soportada: %s", utterance), http.StatusUnprocessableEntity)
	}
}

// createRecommendations searches the catalog and stores one detail per hit,
// the way the hosted backend creates a recommendation from its movie
// database.
func (s *Server) createRecommendations(w http.ResponseWriter, utterance string) {
	consulta := extractConsulta(utterance)
	movies := s.catalog.Search(consulta, maxResults)
	if len(movies) == 0 {
		s.writeJSON(w, http.StatusOK, types.GatewayResponse{Mensaje: "Sin resultados", Detalles: []types.Detalle{}})
		return
	}

	razon := fmt.Sprintf("Coincide con '%s'", consulta)
	details := make([]*store.Detail, len(movies))
	for i, m := range movies {
		details[i] = &store.Detail{
			Titulo:       m.Titulo,
			Sinopsis:     m.Sinopsis,
			FechaEstreno: m.FechaEstreno,
			Razon:        razon,
		}
	}
	if err := s.store.AddDetails(details); err != nil {
		log.Printf("save recommendations: %v", err)
		http.Error(w, "error al guardar la recomendación", http.StatusInternalServerError)
		return
	}

	detalles := make([]types.Detalle, len(details))
	for i, d := range details {
		detalles[i] = detailToWire(d)
	}
	s.writeJSON(w, http.StatusOK, types.GatewayResponse{
		Mensaje:  "Recomendación creada correctamente",
		Detalles: detalles,
	})
}

func (s *Server) listRecommendations(w http.ResponseWriter) {
	stored, err := s.store.ListDetails()
	if err != nil {
		log.Printf("list recommendations: %v", err)
		http.Error(w, "error al consultar las recomendaciones", http.StatusInternalServerError)
		return
	}
	detalles := make([]types.Detalle, len(stored))
	for i, d := range stored {
		detalles[i] = detailToWire(d)
	}
	s.writeJSON(w, http.StatusOK, types.GatewayResponse{
		Mensaje:  fmt.Sprintf("Se encontraron %d resultados", len(detalles)),
		Detalles: detalles,
	})
}

func (s *Server) nextPending(w http.ResponseWriter) {
	d, err := s.store.NextPending()
	if err != nil {
		log.Printf("next pending: %v", err)
		http.Error(w, "error al consultar las evaluaciones pendientes", http.StatusInternalServerError)
		return
	}
	if d == nil {
		s.writeJSON(w, http.StatusOK, types.GatewayResponse{Mensaje: "No hay recomendaciones pendientes más"})
		return
	}
	s.writeJSON(w, http.StatusOK, types.GatewayResponse{
		Mensaje: "Evaluación pendiente",
		Detalle: &types.PendingDetail{
			ObjectID:           d.ObjectID,
			Pelicula:           &types.Pelicula{Titulo: d.Titulo, Sinopsis: d.Sinopsis, FechaEstreno: d.FechaEstreno},
			RazonRecomendacion: d.Razon,
		},
	})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	objectID := chi.URLParam(r, "objectID")
	score, err := strconv.Atoi(r.URL.Query().Get("evaluacion"))
	if err != nil || score < 0 || score > 5 {
		http.Error(w, "evaluacion debe ser un entero entre 0 y 5", http.StatusBadRequest)
		return
	}
	switch err := s.store.SetEvaluation(objectID, score); {
	case err == store.ErrNotFound:
		http.Error(w, fmt.Sprintf("recomendación %s no encontrada", objectID), http.StatusNotFound)
	case err != nil:
		log.Printf("set evaluation %s: %v", objectID, err)
		http.Error(w, "error al registrar la evaluación", http.StatusInternalServerError)
	default:
		s.writeJSON(w, http.StatusOK, map[string]string{"mensaje": "Evaluación registrada"})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func detailToWire(d *store.Detail) types.Detalle {
	out := types.Detalle{
		Pelicula:           &types.Pelicula{ObjectID: d.ObjectID, Titulo: d.Titulo, Sinopsis: d.Sinopsis, FechaEstreno: d.FechaEstreno},
		RazonRecomendacion: d.Razon,
	}
	if d.Rated {
		out.Evaluacion = types.Rating{Stars: d.Score, Valid: true}
	}
	return out
}

// extractConsulta strips the request verb and filler words so only the
// search terms remain; an empty remainder falls back to "popular", as the
// hosted backend does.
func extractConsulta(utterance string) string {
	stop := map[string]bool{
		"recomienda": true, "recomiendame": true, "busca": true, "buscame": true,
		"sugiere": true, "quiero": true, "ver": true, "una": true, "un": true,
		"pelicula": true, "peliculas": true, "de": true, "del": true, "la": true,
		"el": true, "me": true, "algo": true, "sobre": true, "por": true, "favor": true,
	}
	var kept []string
	for _, tok := range strings.Fields(catalog.Fold(utterance)) {
		if !stop[tok] {
			kept = append(kept, tok)
		}
	}
	if len(kept) == 0 {
		return "popular"
	}
	return strings.Join(kept, " ")
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
