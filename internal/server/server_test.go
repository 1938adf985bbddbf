package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinechat/internal/catalog"
	"cinechat/internal/config"
	"cinechat/internal/dispatch"
	"cinechat/internal/gateway"
	"cinechat/internal/store"
	"cinechat/internal/transcript"
	"cinechat/internal/types"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cat := catalog.NewCatalog([]catalog.Movie{
		{MDBID: "m1", Titulo: "Acción total", Sinopsis: "Explosiones sin parar", FechaEstreno: "2020-01-01", Keywords: []string{"accion", "popular"}},
		{MDBID: "m2", Titulo: "Drama en París", Sinopsis: "Una historia de amor", Keywords: []string{"drama"}},
	})
	srv := NewServer(config.Config{AllowedOrigin: "*"}, store.NewMemoryStore(), cat)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postGateway(t *testing.T, ts *httptest.Server, utterance string) (*http.Response, *types.GatewayResponse) {
	t.Helper()
	body, err := json.Marshal(types.GatewayRequest{Utterance: utterance, TipoBusqueda: "texto"})
	require.NoError(t, err)
	resp, err := http.Post(ts.URL+"/gateway", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}
	var out types.GatewayResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, &out
}

func TestGatewayCreateRecommendations(t *testing.T) {
	ts := newTestServer(t)

	resp, out := postGateway(t, ts, "Recomiéndame una película de acción")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, out.Detalles, 1)
	d := out.Detalles[0]
	require.NotNil(t, d.Pelicula)
	assert.Equal(t, "Acción total", d.Pelicula.Titulo)
	assert.NotEmpty(t, d.Pelicula.ObjectID)
	assert.Equal(t, "Coincide con 'accion'", d.RazonRecomendacion)
	assert.False(t, d.Evaluacion.Valid)
}

func TestGatewayListRecommendations(t *testing.T) {
	ts := newTestServer(t)
	postGateway(t, ts, "busca drama")

	resp, out := postGateway(t, ts, "muestra mis recomendaciones")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, out.Detalles, 1)
	assert.Equal(t, "Se encontraron 1 resultados", out.Mensaje)
}

func TestGatewayRejectsEmptyUtterance(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := postGateway(t, ts, "   ")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGatewayUnsupportedOperation(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := postGateway(t, ts, "cuéntame un chiste")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestEvaluateValidation(t *testing.T) {
	ts := newTestServer(t)

	for _, q := range []string{"evaluacion=9", "evaluacion=-1", "evaluacion=abc", ""} {
		resp, err := http.Post(ts.URL+"/evaluar/whatever?"+q, "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}

	resp, err := http.Post(ts.URL+"/evaluar/nope?evaluacion=3", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPendingEvaluationFlow(t *testing.T) {
	ts := newTestServer(t)
	_, created := postGateway(t, ts, "busca accion drama")
	require.Len(t, created.Detalles, 2)

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		resp, out := postGateway(t, ts, "muéstrame las evaluaciones pendientes")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NotNil(t, out.Detalle, "round %d should still have a pending detail", i)
		assert.Contains(t, out.Mensaje, "pendiente")

		id := out.Detalle.ObjectID
		assert.False(t, seen[id], "each pending round serves a new detail")
		seen[id] = true

		r, err := http.Post(fmt.Sprintf("%s/evaluar/%s?evaluacion=%d", ts.URL, id, i+3), "application/json", nil)
		require.NoError(t, err)
		r.Body.Close()
		require.Equal(t, http.StatusOK, r.StatusCode)
	}

	_, out := postGateway(t, ts, "muéstrame las evaluaciones pendientes")
	assert.Nil(t, out.Detalle)
	assert.Contains(t, out.Mensaje, "No hay recomendaciones pendientes")

	// ratings show up in the listing
	_, listed := postGateway(t, ts, "lista mis recomendaciones")
	require.Len(t, listed.Detalles, 2)
	for _, d := range listed.Detalles {
		assert.True(t, d.Evaluacion.Valid)
	}
}

// End to end: real HTTP client and dispatcher against the local gateway,
// driving the rating sub-flow until the completion message.
func TestClientAgainstLocalGateway(t *testing.T) {
	ts := newTestServer(t)
	tlog := transcript.New()
	var queue []string
	d := dispatch.New(tlog, gateway.NewClient(ts.URL), func(u string) { queue = append(queue, u) })

	ctrl := d.Dispatch(context.Background(), "recomienda algo de acción")
	assert.Nil(t, ctrl)

	ctrl = d.Dispatch(context.Background(), dispatch.PendingUtterance)
	steps := 0
	for ctrl != nil {
		require.Less(t, steps, 10, "rating loop did not terminate")
		steps++
		require.True(t, ctrl.Rate(context.Background(), 5))
		require.NotEmpty(t, queue)
		next := queue[0]
		queue = queue[1:]
		ctrl = d.Dispatch(context.Background(), next)
	}

	entries := tlog.Entries()
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1].Content
	assert.Contains(t, last, "No te quedan recomendaciones pendientes")
	assert.Equal(t, 1, steps, "one catalog hit for 'accion' in this fixture means one rating round")

	var stars int
	for _, e := range entries {
		if strings.Contains(e.Content, "5 de 5 estrellas") {
			stars++
		}
	}
	assert.Equal(t, 1, stars)
}
