package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cinechat/internal/types"
)

func TestClassifyPriorityOrder(t *testing.T) {
	pending := &types.PendingDetail{ObjectID: "x1"}
	cases := []struct {
		name string
		resp types.GatewayResponse
		want Kind
	}{
		{
			"detalles wins",
			types.GatewayResponse{Detalles: []types.Detalle{{}}},
			KindRecommendations,
		},
		{
			// ambiguous payload: the richer rendering wins over every sentinel
			"detalles wins over sentinels",
			types.GatewayResponse{
				Detalles: []types.Detalle{{}},
				Mensaje:  "No hay recomendaciones pendientes más",
				Detalle:  pending,
			},
			KindRecommendations,
		},
		{
			"completion sentinel",
			types.GatewayResponse{Mensaje: "No hay recomendaciones pendientes más"},
			KindEvaluationDone,
		},
		{
			// the completion message also contains "pendiente"; order decides
			"completion wins over pending",
			types.GatewayResponse{Mensaje: "No hay recomendaciones pendientes más", Detalle: pending},
			KindEvaluationDone,
		},
		{
			"pending evaluation",
			types.GatewayResponse{Mensaje: "Evaluación pendiente", Detalle: pending},
			KindPendingEvaluation,
		},
		{
			"pending sentinel without detalle is a plain message",
			types.GatewayResponse{Mensaje: "Evaluación pendiente"},
			KindMessage,
		},
		{
			"plain message",
			types.GatewayResponse{Mensaje: "Recomendación creada correctamente"},
			KindMessage,
		},
		{
			"empty detalles is not a recommendation list",
			types.GatewayResponse{Detalles: []types.Detalle{}, Mensaje: "Sin resultados"},
			KindMessage,
		},
		{
			"nothing",
			types.GatewayResponse{},
			KindEmpty,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(&tc.resp))
		})
	}
}
