package dispatch

import (
	"strings"

	"cinechat/internal/types"
)

// Kind names the five mutually exclusive renderings of a gateway payload.
type Kind int

const (
	KindEmpty Kind = iota
	KindRecommendations
	KindEvaluationDone
	KindPendingEvaluation
	KindMessage
)

func (k Kind) String() string {
	switch k {
	case KindRecommendations:
		return "recommendations"
	case KindEvaluationDone:
		return "evaluation_done"
	case KindPendingEvaluation:
		return "pending_evaluation"
	case KindMessage:
		return "message"
	default:
		return "empty"
	}
}

// Sentinel substrings inside mensaje that mark the evaluation sub-states.
// There is no structured status field on the wire.
const (
	noPendingSentinel = "No hay recomendaciones pendientes"
	pendingSentinel   = "pendiente"
)

// Classify maps a payload to exactly one Kind. The match order is a
// contract: a non-empty detalles list wins over the message sentinels even
// when both are present, the completion sentinel wins over the pending one,
// and the pending case additionally requires the detalle object.
func Classify(r *types.GatewayResponse) Kind {
	switch {
	case len(r.Detalles) > 0:
		return KindRecommendations
	case r.Mensaje != "" && strings.Contains(r.Mensaje, noPendingSentinel):
		return KindEvaluationDone
	case r.Mensaje != "" && strings.Contains(r.Mensaje, pendingSentinel) && r.Detalle != nil:
		return KindPendingEvaluation
	case r.Mensaje != "":
		return KindMessage
	default:
		return KindEmpty
	}
}
