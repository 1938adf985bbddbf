// Package dispatch owns the request/response cycle for one user utterance:
// it shows a loading placeholder, posts the utterance to the gateway,
// classifies the payload into one of five renderings and pushes exactly one
// of them to the transcript. The pending-evaluation rendering additionally
// yields an interactive rating control that re-enters the dispatcher.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"cinechat/internal/gateway"
	"cinechat/internal/transcript"
	"cinechat/internal/types"
)

// PendingUtterance is the synthetic utterance the rating sub-flow submits
// to page to the next pending evaluation.
const PendingUtterance = "muéstrame las evaluaciones pendientes"

const (
	placeholderText    = "..."
	notImplementedText = "❌ Esta operación no está implementada, por favor intenta de nuevo."
	noResultsText      = "🤖 No tengo resultados para mostrar."
	evaluationDoneText = "🎉 ¡Felicidades! No te quedan recomendaciones pendientes por evaluar."
	farewellText       = "👋 ¡Hasta pronto! Vuelve cuando quieras evaluar más recomendaciones."
)

// Sink is the transcript view the dispatcher writes to.
type Sink interface {
	Append(e transcript.Entry) *transcript.Handle
	Remove(h *transcript.Handle)
}

// Gateway is the backend the dispatcher talks to.
type Gateway interface {
	Send(ctx context.Context, utterance string) (*types.GatewayResponse, error)
	Evaluate(ctx context.Context, objectID string, score int) error
}

// Dispatcher runs dispatch cycles against one sink and one gateway.
// enqueue schedules a new cycle on the caller's event loop; the rating
// sub-flow uses it instead of recursing so re-entry stays a queued task.
type Dispatcher struct {
	sink    Sink
	gw      Gateway
	enqueue func(utterance string)
}

func New(sink Sink, gw Gateway, enqueue func(utterance string)) *Dispatcher {
	return &Dispatcher{sink: sink, gw: gw, enqueue: enqueue}
}

// Dispatch runs one full cycle. Empty utterances (after trimming) are
// rejected without touching the transcript. The returned Control is non-nil
// only for the pending-evaluation rendering and stays live after the cycle
// ends. Every exit path removes the loading placeholder before the final
// rendering is appended.
func (d *Dispatcher) Dispatch(ctx context.Context, utterance string) *Control {
	text := strings.TrimSpace(utterance)
	if text == "" {
		return nil
	}
	d.sink.Append(transcript.Entry{Sender: transcript.User, Content: text})
	placeholder := d.sink.Append(transcript.Entry{Sender: transcript.Bot, Content: placeholderText})

	resp, err := d.gw.Send(ctx, text)
	d.sink.Remove(placeholder)
	if err != nil {
		d.bot(renderError(err))
		return nil
	}

	switch Classify(resp) {
	case KindRecommendations:
		d.sink.Append(transcript.Entry{Sender: transcript.Bot, Content: renderRecommendations(resp.Detalles), Block: true})
	case KindEvaluationDone:
		d.bot(evaluationDoneText)
	case KindPendingEvaluation:
		d.sink.Append(transcript.Entry{Sender: transcript.Bot, Content: renderPendingEvaluation(resp.Detalle), Block: true})
		return &Control{d: d, objectID: resp.Detalle.ObjectID}
	case KindMessage:
		d.bot("✅ " + resp.Mensaje)
	default:
		d.bot(noResultsText)
	}
	return nil
}

func (d *Dispatcher) bot(content string) {
	d.sink.Append(transcript.Entry{Sender: transcript.Bot, Content: content})
}

func renderError(err error) string {
	var se *gateway.StatusError
	if errors.As(err, &se) {
		if se.Code == http.StatusUnprocessableEntity {
			return notImplementedText
		}
		return fmt.Sprintf("❌ Error: %d %s", se.Code, se.Body)
	}
	return fmt.Sprintf("❌ Error de conexión: %v", err)
}

// Control is the interactive rating prompt bound to one pending
// evaluation. Only the first activation (Rate or Exit) has effect; the
// prompt itself is never disabled in the view.
type Control struct {
	d        *Dispatcher
	objectID string

	mu   sync.Mutex
	used bool
}

func (c *Control) ObjectID() string { return c.objectID }

// Used reports whether the control has already been activated.
func (c *Control) Used() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

// Rate records a 0-5 score for the pending evaluation, appends the
// confirmation and enqueues the pagination utterance so the dispatcher
// surfaces the next pending evaluation. The follow-up request is
// fire-and-forget: its outcome is logged, never classified, and never
// stops the loop. Returns false when the score is out of range or the
// control was already used.
func (c *Control) Rate(ctx context.Context, score int) bool {
	if score < 0 || score > 5 {
		return false
	}
	if !c.claim() {
		return false
	}
	if err := c.d.gw.Evaluate(ctx, c.objectID, score); err != nil {
		log.Printf("evaluar %s: %v", c.objectID, err)
	}
	c.d.bot(fmt.Sprintf("⭐ Evaluación registrada: %d de 5 estrellas.", score))
	if c.d.enqueue != nil {
		c.d.enqueue(PendingUtterance)
	}
	return true
}

// Exit leaves the rating sub-flow with a farewell, without re-entering the
// dispatcher. Returns false when the control was already used.
func (c *Control) Exit() bool {
	if !c.claim() {
		return false
	}
	c.d.bot(farewellText)
	return true
}

func (c *Control) claim() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.used {
		return false
	}
	c.used = true
	return true
}
