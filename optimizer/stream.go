package optimizer

import (
	"context"
	"sync/atomic"

	"github.com/autopromptix/autopromptix/analyzer"
	"github.com/autopromptix/autopromptix/mutation"
)

type EventType string

const (
	EventStatus           EventType = "status"
	EventAnalysisResult   EventType = "analysis_result"
	EventMutations        EventType = "mutations"
	EventEvaluationStart  EventType = "evaluation_start"
	EventLLMResponse      EventType = "llm_response"
	EventEvaluationResult EventType = "evaluation_result"
	EventFinalResults     EventType = "final_results"
	EventError            EventType = "error"
)

// Stages reported by status events.
const (
	StageInit       = "init"
	StageAnalysis   = "analysis"
	StageMutation   = "mutation"
	StageEvaluation = "evaluation"
)

// Event is one milestone of a streamed run. Only the fields relevant to
// Type are set. Index is 1-based.
type Event struct {
	Type     EventType          `json:"type"`
	RunID    string             `json:"runId"`
	Stage    string             `json:"stage,omitempty"`
	Message  string             `json:"message,omitempty"`
	Analysis *analyzer.Result   `json:"analysis,omitempty"`
	Variants []mutation.Variant `json:"variants,omitempty"`
	Variant  string             `json:"variant,omitempty"`
	Index    int                `json:"index,omitempty"`
	Total    int                `json:"total,omitempty"`
	Output   string             `json:"output,omitempty"`
	Trial    *Trial             `json:"trial,omitempty"`
	Result   *Result            `json:"result,omitempty"`
	Error    string             `json:"error,omitempty"`
}

func (e Event) as(t EventType) Event {
	e.Type = t
	return e
}

// CancelToken requests that a streamed run stop before its next variant.
// A nil *CancelToken is never cancelled.
type CancelToken struct {
	cancelled atomic.Bool
}

func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

func (t *CancelToken) Cancel() {
	t.cancelled.Store(true)
}

func (t *CancelToken) Cancelled() bool {
	return t != nil && t.cancelled.Load()
}

// OptimizeStream runs one round in a new goroutine and returns its events in
// emission order. The channel is unbuffered and closed when the run ends.
//
// A run that succeeds ends with EventFinalResults; one where every variant
// failed ends with EventError. A run stopped through token or ctx simply
// closes the channel, so a stream without either terminal event was
// cancelled. The token is checked before each variant; an oracle call in
// flight completes first. Callers must drain the channel or cancel ctx.
func (o *Optimizer) OptimizeStream(ctx context.Context, req Request, token *CancelToken) <-chan Event {
	events := make(chan Event)
	go func() {
		defer close(events)
		_, _ = o.run(ctx, req, token, func(ev Event) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		})
	}()
	return events
}
