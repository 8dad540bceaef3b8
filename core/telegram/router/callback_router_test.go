package router

import (
	"errors"
	"testing"

	tele "gopkg.in/telebot.v4"
)

type respondRecorder struct {
	tele.Context
	responses []tele.CallbackResponse
}

func (r *respondRecorder) Respond(resp ...*tele.CallbackResponse) error {
	if len(resp) == 0 {
		r.responses = append(r.responses, tele.CallbackResponse{})
		return nil
	}
	r.responses = append(r.responses, *resp[0])
	return nil
}

func TestAckAfterLetsHandlerToastThrough(t *testing.T) {
	rec := &respondRecorder{}
	handler := func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: "question is gone"})
	}
	if err := ackAfter(handler)(rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.responses) != 2 {
		t.Fatalf("expected toast then ack, got %d responses", len(rec.responses))
	}
	if rec.responses[0].Text != "question is gone" {
		t.Fatalf("handler toast must answer the query first, got %q", rec.responses[0].Text)
	}
	if rec.responses[1].Text != "" {
		t.Fatalf("trailing ack must be blank, got %q", rec.responses[1].Text)
	}
}

func TestAckAfterAnswersSilentHandler(t *testing.T) {
	rec := &respondRecorder{}
	handler := func(tele.Context) error { return nil }
	if err := ackAfter(handler)(rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.responses) != 1 {
		t.Fatalf("expected a single ack, got %d responses", len(rec.responses))
	}
}

func TestAckAfterKeepsHandlerError(t *testing.T) {
	rec := &respondRecorder{}
	wantErr := errors.New("boom")
	err := ackAfter(func(tele.Context) error { return wantErr })(rec)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected handler error, got %v", err)
	}
	if len(rec.responses) != 1 {
		t.Fatalf("query must still be answered after a failed handler, got %d responses", len(rec.responses))
	}
}
