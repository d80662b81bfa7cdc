package notify

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/vietddude/storecore/internal/core/apperr"
	"github.com/vietddude/storecore/internal/core/domain"
	"github.com/vietddude/storecore/internal/infra/store/memory"
)

type fakeProvider struct {
	name  string
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Send(ctx context.Context, subject, body string, job domain.NotificationJob) error {
	f.calls++
	return f.err
}

func testJob() domain.NotificationJob {
	return domain.NotificationJob{
		To:         "customer@example.com",
		TemplateID: "order_confirmation",
		Params: map[string]string{
			"customer_name": "Lan",
			"order_id":      "ord-42",
		},
	}
}

func TestSendOrderEmail_FirstAcceptanceStopsChain(t *testing.T) {
	first := &fakeProvider{name: "resend"}
	second := &fakeProvider{name: "brevo"}
	d := NewDispatcher(apperr.NewReporter(slog.Default(), nil), first, second)

	res := d.SendOrderEmail(context.Background(), testJob())

	if !res.Success || res.Provider != "resend" {
		t.Errorf("expected success via resend, got %+v", res)
	}
	if second.calls != 0 {
		t.Errorf("expected later providers untouched, got %d calls", second.calls)
	}
}

func TestSendOrderEmail_FailsOverInOrder(t *testing.T) {
	first := &fakeProvider{name: "resend", err: errors.New("http 500")}
	second := &fakeProvider{name: "brevo"}
	d := NewDispatcher(apperr.NewReporter(slog.Default(), nil), first, second)

	res := d.SendOrderEmail(context.Background(), testJob())

	if !res.Success || res.Provider != "brevo" {
		t.Errorf("expected failover to brevo, got %+v", res)
	}
	if first.calls != 1 || second.calls != 1 {
		t.Errorf("expected exactly one attempt per provider, got %d/%d", first.calls, second.calls)
	}
}

func TestSendOrderEmail_AllFailedReturnsResultNotError(t *testing.T) {
	mem := memory.NewMemoryStorage()
	errorLog := memory.NewErrorLogRepo(mem)
	first := &fakeProvider{name: "resend", err: errors.New("http 500")}
	second := &fakeProvider{name: "brevo", err: errors.New("timeout")}
	d := NewDispatcher(apperr.NewReporter(slog.Default(), errorLog), first, second)

	res := d.SendOrderEmail(context.Background(), testJob())

	if res.Success {
		t.Error("expected terminal failure")
	}
	if res.Err == "" {
		t.Error("expected terminal error description")
	}
	if first.calls != 1 || second.calls != 1 {
		t.Errorf("expected one attempt per provider, got %d/%d", first.calls, second.calls)
	}

	logged := errorLog.Errors()
	if len(logged) != 1 {
		t.Fatalf("expected exactly one reported error for the whole chain, got %d", len(logged))
	}
	if logged[0].Kind != apperr.KindThirdParty {
		t.Errorf("expected third_party_api kind, got %s", logged[0].Kind)
	}
}

func TestSendOrderEmail_NoProvidersConfigured(t *testing.T) {
	d := NewDispatcher(apperr.NewReporter(slog.Default(), nil))

	res := d.SendOrderEmail(context.Background(), testJob())
	if res.Success {
		t.Error("expected failure with no providers")
	}
}

func TestRenderOrderEmail(t *testing.T) {
	job := testJob()
	job.Params["total"] = "250000"
	job.Params["gift_note"] = "Happy birthday"

	subject, body := renderOrderEmail(job)

	if subject != "Your order confirmation" {
		t.Errorf("expected default subject, got %q", subject)
	}
	for _, want := range []string{"Hi Lan", "#ord-42", "250000", "gift_note: Happy birthday"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q, got:\n%s", want, body)
		}
	}
}

func TestRenderOrderEmail_EmptyParams(t *testing.T) {
	subject, body := renderOrderEmail(domain.NotificationJob{To: "x@example.com"})

	if subject == "" || body == "" {
		t.Error("expected non-empty subject and body for bare job")
	}
	if !strings.Contains(body, "Hi there") {
		t.Errorf("expected generic greeting, got:\n%s", body)
	}
}
