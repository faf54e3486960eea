package dupguard

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"middleware-formguard/forms"
	"middleware-formguard/middleware/dupguard/application"
	"middleware-formguard/middleware/dupguard/infra"
)

func newTestServer(t *testing.T) (http.Handler, *forms.MemoryEntryStore, *infra.MemoryStatsStore) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	reg := forms.NewRegistry(forms.Form{ID: 1, Title: "Contact", Fields: []forms.Field{
		{ID: "1", Label: "Name", Required: true},
		{ID: "2", Label: "Email", Required: true},
	}})
	entries := forms.NewMemoryEntryStore()
	stats := infra.NewMemoryStatsStore()

	p := forms.NewPipeline(reg, entries, log)
	p.Use(Hook(application.Guard{Stats: stats, Log: log}))

	h := SessionMiddleware(SessionOptions{Store: infra.NewMemorySessionStore()})(forms.Handler(p, forms.HandlerOptions{}))
	return h, entries, stats
}

func post(h http.Handler, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "http://example/forms/1", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestHook_DuplicatePostIsDiscardedSilently(t *testing.T) {
	h, entries, stats := newTestServer(t)
	body := url.Values{"input_1": {"Jane"}, "input_2": {"jane@x.com"}}.Encode()

	w1 := post(h, body, nil)
	if w1.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w1.Code)
	}
	cookies := w1.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected session cookie")
	}

	// mesmo corpo, mesma sessão: usuário vê sucesso, nada é gravado
	w2 := post(h, body, cookies)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 for duplicate, got %d", w2.Code)
	}
	if !strings.Contains(w2.Body.String(), "Thank you") {
		t.Fatalf("expected thank-you page for duplicate")
	}

	n, _ := entries.Count(context.Background(), 1)
	if n != 1 {
		t.Fatalf("expected 1 entry, got %d", n)
	}
	if got := stats.Total(); got.Allowed != 1 || got.Duplicates != 1 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}

func TestHook_IdenticalInvalidRetryShowsErrorsAgain(t *testing.T) {
	h, entries, stats := newTestServer(t)
	body := url.Values{"input_1": {"Jane"}}.Encode()

	w1 := post(h, body, nil)
	if w1.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w1.Code)
	}

	// mesma sessão, mesmo corpo inválido: o guard marca duplicada, mas o
	// formulário continua inválido e volta com os erros
	w2 := post(h, body, w1.Result().Cookies())
	if w2.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for identical invalid retry, got %d", w2.Code)
	}
	if !strings.Contains(w2.Body.String(), "Email is required") {
		t.Fatalf("expected validation errors on retry")
	}
	if strings.Contains(w2.Body.String(), "Thank you") {
		t.Fatalf("invalid retry must not render the thank-you page")
	}

	n, _ := entries.Count(context.Background(), 1)
	if n != 0 {
		t.Fatalf("expected no entries, got %d", n)
	}
	if got := stats.Total(); got.Duplicates != 1 {
		t.Fatalf("expected the retry counted as duplicate, got %+v", got)
	}
}

func TestHook_CorrectedRetryIsSaved(t *testing.T) {
	h, entries, _ := newTestServer(t)

	w1 := post(h, "input_1=Jane", nil)
	w2 := post(h, "input_1=Jane&input_2=jane%40x.com", w1.Result().Cookies())
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w2.Code)
	}

	n, _ := entries.Count(context.Background(), 1)
	if n != 1 {
		t.Fatalf("expected 1 entry, got %d", n)
	}
}

func TestHook_DifferentSessionsAreIndependent(t *testing.T) {
	h, entries, _ := newTestServer(t)
	body := url.Values{"input_1": {"Jane"}, "input_2": {"jane@x.com"}}.Encode()

	post(h, body, nil)
	post(h, body, nil) // sem cookie => sessão nova

	n, _ := entries.Count(context.Background(), 1)
	if n != 2 {
		t.Fatalf("expected 2 entries for 2 sessions, got %d", n)
	}
}

func TestHook_ChangedSubmissionIsSaved(t *testing.T) {
	h, entries, _ := newTestServer(t)

	w1 := post(h, "input_1=Jane&input_2=jane%40x.com", nil)
	post(h, "input_1=Jane&input_2=jane2%40x.com", w1.Result().Cookies())

	n, _ := entries.Count(context.Background(), 1)
	if n != 2 {
		t.Fatalf("expected 2 entries, got %d", n)
	}
}

func TestHook_NoSessionInContextPassesThrough(t *testing.T) {
	hook := Hook(application.Guard{})
	outcome := forms.ValidationOutcome{Valid: true, Form: forms.Form{ID: 1}}

	out := hook(context.Background(), url.Values{}, outcome)
	if out.Form.EnableHoneypot {
		t.Fatalf("expected outcome untouched without session")
	}
}

func TestWithSession_PutsSessionInContext(t *testing.T) {
	store := infra.NewMemorySessionStore()
	ctx := WithSession(context.Background(), store.Session("abc"))

	if SessionIDFromContext(ctx) != "abc" {
		t.Fatalf("expected id abc")
	}
	if _, ok := SessionFromContext(ctx); !ok {
		t.Fatalf("expected session")
	}
}
