package dupguard

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDebounceScript_Defaults(t *testing.T) {
	js, err := DebounceScript(DebounceOptions{})
	if err != nil {
		t.Fatalf("DebounceScript: %v", err)
	}
	s := string(js)

	for _, want := range []string{
		`var formSelector = "form";`,
		`var loadingClass = "formguard-loading";`,
		`input[type=\"submit\"], button[type=\"submit\"]`,
		`addEventListener("submit"`,
		`setAttribute("disabled", "disabled")`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected script to contain %q:\n%s", want, s)
		}
	}
}

func TestDebounceScript_EscapesSelectors(t *testing.T) {
	js, err := DebounceScript(DebounceOptions{
		FormSelector: `form.gform</script>`,
		LoadingClass: "busy",
	})
	if err != nil {
		t.Fatalf("DebounceScript: %v", err)
	}
	s := string(js)
	if strings.Contains(s, "</script>") {
		t.Fatalf("selector must be escaped:\n%s", s)
	}
	if !strings.Contains(s, `"busy"`) {
		t.Fatalf("expected custom class")
	}
}

func TestDebounceHandler_ServesJavaScript(t *testing.T) {
	h, err := DebounceHandler(DebounceOptions{})
	if err != nil {
		t.Fatalf("DebounceHandler: %v", err)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://example/formguard.js", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/javascript") {
		t.Fatalf("unexpected content-type %q", ct)
	}
	body, _ := io.ReadAll(w.Body)
	if !strings.Contains(string(body), "formguard-loading") {
		t.Fatalf("expected script body")
	}
}
