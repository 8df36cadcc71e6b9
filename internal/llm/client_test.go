package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mandalart-cli/internal/model"

	"github.com/google/go-cmp/cmp"
)

func planJSON(t *testing.T, areas int) string {
	t.Helper()
	r := model.AIResult{CentralKeyword: "올해의 나"}
	for i := 0; i < areas; i++ {
		r.KeyAreas = append(r.KeyAreas, model.KeyArea{
			Title:    "area",
			SubGoals: []string{"g1", "g2", "g3", "g4", "g5", "g6", "g7", "g8"},
		})
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal plan: %v", err)
	}
	return string(b)
}

func newOllama(t *testing.T, status int, responseText string, seen *generateRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		if status != http.StatusOK {
			http.Error(w, "model not found", status)
			return
		}
		_ = json.NewEncoder(w).Encode(generateResponse{Response: responseText})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wantKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	if got := KindOf(err); got != kind {
		t.Fatalf("expected %s failure, got %q (%v)", kind, got, err)
	}
}

func TestGenerate_SendsRequestShape(t *testing.T) {
	var seen generateRequest
	srv := newOllama(t, http.StatusOK, planJSON(t, 8), &seen)

	c := New(
		WithEndpoint(srv.URL+"/"),
		WithModel("gemma2"),
		WithOptions(Options{"temperature": 0.2, "num_ctx": 8192}),
		WithHTTPClient(srv.Client()),
	)
	got, err := c.Generate(context.Background(), []string{"하나", "둘"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got.CentralKeyword != "올해의 나" || len(got.KeyAreas) != model.AreaCount {
		t.Fatalf("unexpected plan: %+v", got)
	}

	if seen.Model != "gemma2" || seen.Stream || seen.Format != "json" {
		t.Fatalf("unexpected request: model=%q stream=%v format=%q", seen.Model, seen.Stream, seen.Format)
	}
	// Options round-trip through JSON, so numbers come back as float64.
	wantOpts := Options{"temperature": 0.2, "num_ctx": float64(8192)}
	if diff := cmp.Diff(wantOpts, seen.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	for _, want := range []string{"Q1. ", "A: 하나", "Q2. "} {
		if !strings.Contains(seen.Prompt, want) {
			t.Fatalf("expected prompt to contain %q, got:\n%s", want, seen.Prompt)
		}
	}
}

func TestGenerate_FencedResponse(t *testing.T) {
	srv := newOllama(t, http.StatusOK, "Here you go:\n```json\n"+planJSON(t, 8)+"\n```\nEnjoy", nil)

	got, err := New(WithEndpoint(srv.URL), WithHTTPClient(srv.Client())).Generate(context.Background(), nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(got.KeyAreas) != model.AreaCount {
		t.Fatalf("expected %d areas, got %d", model.AreaCount, len(got.KeyAreas))
	}
}

func TestGenerate_NonSuccessIsTransportError(t *testing.T) {
	srv := newOllama(t, http.StatusInternalServerError, "", nil)

	_, err := New(WithEndpoint(srv.URL), WithHTTPClient(srv.Client())).Generate(context.Background(), []string{"a"})
	wantKind(t, err, KindTransport)

	var ge *GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("expected *GenerationError, got %T", err)
	}
	if ge.StatusCode != http.StatusInternalServerError || !strings.Contains(ge.Error(), "status 500") {
		t.Fatalf("unexpected error: %v", ge)
	}
}

func TestGenerate_UnparsableIsMalformed(t *testing.T) {
	srv := newOllama(t, http.StatusOK, "I cannot help with that.", nil)

	_, err := New(WithEndpoint(srv.URL), WithHTTPClient(srv.Client())).Generate(context.Background(), nil)
	wantKind(t, err, KindMalformed)
}

func TestGenerate_LenientRepairsShortPlan(t *testing.T) {
	srv := newOllama(t, http.StatusOK, planJSON(t, 5), nil)

	got, err := New(WithEndpoint(srv.URL), WithHTTPClient(srv.Client())).Generate(context.Background(), nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(got.KeyAreas) != model.AreaCount {
		t.Fatalf("expected %d areas, got %d", model.AreaCount, len(got.KeyAreas))
	}
	if got.KeyAreas[7].Title != PlaceholderAreaTitle {
		t.Fatalf("expected placeholder title, got %q", got.KeyAreas[7].Title)
	}
}

func TestGenerate_StrictRejectsShortPlan(t *testing.T) {
	srv := newOllama(t, http.StatusOK, planJSON(t, 7), nil)

	c := New(WithEndpoint(srv.URL), WithHTTPClient(srv.Client()), WithPolicy(PolicyStrict))
	_, err := c.Generate(context.Background(), nil)
	wantKind(t, err, KindIncomplete)
}

func TestGenerate_CanceledContext(t *testing.T) {
	srv := newOllama(t, http.StatusOK, planJSON(t, 8), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(WithEndpoint(srv.URL), WithHTTPClient(srv.Client())).Generate(ctx, nil)
	wantKind(t, err, KindTransport)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}
}

func TestKindOf_PlainErrorHasNoKind(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != "" {
		t.Fatalf("expected no kind, got %q", got)
	}
	if got := KindOf(nil); got != "" {
		t.Fatalf("expected no kind for nil, got %q", got)
	}
}

func TestBuildPrompt_UsesCatalogText(t *testing.T) {
	qs := []model.Question{{ID: 1, Category: "c", Text: "What happened?"}}
	p := BuildPrompt(qs, []string{"a lot", "extra"})
	if !strings.Contains(p, "Q1. What happened?\nA: a lot") || !strings.Contains(p, "Q2. \nA: extra") {
		t.Fatalf("unexpected prompt:\n%s", p)
	}
	if !strings.HasSuffix(p, "JSON 출력:") {
		t.Fatalf("expected prompt to end with the output cue")
	}
}
