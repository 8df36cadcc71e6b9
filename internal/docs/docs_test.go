package docs

import (
	"strings"
	"testing"
)

func TestTopics_ListsEveryPage(t *testing.T) {
	t.Parallel()

	got := strings.Join(Topics(), ",")
	want := "config,drafts,export,generation,grid,overview"
	if got != want {
		t.Fatalf("topics: got %s, want %s", got, want)
	}
}

func TestGet_IsCaseInsensitive(t *testing.T) {
	t.Parallel()

	body, ok := Get(" Grid ")
	if !ok || !strings.Contains(body, "center block") {
		t.Fatalf("expected grid page, ok=%v", ok)
	}
	if _, ok := Get("../docs"); ok {
		t.Fatalf("expected path-like topic to be rejected")
	}
	if _, ok := Get("nope"); ok {
		t.Fatalf("expected unknown topic to miss")
	}
}

func TestRender_PlainKeepsText(t *testing.T) {
	t.Parallel()

	body, _ := Get("drafts")
	out, err := Render(body, StylePlain, 60)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "Drafts") || !strings.Contains(out, "drafts.sqlite") {
		t.Fatalf("expected rendered page, got:\n%s", out)
	}
}
