package store

import (
	"context"
	"errors"
	"testing"

	"mandalart-cli/internal/catalog"
	"mandalart-cli/internal/gridmap"
	"mandalart-cli/internal/model"

	"github.com/google/go-cmp/cmp"
)

func TestDrafts_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	g := gridmap.FromAIResult(catalog.Sample())
	saved, err := s.SaveDraft(ctx, model.Draft{
		Name:    "2025 plan",
		Source:  model.DraftSourceSample,
		Answers: []string{"a", "b"},
		Grid:    g,
	})
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if saved.ID == "" || saved.CreatedAt.IsZero() || !saved.CreatedAt.Equal(saved.UpdatedAt) {
		t.Fatalf("expected id and timestamps to be assigned, got %+v", saved)
	}

	for _, ref := range []string{saved.ID, "2025 plan", saved.ID[:8]} {
		got, err := s.LoadDraft(ctx, ref)
		if err != nil {
			t.Fatalf("LoadDraft(%q): %v", ref, err)
		}
		if diff := cmp.Diff(g, got.Grid); diff != "" {
			t.Fatalf("grid mismatch for %q (-want +got):\n%s", ref, diff)
		}
		if diff := cmp.Diff([]string{"a", "b"}, got.Answers); diff != "" {
			t.Fatalf("answers mismatch (-want +got):\n%s", diff)
		}
		if got.Source != model.DraftSourceSample {
			t.Fatalf("expected sample source, got %q", got.Source)
		}
	}
}

func TestDrafts_UpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	first, err := s.SaveDraft(ctx, model.Draft{Name: "plan"})
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	first.Grid[4][4] = "edited"
	second, err := s.SaveDraft(ctx, first)
	if err != nil {
		t.Fatalf("SaveDraft(update): %v", err)
	}
	if second.ID != first.ID || !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("expected same id and createdAt, got %+v vs %+v", second, first)
	}
	if second.Source != model.DraftSourceManual {
		t.Fatalf("expected default manual source, got %q", second.Source)
	}

	all, err := s.ListDrafts(ctx)
	if err != nil {
		t.Fatalf("ListDrafts: %v", err)
	}
	if len(all) != 1 || all[0].Grid.CentralKeyword() != "edited" {
		t.Fatalf("expected one updated draft, got %+v", all)
	}
}

func TestDrafts_ListEmpty(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	all, err := s.ListDrafts(context.Background())
	if err != nil {
		t.Fatalf("ListDrafts: %v", err)
	}
	if all == nil || len(all) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", all)
	}
}

func TestDrafts_DeleteAndNotFound(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	d, err := s.SaveDraft(ctx, model.Draft{Name: "gone soon"})
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	deleted, err := s.DeleteDraft(ctx, "gone soon")
	if err != nil {
		t.Fatalf("DeleteDraft: %v", err)
	}
	if deleted.ID != d.ID {
		t.Fatalf("deleted wrong draft: %s", deleted.ID)
	}

	if _, err := s.LoadDraft(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := s.DeleteDraft(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown ref, got %v", err)
	}
}

func TestDrafts_SaveRequiresName(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	if _, err := s.SaveDraft(context.Background(), model.Draft{Name: "  "}); err == nil {
		t.Fatalf("expected error for blank name")
	}
}
