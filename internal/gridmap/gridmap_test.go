package gridmap

import (
	"fmt"
	"testing"

	"mandalart-cli/internal/model"

	"github.com/google/go-cmp/cmp"
)

func TestFromAnswers_EndToEndScenario(t *testing.T) {
	t.Parallel()

	g := FromAnswers([]string{"목표", "A", "B", "C", "D", "E", "F", "G", "H"})

	checks := []struct {
		block, cell int
		want        string
	}{
		{4, 4, "목표"},
		{4, 0, "A"},
		{0, 4, "A"},
		{4, 5, "E"},
		{5, 4, "E"},
		{4, 8, "H"},
		{8, 4, "H"},
	}
	for _, c := range checks {
		if got := g[c.block][c.cell]; got != c.want {
			t.Fatalf("grid[%d][%d]: expected %q, got %q", c.block, c.cell, c.want, got)
		}
	}
	if !g.MirrorHolds() {
		t.Fatalf("expected mirror invariant to hold")
	}
}

func TestFromAnswers_AnyLengthKeepsMirror(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 12; n++ {
		answers := make([]string, n)
		for i := range answers {
			answers[i] = fmt.Sprintf("a%d", i)
		}
		g := FromAnswers(answers)
		if !g.MirrorHolds() {
			t.Fatalf("n=%d: mirror invariant broken: %+v", n, g)
		}
		if n == 0 && !g.IsEmpty() {
			t.Fatalf("expected empty grid for no answers")
		}
	}
}

func TestFromAnswers_IgnoresExtraAnswers(t *testing.T) {
	t.Parallel()

	g := FromAnswers([]string{"c", "1", "2", "3", "4", "5", "6", "7", "8", "overflow"})
	for b := range g {
		for c := range g[b] {
			if g[b][c] == "overflow" {
				t.Fatalf("overflow answer leaked into grid[%d][%d]", b, c)
			}
		}
	}
}

func TestFromAIResult_PadsMissingAreas(t *testing.T) {
	t.Parallel()

	r := model.AIResult{CentralKeyword: "core"}
	for i := 0; i < 5; i++ {
		r.KeyAreas = append(r.KeyAreas, model.KeyArea{
			Title:    fmt.Sprintf("area-%d", i),
			SubGoals: []string{"g0", "g1", "g2"},
		})
	}

	g := FromAIResult(r)

	if g.CentralKeyword() != "core" {
		t.Fatalf("expected central keyword, got %q", g.CentralKeyword())
	}
	// Areas 0..4 land in blocks 0,1,2,3,5.
	if g[4][5] != "area-4" || g[5][4] != "area-4" {
		t.Fatalf("expected area-4 mirrored at block 5, got %q / %q", g[4][5], g[5][4])
	}
	if g[5][0] != "g0" || g[5][2] != "g2" || g[5][3] != "" {
		t.Fatalf("unexpected sub-goals in block 5: %+v", g[5])
	}
	// Missing areas occupy blocks 6,7,8 and stay empty.
	for _, b := range []int{6, 7, 8} {
		if diff := cmp.Diff(model.Block{}, g[b]); diff != "" {
			t.Fatalf("block %d expected empty (-want +got):\n%s", b, diff)
		}
		if g[4][b] != "" {
			t.Fatalf("center slot %d expected empty, got %q", b, g[4][b])
		}
	}
}

func TestFromAIResult_IgnoresExtraSubGoalsAndAreas(t *testing.T) {
	t.Parallel()

	r := model.AIResult{CentralKeyword: "c"}
	for i := 0; i < 10; i++ {
		goals := make([]string, 12)
		for j := range goals {
			goals[j] = fmt.Sprintf("%d-%d", i, j)
		}
		r.KeyAreas = append(r.KeyAreas, model.KeyArea{Title: fmt.Sprintf("t%d", i), SubGoals: goals})
	}

	g := FromAIResult(r)
	if g[8][4] != "t7" {
		t.Fatalf("expected eighth area in block 8, got %q", g[8][4])
	}
	if g[8][8] != "7-7" {
		t.Fatalf("expected eighth sub-goal in last cell, got %q", g[8][8])
	}
	if !g.MirrorHolds() {
		t.Fatalf("expected mirror invariant to hold")
	}
}

func TestToAIResult_RoundTrip(t *testing.T) {
	t.Parallel()

	r := model.AIResult{CentralKeyword: "center"}
	for i := 0; i < model.AreaCount; i++ {
		goals := make([]string, model.AreaCount)
		for j := range goals {
			goals[j] = fmt.Sprintf("goal %d.%d", i, j)
		}
		r.KeyAreas = append(r.KeyAreas, model.KeyArea{Title: fmt.Sprintf("area %d", i), SubGoals: goals})
	}

	got := ToAIResult(FromAIResult(r))
	if diff := cmp.Diff(r, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestAnswers_InverseOfFromAnswers(t *testing.T) {
	t.Parallel()

	in := []string{"c", "1", "2", "3", "4", "5", "6", "7", "8"}
	if diff := cmp.Diff(in, Answers(FromAnswers(in))); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
}
