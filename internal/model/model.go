package model

import (
	"strings"
	"time"
)

const (
	// BlockCount and CellCount describe the fixed 9x9 shape of a Mandalart.
	BlockCount = 9
	CellCount  = 9

	// CenterBlock holds the central keyword (its own center cell) and the 8 key-area titles.
	CenterBlock = 4
	// CenterCell is the index of the center cell inside any block.
	CenterCell = 4

	// AreaCount is the number of key areas (and sub-goals per area).
	AreaCount = 8
)

// Surrounding lists the 8 non-center positions of a 3x3 block in reading order.
//
//	0 1 2
//	3 4 5
//	6 7 8
//
// Key area i lives in Center Block cell Surrounding[i] and owns outer block Surrounding[i];
// sub-goal j of an area lives in cell Surrounding[j] of that outer block.
var Surrounding = [AreaCount]int{0, 1, 2, 3, 5, 6, 7, 8}

// Block is one 3x3 group of cells, stored in reading order.
type Block [CellCount]string

// Grid is the full Mandalart: 9 blocks in reading order, block 4 in the middle.
// The array shape makes the 9x9 invariant a property of the type.
type Grid [BlockCount]Block

// CellRef addresses a single cell.
type CellRef struct {
	Block int `json:"block"`
	Cell  int `json:"cell"`
}

func ValidIndex(i int) bool { return i >= 0 && i < CellCount }

// CentralKeyword returns the center of the Center Block.
func (g Grid) CentralKeyword() string {
	return g[CenterBlock][CenterCell]
}

// Title returns the key-area title for outer block b (its center cell).
func (g Grid) Title(b int) string {
	if !ValidIndex(b) {
		return ""
	}
	return g[b][CenterCell]
}

// Items returns the 8 surrounding values of block b in Surrounding order.
func (g Grid) Items(b int) []string {
	if !ValidIndex(b) {
		return nil
	}
	out := make([]string, 0, AreaCount)
	for _, c := range Surrounding {
		out = append(out, g[b][c])
	}
	return out
}

// NonBlankItems is Items without blank entries (the export detail panel uses the same filter).
func (g Grid) NonBlankItems(b int) []string {
	var out []string
	for _, s := range g.Items(b) {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// MirrorHolds reports whether every key-area title matches its outer block center.
func (g Grid) MirrorHolds() bool {
	for _, b := range Surrounding {
		if g[CenterBlock][b] != g[b][CenterCell] {
			return false
		}
	}
	return true
}

func (g Grid) IsEmpty() bool {
	for _, blk := range g {
		for _, c := range blk {
			if c != "" {
				return false
			}
		}
	}
	return true
}

// FilledCount counts non-blank cells, counting each mirrored title once.
func (g Grid) FilledCount() int {
	n := 0
	for b, blk := range g {
		for c, v := range blk {
			if b != CenterBlock && c == CenterCell {
				continue
			}
			if strings.TrimSpace(v) != "" {
				n++
			}
		}
	}
	return n
}

type KeyArea struct {
	Title    string   `json:"title" yaml:"title"`
	SubGoals []string `json:"subGoals" yaml:"subGoals"`
}

// AIResult is the structured plan returned by the generation endpoint.
type AIResult struct {
	CentralKeyword string    `json:"centralKeyword" yaml:"centralKeyword"`
	KeyAreas       []KeyArea `json:"keyAreas" yaml:"keyAreas"`
}

// Normalized returns a copy with exactly AreaCount areas of exactly AreaCount sub-goals.
// Missing areas get placeholderTitle; missing sub-goals are empty strings. Extras are dropped.
func (r AIResult) Normalized(placeholderTitle string) AIResult {
	out := AIResult{
		CentralKeyword: r.CentralKeyword,
		KeyAreas:       make([]KeyArea, 0, AreaCount),
	}
	for i := 0; i < AreaCount; i++ {
		var a KeyArea
		if i < len(r.KeyAreas) {
			a.Title = r.KeyAreas[i].Title
			a.SubGoals = padStrings(r.KeyAreas[i].SubGoals, AreaCount)
		} else {
			a.Title = placeholderTitle
			a.SubGoals = padStrings(nil, AreaCount)
		}
		out.KeyAreas = append(out.KeyAreas, a)
	}
	return out
}

func padStrings(in []string, n int) []string {
	out := make([]string, n)
	copy(out, in)
	return out
}

type Question struct {
	ID       int    `json:"id" yaml:"id"`
	Category string `json:"category" yaml:"category"`
	Text     string `json:"text" yaml:"text"`
}

// Note pairs a question with the user's answer (rendered in exports).
type Note struct {
	Category string `json:"category"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type DraftSource string

const (
	DraftSourceAnswers DraftSource = "answers"
	DraftSourceAI      DraftSource = "ai"
	DraftSourceManual  DraftSource = "manual"
	DraftSourceSample  DraftSource = "sample"
)

// Draft is a grid saved in the local drafts library.
type Draft struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Source    DraftSource `json:"source"`
	Answers   []string    `json:"answers,omitempty"`
	Grid      Grid        `json:"grid"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
