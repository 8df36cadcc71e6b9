package mutate

import "mandalart-cli/internal/model"

type SetCellResult struct {
	Grid    model.Grid
	Changed bool
	// Cells lists every cell written by the edit (the target first, then its mirror).
	Cells []model.CellRef
}

// SetCell returns a copy of g with [block][cell] set to value, keeping the
// key-area mirror in sync:
//   - Center Block cell c (c != 4) also writes block c cell 4.
//   - Outer block b cell 4 also writes Center Block cell b.
//
// Every other edit is local. Out-of-range indices leave the grid unchanged.
func SetCell(g model.Grid, block, cell int, value string) SetCellResult {
	if !model.ValidIndex(block) || !model.ValidIndex(cell) {
		return SetCellResult{Grid: g}
	}
	if g[block][cell] == value {
		return SetCellResult{Grid: g}
	}

	g[block][cell] = value
	res := SetCellResult{
		Grid:    g,
		Changed: true,
		Cells:   []model.CellRef{{Block: block, Cell: cell}},
	}

	if mirror, ok := Mirror(block, cell); ok {
		res.Grid[mirror.Block][mirror.Cell] = value
		res.Cells = append(res.Cells, mirror)
	}
	return res
}

// Mirror returns the cell linked to [block][cell] by the key-area mirror, if any.
func Mirror(block, cell int) (model.CellRef, bool) {
	switch {
	case !model.ValidIndex(block) || !model.ValidIndex(cell):
		return model.CellRef{}, false
	case block == model.CenterBlock && cell != model.CenterCell:
		return model.CellRef{Block: cell, Cell: model.CenterCell}, true
	case block != model.CenterBlock && cell == model.CenterCell:
		return model.CellRef{Block: model.CenterBlock, Cell: block}, true
	default:
		return model.CellRef{}, false
	}
}

// ClearBlock empties outer block b's sub-goals. The title (and its mirror) is kept.
// Clearing the Center Block empties every title and the central keyword.
func ClearBlock(g model.Grid, block int) SetCellResult {
	res := SetCellResult{Grid: g}
	if !model.ValidIndex(block) {
		return res
	}
	cells := model.Surrounding[:]
	if block == model.CenterBlock {
		cells = append(append([]int{}, model.Surrounding[:]...), model.CenterCell)
	}
	for _, c := range cells {
		r := SetCell(res.Grid, block, c, "")
		if !r.Changed {
			continue
		}
		res.Grid = r.Grid
		res.Changed = true
		res.Cells = append(res.Cells, r.Cells...)
	}
	return res
}

// Replace overwrites the whole grid (the one-time fill from an AI result or answer list).
func Replace(g, next model.Grid) SetCellResult {
	res := SetCellResult{Grid: next}
	for b := range g {
		for c := range g[b] {
			if g[b][c] != next[b][c] {
				res.Changed = true
				res.Cells = append(res.Cells, model.CellRef{Block: b, Cell: c})
			}
		}
	}
	return res
}
