// Package gridmap converts questionnaire answers and generated plans into a Grid.
//
// Mapping never fails: inputs are truncated or padded to fit the 9x9 shape.
package gridmap

import "mandalart-cli/internal/model"

// FromAnswers maps an answer list onto an otherwise empty grid.
//
// answers[0] becomes the central keyword; answers[1..8] become key-area titles in
// model.Surrounding order, mirrored into the center of their outer block.
// Answers beyond the ninth are ignored.
func FromAnswers(answers []string) model.Grid {
	var g model.Grid
	if len(answers) == 0 {
		return g
	}
	g[model.CenterBlock][model.CenterCell] = answers[0]
	for i := 1; i < len(answers) && i <= model.AreaCount; i++ {
		setTitle(&g, model.Surrounding[i-1], answers[i])
	}
	return g
}

// FromAIResult maps a generated plan onto an empty grid.
//
// Missing areas and sub-goals are padded with empty strings before mapping, so a
// partial result still produces a full grid with blank slots.
func FromAIResult(r model.AIResult) model.Grid {
	r = r.Normalized("")

	var g model.Grid
	g[model.CenterBlock][model.CenterCell] = r.CentralKeyword
	for i, area := range r.KeyAreas {
		target := model.Surrounding[i]
		setTitle(&g, target, area.Title)
		for j, goal := range area.SubGoals {
			g[target][model.Surrounding[j]] = goal
		}
	}
	return g
}

// ToAIResult projects a grid back into the structured plan shape.
func ToAIResult(g model.Grid) model.AIResult {
	out := model.AIResult{
		CentralKeyword: g.CentralKeyword(),
		KeyAreas:       make([]model.KeyArea, 0, model.AreaCount),
	}
	for _, b := range model.Surrounding {
		out.KeyAreas = append(out.KeyAreas, model.KeyArea{
			Title:    g.Title(b),
			SubGoals: g.Items(b),
		})
	}
	return out
}

// Answers is the inverse of FromAnswers: the central keyword followed by the 8 titles.
func Answers(g model.Grid) []string {
	out := make([]string, 0, model.AreaCount+1)
	out = append(out, g.CentralKeyword())
	for _, b := range model.Surrounding {
		out = append(out, g[model.CenterBlock][b])
	}
	return out
}

func setTitle(g *model.Grid, block int, title string) {
	g[model.CenterBlock][block] = title
	g[block][model.CenterCell] = title
}
