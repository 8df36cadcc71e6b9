package flow

import (
	"errors"
	"fmt"
	"strings"

	"mandalart-cli/internal/gridmap"
	"mandalart-cli/internal/llm"
	"mandalart-cli/internal/model"
	"mandalart-cli/internal/mutate"
)

type Step string

const (
	StepIntro     Step = "intro"
	StepQuestions Step = "questions"
	StepLoading   Step = "loading"
	StepResult    Step = "result"
)

// FallbackWarning is shown when generation fails and the grid is built from the raw answers.
const FallbackWarning = "AI 회고 요약에 실패했습니다. 올라마(Ollama)가 켜져 있는지 확인해주세요! (기본 그리드로 이동합니다)"

var ErrBlankAnswer = errors.New("answer is blank")

// Controller is the questionnaire step machine. It performs no I/O: the caller runs
// generation between Complete and Finish.
type Controller struct {
	questions []model.Question
	aiEnabled bool

	step    Step
	index   int
	answers []string
	grid    model.Grid
	source  model.DraftSource
	warning string
	cause   error
	pending int
}

func New(questions []model.Question, aiEnabled bool) *Controller {
	return &Controller{
		questions: questions,
		aiEnabled: aiEnabled,
		step:      StepIntro,
		answers:   make([]string, len(questions)),
	}
}

func (c *Controller) Step() Step                  { return c.step }
func (c *Controller) Index() int                  { return c.index }
func (c *Controller) Questions() []model.Question { return c.questions }
func (c *Controller) Grid() model.Grid            { return c.grid }
func (c *Controller) Source() model.DraftSource   { return c.source }
func (c *Controller) AIEnabled() bool             { return c.aiEnabled }

// Warning is the user-visible message left by the last failed generation ("" when none).
func (c *Controller) Warning() string { return c.warning }

// FailureKind classifies the error behind Warning ("" when none or when it was not a generation error).
func (c *Controller) FailureKind() llm.ErrorKind { return llm.KindOf(c.cause) }

// Pending identifies the in-flight generation. Results tagged with an older value are stale.
func (c *Controller) Pending() int { return c.pending }

func (c *Controller) Answers() []string {
	return append([]string(nil), c.answers...)
}

func (c *Controller) Question() (model.Question, bool) {
	if c.index < 0 || c.index >= len(c.questions) {
		return model.Question{}, false
	}
	return c.questions[c.index], true
}

func (c *Controller) Answer() string {
	if c.index < 0 || c.index >= len(c.answers) {
		return ""
	}
	return c.answers[c.index]
}

func (c *Controller) IsLast() bool { return c.index == len(c.questions)-1 }

// Start moves from intro to the first question. It is a no-op on any other step.
func (c *Controller) Start() {
	if c.step != StepIntro {
		return
	}
	c.step = StepQuestions
	c.index = 0
	if len(c.questions) == 0 {
		c.Complete()
	}
}

func (c *Controller) SetAnswer(text string) {
	if c.step != StepQuestions || c.index < 0 || c.index >= len(c.answers) {
		return
	}
	c.answers[c.index] = text
}

// Next advances to the following question. A blank current answer blocks the move.
// On the last question Next behaves like Complete.
func (c *Controller) Next() error {
	if c.step != StepQuestions {
		return fmt.Errorf("next: not answering questions (step %s)", c.step)
	}
	if strings.TrimSpace(c.Answer()) == "" {
		return ErrBlankAnswer
	}
	if c.IsLast() {
		c.Complete()
		return nil
	}
	c.index++
	return nil
}

// Prev goes back one question and reports whether it moved.
func (c *Controller) Prev() bool {
	if c.step != StepQuestions || c.index == 0 {
		return false
	}
	c.index--
	return true
}

// Complete ends the questionnaire. It returns true when the caller must now run
// generation and report back via Finish; otherwise the answers are mapped directly.
func (c *Controller) Complete() bool {
	if c.step != StepQuestions {
		return false
	}
	c.warning, c.cause = "", nil
	if !c.aiEnabled {
		c.grid = gridmap.FromAnswers(c.answers)
		c.source = model.DraftSourceAnswers
		c.step = StepResult
		return false
	}
	c.pending++
	c.step = StepLoading
	return true
}

// Finish records the generation outcome. Failure never aborts the flow: the grid
// falls back to the mapped answers and a warning is kept for display.
func (c *Controller) Finish(result model.AIResult, err error) {
	if c.step != StepLoading {
		return
	}
	if err != nil {
		c.warning = FallbackWarning
		c.cause = err
		c.grid = gridmap.FromAnswers(c.answers)
		c.source = model.DraftSourceAnswers
	} else {
		c.grid = gridmap.FromAIResult(result)
		c.source = model.DraftSourceAI
	}
	c.step = StepResult
}

// Load jumps straight to the editor with an existing grid (sample or saved draft).
func (c *Controller) Load(g model.Grid, source model.DraftSource) {
	c.grid = g
	c.source = source
	c.warning, c.cause = "", nil
	c.step = StepResult
}

// SetCell edits the result grid through the mirror-aware reducer.
func (c *Controller) SetCell(block, cell int, value string) mutate.SetCellResult {
	if c.step != StepResult {
		return mutate.SetCellResult{Grid: c.grid}
	}
	res := mutate.SetCell(c.grid, block, cell, value)
	if res.Changed {
		c.grid = res.Grid
		c.source = model.DraftSourceManual
	}
	return res
}

// ClearBlock empties the sub-goals of block (every title, when it is the Center Block).
func (c *Controller) ClearBlock(block int) mutate.SetCellResult {
	if c.step != StepResult {
		return mutate.SetCellResult{Grid: c.grid}
	}
	res := mutate.ClearBlock(c.grid, block)
	if res.Changed {
		c.grid = res.Grid
		c.source = model.DraftSourceManual
	}
	return res
}

// DismissWarning clears the fallback notice once it has been shown.
func (c *Controller) DismissWarning() {
	c.warning, c.cause = "", nil
}

// Reset returns to intro and discards answers and grid edits.
func (c *Controller) Reset() {
	c.step = StepIntro
	c.index = 0
	c.answers = make([]string, len(c.questions))
	c.grid = model.Grid{}
	c.source = ""
	c.warning, c.cause = "", nil
	c.pending++
}
