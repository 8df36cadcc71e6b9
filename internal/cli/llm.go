package cli

import (
	"fmt"
	"strings"

	"mandalart-cli/internal/llm"
	"mandalart-cli/internal/model"

	"github.com/spf13/cobra"
)

// llmFlags are the per-command overrides shared by generate and extract.
type llmFlags struct {
	Endpoint string
	Model    string
	Strict   bool
}

func (f *llmFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Endpoint, "endpoint", "", "Generation endpoint base URL (default: $MANDALART_ENDPOINT, config, "+llm.DefaultEndpoint+")")
	cmd.Flags().StringVar(&f.Model, "model", "", "Model name (default: $MANDALART_MODEL, config, "+llm.DefaultModel+")")
	cmd.Flags().BoolVar(&f.Strict, "strict", false, "Reject plans without a central keyword or with a key-area count other than 8")
}

func llmDisabled(app *App) bool {
	l := app.config().LLM
	return l != nil && l.Disabled
}

// newLLMClient resolves settings as flag > environment > config file > default.
func newLLMClient(app *App, qs []model.Question, f llmFlags) (*llm.Client, error) {
	cfg := app.config().LLM
	var cfgEndpoint, cfgModel, cfgPolicy string
	opts := llm.DefaultOptions()
	if cfg != nil {
		cfgEndpoint, cfgModel, cfgPolicy = cfg.Endpoint, cfg.Model, cfg.Policy
		if cfg.Temperature != nil {
			opts["temperature"] = *cfg.Temperature
		}
		if cfg.NumCtx > 0 {
			opts["num_ctx"] = cfg.NumCtx
		}
	}

	policy, ok := llm.ParsePolicy(cfgPolicy)
	if !ok {
		return nil, fmt.Errorf("invalid llm.policy in config: %q", cfgPolicy)
	}
	if f.Strict {
		policy = llm.PolicyStrict
	}

	return llm.New(
		llm.WithEndpoint(firstSet(f.Endpoint, envOr("MANDALART_ENDPOINT", ""), cfgEndpoint)),
		llm.WithModel(firstSet(f.Model, envOr("MANDALART_MODEL", ""), cfgModel)),
		llm.WithOptions(opts),
		llm.WithPolicy(policy),
		llm.WithQuestions(qs),
		llm.WithLogger(app.logger()),
	), nil
}

func firstSet(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
