package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"mandalart-cli/internal/catalog"
	"mandalart-cli/internal/export"
	"mandalart-cli/internal/format"
	"mandalart-cli/internal/gridmap"
	"mandalart-cli/internal/model"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultPreviewAddr = "127.0.0.1:8719"

// gridSource selects the grid a command works on.
type gridSource struct {
	GridFile string
	Draft    string
	Sample   bool
}

func (s *gridSource) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.GridFile, "grid-file", "", "Grid JSON (a 9x9 array, a draft, or generate output; '-' for stdin)")
	cmd.Flags().StringVar(&s.Draft, "draft", "", "Saved draft (id, name or id prefix)")
	cmd.Flags().BoolVar(&s.Sample, "sample", false, "Use the bundled example grid")
}

// load returns the selected grid and, for drafts, the questionnaire answers.
func (s gridSource) load(cmd *cobra.Command, app *App) (model.Grid, []string, error) {
	n := 0
	for _, set := range []bool{s.GridFile != "", s.Draft != "", s.Sample} {
		if set {
			n++
		}
	}
	switch {
	case n == 0:
		return model.Grid{}, nil, errMissingFlag(cmd.Name(), "grid-file", "draft", "sample")
	case n > 1:
		return model.Grid{}, nil, fmt.Errorf("%s: use only one of --grid-file, --draft, --sample", cmd.Name())
	}

	switch {
	case s.Sample:
		return gridmap.FromAIResult(catalog.Sample()), nil, nil
	case s.Draft != "":
		d, err := app.draftStore().LoadDraft(cmd.Context(), s.Draft)
		if err != nil {
			return model.Grid{}, nil, err
		}
		return d.Grid, d.Answers, nil
	default:
		b, err := readInput(cmd.InOrStdin(), s.GridFile)
		if err != nil {
			return model.Grid{}, nil, err
		}
		g, err := parseGrid(b)
		return g, nil, err
	}
}

func renderPage(app *App, g model.Grid, answers []string, title string, notes bool) (string, error) {
	opt := export.HTMLOptions{Title: title}
	if notes && len(answers) > 0 {
		qs, err := loadQuestions(app)
		if err != nil {
			return "", err
		}
		opt.Notes = catalog.Notes(qs, answers)
	}
	return export.RenderHTML(g, opt)
}

func newExportCmd(app *App) *cobra.Command {
	var src gridSource
	var to, kind, title string
	var overwrite, notes bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the grid as a standalone HTML page (or a Markdown outline)",
		Example: strings.TrimSpace(`
mandalart export --draft 2025 --to mandalart.html
mandalart export --draft 2025 --to ./site/ --overwrite --notes
mandalart export --grid-file grid.json --format md --to -
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind = strings.ToLower(strings.TrimSpace(kind))
			if kind != "html" && kind != "md" {
				return writeErr(cmd, fmt.Errorf("export: unknown --format %q (expected html|md)", kind))
			}
			g, answers, err := src.load(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}

			var body string
			if kind == "md" {
				body = export.RenderMarkdown(g)
			} else {
				body, err = renderPage(app, g, answers, title, notes)
				if err != nil {
					return writeErr(cmd, err)
				}
			}

			if strings.TrimSpace(to) == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}

			path := export.ResolvePath(to)
			if kind == "md" && filepath.Base(path) == export.DefaultFileName {
				path = strings.TrimSuffix(path, filepath.Ext(path)) + ".md"
			}
			if err := export.WriteFile(path, []byte(body), overwrite); err != nil {
				return writeErr(cmd, err)
			}
			abs, _ := filepath.Abs(path)
			app.logger().Info("exported", zap.String("path", abs), zap.String("format", kind))

			return writeOut(cmd, app, format.Envelope{
				Data: map[string]any{
					"path":   abs,
					"format": kind,
					"bytes":  len(body),
					"filled": g.FilledCount(),
				},
				Hints: []string{"open " + abs},
			})
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&to, "to", "", "Output file or directory ('-' for stdout; default ./"+export.DefaultFileName+")")
	// Shadows the global --format for this command only; the result envelope stays json.
	cmd.Flags().StringVar(&kind, "format", "html", "Page format (html|md)")
	cmd.Flags().StringVar(&title, "title", "", "Page title (html)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	cmd.Flags().BoolVar(&notes, "notes", false, "Append the draft's questionnaire answers below the grid (html)")
	return cmd
}

// previewHandler serves page at / and /mandalart.html.
func previewHandler(page string) http.Handler {
	mux := http.NewServeMux()
	serve := func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", export.ContentType)
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(page))
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		serve(w, r)
	})
	mux.HandleFunc("/"+export.DefaultFileName, serve)
	return mux
}

// servePreview serves until ctx is done, then shuts down gracefully.
func servePreview(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func newPreviewCmd(app *App) *cobra.Command {
	var src gridSource
	var addr, title string
	var open, notes bool

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve the exported page on localhost",
		Example: strings.TrimSpace(`
mandalart preview --draft 2025
mandalart preview --sample --addr :8080 --open=false
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("preview: missing --addr"))
			}
			g, answers, err := src.load(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			page, err := renderPage(app, g, answers, title, notes)
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			opened := false
			openErr := ""
			if open {
				if err := openPath(url); err != nil {
					openErr = err.Error()
				} else {
					opened = true
				}
			}

			hints := []string{}
			if !opened {
				hints = append(hints, "open "+url)
			}

			_ = writeOut(cmd, app, format.Envelope{
				Data: map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"opened":    opened,
					"openError": openErr,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				Hints: hints,
			})

			fmt.Fprintf(cmd.ErrOrStderr(), "Mandalart preview running at %s\n", url)
			if openErr != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to open browser: %s\n", openErr)
			}

			return servePreview(cmd.Context(), ln, previewHandler(page))
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", defaultPreviewAddr, "Bind address (host:port or :port)")
	cmd.Flags().StringVar(&title, "title", "", "Page title")
	cmd.Flags().BoolVar(&open, "open", true, "Open the page in your default browser")
	cmd.Flags().BoolVar(&notes, "notes", false, "Append the draft's questionnaire answers below the grid")
	return cmd
}
