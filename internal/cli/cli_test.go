package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mandalart-cli/internal/catalog"
	"mandalart-cli/internal/export"
	"mandalart-cli/internal/model"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()
	return runCLIWithInput(t, "", args)
}

func runCLIWithInput(t *testing.T, stdin string, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// isolate points the config dir (and so the drafts library) at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MANDALART_CONFIG_DIR", dir)
	t.Setenv("MANDALART_DIR", "")
	t.Setenv("MANDALART_FORMAT", "")
	t.Setenv("MANDALART_ENDPOINT", "")
	t.Setenv("MANDALART_MODEL", "")
	return dir
}

func mustData(t *testing.T, args ...string) any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: mandalart %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
	}
	return envelopeData(t, stdout)
}

func envelopeData(t *testing.T, stdout []byte) any {
	t.Helper()
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s", err, string(stdout))
	}
	data, ok := env["data"]
	if !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	if hints, ok := env["_hints"]; ok && hints != nil {
		if _, ok := hints.([]any); !ok {
			t.Fatalf("expected _hints to be list; got %T", hints)
		}
	}
	return data
}

func gridOf(t *testing.T, data any) model.Grid {
	t.Helper()
	b, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	g, err := parseGrid(b)
	if err != nil {
		t.Fatalf("parse grid from %s: %v", string(b), err)
	}
	return g
}

func TestQuestionsAndSample(t *testing.T) {
	isolate(t)

	qs := mustData(t, "questions").([]any)
	if len(qs) != len(catalog.Default()) {
		t.Fatalf("expected %d questions, got %d", len(catalog.Default()), len(qs))
	}

	g := gridOf(t, mustData(t, "sample"))
	if g.CentralKeyword() != catalog.Sample().CentralKeyword || !g.MirrorHolds() {
		t.Fatalf("unexpected sample grid: %+v", g[4])
	}

	plan := mustData(t, "sample", "--plan").(map[string]any)
	if _, ok := plan["keyAreas"]; !ok {
		t.Fatalf("expected plan shape, got %v", plan)
	}
}

func TestMap_AnswersBecomeTitles(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "answers.txt")
	if err := os.WriteFile(path, []byte("Growth\nHealth\n\nCraft\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	g := gridOf(t, mustData(t, "map", "--answers-file", path, "--answer", "Family"))
	if g[4][4] != "Growth" || g[4][0] != "Health" || g[0][4] != "Health" {
		t.Fatalf("unexpected grid center: %+v", g[4])
	}
	// Blank lines are skipped, so Craft is the second title and Family the third.
	if g[4][1] != "Craft" || g[4][2] != "Family" || g[2][4] != "Family" {
		t.Fatalf("unexpected titles: %+v", g[4])
	}

	if _, _, err := runCLI(t, []string{"map"}); err == nil {
		t.Fatalf("expected map without answers to fail")
	}
}

func newFakeOllama(t *testing.T, status int, response string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		if status != http.StatusOK {
			http.Error(w, "boom", status)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"response": response})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerate_UsesEndpointFromEnv(t *testing.T) {
	isolate(t)

	b, _ := json.Marshal(catalog.Sample())
	srv := newFakeOllama(t, http.StatusOK, "```json\n"+string(b)+"\n```")
	t.Setenv("MANDALART_ENDPOINT", srv.URL)

	data := mustData(t, "generate", "--answer", "a", "--answer", "b").(map[string]any)
	if data["source"] != string(model.DraftSourceAI) {
		t.Fatalf("expected ai source, got %v", data["source"])
	}
	g := gridOf(t, data)
	if g.CentralKeyword() != catalog.Sample().CentralKeyword {
		t.Fatalf("expected generated keyword, got %q", g.CentralKeyword())
	}
}

func TestGenerate_TransportFailure(t *testing.T) {
	isolate(t)
	srv := newFakeOllama(t, http.StatusInternalServerError, "")

	_, stderr, err := runCLI(t, []string{"generate", "--endpoint", srv.URL, "--answer", "목표"})
	if err == nil {
		t.Fatalf("expected failure")
	}
	if !strings.Contains(string(stderr), "transport") {
		t.Fatalf("expected transport kind on stderr, got %q", string(stderr))
	}

	data := mustData(t, "generate", "--endpoint", srv.URL, "--answer", "목표", "--fallback").(map[string]any)
	fb := data["fallback"].(map[string]any)
	if fb["kind"] != "transport" || fb["status"] != float64(http.StatusInternalServerError) {
		t.Fatalf("unexpected fallback info: %v", fb)
	}
	if g := gridOf(t, data); g.CentralKeyword() != "목표" {
		t.Fatalf("expected grid mapped from answers, got %q", g.CentralKeyword())
	}
}

func TestGenerate_StrictRejectsShortPlan(t *testing.T) {
	isolate(t)
	srv := newFakeOllama(t, http.StatusOK, `{"centralKeyword":"k","keyAreas":[{"title":"a","subGoals":[]}]}`)

	_, stderr, err := runCLI(t, []string{"generate", "--endpoint", srv.URL, "--answer", "x", "--strict"})
	if err == nil || !strings.Contains(string(stderr), "incomplete") {
		t.Fatalf("expected incomplete failure, err=%v stderr=%q", err, string(stderr))
	}
}

func TestExtract_RepairsFromStdin(t *testing.T) {
	isolate(t)

	stdout, stderr, err := runCLIWithInput(t, "sure! {\"centralKeyword\":\"k\",\"keyAreas\":[]} thanks", []string{"extract"})
	if err != nil {
		t.Fatalf("extract: %v\n%s", err, string(stderr))
	}
	plan := envelopeData(t, stdout).(map[string]any)
	if plan["centralKeyword"] != "k" {
		t.Fatalf("unexpected plan: %v", plan)
	}
	if areas := plan["keyAreas"].([]any); len(areas) != model.AreaCount {
		t.Fatalf("expected repaired plan with 8 areas, got %d", len(areas))
	}

	if _, _, err := runCLIWithInput(t, "no json here", []string{"extract"}); err == nil {
		t.Fatalf("expected malformed input to fail")
	}
}

func TestExport_WritesPageAndRefusesOverwrite(t *testing.T) {
	isolate(t)
	out := t.TempDir()

	data := mustData(t, "export", "--sample", "--to", out).(map[string]any)
	path := data["path"].(string)
	if filepath.Base(path) != "mandalart.html" {
		t.Fatalf("unexpected path %s", path)
	}
	b, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(b), "const gridData") {
		t.Fatalf("expected exported page, err=%v", err)
	}

	if _, _, err := runCLI(t, []string{"export", "--sample", "--to", out}); err == nil {
		t.Fatalf("expected second export without --overwrite to fail")
	}
	mustData(t, "export", "--sample", "--to", out, "--overwrite")

	md := mustData(t, "export", "--sample", "--to", out, "--format", "md").(map[string]any)
	if filepath.Base(md["path"].(string)) != "mandalart.md" {
		t.Fatalf("expected markdown file name, got %v", md["path"])
	}
}

func TestExport_MarkdownToStdout(t *testing.T) {
	isolate(t)

	stdout, _, err := runCLI(t, []string{"export", "--sample", "--format", "md", "--to", "-"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	// Headings are single-line: the keyword's line breaks collapse to spaces.
	title := strings.Join(strings.Fields(catalog.Sample().CentralKeyword), " ")
	if !strings.HasPrefix(string(stdout), "# "+title+"\n") {
		t.Fatalf("expected markdown outline, got:\n%s", string(stdout))
	}
}

func TestExport_NeedsExactlyOneSource(t *testing.T) {
	isolate(t)

	if _, _, err := runCLI(t, []string{"export"}); err == nil {
		t.Fatalf("expected missing source to fail")
	}
	if _, _, err := runCLI(t, []string{"export", "--sample", "--draft", "x"}); err == nil {
		t.Fatalf("expected two sources to fail")
	}
}

func TestDrafts_Lifecycle(t *testing.T) {
	isolate(t)

	saved := mustData(t, "drafts", "save", "--name", "plan", "--sample").(map[string]any)
	id := saved["id"].(string)
	if id == "" || saved["source"] != string(model.DraftSourceSample) {
		t.Fatalf("unexpected saved draft: %v", saved)
	}

	list := mustData(t, "drafts", "list").([]any)
	if len(list) != 1 {
		t.Fatalf("expected one draft, got %d", len(list))
	}

	shown := mustData(t, "drafts", "show", "plan").(map[string]any)
	if shown["id"] != id {
		t.Fatalf("expected lookup by name, got %v", shown["id"])
	}

	edit := mustData(t, "set", "--draft", id[:6], "--block", "4", "--cell", "2", "--value", "Health").(map[string]any)
	if edit["changed"] != true || len(edit["cells"].([]any)) != 2 {
		t.Fatalf("expected mirrored edit, got %v", edit)
	}

	after := gridOf(t, mustData(t, "drafts", "show", id))
	if after[4][2] != "Health" || after[2][4] != "Health" {
		t.Fatalf("expected edit to be saved, got %q / %q", after[4][2], after[2][4])
	}

	plan := mustData(t, "drafts", "show", id, "--as", "plan").(map[string]any)
	if areas := plan["keyAreas"].([]any); len(areas) != model.AreaCount {
		t.Fatalf("expected 8 key areas, got %d", len(areas))
	}
	answers := mustData(t, "drafts", "show", id, "--as", "answers").([]any)
	if len(answers) != 9 || answers[3] != "Health" {
		t.Fatalf("expected keyword and titles as answers, got %v", answers)
	}

	var g model.Grid
	g[4][4] = "new"
	dir := t.TempDir()
	gridPath := filepath.Join(dir, "grid.json")
	b, _ := json.Marshal(g)
	if err := os.WriteFile(gridPath, b, 0o644); err != nil {
		t.Fatal(err)
	}
	replaced := mustData(t, "drafts", "save", "--id", id, "--name", "plan", "--grid-file", gridPath).(map[string]any)
	if replaced["id"] != id || replaced["changedCells"] == nil || replaced["changedCells"].(float64) == 0 {
		t.Fatalf("expected in-place replace with a diff count, got %v", replaced)
	}

	if _, _, err := runCLI(t, []string{"drafts", "delete", id}); err == nil {
		t.Fatalf("expected delete without --yes to fail")
	}
	mustData(t, "drafts", "delete", id, "--yes")
	if _, _, err := runCLI(t, []string{"drafts", "show", id}); err == nil {
		t.Fatalf("expected deleted draft to be gone")
	}
}

func TestDrafts_SaveFromAnswersKeepsNotes(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	answers := filepath.Join(dir, "answers.yaml")
	if err := os.WriteFile(answers, []byte("- 기록하는 사람\n- 건강\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	saved := mustData(t, "drafts", "save", "--name", "mine", "--answers-file", answers).(map[string]any)
	if saved["source"] != string(model.DraftSourceAnswers) || saved["centralKeyword"] != "기록하는 사람" {
		t.Fatalf("unexpected draft: %v", saved)
	}

	stdout, _, err := runCLI(t, []string{"export", "--draft", "mine", "--notes", "--to", "-"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(string(stdout), "건강") {
		t.Fatalf("expected answers in the notes section")
	}
}

func TestSet_GridFilePrintsEditedGrid(t *testing.T) {
	isolate(t)

	var g model.Grid
	g[4][4] = "k"
	b, _ := json.Marshal(g)
	stdout, stderr, err := runCLIWithInput(t, string(b), []string{"set", "--grid-file", "-", "--block", "0", "--cell", "4", "--value", "T"})
	if err != nil {
		t.Fatalf("set: %v\n%s", err, string(stderr))
	}
	got := gridOf(t, envelopeData(t, stdout))
	if got[0][4] != "T" || got[4][0] != "T" {
		t.Fatalf("expected mirror from outer block, got %q / %q", got[0][4], got[4][0])
	}

	if _, _, err := runCLI(t, []string{"set", "--sample", "--block", "9", "--cell", "0", "--value", "x"}); err == nil {
		t.Fatalf("expected out-of-range block to fail")
	}
	if _, _, err := runCLI(t, []string{"set", "--sample", "--block", "0", "--cell", "0"}); err == nil {
		t.Fatalf("expected missing --value to fail")
	}
}

func TestConfig_SetAndShow(t *testing.T) {
	dir := isolate(t)

	mustData(t, "config", "set", "llm.model", "gemma2")
	mustData(t, "config", "set", "llm.policy", "strict")
	if _, err := os.Stat(filepath.Join(dir, "config.json")); err != nil {
		t.Fatalf("expected config file: %v", err)
	}

	shown := mustData(t, "config", "show").(map[string]any)
	values := shown["values"].(map[string]any)
	if values["llm.model"] != "gemma2" || values["llm.policy"] != "strict" {
		t.Fatalf("unexpected values: %v", values)
	}

	one := mustData(t, "config", "show", "llm.model").(map[string]any)
	if one["value"] != "gemma2" {
		t.Fatalf("unexpected value: %v", one)
	}

	if _, _, err := runCLI(t, []string{"config", "set", "llm.policy", "loose"}); err == nil {
		t.Fatalf("expected invalid policy to fail")
	}
	if _, _, err := runCLI(t, []string{"config", "set", "nope", "1"}); err == nil {
		t.Fatalf("expected unknown key to fail")
	}

	mustData(t, "config", "set", "llm.model")
	if v := mustData(t, "config", "show", "llm.model").(map[string]any)["value"]; v != "" {
		t.Fatalf("expected cleared key, got %v", v)
	}
}

func TestDocs(t *testing.T) {
	isolate(t)

	topics := mustData(t, "docs").(map[string]any)["topics"].([]any)
	if len(topics) == 0 {
		t.Fatalf("expected topics")
	}

	stdout, _, err := runCLI(t, []string{"docs", "grid", "--raw"})
	if err != nil || !strings.HasPrefix(string(stdout), "# The grid") {
		t.Fatalf("expected raw markdown, err=%v out=%q", err, string(stdout))
	}

	if _, _, err := runCLI(t, []string{"docs", "missing"}); err == nil {
		t.Fatalf("expected unknown topic to fail")
	}
}

func TestOutputFormats(t *testing.T) {
	isolate(t)

	stdout, _, err := runCLI(t, []string{"--format", "edn", "questions"})
	if err != nil || !strings.HasPrefix(string(stdout), "{:") || !strings.Contains(string(stdout), ":data [") {
		t.Fatalf("expected edn envelope, err=%v out=%q", err, string(stdout))
	}
	stdout, _, err = runCLI(t, []string{"--format", "yaml", "docs"})
	if err != nil || !strings.Contains(string(stdout), "topics:") {
		t.Fatalf("expected yaml envelope, err=%v out=%q", err, string(stdout))
	}
}

func TestPreviewHandler(t *testing.T) {
	srv := httptest.NewServer(previewHandler("<html>grid</html>"))
	t.Cleanup(srv.Close)

	for _, p := range []string{"/", "/mandalart.html"} {
		resp, err := srv.Client().Get(srv.URL + p)
		if err != nil {
			t.Fatalf("get %s: %v", p, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != export.ContentType {
			t.Fatalf("%s: unexpected response %d %q", p, resp.StatusCode, resp.Header.Get("Content-Type"))
		}
	}

	resp, err := srv.Client().Get(srv.URL + "/other")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	resp, err = srv.Client().Post(srv.URL+"/", "text/plain", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}
