package format

import (
	"bytes"
	"strings"
	"testing"
)

type plan struct {
	CentralKeyword string   `json:"centralKeyword"`
	Areas          []string `json:"areas"`
	Count          int      `json:"count"`
	Ratio          float64  `json:"ratio"`
	Done           bool     `json:"done"`
	Missing        *string  `json:"missing"`
}

func TestWriteJSON_Envelope(t *testing.T) {
	var buf bytes.Buffer
	env := Envelope{Data: plan{CentralKeyword: "<나>", Areas: []string{}}, Hints: []string{"mandalart export"}}
	if err := Write(&buf, env, "json", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, `"centralKeyword":"<나>"`) {
		t.Fatalf("expected unescaped user text, got %s", got)
	}
	if !strings.Contains(got, `"_hints":["mandalart export"]`) {
		t.Fatalf("expected hints, got %s", got)
	}
}

func TestWriteEDN(t *testing.T) {
	var buf bytes.Buffer
	v := plan{CentralKeyword: "나", Areas: []string{"a", "b"}, Count: 8, Ratio: 0.5, Done: true}
	if err := WriteEDN(&buf, v, false); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	want := `{:areas ["a" "b"] :central-keyword "나" :count 8 :done true :missing nil :ratio 0.5}` + "\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}

func TestWriteEDN_Pretty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEDN(&buf, map[string]any{"xs": []int{1}, "empty": []int{}}, true); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	want := "{\n  :empty []\n  :xs [\n    1\n  ]\n}\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, plan{CentralKeyword: "k", Areas: []string{"a"}}, "yaml", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "centralKeyword: k\n") || !strings.Contains(buf.String(), "areas:\n  - a\n") {
		t.Fatalf("unexpected yaml: %s", buf.String())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, 1, "xml", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
