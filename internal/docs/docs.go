// Package docs holds the topic pages printed by `mandalart docs`.
package docs

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

//go:embed content/*.md
var contentFS embed.FS

func Topics() []string {
	entries, err := fs.Glob(contentFS, "content/*.md")
	if err != nil {
		return []string{}
	}
	topics := []string{}
	for _, p := range entries {
		base := path.Base(p)
		if topic := strings.TrimSuffix(base, path.Ext(base)); topic != "" {
			topics = append(topics, topic)
		}
	}
	sort.Strings(topics)
	return topics
}

// Get returns a topic's Markdown. Topic names are case-insensitive.
func Get(topic string) (string, bool) {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" || strings.ContainsAny(topic, `/\`) {
		return "", false
	}
	b, err := contentFS.ReadFile("content/" + topic + ".md")
	if err != nil {
		return "", false
	}
	return string(b), true
}

// Styles accepted by Render.
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StylePlain = "notty"
)

// Render formats md for a terminal, wrapped at width.
func Render(md, style string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	cfg := styles.DarkStyleConfig
	switch style {
	case StyleLight:
		cfg = styles.LightStyleConfig
	case StylePlain:
		cfg = styles.NoTTYStyleConfig
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(cfg),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
