package markdown

import (
	"bytes"
	"html/template"
	"strings"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

type chromaTheme struct {
	colorScheme string
	style       string
}

// Code blocks follow the reader's color scheme.
var chromaThemes = []chromaTheme{
	{colorScheme: "light", style: "github"},
	{colorScheme: "dark", style: "github-dark"},
}

var (
	chromaCSSOnce sync.Once
	chromaCSS     template.CSS
)

func ChromaCSS() template.CSS {
	chromaCSSOnce.Do(func() {
		chromaCSS = template.CSS(buildChromaCSS(chromaThemes))
	})

	return chromaCSS
}

func buildChromaCSS(themes []chromaTheme) string {
	var out strings.Builder
	for _, theme := range themes {
		css := buildSingleStyleCSS(theme.style)
		if css == "" {
			continue
		}
		out.WriteString("@media (prefers-color-scheme: " + theme.colorScheme + ") {\n")
		out.WriteString(css)
		out.WriteString("}\n")
	}

	return out.String()
}

func buildSingleStyleCSS(styleName string) string {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	formatter := chromahtml.New(chromahtml.WithClasses(true))
	var buffer bytes.Buffer
	if err := formatter.WriteCSS(&buffer, style); err != nil {
		return ""
	}

	return buffer.String()
}
