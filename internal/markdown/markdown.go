package markdown

import (
	stdhtml "html"
	"html/template"
	"io"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	md "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const fileAnnotationPrefix = "/// file:"

type Options struct {
	// RootURL turns absolute links to this site into root-relative ones.
	RootURL string
	// ResolveLink rewrites a link destination, e.g. to follow slug redirects.
	ResolveLink func(href string) string
}

const lastGoodBreakRatio = 0.8

var (
	markdownCodeBlockPattern        = regexp.MustCompile("(?s)```.*?```")
	markdownImagePattern            = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	markdownHorizontalRulePattern   = regexp.MustCompile(`(?m)^---+$`)
	markdownBoldPattern             = regexp.MustCompile(`\*\*(.*?)\*\*`)
	markdownItalicAsteriskPattern   = regexp.MustCompile(`\*(.*?)\*`)
	markdownItalicUnderscorePattern = regexp.MustCompile(`\b_(.*?)_\b`)
	markdownHeadingPattern          = regexp.MustCompile(`(?m)^#{1,6}\s+(.*?)$`)
	markdownInlineCodePattern       = regexp.MustCompile("`(.*?)`")
	markdownLinkPattern             = regexp.MustCompile(`\[(.*?)\]\(.*?\)`)
	markdownBlockquotePattern       = regexp.MustCompile(`(?m)^\s*>\s*(.*?)$`)
	markdownOrderedListPattern      = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	htmlTagPattern                  = regexp.MustCompile(`<[^>]*>`)
)

func ToHTML(input string, opts Options) template.HTML {
	if strings.TrimSpace(input) == "" {
		return template.HTML("")
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(input))
	normalizeLinks(doc, opts)

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags:          mdhtml.CommonFlags | mdhtml.SkipHTML,
		RenderNodeHook: renderNodeHook,
	})

	return template.HTML(md.Render(doc, renderer))
}

// Excerpt returns plain text of at most maxChars runes, cut on a word
// boundary when one is close enough to the limit.
func Excerpt(input string, maxChars int) string {
	if maxChars < 1 {
		return ""
	}

	clean := markdownToPlainText(input)
	if clean == "" {
		return ""
	}

	if utf8.RuneCountInString(clean) <= maxChars {
		return clean
	}

	return truncateRunes(clean, maxChars)
}

func markdownToPlainText(markdown string) string {
	text := markdown
	text = markdownCodeBlockPattern.ReplaceAllString(text, " ")
	text = markdownImagePattern.ReplaceAllString(text, " ")
	text = markdownHorizontalRulePattern.ReplaceAllString(text, " ")

	text = markdownBoldPattern.ReplaceAllString(text, "$1")
	text = markdownItalicAsteriskPattern.ReplaceAllString(text, "$1")
	text = markdownItalicUnderscorePattern.ReplaceAllString(text, "$1")
	text = markdownHeadingPattern.ReplaceAllString(text, "\n$1\n")
	text = markdownInlineCodePattern.ReplaceAllString(text, "$1")
	text = markdownLinkPattern.ReplaceAllString(text, "$1")
	text = markdownBlockquotePattern.ReplaceAllString(text, "$1")
	text = markdownOrderedListPattern.ReplaceAllString(text, "- ")
	text = htmlTagPattern.ReplaceAllString(text, "")

	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	return strings.Join(strings.Fields(text), " ")
}

func truncateRunes(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}

	truncateAt := maxChars
	minBreak := int(float64(maxChars) * lastGoodBreakRatio)
	for idx := maxChars - 1; idx >= minBreak; idx-- {
		if unicode.IsSpace(runes[idx]) {
			truncateAt = idx
			break
		}
	}

	truncated := strings.TrimSpace(string(runes[:truncateAt]))
	if truncated == "" {
		truncated = strings.TrimSpace(string(runes[:maxChars]))
	}

	return truncated + "..."
}

func normalizeLinks(doc ast.Node, opts Options) {
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}

		link, ok := node.(*ast.Link)
		if !ok {
			return ast.GoToNext
		}

		href := normalizeCurrentWebsiteLink(string(link.Destination), opts.RootURL)
		if opts.ResolveLink != nil && isSiteRelative(href) {
			href = opts.ResolveLink(href)
		}
		link.Destination = []byte(href)
		if isExternal(href) {
			link.AdditionalAttributes = applyExternalLinkAttributes(link.AdditionalAttributes)
		}

		return ast.GoToNext
	})
}

func renderNodeHook(writer io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	if !entering {
		return ast.GoToNext, false
	}

	switch typedNode := node.(type) {
	case *ast.CodeBlock:
		renderCodeBlock(writer, typedNode)
		return ast.SkipChildren, true
	case *ast.Code:
		renderInlineCode(writer, typedNode)
		return ast.SkipChildren, true
	default:
		return ast.GoToNext, false
	}
}

func renderCodeBlock(writer io.Writer, block *ast.CodeBlock) {
	filename, code := splitFileAnnotation(string(block.Literal))
	_, _ = io.WriteString(writer, `<div class="code-block">`)
	if filename != "" {
		_, _ = io.WriteString(writer, `<span class="filename">`)
		_, _ = io.WriteString(writer, stdhtml.EscapeString(filename))
		_, _ = io.WriteString(writer, `</span>`)
	}
	defer func() { _, _ = io.WriteString(writer, `</div>`) }()

	lexer := pickLexer(codeLanguage(block.Info), filename, code)
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		renderPlainCodeBlock(writer, code)
		return
	}

	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.Format(writer, styles.Fallback, iterator); err != nil {
		renderPlainCodeBlock(writer, code)
	}
}

// splitFileAnnotation strips a leading "/// file: App.svelte" line.
func splitFileAnnotation(code string) (string, string) {
	firstLine, rest, _ := strings.Cut(code, "\n")
	trimmed := strings.TrimSpace(firstLine)
	if !strings.HasPrefix(trimmed, fileAnnotationPrefix) {
		return "", code
	}

	return strings.TrimSpace(strings.TrimPrefix(trimmed, fileAnnotationPrefix)), rest
}

func renderInlineCode(writer io.Writer, code *ast.Code) {
	_, _ = io.WriteString(writer, `<code class="inline-code">`)
	_, _ = io.WriteString(writer, stdhtml.EscapeString(string(code.Literal)))
	_, _ = io.WriteString(writer, `</code>`)
}

func renderPlainCodeBlock(writer io.Writer, code string) {
	_, _ = io.WriteString(writer, `<pre class="chroma"><code>`)
	_, _ = io.WriteString(writer, stdhtml.EscapeString(code))
	_, _ = io.WriteString(writer, `</code></pre>`)
}

func pickLexer(language string, filename string, code string) chroma.Lexer {
	if language != "" {
		if lexer := lexers.Get(language); lexer != nil {
			return lexer
		}
	}

	if filename != "" {
		if lexer := lexers.Match(filename); lexer != nil {
			return lexer
		}
	}

	if lexer := lexers.Analyse(code); lexer != nil {
		return lexer
	}

	return lexers.Fallback
}

func codeLanguage(info []byte) string {
	fields := strings.Fields(string(info))
	if len(fields) == 0 {
		return ""
	}

	return strings.ToLower(fields[0])
}

func isSiteRelative(href string) bool {
	return strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//")
}

func isExternal(href string) bool {
	if strings.HasPrefix(href, "//") {
		return true
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return false
	}
	return parsed.IsAbs()
}

func normalizeCurrentWebsiteLink(href string, rootURL string) string {
	rootURL = strings.TrimSuffix(rootURL, "/")
	if rootURL == "" || !strings.HasPrefix(href, rootURL) {
		return href
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}

	normalized := parsed.Path
	if normalized == "" {
		normalized = "/"
	}
	if parsed.RawQuery != "" {
		normalized += "?" + parsed.RawQuery
	}
	if parsed.Fragment != "" {
		normalized += "#" + parsed.Fragment
	}

	return normalized
}

func applyExternalLinkAttributes(existing []string) []string {
	attrs := make([]string, 0, len(existing)+2)
	for _, attr := range existing {
		normalized := strings.ToLower(strings.TrimSpace(attr))
		if strings.HasPrefix(normalized, "target=") || strings.HasPrefix(normalized, "rel=") {
			continue
		}
		attrs = append(attrs, attr)
	}

	return append(attrs, `target="_blank"`, `rel="noopener noreferrer"`)
}
