package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"tutorial/framework"
	"tutorial/internal/web/appcore"
)

const (
	stylesheetURL = "/.tutorial/tutorial.css"
	datastarURL   = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"
)

func Layout(view appcore.TutorialPageView, child templ.Component) templ.Component {
	return document(view.PageTitle, view.Description, view.Breadcrumb(), child)
}

// NotFoundLayout is the full page served for unknown tutorials and unmatched
// paths.
func NotFoundLayout(notFoundContext framework.NotFoundContext) templ.Component {
	return document("404 Not Found • Svelte Tutorial", "", nil, NotFound(notFoundContext))
}

func document(title string, description string, breadcrumb []string, child templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.raw(`<title>`)
		hw.text(title)
		hw.raw(`</title>`)
		if description != "" {
			hw.raw(`<meta name="description"`)
			hw.attr("content", description)
			hw.raw(`>`)
		}
		hw.raw(`<link rel="stylesheet"`)
		hw.attr("href", stylesheetURL)
		hw.raw(`>`)
		hw.raw(appcore.ChromaStyleTag())
		hw.raw(`<script type="module"`)
		hw.attr("src", datastarURL)
		hw.raw(`></script></head><body><header class="site-header"><span class="brand">Svelte Tutorial</span>`)
		if len(breadcrumb) > 0 {
			hw.raw(`<nav class="breadcrumb">`)
			for idx, crumb := range breadcrumb {
				if idx > 0 {
					hw.raw(`<span class="sep">/</span>`)
				}
				hw.raw(`<span>`)
				hw.text(crumb)
				hw.raw(`</span>`)
			}
			hw.raw(`</nav>`)
		}
		hw.raw(`</header><main>`)
		if hw.err != nil {
			return hw.err
		}

		if err := child.Render(ctx, w); err != nil {
			return err
		}

		hw.raw(`</main></body></html>`)
		return hw.err
	})
}
