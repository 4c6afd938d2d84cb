package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"tutorial/internal/tutorial"
	"tutorial/internal/web/appcore"
)

// ExerciseSelectorID is the element patched by the live endpoint.
const ExerciseSelectorID = "exercise"

func TutorialPage(view appcore.TutorialPageView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		content := view.Content
		hw := &htmlWriter{w: w}

		hw.raw(`<article`)
		hw.attr("id", ExerciseSelectorID)
		hw.attr("data-signals", appcore.TutorialSignalsJSON(view))
		hw.raw(`><section class="text"><h1>`)
		hw.text(content.Title)
		hw.raw(`</h1><div class="markdown">`)
		hw.raw(string(content.HTML))
		hw.raw(`</div>`)
		writePager(hw, content.Prev, content.Next)
		hw.raw(`</section>`)

		if len(content.Files) > 0 {
			writeEditor(hw, view)
		}
		hw.raw(`</article>`)
		return hw.err
	})
}

func writeEditor(hw *htmlWriter, view appcore.TutorialPageView) {
	hw.raw(`<section class="editor"><nav class="file-tabs">`)
	for _, file := range view.Content.Files {
		active := file.Name == view.SelectedFile
		hw.raw(`<button type="button"`)
		hw.attr("class", appcore.FileTabClass(active))
		hw.attr("data-on:click", appcore.FileTabAction(view.Content.Slug, file.Name))
		hw.raw(`>`)
		hw.text(file.Name)
		hw.raw(`</button>`)
	}
	hw.raw(`</nav>`)

	if file, ok := view.ActiveFile(); ok {
		hw.raw(`<pre class="file-contents"`)
		hw.attr("data-file", file.Name)
		hw.raw(`><code>`)
		hw.text(file.Contents)
		hw.raw(`</code></pre>`)
	}
	hw.raw(`</section>`)
}

func writePager(hw *htmlWriter, prev *tutorial.Link, next *tutorial.Link) {
	if prev == nil && next == nil {
		return
	}

	hw.raw(`<nav class="pager">`)
	if prev != nil {
		hw.raw(`<a class="prev"`)
		hw.attr("href", appcore.BuildTutorialURL(prev.Slug))
		hw.raw(`>`)
		hw.text(prev.Title)
		hw.raw(`</a>`)
	}
	if next != nil {
		hw.raw(`<a class="next"`)
		hw.attr("href", appcore.BuildTutorialURL(next.Slug))
		hw.raw(`>`)
		hw.text(next.Title)
		hw.raw(`</a>`)
	}
	hw.raw(`</nav>`)
}
