package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"tutorial/framework"
)

const defaultNotFoundMessage = "Page not found"

func NotFound(notFoundContext framework.NotFoundContext) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		message := notFoundContext.Message
		if message == "" {
			message = defaultNotFoundMessage
		}

		hw := &htmlWriter{w: w}
		hw.raw(`<section class="not-found"><h1>404</h1><p class="message">`)
		hw.text(message)
		hw.raw(`</p><p class="path"><code>`)
		hw.text(notFoundContext.RequestPath)
		hw.raw(`</code></p></section>`)
		return hw.err
	})
}
