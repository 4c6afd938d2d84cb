package components

import (
	"io"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so that components can emit
// markup without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with value escaped.
func (hw *htmlWriter) attr(name string, value string) {
	hw.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}
