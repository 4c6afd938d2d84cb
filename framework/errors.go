package framework

import (
	"net/http"
	"strconv"
)

// RedirectError ends a page load with a redirect instead of a rendered view.
type RedirectError struct {
	Status   int
	Location string
}

func (e *RedirectError) Error() string {
	return "redirect " + strconv.Itoa(e.Status) + " to " + e.Location
}

// Redirect returns a load error that makes the runtime answer with the given
// 3xx status and Location. Non-redirect statuses fall back to 308.
func Redirect(status int, location string) error {
	if status < http.StatusMultipleChoices || status > http.StatusPermanentRedirect {
		status = http.StatusPermanentRedirect
	}
	return &RedirectError{Status: status, Location: location}
}

// StatusError carries a user-facing status and message out of a page load.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return http.StatusText(e.Status)
	}
	return strconv.Itoa(e.Status) + ": " + e.Message
}

func Error(status int, message string) error {
	return &StatusError{Status: status, Message: message}
}
