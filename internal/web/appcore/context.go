package appcore

import (
	"errors"

	"tutorial/internal/tutorial"
)

var errTutorialServiceUnavailable = errors.New("tutorial service unavailable")

type Context struct {
	service   *tutorial.Service
	startSlug string
}

// NewContext builds the loader context. startSlug is the exercise the bare
// /tutorial path sends readers to; empty disables that redirect.
func NewContext(service *tutorial.Service, startSlug string) *Context {
	return &Context{service: service, startSlug: startSlug}
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, tutorial.ErrNotFound)
}
