package engine

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"tutorial/framework"
)

const datastarRequestHeader = "Datastar-Request"

type Config[C interface{}] struct {
	AppContext C
	Handlers   []framework.RouteHandler[C]

	RenderPage func(r *http.Request, w http.ResponseWriter, component templ.Component) error
	PatchLive  func(w http.ResponseWriter, r *http.Request, selectorID string, component templ.Component) error

	IsPartialRequest  func(r *http.Request) bool
	IsNotFoundError   func(err error) bool
	HandleRedirect    func(w http.ResponseWriter, r *http.Request, status int, location string)
	HandleNotFound    func(w http.ResponseWriter, r *http.Request, notFoundContext framework.NotFoundContext)
	HandleServerError func(w http.ResponseWriter, err error)
}

type Engine[C interface{}] struct {
	appContext C
	handlers   []framework.RouteHandler[C]

	renderPage func(r *http.Request, w http.ResponseWriter, component templ.Component) error
	patchLive  func(w http.ResponseWriter, r *http.Request, selectorID string, component templ.Component) error

	isPartial   func(r *http.Request) bool
	isNotFound  func(err error) bool
	redirect    func(w http.ResponseWriter, r *http.Request, status int, location string)
	notFound    func(w http.ResponseWriter, r *http.Request, notFoundContext framework.NotFoundContext)
	serverError func(w http.ResponseWriter, err error)
}

func New[C interface{}](cfg Config[C]) (*Engine[C], error) {
	if cfg.RenderPage == nil {
		return nil, errors.New("render page callback is required")
	}

	patchLive := cfg.PatchLive
	if patchLive == nil {
		patchLive = func(http.ResponseWriter, *http.Request, string, templ.Component) error {
			return errors.New("live patching is not configured")
		}
	}

	isPartial := cfg.IsPartialRequest
	if isPartial == nil {
		isPartial = func(r *http.Request) bool {
			return strings.EqualFold(strings.TrimSpace(r.Header.Get(datastarRequestHeader)), "true")
		}
	}

	isNotFound := cfg.IsNotFoundError
	if isNotFound == nil {
		isNotFound = func(error) bool { return false }
	}

	redirect := cfg.HandleRedirect
	if redirect == nil {
		redirect = func(w http.ResponseWriter, r *http.Request, status int, location string) {
			http.Redirect(w, r, location, status)
		}
	}

	notFound := cfg.HandleNotFound
	if notFound == nil {
		notFound = func(w http.ResponseWriter, r *http.Request, notFoundContext framework.NotFoundContext) {
			if notFoundContext.Message != "" {
				http.Error(w, notFoundContext.Message, http.StatusNotFound)
				return
			}
			http.NotFound(w, r)
		}
	}

	serverError := cfg.HandleServerError
	if serverError == nil {
		serverError = func(w http.ResponseWriter, _ error) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}

	return &Engine[C]{
		appContext:  cfg.AppContext,
		handlers:    cfg.Handlers,
		renderPage:  cfg.RenderPage,
		patchLive:   patchLive,
		isPartial:   isPartial,
		isNotFound:  isNotFound,
		redirect:    redirect,
		notFound:    notFound,
		serverError: serverError,
	}, nil
}

func (engine *Engine[C]) ServeRoute(w http.ResponseWriter, r *http.Request) bool {
	for _, handler := range engine.handlers {
		if handler.TryServe(engine, w, r) {
			return true
		}
	}

	return false
}

func (engine *Engine[C]) AppContext() C {
	return engine.appContext
}

func (engine *Engine[C]) IsPartialRequest(r *http.Request) bool {
	return engine.isPartial(r)
}

func (engine *Engine[C]) RenderPage(
	r *http.Request,
	w http.ResponseWriter,
	component templ.Component,
) error {
	return engine.renderPage(r, w, component)
}

func (engine *Engine[C]) PatchLive(
	w http.ResponseWriter,
	r *http.Request,
	selectorID string,
	component templ.Component,
) error {
	return engine.patchLive(w, r, selectorID, component)
}

func (engine *Engine[C]) IsNotFound(err error) bool {
	return engine.isNotFound(err)
}

func (engine *Engine[C]) RespondRedirect(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	location string,
) {
	engine.redirect(w, r, status, location)
}

func (engine *Engine[C]) RespondNotFound(
	w http.ResponseWriter,
	r *http.Request,
	notFoundContext framework.NotFoundContext,
) {
	engine.notFound(w, r, notFoundContext)
}

func (engine *Engine[C]) RespondServerError(w http.ResponseWriter, err error) {
	engine.serverError(w, err)
}
