package appcore

import (
	"context"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"
	"tutorial/framework"
	"tutorial/internal/tutorial"
)

const liveSuffix = "/live"

func LoadTutorialPage(
	ctx context.Context,
	appCtx *Context,
	r *http.Request,
	params framework.SlugParams,
) (TutorialPageView, error) {
	service, err := tutorialService(appCtx)
	if err != nil {
		return TutorialPageView{}, err
	}

	outcome, err := service.Resolve(ctx, params.Slug)
	if err != nil {
		return TutorialPageView{}, err
	}

	state := TutorialSignalState{File: strings.TrimSpace(r.URL.Query().Get("file"))}
	return viewFromOutcome(outcome, state, "")
}

// LoadTutorialLive resolves the slug for a datastar patch. Redirects point at
// the canonical slug's live endpoint so the client keeps streaming patches.
func LoadTutorialLive(
	ctx context.Context,
	appCtx *Context,
	r *http.Request,
	params framework.SlugParams,
) (TutorialPageView, error) {
	service, err := tutorialService(appCtx)
	if err != nil {
		return TutorialPageView{}, err
	}

	// Malformed signals only cost the reader their file selection.
	state, err := ParseTutorialLiveState(r)
	if err != nil {
		state = TutorialSignalState{}
	}

	outcome, err := service.Resolve(ctx, params.Slug)
	if err != nil {
		return TutorialPageView{}, err
	}

	return viewFromOutcome(outcome, state, liveSuffix)
}

// LoadTutorialIndex sends the bare tutorial path to the start exercise,
// skipping a hop when that slug is itself deprecated.
func LoadTutorialIndex(
	_ context.Context,
	appCtx *Context,
	_ *http.Request,
	_ framework.EmptyParams,
) (TutorialPageView, error) {
	service, err := tutorialService(appCtx)
	if err != nil {
		return TutorialPageView{}, err
	}
	if appCtx.startSlug == "" {
		return TutorialPageView{}, framework.Error(http.StatusNotFound, tutorial.NotFoundMessage)
	}

	location := service.Redirects().ResolveLink(BuildTutorialURL(appCtx.startSlug))
	return TutorialPageView{}, framework.Redirect(http.StatusTemporaryRedirect, location)
}

func viewFromOutcome(outcome tutorial.Outcome, state TutorialSignalState, locationSuffix string) (TutorialPageView, error) {
	switch outcome.Kind {
	case tutorial.OutcomeRedirect:
		return TutorialPageView{}, framework.Redirect(outcome.Status, outcome.Location+locationSuffix)
	case tutorial.OutcomeFound:
		return newTutorialPageView(*outcome.Content, state.File), nil
	default:
		return TutorialPageView{}, framework.Error(http.StatusNotFound, outcome.Message)
	}
}

func ParseTutorialLiveState(r *http.Request) (TutorialSignalState, error) {
	fallback := TutorialSignalState{File: strings.TrimSpace(r.URL.Query().Get("file"))}

	state, err := readDatastarState(r, fallback)
	if err != nil {
		return TutorialSignalState{}, err
	}
	state.File = strings.TrimSpace(state.File)

	return state, nil
}

func readDatastarState[T interface{}](r *http.Request, fallback T) (T, error) {
	if r.Method == http.MethodGet && strings.TrimSpace(r.URL.Query().Get(datastar.DatastarKey)) == "" {
		return fallback, nil
	}

	parsed := fallback
	if err := datastar.ReadSignals(r, &parsed); err != nil {
		return fallback, err
	}

	return parsed, nil
}

func BuildTutorialURL(slug string) string {
	return tutorial.Location(slug)
}

func BuildTutorialLiveURL(slug string) string {
	return tutorial.Location(slug) + liveSuffix
}

func tutorialService(appCtx *Context) (*tutorial.Service, error) {
	if appCtx == nil || appCtx.service == nil {
		return nil, errTutorialServiceUnavailable
	}
	return appCtx.service, nil
}
