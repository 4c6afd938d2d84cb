package tutorial

import (
	"context"
	"errors"
	"net/http"
)

// NotFoundMessage is shown to readers who request an unknown tutorial.
const NotFoundMessage = "No such tutorial found"

type OutcomeKind int

const (
	OutcomeFound OutcomeKind = iota + 1
	OutcomeRedirect
	OutcomeNotFound
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeFound:
		return "found"
	case OutcomeRedirect:
		return "redirect"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Outcome is the result of resolving one slug. Exactly one of the redirect,
// found or not-found field groups is meaningful, selected by Kind.
type Outcome struct {
	Kind OutcomeKind
	Slug string

	Status int

	Target   string
	Location string

	Content *Content

	Message string
}

type Option func(*Service)

func WithRedirects(redirects Redirects) Option {
	return func(s *Service) {
		s.redirects = redirects
	}
}

// WithObserver registers a callback that sees every outcome. It cannot alter
// the outcome.
func WithObserver(observe func(Outcome)) Option {
	return func(s *Service) {
		s.observe = observe
	}
}

type Service struct {
	store     Store
	redirects Redirects
	observe   func(Outcome)
}

func NewService(store Store, opts ...Option) *Service {
	service := &Service{
		store:     store,
		redirects: NewRedirects(nil),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *Service) Redirects() Redirects {
	return s.redirects
}

// Resolve loads the content for slug, then checks the redirect table, then
// checks that the exercise exists. The order is fixed: a deprecated slug
// redirects even when the store still has an exercise under it, and the
// content load happens even on the redirect path. Store errors are returned
// unchanged.
func (s *Service) Resolve(ctx context.Context, slug string) (Outcome, error) {
	if slug == "" {
		return s.finish(notFoundOutcome(slug)), nil
	}

	content, err := s.store.LoadContent(ctx, slug)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Outcome{}, err
	}

	if target, ok := s.redirects.Route(slug); ok {
		return s.finish(Outcome{
			Kind:     OutcomeRedirect,
			Slug:     slug,
			Status:   http.StatusPermanentRedirect,
			Target:   target,
			Location: Location(target),
		}), nil
	}

	exercise, found, err := s.resolveExercise(ctx, slug)
	if err != nil {
		return Outcome{}, err
	}
	if !found {
		return s.finish(notFoundOutcome(slug)), nil
	}

	if content == nil {
		content = &Content{Exercise: *exercise}
	}
	return s.finish(Outcome{
		Kind:    OutcomeFound,
		Slug:    slug,
		Status:  http.StatusOK,
		Content: content,
	}), nil
}

func (s *Service) resolveExercise(ctx context.Context, slug string) (*Exercise, bool, error) {
	exercise, err := s.store.LoadExercise(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if exercise == nil {
		return nil, false, nil
	}
	return exercise, true, nil
}

func (s *Service) finish(outcome Outcome) Outcome {
	if s.observe != nil {
		s.observe(outcome)
	}
	return outcome
}

func notFoundOutcome(slug string) Outcome {
	return Outcome{
		Kind:    OutcomeNotFound,
		Slug:    slug,
		Status:  http.StatusNotFound,
		Message: NotFoundMessage,
	}
}
