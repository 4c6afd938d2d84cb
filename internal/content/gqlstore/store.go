// Package gqlstore loads tutorial content from a headless CMS over GraphQL.
package gqlstore

import (
	"context"
	"fmt"
	"strings"

	genqlientgraphql "github.com/Khan/genqlient/graphql"
	"tutorial/internal/gql"
	md "tutorial/internal/markdown"
	"tutorial/internal/tutorial"
)

type Store struct {
	client   genqlientgraphql.Client
	markdown md.Options
}

func New(client genqlientgraphql.Client, opts md.Options) *Store {
	return &Store{
		client:   client,
		markdown: opts,
	}
}

func (s *Store) LoadExercise(ctx context.Context, slug string) (*tutorial.Exercise, error) {
	response, err := gql.ExerciseMetaBySlug(ctx, s.client, slug)
	if err != nil {
		return nil, err
	}

	doc := response.First()
	if doc == nil {
		return nil, nil
	}
	exercise := mapExercise(doc, slug)
	return &exercise, nil
}

func (s *Store) LoadContent(ctx context.Context, slug string) (*tutorial.Content, error) {
	response, err := gql.ExerciseBySlug(ctx, s.client, slug)
	if err != nil {
		return nil, err
	}

	doc := response.First()
	if doc == nil {
		return nil, nil
	}

	files, err := mapFiles(doc.Files)
	if err != nil {
		return nil, fmt.Errorf("exercise %q files: %w", slug, err)
	}

	body := strOr(doc.Content, "")
	return &tutorial.Content{
		Exercise: mapExercise(doc, slug),
		Markdown: body,
		HTML:     md.ToHTML(body, s.markdown),
		Files:    files,
	}, nil
}

func mapExercise(doc *gql.ExerciseDoc, fallbackSlug string) tutorial.Exercise {
	slug := strOr(doc.Slug, fallbackSlug)
	exercise := tutorial.Exercise{
		Slug:  slug,
		Title: strOr(doc.Title, slug),
		Prev:  mapLink(doc.Prev),
		Next:  mapLink(doc.Next),
	}
	if doc.Part != nil {
		exercise.PartTitle = strOr(doc.Part.Title, "")
	}
	if doc.Chapter != nil {
		exercise.ChapterTitle = strOr(doc.Chapter.Title, "")
	}
	return exercise
}

func mapLink(link *gql.ExerciseLink) *tutorial.Link {
	if link == nil {
		return nil
	}
	slug := strOr(link.Slug, "")
	if slug == "" {
		return nil
	}
	return &tutorial.Link{Slug: slug, Title: strOr(link.Title, slug)}
}

func mapFiles(object gql.JSONObject) ([]tutorial.File, error) {
	if len(object) == 0 {
		return nil, nil
	}

	names, contents, err := object.Strings()
	if err != nil {
		return nil, err
	}
	files := make([]tutorial.File, 0, len(names))
	for _, name := range names {
		files = append(files, tutorial.File{Name: name, Contents: contents[name]})
	}
	return files, nil
}

func strOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
