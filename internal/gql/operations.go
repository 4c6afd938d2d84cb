package gql

import (
	"context"

	genqlientgraphql "github.com/Khan/genqlient/graphql"
)

const ExerciseBySlug_Operation = `
query ExerciseBySlug ($slug: String!) {
	Exercises(where: {slug: {equals: $slug}}, limit: 1) {
		docs {
			id
			slug
			title
			content
			files
			part { title }
			chapter { title }
			prev { slug title }
			next { slug title }
		}
	}
}
`

const ExerciseMetaBySlug_Operation = `
query ExerciseMetaBySlug ($slug: String!) {
	Exercises(where: {slug: {equals: $slug}}, limit: 1) {
		docs {
			id
			slug
			title
			part { title }
			chapter { title }
			prev { slug title }
			next { slug title }
		}
	}
}
`

type slugInput struct {
	Slug string `json:"slug"`
}

type TitleRef struct {
	Title *string `json:"title"`
}

type ExerciseLink struct {
	Slug  *string `json:"slug"`
	Title *string `json:"title"`
}

type ExerciseDoc struct {
	Id      string        `json:"id"`
	Slug    *string       `json:"slug"`
	Title   *string       `json:"title"`
	Content *string       `json:"content"`
	Files   JSONObject    `json:"files"`
	Part    *TitleRef     `json:"part"`
	Chapter *TitleRef     `json:"chapter"`
	Prev    *ExerciseLink `json:"prev"`
	Next    *ExerciseLink `json:"next"`
}

type ExercisesPage struct {
	Docs []ExerciseDoc `json:"docs"`
}

type ExerciseBySlugResponse struct {
	Exercises *ExercisesPage `json:"Exercises"`
}

// First returns the single matching exercise, or nil.
func (r *ExerciseBySlugResponse) First() *ExerciseDoc {
	if r == nil || r.Exercises == nil || len(r.Exercises.Docs) == 0 {
		return nil
	}
	return &r.Exercises.Docs[0]
}

func ExerciseBySlug(
	ctx context.Context,
	client genqlientgraphql.Client,
	slug string,
) (*ExerciseBySlugResponse, error) {
	return queryExercise(ctx, client, "ExerciseBySlug", ExerciseBySlug_Operation, slug)
}

func ExerciseMetaBySlug(
	ctx context.Context,
	client genqlientgraphql.Client,
	slug string,
) (*ExerciseBySlugResponse, error) {
	return queryExercise(ctx, client, "ExerciseMetaBySlug", ExerciseMetaBySlug_Operation, slug)
}

func queryExercise(
	ctx context.Context,
	client genqlientgraphql.Client,
	opName string,
	query string,
	slug string,
) (*ExerciseBySlugResponse, error) {
	req := &genqlientgraphql.Request{
		OpName:    opName,
		Query:     query,
		Variables: &slugInput{Slug: slug},
	}
	data := &ExerciseBySlugResponse{}
	resp := &genqlientgraphql.Response{Data: data}

	if err := client.MakeRequest(ctx, req, resp); err != nil {
		return nil, err
	}
	return data, nil
}
