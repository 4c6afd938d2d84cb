package tutorial

import (
	"context"
	"errors"
	"html/template"
)

// ErrNotFound is returned by stores that report absence as an error rather
// than a nil value. The service treats both forms the same way.
var ErrNotFound = errors.New("tutorial not found")

type Link struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

type Exercise struct {
	Slug         string `json:"slug"`
	Title        string `json:"title"`
	PartTitle    string `json:"partTitle,omitempty"`
	ChapterTitle string `json:"chapterTitle,omitempty"`
	Prev         *Link  `json:"prev,omitempty"`
	Next         *Link  `json:"next,omitempty"`
}

type File struct {
	Name     string `json:"name"`
	Contents string `json:"contents"`
}

// Content is the rendered payload for one exercise page.
type Content struct {
	Exercise
	Markdown string        `json:"markdown"`
	HTML     template.HTML `json:"html"`
	Files    []File        `json:"files,omitempty"`
}

// Store provides slug-keyed tutorial content. Both methods return (nil, nil)
// when nothing exists under the slug; any other error is a store failure.
type Store interface {
	LoadContent(ctx context.Context, slug string) (*Content, error)
	LoadExercise(ctx context.Context, slug string) (*Exercise, error)
}
