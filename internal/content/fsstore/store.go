// Package fsstore serves tutorial content from a directory tree laid out as
// <part>/<chapter>/<exercise>/README.md. Directory names may carry a numeric
// ordering prefix ("01-introduction") which is dropped from slugs.
package fsstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
	"tutorial/internal/markdown"
	"tutorial/internal/tutorial"
)

const (
	readmeFile     = "README.md"
	metaFile       = "meta.yml"
	starterFileDir = "app-a"
)

var orderPrefixPattern = regexp.MustCompile(`^\d+-`)

type frontMatter struct {
	Title string `yaml:"title"`
}

type meta struct {
	Title string `yaml:"title"`
}

type entry struct {
	exercise tutorial.Exercise
	dir      string
}

type Option func(*Store)

// WithMarkdownOptions sets the options used to render exercise markdown.
func WithMarkdownOptions(opts markdown.Options) Option {
	return func(s *Store) {
		s.markdown = opts
	}
}

// Store implements tutorial.Store on top of an fs.FS. The slug index is built
// by Open and rebuilt by Reload; file contents are read per request.
type Store struct {
	fsys     fs.FS
	markdown markdown.Options

	mu    sync.RWMutex
	index map[string]entry
	order []string
}

func Open(fsys fs.FS, opts ...Option) (*Store, error) {
	store := &Store{fsys: fsys}
	for _, opt := range opts {
		opt(store)
	}

	if err := store.Reload(); err != nil {
		return nil, err
	}
	return store, nil
}

// Reload rebuilds the slug index. On error the previous index stays in place.
func (s *Store) Reload() error {
	index, order, err := buildIndex(s.fsys)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.index = index
	s.order = order
	s.mu.Unlock()
	return nil
}

// Slugs returns every exercise slug in tutorial order.
func (s *Store) Slugs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string(nil), s.order...)
}

func (s *Store) LoadExercise(_ context.Context, slug string) (*tutorial.Exercise, error) {
	found, ok := s.lookup(slug)
	if !ok {
		return nil, nil
	}

	exercise := found.exercise
	return &exercise, nil
}

func (s *Store) LoadContent(ctx context.Context, slug string) (*tutorial.Content, error) {
	found, ok := s.lookup(slug)
	if !ok {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := fs.ReadFile(s.fsys, path.Join(found.dir, readmeFile))
	if err != nil {
		return nil, fmt.Errorf("read exercise %q: %w", slug, err)
	}
	_, body, err := splitFrontMatter(raw)
	if err != nil {
		return nil, fmt.Errorf("parse exercise %q: %w", slug, err)
	}

	files, err := readStarterFiles(s.fsys, path.Join(found.dir, starterFileDir))
	if err != nil {
		return nil, fmt.Errorf("read starter files for %q: %w", slug, err)
	}

	return &tutorial.Content{
		Exercise: found.exercise,
		Markdown: body,
		HTML:     markdown.ToHTML(body, s.markdown),
		Files:    files,
	}, nil
}

func (s *Store) lookup(slug string) (entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found, ok := s.index[slug]
	return found, ok
}

func buildIndex(fsys fs.FS) (map[string]entry, []string, error) {
	index := make(map[string]entry)
	order := make([]string, 0, 32)

	parts, err := sortedDirs(fsys, ".")
	if err != nil {
		return nil, nil, fmt.Errorf("list parts: %w", err)
	}

	for _, part := range parts {
		partTitle := readMetaTitle(fsys, part)
		chapters, err := sortedDirs(fsys, part)
		if err != nil {
			return nil, nil, fmt.Errorf("list chapters in %q: %w", part, err)
		}

		for _, chapter := range chapters {
			chapterTitle := readMetaTitle(fsys, chapter)
			exercises, err := sortedDirs(fsys, chapter)
			if err != nil {
				return nil, nil, fmt.Errorf("list exercises in %q: %w", chapter, err)
			}

			for _, dir := range exercises {
				raw, err := fs.ReadFile(fsys, path.Join(dir, readmeFile))
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				if err != nil {
					return nil, nil, fmt.Errorf("read %q: %w", dir, err)
				}

				matter, _, err := splitFrontMatter(raw)
				if err != nil {
					return nil, nil, fmt.Errorf("parse %q: %w", dir, err)
				}

				slug := slugFromDir(dir)
				if existing, ok := index[slug]; ok {
					return nil, nil, fmt.Errorf("slug conflict: %q and %q", existing.dir, dir)
				}

				title := strings.TrimSpace(matter.Title)
				if title == "" {
					title = slug
				}
				index[slug] = entry{
					dir: dir,
					exercise: tutorial.Exercise{
						Slug:         slug,
						Title:        title,
						PartTitle:    partTitle,
						ChapterTitle: chapterTitle,
					},
				}
				order = append(order, slug)
			}
		}
	}

	linkNeighbours(index, order)
	return index, order, nil
}

func linkNeighbours(index map[string]entry, order []string) {
	for idx, slug := range order {
		current := index[slug]
		if idx > 0 {
			prev := index[order[idx-1]].exercise
			current.exercise.Prev = &tutorial.Link{Slug: prev.Slug, Title: prev.Title}
		}
		if idx < len(order)-1 {
			next := index[order[idx+1]].exercise
			current.exercise.Next = &tutorial.Link{Slug: next.Slug, Title: next.Title}
		}
		index[slug] = current
	}
}

func sortedDirs(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	dirs := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") || name == starterFileDir {
			continue
		}
		dirs = append(dirs, path.Join(dir, name))
	}
	sort.Strings(dirs)
	return dirs, nil
}

func readMetaTitle(fsys fs.FS, dir string) string {
	fallback := slugFromDir(dir)
	raw, err := fs.ReadFile(fsys, path.Join(dir, metaFile))
	if err != nil {
		return fallback
	}

	var parsed meta
	if err := yaml.Unmarshal(raw, &parsed); err != nil || strings.TrimSpace(parsed.Title) == "" {
		return fallback
	}
	return strings.TrimSpace(parsed.Title)
}

func readStarterFiles(fsys fs.FS, dir string) ([]tutorial.File, error) {
	files := make([]tutorial.File, 0, 4)
	err := fs.WalkDir(fsys, dir, func(filePath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		contents, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			return err
		}
		files = append(files, tutorial.File{
			Name:     strings.TrimPrefix(filePath, dir+"/"),
			Contents: string(contents),
		})
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return files, nil
}

func splitFrontMatter(raw []byte) (frontMatter, string, error) {
	const delimiter = "---"

	normalized := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte(delimiter+"\n")) {
		return frontMatter{}, string(normalized), nil
	}

	rest := normalized[len(delimiter)+1:]
	end := bytes.Index(rest, []byte("\n"+delimiter))
	if end < 0 {
		return frontMatter{}, "", errors.New("unterminated front matter")
	}

	var matter frontMatter
	if err := yaml.Unmarshal(rest[:end], &matter); err != nil {
		return frontMatter{}, "", err
	}

	body := rest[end+len(delimiter)+1:]
	return matter, strings.TrimLeft(string(body), "\n"), nil
}

func slugFromDir(dir string) string {
	return orderPrefixPattern.ReplaceAllString(path.Base(dir), "")
}
