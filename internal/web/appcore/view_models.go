package appcore

import (
	"strings"

	"tutorial/internal/markdown"
	"tutorial/internal/tutorial"
)

const descriptionMaxChars = 160

type TutorialPageView struct {
	PageTitle   string
	Description string
	Content     tutorial.Content

	// SelectedFile is the starter file shown in the editor pane. It always
	// names one of Content.Files, or is empty when there are none.
	SelectedFile string
}

func newTutorialPageView(content tutorial.Content, requestedFile string) TutorialPageView {
	return TutorialPageView{
		PageTitle:    pageTitle(content.Exercise),
		Description:  markdown.Excerpt(content.Markdown, descriptionMaxChars),
		Content:      content,
		SelectedFile: selectFile(content.Files, requestedFile),
	}
}

func (v TutorialPageView) ActiveFile() (tutorial.File, bool) {
	for _, file := range v.Content.Files {
		if file.Name == v.SelectedFile {
			return file, true
		}
	}
	return tutorial.File{}, false
}

// Breadcrumb lists the part and chapter titles that are set.
func (v TutorialPageView) Breadcrumb() []string {
	crumbs := make([]string, 0, 2)
	for _, title := range []string{v.Content.PartTitle, v.Content.ChapterTitle} {
		if strings.TrimSpace(title) != "" {
			crumbs = append(crumbs, title)
		}
	}
	return crumbs
}

func pageTitle(exercise tutorial.Exercise) string {
	title := strings.TrimSpace(exercise.Title)
	if title == "" {
		title = exercise.Slug
	}
	return title + " • Svelte Tutorial"
}

func selectFile(files []tutorial.File, requested string) string {
	if len(files) == 0 {
		return ""
	}
	for _, file := range files {
		if file.Name == requested {
			return requested
		}
	}
	return files[0].Name
}
