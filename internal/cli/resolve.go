package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"tutorial/internal/tutorial"
)

type resolveOptions struct {
	Render  bool
	Refresh bool
}

func newResolveCommand(state *rootState) *cobra.Command {
	opts := &resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve <slug>",
		Short: "Resolve a tutorial slug the way the server would",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, state, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Render, "render", false, "render the exercise markdown for the terminal")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "drop cached entries for the slug before resolving")

	return cmd
}

func runResolve(cmd *cobra.Command, state *rootState, slug string, opts *resolveOptions) error {
	ctx := cmd.Context()
	redirects := tutorial.NewRedirects(state.cfg.Redirects)

	stores, err := openStores(ctx, state.cfg, redirects, state.logger)
	if err != nil {
		return err
	}
	defer func() { _ = stores.Close() }()

	if opts.Refresh && stores.cache != nil {
		if err := stores.cache.Invalidate(ctx, slug); err != nil {
			return err
		}
		state.logger.Debug("cache entries dropped", "slug", slug)
	}

	service := tutorial.NewService(stores.store, tutorial.WithRedirects(redirects))
	outcome, err := service.Resolve(ctx, slug)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %d\n", outcome.Kind, outcome.Status)
	switch outcome.Kind {
	case tutorial.OutcomeRedirect:
		fmt.Fprintf(out, "location: %s\n", outcome.Location)
	case tutorial.OutcomeNotFound:
		fmt.Fprintf(out, "message: %s\n", outcome.Message)
	case tutorial.OutcomeFound:
		return printContent(out, outcome.Content, opts.Render)
	}
	return nil
}

func printContent(out io.Writer, content *tutorial.Content, render bool) error {
	fmt.Fprintf(out, "title: %s\n", content.Title)
	if content.PartTitle != "" || content.ChapterTitle != "" {
		fmt.Fprintf(out, "section: %s / %s\n", content.PartTitle, content.ChapterTitle)
	}
	for _, file := range content.Files {
		fmt.Fprintf(out, "file: %s\n", file.Name)
	}
	if !render {
		return nil
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}
	rendered, err := renderer.Render(content.Markdown)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(out, rendered)
	return err
}
