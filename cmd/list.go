package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/nowplaying/filter"
	"github.com/s0up4200/nowplaying/mainqueue"
	"github.com/s0up4200/nowplaying/nowplaying"
)

var (
	listPage   int
	listAll    bool
	filterExpr string
	preset     string
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the movies now playing",
	Long: `List a page of the now playing feed, or every page with --all.
Results can be narrowed with an expression or a preset from the config:

  nowplaying list --all --filter 'hasText(Title, "luca")'
  nowplaying list --preset with_posters`,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", 1, "page to load")
	listCmd.Flags().BoolVar(&listAll, "all", false, "follow the feed until the last page")
	listCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	listCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	listCmd.MarkFlagsMutuallyExclusive("filter", "preset")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	query := nowplaying.Query{Page: listPage}
	if err := query.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cards, err := collectCards(ctx, app.feed, query, listAll)
	if err != nil {
		return err
	}

	if filterExpr != "" || preset != "" {
		manager := filter.NewManager()
		defer func() { _ = manager.Close(context.Background()) }()

		if err := manager.RegisterFilters(cfg.Filter.Presets); err != nil {
			return err
		}
		if preset != "" {
			cards, err = manager.EvaluateFilter(ctx, preset, cards)
		} else {
			cards, err = manager.EvaluateExpression(ctx, filterExpr, cards)
		}
		if err != nil {
			return fmt.Errorf("invalid filter: %w", err)
		}
	}

	printCards(cmd.OutOrStdout(), cards)
	return nil
}

// collectCards drives the feed from the calling goroutine, which acts as
// the main queue: every completion is handled there, and the next page is
// requested from inside the completion.
func collectCards(ctx context.Context, loader nowplaying.FeedLoader, first nowplaying.Query, all bool) ([]nowplaying.Card, error) {
	queue := mainqueue.New()
	mainLoader := mainqueue.NewFeedLoader(loader, queue)
	defer mainLoader.Close()

	var (
		cards   []nowplaying.Card
		loadErr error
	)

	var load func(query nowplaying.Query)
	load = func(query nowplaying.Query) {
		mainLoader.Load(ctx, query, func(feed nowplaying.Feed, err error) {
			if err != nil {
				loadErr = fmt.Errorf("failed to load page %d: %w", query.Page, err)
				queue.Stop()
				return
			}

			logger.Debug().
				Int("page", feed.Page).
				Int("total_pages", feed.TotalPages).
				Int("cards", len(feed.Items)).
				Msg("Loaded page")
			cards = append(cards, feed.Items...)

			if all && feed.HasMorePages() {
				next, err := feed.NextQuery()
				if err == nil {
					load(next)
					return
				}
			}
			queue.Stop()
		})
	}

	load(first)
	queue.Run(ctx)

	if loadErr != nil {
		return nil, loadErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}

func printCards(w io.Writer, cards []nowplaying.Card) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "No movies found.")
		return
	}

	fmt.Fprintf(w, "\nFound %d movies:\n", len(cards))
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, card := range cards {
		fmt.Fprintf(w, "• %s (ID: %d)", card.Title, card.ID)
		if !card.HasPoster() {
			fmt.Fprint(w, " [NO POSTER]")
		}
		fmt.Fprintln(w)
		if card.HasPoster() {
			fmt.Fprintf(w, "  Poster: %s\n", card.ImagePath)
		}
	}
}
