package cmd

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/nowplaying/nowplaying"
)

var (
	postersPage int
	postersDir  string
)

// postersCmd represents the posters command
var postersCmd = &cobra.Command{
	Use:   "posters",
	Short: "Download the posters of a page",
	Long:  `Load a page of the now playing feed and download every poster on it into a directory.`,
	RunE:  runPosters,
}

func init() {
	postersCmd.Flags().IntVar(&postersPage, "page", 1, "page to load")
	postersCmd.Flags().StringVar(&postersDir, "dir", "", "target directory (default from config)")

	rootCmd.AddCommand(postersCmd)
}

func runPosters(cmd *cobra.Command, args []string) error {
	query := nowplaying.Query{Page: postersPage}
	if err := query.Validate(); err != nil {
		return err
	}

	dir := cfg.Posters.Dir
	if postersDir != "" {
		dir = postersDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	feed, err := loadPage(ctx, app.feed, query)
	if err != nil {
		return fmt.Errorf("failed to load page %d: %w", query.Page, err)
	}

	saved, err := downloadPosters(ctx, feed.Items, dir, cfg.Posters.Concurrency)
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d posters to %s\n", saved, dir)
	return err
}

// downloadPosters fetches the posters of cards with at most limit downloads
// in flight. The first failure cancels the remaining downloads.
func downloadPosters(ctx context.Context, cards []nowplaying.Card, dir string, limit int) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var saved atomic.Int32
	for _, card := range cards {
		if !card.HasPoster() {
			logger.Debug().Int("id", card.ID).Str("title", card.Title).Msg("Skipping card without poster")
			continue
		}

		g.Go(func() error {
			u, err := nowplaying.PosterURL(app.imageBase, card.ImagePath)
			if err != nil {
				return err
			}

			data, err := loadImage(ctx, app.images, u)
			if err != nil {
				return fmt.Errorf("failed to download poster for %q: %w", card.Title, err)
			}

			target := filepath.Join(dir, posterFileName(card))
			if err := os.WriteFile(target, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", target, err)
			}

			saved.Add(1)
			logger.Info().Str("title", card.Title).Str("file", target).Int("bytes", len(data)).Msg("Saved poster")
			return nil
		})
	}

	err := g.Wait()
	return int(saved.Load()), err
}

// posterFileName names a poster after its card, keeping the image extension.
// Card IDs are unique within a feed, so concurrent downloads never share a file.
func posterFileName(card nowplaying.Card) string {
	return strconv.Itoa(card.ID) + path.Ext(card.ImagePath)
}
