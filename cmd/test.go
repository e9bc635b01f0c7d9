package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/nowplaying/nowplaying"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the connection to TMDB",
	Long:  `Load the first page of the now playing feed and display basic information.`,
	RunE:  runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Testing connection to %s...\n", cfg.TMDB.URL)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	feed, err := loadPage(ctx, app.feed, nowplaying.Query{Page: 1})
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}

	fmt.Fprintln(out, "✓ Connection successful!")
	fmt.Fprintf(out, "\nNow playing:\n")
	fmt.Fprintf(out, "- Total pages: %d\n", feed.TotalPages)
	fmt.Fprintf(out, "- Movies on page 1: %d\n", len(feed.Items))
	fmt.Fprintf(out, "- Credential placement: %s\n", cfg.TMDB.CredentialPlacement)
	return nil
}
