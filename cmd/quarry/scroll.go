package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/pthm/quarry"
	"github.com/pthm/quarry/internal/cli"
)

var (
	scrollFlags     queryFlags
	scrollKeepAlive string
	scrollSize      int
	scrollMaxPages  int
)

var scrollCmd = &cobra.Command{
	Use:   "scroll",
	Short: "Drain a query through a scroll cursor",
	Long: `Open a scroll cursor and fetch every page, printing each page's rows as
one JSON line. The cursor is cleared when the command finishes.`,
	Example: `  # Export all closed tickets, 500 per page
  quarry scroll --index tickets --where 'status=closed' --size 500 > closed.jsonl`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := connect(ctx)
		if err != nil {
			return err
		}
		q, err := scrollFlags.build(s.client)
		if err != nil {
			return err
		}

		keepAlive := resolveString(scrollKeepAlive, cfg.Scroll.KeepAlive)
		size := scrollSize
		if size < 1 {
			size = cfg.Scroll.Size
		}

		page, err := q.Scroll(ctx, keepAlive, size)
		if err != nil {
			return cli.QueryError("opening scroll", err)
		}

		lastID, pages, rows, err := drainScroll(ctx, q, page, scrollMaxPages, cmd.OutOrStdout())
		if lastID != "" {
			if err := s.es.ClearScroll(ctx, lastID); err != nil {
				logger.Warn("clearing scroll", "error", err)
			}
		}
		if err != nil {
			return err
		}
		logger.Info("scroll done", "pages", pages, "rows", rows)
		return nil
	},
}

// drainScroll writes page and every following page to w as JSON lines,
// stopping after maxPages when it is positive. lastID is the most recent
// non-empty scroll id the cluster returned, the one still to be cleared.
func drainScroll(ctx context.Context, q *quarry.Query, page *quarry.ScrollResult, maxPages int, w io.Writer) (lastID string, pages, rows int, err error) {
	lastID = page.ScrollID
	for !page.Done() {
		if err := writeLine(w, page.Items); err != nil {
			return lastID, pages, rows, err
		}
		pages++
		rows += len(page.Items)
		if maxPages > 0 && pages >= maxPages {
			break
		}
		if page, err = q.ContinueScroll(ctx, page.ScrollID); err != nil {
			return lastID, pages, rows, cli.QueryError("continuing scroll", err)
		}
		if page.ScrollID != "" {
			lastID = page.ScrollID
		}
	}
	return lastID, pages, rows, nil
}

func init() {
	scrollFlags.register(scrollCmd)
	flags := scrollCmd.Flags()
	flags.StringVar(&scrollKeepAlive, "keep-alive", "", "cursor keep-alive such as 1m (default: scroll.keep_alive from config)")
	flags.IntVar(&scrollSize, "size", 0, "hits per page (default: scroll.size from config)")
	flags.IntVar(&scrollMaxPages, "max-pages", 0, "stop after this many pages (0 drains the cursor)")
}
