// Command deadletters prints the newest dead-lettered jobs of a worker queue
// without removing them, so failed receipts can be inspected before replay.
//
// Usage: go run ./cmd/deadletters --queue jobs:receipt --limit 20
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"bistro/internal/config"
	"bistro/internal/infra"
	"bistro/internal/worker"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		queue string
		limit int64
	)

	cmd := &cobra.Command{
		Use:          "deadletters",
		Short:        "List dead-lettered jobs for a worker queue",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return errors.New("--limit must be at least 1")
			}
			return run(cmd.Context(), cmd.OutOrStdout(), queue, limit)
		},
	}

	cmd.Flags().StringVarP(&queue, "queue", "q", worker.QueueReceipt, "Worker queue name")
	cmd.Flags().Int64VarP(&limit, "limit", "l", 20, "Maximum number of entries to print")

	return cmd
}

func run(ctx context.Context, out io.Writer, queue string, limit int64) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if rdb == nil {
		return errors.New("REDIS_URL is not set")
	}
	defer rdb.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	total, err := worker.DLQLength(ctx, rdb, queue)
	if err != nil {
		return fmt.Errorf("dlq length: %w", err)
	}
	entries, err := worker.PeekDeadLetters(ctx, rdb, queue, limit)
	if err != nil {
		return fmt.Errorf("peek dead letters: %w", err)
	}
	return writeDeadLetters(out, queue, total, entries)
}

type listing struct {
	Queue   string              `json:"queue"`
	Total   int64               `json:"total"`
	Entries []worker.DeadLetter `json:"entries"`
}

func writeDeadLetters(out io.Writer, queue string, total int64, entries []worker.DeadLetter) error {
	if entries == nil {
		entries = []worker.DeadLetter{}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(listing{Queue: queue, Total: total, Entries: entries})
}
