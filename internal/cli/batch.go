package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ppiankov/wikibox/internal/logger"
	"github.com/ppiankov/wikibox/internal/model"
	"github.com/ppiankov/wikibox/internal/pipeline"
	"github.com/ppiankov/wikibox/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var batchTimeout time.Duration

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Look up many topics from a file",
	Long: `Batch looks up every topic listed in a file (one per line) and prints
each article's infobox under a "== Title ==" heading, in file order.

Blank lines and lines starting with # are ignored. Requests to the same host
are paced by --rps and robots.txt crawl delays.

Example:
  wikibox batch topics.txt
  wikibox batch topics.txt --concurrency 2 --align`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().Int("concurrency", model.DefaultConfig().Concurrency.Workers, "number of concurrent lookups")
	batchCmd.Flags().DurationVar(&batchTimeout, "batch-timeout", 10*time.Minute, "total timeout for the batch")

	bindFlags(viper.GetViper(), batchCmd.Flags())
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	return batch(cmd.Context(), cfg, log, args[0], batchTimeout, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// batch looks up every topic in file; per-topic failures go to errOut and do
// not fail the batch
func batch(ctx context.Context, cfg *model.Config, log *logger.Logger, file string, timeout time.Duration, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p := newPipeline(cfg, log)
	lookup := func(ctx context.Context, raw string) (*model.Lookup, error) {
		ctx, cancel := context.WithTimeout(ctx, lookupTimeout(cfg))
		defer cancel()
		return p.Lookup(ctx, raw)
	}

	processor := worker.NewBatchProcessor(lookup, cfg.Concurrency.Workers)

	log.Debug("starting batch", "file", file, "workers", cfg.Concurrency.Workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.Align)
	failures, printed := 0, 0

	for _, result := range results {
		if result.Error != nil {
			failures++
			fmt.Fprintf(errOut, "✗ %s: %v\n", result.Topic, result.Error)
			continue
		}

		if printed > 0 {
			fmt.Fprintln(out)
		}
		if err := renderer.RenderLookup(out, result.Lookup); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		printed++
	}

	log.Info("batch complete", "topics", len(results), "failures", failures)
	return nil
}
