package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/wikibox/internal/logger"
	"github.com/ppiankov/wikibox/internal/model"
	"github.com/ppiankov/wikibox/internal/pipeline"
	"github.com/ppiankov/wikibox/internal/util"
	"github.com/ppiankov/wikibox/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Prompt is printed before reading the topic from standard input
const Prompt = "search: "

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	return search(cmd.Context(), cfg, log, cmd.InOrStdin(), cmd.OutOrStdout(), args)
}

// search runs one lookup: the topic comes from args when present, otherwise
// from a prompted line on in. Fields are written to out.
func search(ctx context.Context, cfg *model.Config, log *logger.Logger, in io.Reader, out io.Writer, args []string) error {
	var raw string
	if len(args) > 0 {
		raw = strings.Join(args, " ")
	} else {
		line, err := ReadQuery(in, out)
		if err != nil {
			return fmt.Errorf("read query: %w", err)
		}
		raw = line
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout(cfg))
	defer cancel()

	p := newPipeline(cfg, log)

	lookup, err := p.Lookup(ctx, raw)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if !lookup.Found() {
		log.Debug("article not found", "url", lookup.URL, "status", lookup.Meta.StatusCode)
	}
	log.Debug("lookup complete", "url", lookup.FinalURL, "fields", len(lookup.Fields))

	if err := pipeline.NewRenderer(cfg.Output.Align).RenderFields(out, lookup.Fields); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// ReadQuery prints the prompt to out and reads one line from in.
// The line terminator is dropped; a final line without one is accepted.
func ReadQuery(in io.Reader, out io.Writer) (string, error) {
	if _, err := fmt.Fprint(out, Prompt); err != nil {
		return "", err
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// newPipeline wires the fetcher, robots checker and rate limiter from cfg.
// The fetcher and the robots checker share one transport.
func newPipeline(cfg *model.Config, log *logger.Logger) *pipeline.Pipeline {
	transport := util.NewTransport(util.TransportOptions{
		HTTPProxy:   cfg.HTTP.HTTPProxy,
		HTTPSProxy:  cfg.HTTP.HTTPSProxy,
		NoProxy:     cfg.HTTP.NoProxy,
		InsecureTLS: cfg.HTTP.InsecureTLS,
	})

	opts := []pipeline.Option{
		pipeline.WithLogger(log),
		pipeline.WithTransport(transport),
		pipeline.WithLimiter(worker.NewLimiter(cfg.Politeness.RequestsPerSecond, cfg.Politeness.Burst)),
	}
	if cfg.Politeness.Robots {
		opts = append(opts, pipeline.WithRobots(util.NewRobotsChecker(cfg.HTTP.UserAgent, transport, lookupTimeout(cfg), 0)))
	}

	return pipeline.NewPipeline(cfg, opts...)
}
