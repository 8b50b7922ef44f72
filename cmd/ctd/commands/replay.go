package commands

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/agiangrant/ctdcore"
	"github.com/agiangrant/ctdcore/internal/clipboard"
	"github.com/agiangrant/ctdcore/internal/fontcache"
	"github.com/agiangrant/ctdcore/internal/scenario"
)

type replayOptions struct {
	json       bool
	eventsOnly bool
	jobs       int
}

func newReplayCommand(global *globalOptions) *cobra.Command {
	opts := &replayOptions{}
	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>...",
		Short: "Play scenario files and print the events they produce",
		Long: `Play one or more scenario files against fresh engines and print the
resulting event log and final widget state. Files are played concurrently
and share one font cache; output follows the order of the arguments.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, global, opts, args)
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&opts.eventsOnly, "events-only", false, "omit the final widget table")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "scenarios played at once")
	return cmd
}

func runReplay(cmd *cobra.Command, global *globalOptions, opts *replayOptions, files []string) error {
	cfg, _, err := global.load()
	if err != nil {
		return err
	}
	logger, err := ctdcore.NewLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	scenarios := make([]*scenario.Scenario, len(files))
	for i, f := range files {
		if scenarios[i], err = scenario.Load(f); err != nil {
			return err
		}
	}

	fonts, err := fontcache.New(fontcache.Options{
		Face:     cfg.Font.Face,
		Path:     cfg.Font.Path,
		DPI:      cfg.Font.DPI,
		Capacity: cfg.Font.CacheCapacity,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize font cache: %w", err)
	}
	defer fonts.Close()

	results := make([]*scenario.Result, len(scenarios))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(opts.jobs, 1))
	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			e, err := ctdcore.NewEngine(cfg,
				ctdcore.WithFontCache(fonts),
				ctdcore.WithClipboard(&clipboard.Memory{}),
				ctdcore.WithLogger(logger.With("scenario", sc.Name)),
			)
			if err != nil {
				return err
			}
			defer e.Close()
			res, err := sc.Run(ctx, e)
			if err != nil {
				return fmt.Errorf("%s: %w", sc.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	stats := fonts.Stats()
	logger.Debug("font cache", "hits", stats.Hits, "misses", stats.Misses, "clears", stats.Clears)

	out := cmd.OutOrStdout()
	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, renderResult(res, !opts.eventsOnly))
	}
	return nil
}
