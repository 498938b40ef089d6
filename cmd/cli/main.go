// Package main implements the transitlaw CLI for searching the traffic law from a terminal.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dsjohal14/transitlaw/internal/libs/config"
	"github.com/dsjohal14/transitlaw/internal/libs/obs"
	"github.com/dsjohal14/transitlaw/internal/relay"
	"github.com/dsjohal14/transitlaw/internal/scope/search"
	"github.com/dsjohal14/transitlaw/internal/scope/snippet"
	"github.com/dsjohal14/transitlaw/internal/scope/suggest"
	"github.com/dsjohal14/transitlaw/internal/streamlite"
	"github.com/dsjohal14/transitlaw/web"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type options struct {
	corpus   string
	name     string
	logLevel string
	limit    int
	full     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	opts := &options{}

	root := &cobra.Command{
		Use:          "transitlaw",
		Short:        "Search the traffic law articles",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			obs.InitConsole(opts.logLevel, cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&opts.corpus, "corpus", cfg.CorpusSource, "corpus source: embed, postgres, an http(s) URL or a directory")
	root.PersistentFlags().StringVar(&opts.name, "name", cfg.CorpusName, "corpus file name")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", cfg.LogLevel, "log level")

	root.AddCommand(
		newSearchCmd(cfg, opts),
		newSuggestCmd(),
		newShowCmd(cfg, opts),
		newCheckCmd(cfg, opts),
		newInteractiveCmd(cfg, opts),
	)
	return root
}

func newSearchCmd(cfg *config.Config, opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the corpus and print ranked articles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, closeFn, err := openPipeline(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}
			defer closeFn()

			out, err := p.Run(cmd.Context(), strings.Join(args, " "), opts.limit)
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).outcome(out, opts.full)
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.limit, "limit", 10, "maximum results to print (0 prints all)")
	cmd.Flags().BoolVar(&opts.full, "full", false, "print full article bodies instead of previews")
	return cmd
}

func newSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest [input]",
		Short: "Print the suggestion phrases matching partial input, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := suggest.New(nil)
			pr := newPrinter(cmd.OutOrStdout())
			if len(args) == 0 {
				pr.list(engine.Phrases())
				return nil
			}
			pr.list(engine.Suggest(args[0]))
			return nil
		},
	}
}

func newShowCmd(cfg *config.Config, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <numero>",
		Short: "Print one article in full by its number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			numero, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid article number %q", args[0])
			}

			p, closeFn, err := openPipeline(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}
			defer closeFn()

			article, ok := p.Session().Current().Find(numero)
			if !ok {
				return fmt.Errorf("article %d not found", numero)
			}
			newPrinter(cmd.OutOrStdout()).article(snippet.NewRenderer(cfg.PreviewWindow).Render(article, nil))
			return nil
		},
	}
}

func newCheckCmd(cfg *config.Config, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the corpus and report malformed lines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, closeFn, err := openSource(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}
			defer closeFn()

			p := relay.NewPipeline(relay.Config{
				Source:     src,
				CorpusName: opts.name,
				Logger:     obs.Logger("cli"),
			})
			report, err := p.Reload(cmd.Context())
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).report(src.Name(), opts.name, report)
			if report.Rejected() > 0 {
				return fmt.Errorf("%d malformed lines", report.Rejected())
			}
			return nil
		},
	}
}

func newInteractiveCmd(cfg *config.Config, opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Read queries line by line from stdin and search as you type",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, closeFn, err := openPipeline(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}
			defer closeFn()

			pr := newPrinter(cmd.OutOrStdout())
			r := relay.New(p, cfg.DebounceWindow, opts.limit, func(u relay.Update) {
				pr.update(u, opts.full)
			})
			defer r.Close()

			in := cmd.InOrStdin()
			prompt := isTerminal(in)
			if prompt {
				pr.prompt()
			}
			scanner := bufio.NewScanner(in)
			for scanner.Scan() {
				pr.suggestions(r.Submit(scanner.Text()))
				if prompt {
					pr.prompt()
				}
			}
			r.Flush()
			r.Wait()
			return scanner.Err()
		},
	}
	cmd.Flags().IntVar(&opts.limit, "limit", 10, "maximum results to print (0 prints all)")
	cmd.Flags().BoolVar(&opts.full, "full", false, "print full article bodies instead of previews")
	return cmd
}

// isTerminal reports whether r is an interactive terminal
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func openSource(ctx context.Context, cfg *config.Config, opts *options) (streamlite.Source, func(), error) {
	return streamlite.Open(ctx, streamlite.Options{
		Location:     opts.corpus,
		DatabaseURL:  cfg.DatabaseURL,
		Embedded:     web.Static(),
		CacheEntries: cfg.CacheEntries,
		Timeout:      30 * time.Second,
		Logger:       obs.Logger("source"),
	})
}

func openPipeline(ctx context.Context, cfg *config.Config, opts *options) (*relay.Pipeline, func(), error) {
	src, closeFn, err := openSource(ctx, cfg, opts)
	if err != nil {
		return nil, closeFn, err
	}

	p := relay.NewPipeline(relay.Config{
		Source:     src,
		CorpusName: opts.name,
		Engine:     search.NewMatcher(cfg.MatchBatchSize),
		Renderer:   snippet.NewRenderer(cfg.PreviewWindow),
		Logger:     obs.Logger("cli"),
	})
	if _, err := p.Reload(ctx); err != nil {
		closeFn()
		return nil, func() {}, err
	}
	return p, closeFn, nil
}
