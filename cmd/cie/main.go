// Command cie is the engine's CLI, grounded on the teacher's cmd/lci
// main.go: an urfave/cli/v2 App with a root --root/--include/--exclude flag set
// and serve/index/search subcommands driving a shared Coordinator.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/codegraph/cie/internal/config"
	"github.com/codegraph/cie/internal/content"
	"github.com/codegraph/cie/internal/coordinator"
	"github.com/codegraph/cie/internal/logging"
	"github.com/codegraph/cie/internal/mcpserver"
)

var log = logging.NewComponent("cli")

func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %q: %w", root, err)
	}

	cfg, err := config.Load(absRoot)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", absRoot, err)
	}
	cfg.Project.Root = absRoot

	if include := c.StringSlice("include"); len(include) > 0 {
		cfg.Include = include
	}
	if exclude := c.StringSlice("exclude"); len(exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, exclude...)
	}
	return cfg, nil
}

func buildCoordinator(c *cli.Context) (*config.Config, *coordinator.Coordinator, error) {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return nil, nil, err
	}
	coord, err := coordinator.New(cfg, cfg.Project.Name)
	if err != nil {
		return nil, nil, err
	}
	return cfg, coord, nil
}

func main() {
	app := &cli.App{
		Name:                   "cie",
		Usage:                  "Multi-language code intelligence engine",
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory to index",
				Value:   ".",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Glob patterns to include (overrides config)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Glob patterns to exclude (appended to config)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Index the project then serve MCP tools over stdio",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "Keep watching for file changes while serving",
						Value: true,
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Run a one-shot bulk index and report graph/content stats",
				Action: indexCommand,
			},
			{
				Name:   "search",
				Usage:  "Search the content index",
				Action: searchCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "regex", Usage: "Interpret the query as a regex"},
					&cli.BoolFlag{Name: "case-sensitive"},
					&cli.IntFlag{Name: "max-results", Value: 20},
					&cli.BoolFlag{Name: "json", Usage: "Emit results as JSON"},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "cie:", err)
		os.Exit(1)
	}
}

func indexCommand(c *cli.Context) error {
	cfg, coord, err := buildCoordinator(c)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := coord.IndexRepo(ctx, cfg.Project.Root); err != nil {
		return err
	}
	log.Infof("indexed %s: %d graph nodes", cfg.Project.Root, coord.Store.NodeCount())
	stats := coord.Content.Stats()
	for kind, s := range stats {
		log.Infof("content[%s]: %d files, %d chunks", kind, s.FileCount, s.ChunkCount)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: cie search [flags] <query>")
	}
	_, coord, err := buildCoordinator(c)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := coord.IndexRepo(ctx, coord.Config.Project.Root); err != nil {
		return err
	}

	mode := content.MatchLiteral
	if c.Bool("regex") {
		mode = content.MatchRegex
	}
	results, err := coord.Content.Search(content.SearchQuery{
		Text:          c.Args().First(),
		Mode:          mode,
		CaseSensitive: c.Bool("case-sensitive"),
		MaxResults:    c.Int("max-results"),
	})
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(results)
	}
	for _, r := range results {
		fmt.Printf("%s:%d:%d: %s\n", r.Path, r.Line, r.Column, r.Chunk.Text)
	}
	return nil
}

func serveCommand(c *cli.Context) error {
	logging.SetMCPMode(true)
	cfg, coord, err := buildCoordinator(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := coord.IndexRepo(ctx, cfg.Project.Root); err != nil {
		return err
	}

	if c.Bool("watch") {
		if err := coord.StartWatching(cfg.Project.Root); err != nil {
			return err
		}
		defer coord.StopWatching()
	}

	srv := mcpserver.New(coord)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx) }()

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Infof("received signal %v, shutting down", sig)
		cancel()
		return <-errCh
	}
}
