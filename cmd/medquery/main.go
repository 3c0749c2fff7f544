// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	medquery "github.com/poiesic/medquery"
	"github.com/poiesic/medquery/ai"
	"github.com/poiesic/medquery/core"
	"github.com/poiesic/medquery/mapping"
)

func main() {
	app := &cli.App{
		Name:  "medquery",
		Usage: "Map patient questions to medical concepts and search PubMed",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "map",
				Usage:     "Map a free-text question to ranked medical concepts",
				ArgsUsage: "<question>",
				Action:    mapCommand,
				Flags:     append(pipelineFlags(), mappingFlags()...),
			},
			{
				Name:      "query",
				Usage:     "Build a PubMed search expression for a question",
				ArgsUsage: "<question>",
				Action:    queryCommand,
				Flags:     append(pipelineFlags(), append(mappingFlags(), queryFlags()...)...),
			},
			{
				Name:      "search",
				Usage:     "Search PubMed for literature answering a question",
				ArgsUsage: "<question>",
				Action:    searchCommand,
				Flags: append(pipelineFlags(), append(mappingFlags(), append(queryFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of articles to retrieve",
						Value: 10,
					})...)...),
			},
			{
				Name:      "ask",
				Usage:     "Answer a question from retrieved literature",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: append(pipelineFlags(), append(mappingFlags(), append(queryFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of articles to retrieve",
						Value: 10,
					},
					&cli.StringFlag{
						Name:  "ai-host",
						Usage: "Chat service host URL for answer synthesis",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "ai-model",
						Usage:    "Chat model name for answer synthesis",
						Required: true,
					})...)...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "cache",
			Aliases: []string{"d"},
			Usage:   "Path to the lookup cache directory (in-memory if omitted)",
		},
		&cli.StringFlag{
			Name:  "eutils-base",
			Usage: "NCBI E-utilities base URL",
		},
	}
}

func mappingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "matcher",
			Usage: "External concept matcher endpoint (disabled if omitted)",
		},
		&cli.Float64Flag{
			Name:  "min-confidence",
			Usage: "Confidence floor for reported concepts",
			Value: mapping.DefaultMinConfidence,
		},
		&cli.BoolFlag{
			Name:  "no-lookup",
			Usage: "Disable the external terminology lookup stage",
		},
	}
}

func queryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "max-terms",
			Usage: "Maximum number of concepts in the MeSH clause",
			Value: core.DefaultQueryOptions().MaxConceptTerms,
		},
		&cli.BoolFlag{
			Name:  "no-subheadings",
			Usage: "Omit the subheading constraint",
		},
		&cli.StringFlag{
			Name:  "date-from",
			Usage: "Publication date range start (YYYY/MM/DD)",
		},
		&cli.StringFlag{
			Name:  "date-to",
			Usage: "Publication date range end (YYYY/MM/DD)",
		},
	}
}

func questionArg(c *cli.Context) (string, error) {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return "", fmt.Errorf("a question is required")
	}
	return question, nil
}

func newClient(c *cli.Context, extra ...medquery.ClientOption) (*medquery.Client, error) {
	mapOpts := mapping.DefaultOptions()
	mapOpts.UseExternalMatcher = c.String("matcher") != ""
	mapOpts.UseExternalLookup = !c.Bool("no-lookup")
	mapOpts.MinConfidence = c.Float64("min-confidence")

	queryOpts := core.QueryOptions{
		MaxConceptTerms:    c.Int("max-terms"),
		IncludeSubheadings: !c.Bool("no-subheadings"),
	}
	if from, to := c.String("date-from"), c.String("date-to"); from != "" || to != "" {
		queryOpts.DateRange = &core.DateRange{Start: from, End: to}
	}

	opts := []medquery.ClientOption{
		medquery.WithMappingOptions(mapOpts),
		medquery.WithQueryOptions(queryOpts),
	}
	if path := c.String("cache"); path != "" {
		opts = append(opts, medquery.WithCachePath(path))
	}
	if base := c.String("eutils-base"); base != "" {
		opts = append(opts, medquery.WithEUtilsBase(base))
	}
	if endpoint := c.String("matcher"); endpoint != "" {
		opts = append(opts, medquery.WithMatcherEndpoint(endpoint))
	}
	opts = append(opts, extra...)

	return medquery.NewClient(opts...)
}

func mapCommand(c *cli.Context) error {
	question, err := questionArg(c)
	if err != nil {
		return err
	}

	client, err := newClient(c)
	if err != nil {
		return err
	}
	defer client.Close()

	result := client.MapQuery(context.Background(), question)
	printMapping(result)
	return nil
}

func queryCommand(c *cli.Context) error {
	question, err := questionArg(c)
	if err != nil {
		return err
	}

	client, err := newClient(c)
	if err != nil {
		return err
	}
	defer client.Close()

	processed := client.ProcessQuery(context.Background(), question)
	printMapping(processed.Mapping)
	fmt.Println()
	fmt.Println(processed.Query)
	return nil
}

func searchCommand(c *cli.Context) error {
	question, err := questionArg(c)
	if err != nil {
		return err
	}

	client, err := newClient(c, medquery.WithSearchLimit(c.Int("limit")))
	if err != nil {
		return err
	}
	defer client.Close()

	processed, articles, err := client.Search(context.Background(), question)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Query: %s\n\n", processed.Query)
	printArticles(articles)
	return nil
}

func askCommand(c *cli.Context) error {
	question, err := questionArg(c)
	if err != nil {
		return err
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithModel(c.String("ai-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	client, err := newClient(c,
		medquery.WithSearchLimit(c.Int("limit")),
		medquery.WithAnswerSynthesis(aiConfig),
	)
	if err != nil {
		return err
	}
	defer client.Close()

	answer, err := client.Ask(context.Background(), question)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Query: %s\n", answer.Query)
	fmt.Fprintf(os.Stderr, "Articles: %d\n\n", len(answer.Articles))
	fmt.Println(answer.Text)
	return nil
}

func printMapping(result *core.MappingResult) {
	fmt.Printf("Method: %s\n", result.Method)
	fmt.Printf("Overall confidence: %.2f\n", result.OverallConfidence)
	for _, match := range result.Matches {
		fmt.Printf("  %.2f  %-30s  (%s, %q)\n",
			match.Confidence, match.Concept, match.Origin, match.SourcePhrase)
	}
	if len(result.UnmatchedFragments) > 0 {
		fmt.Printf("Unmatched: %s\n", strings.Join(result.UnmatchedFragments, ", "))
	}
}

func printArticles(articles []*core.Article) {
	for i, article := range articles {
		fmt.Printf("%d. %s\n", i+1, article.Title)
		fmt.Printf("   PMID %s", article.PMID)
		if article.Journal != "" {
			fmt.Printf(", %s", article.Journal)
		}
		if !article.PubDate.IsZero() {
			fmt.Printf(" (%d)", article.PubDate.Year())
		}
		fmt.Println()
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
