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
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/sift"
	"github.com/poiesic/sift/core"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "sift",
		Usage: "Hybrid search over scraped social posts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to database directory",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a single post",
				ArgsUsage: "<content>",
				Action:    addCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "post-id",
						Usage:    "Platform post ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "author",
						Usage:    "Author username",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "display-name",
						Usage: "Author display name",
					},
					&cli.TimestampFlag{
						Name:   "posted",
						Usage:  "Posted time (RFC 3339), defaults to now",
						Layout: time.RFC3339,
					},
					&cli.IntFlag{Name: "likes", Usage: "Like count"},
					&cli.IntFlag{Name: "retweets", Usage: "Retweet count"},
					&cli.IntFlag{Name: "replies", Usage: "Reply count"},
					&cli.IntFlag{Name: "views", Usage: "View count"},
				},
			},
			{
				Name:      "search",
				Usage:     "Search stored posts",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Search mode: keyword, semantic, or hybrid",
						Value: string(core.ModeHybrid),
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort field: relevance, date, likes, retweets, replies, views",
						Value: string(core.SortByRelevance),
					},
					&cli.StringFlag{
						Name:  "order",
						Usage: "Sort order: asc or desc",
						Value: string(core.SortDesc),
					},
					&cli.StringFlag{Name: "author", Usage: "Filter by author username"},
					&cli.StringFlag{Name: "sentiment", Usage: "Filter by annotation sentiment"},
					&cli.TimestampFlag{
						Name:   "from",
						Usage:  "Filter: posted at or after (RFC 3339)",
						Layout: time.RFC3339,
					},
					&cli.TimestampFlag{
						Name:   "to",
						Usage:  "Filter: posted at or before (RFC 3339)",
						Layout: time.RFC3339,
					},
					&cli.IntFlag{Name: "min-likes", Usage: "Filter: minimum like count"},
					&cli.IntFlag{Name: "limit", Usage: "Result page size", Value: core.DefaultSearchLimit},
					&cli.IntFlag{Name: "offset", Usage: "Result page offset"},
					&cli.BoolFlag{Name: "no-enhance", Usage: "Skip AI query enhancement"},
					&cli.BoolFlag{Name: "no-summary", Usage: "Skip the AI result summary"},
				},
			},
			{
				Name:      "ask",
				Usage:     "Answer a question grounded in stored posts",
				ArgsUsage: "<question>",
				Action:    askCommand,
			},
			{
				Name:      "suggest",
				Usage:     "Suggest queries from past searches",
				ArgsUsage: "[partial]",
				Action:    suggestCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "Maximum suggestions", Value: 10},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show database statistics",
				Action: statsCommand,
			},
			{
				Name:      "seed",
				Usage:     "Load posts from a JSON file",
				ArgsUsage: "<file>",
				Action:    seedCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openDatabase resolves configuration and opens the database.
func openDatabase(c *cli.Context) (*sift.Database, error) {
	cfg, err := loadFileConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	return sift.NewDatabase(
		resolveDBPath(c.String("db"), cfg),
		sift.WithAIConfig(resolveAIConfig(cfg)),
	)
}

func addCommand(c *cli.Context) error {
	content := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if content == "" {
		return fmt.Errorf("post content is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	post := &core.Post{
		PostID:            c.String("post-id"),
		AuthorUsername:    c.String("author"),
		AuthorDisplayName: c.String("display-name"),
		Content:           content,
		Likes:             c.Int("likes"),
		Retweets:          c.Int("retweets"),
		Replies:           c.Int("replies"),
		Views:             c.Int("views"),
		PostedAt:          time.Now().UTC(),
		ScrapedAt:         time.Now().UTC(),
	}
	if posted := c.Timestamp("posted"); posted != nil && !posted.IsZero() {
		post.PostedAt = posted.UTC()
	}

	added, err := pipeline.IngestPosts(c.Context, post)
	if err != nil {
		return err
	}
	if added == 0 {
		fmt.Println("Post already stored.")
		return nil
	}
	fmt.Printf("Added post %d by @%s\n", post.Id, post.AuthorUsername)
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return err
	}

	req := core.NewSearchRequest(query)
	req.Mode = core.SearchMode(c.String("mode"))
	req.SortBy = core.SortField(c.String("sort"))
	req.SortOrder = core.SortOrder(c.String("order"))
	req.Limit = c.Int("limit")
	req.Offset = c.Int("offset")
	req.EnhanceQuery = !c.Bool("no-enhance")
	req.IncludeSummary = !c.Bool("no-summary")
	req.Filters = core.SearchFilters{
		Author:    c.String("author"),
		Sentiment: c.String("sentiment"),
		MinLikes:  c.Int("min-likes"),
	}
	if from := c.Timestamp("from"); from != nil {
		req.Filters.DateFrom = from.UTC()
	}
	if to := c.Timestamp("to"); to != nil {
		req.Filters.DateTo = to.UTC()
	}

	result, err := searcher.Search(c.Context, req)
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

func printResult(result *core.SearchResult) {
	if result.EnhancedQuery != "" && result.EnhancedQuery != result.Query {
		fmt.Printf("Enhanced query: %s\n", result.EnhancedQuery)
	}
	fmt.Printf("Found %d posts (showing %d from offset %d)\n\n",
		result.TotalCount, len(result.Posts), result.Offset)

	for i, hit := range result.Posts {
		post := hit.Post
		fmt.Printf("%d. @%s (%s) [score %.3f]\n",
			result.Offset+i+1,
			post.AuthorUsername,
			post.PostedAt.Format("2006-01-02"),
			hit.Score)
		fmt.Printf("   %s\n", post.Content)
		if post.Annotation != nil && post.Annotation.Sentiment != "" {
			fmt.Printf("   sentiment: %s  likes: %d\n", post.Annotation.Sentiment, post.Likes)
		} else {
			fmt.Printf("   likes: %d\n", post.Likes)
		}
		fmt.Println()
	}

	if result.Summary != nil {
		fmt.Printf("Summary: %s\n", result.Summary.Text)
		for _, insight := range result.Summary.KeyInsights {
			fmt.Printf("  - %s\n", insight)
		}
	}
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return err
	}

	answer, err := searcher.Ask(c.Context, question)
	if err != nil {
		return err
	}

	fmt.Println(answer.Answer)
	if len(answer.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, source := range answer.Sources {
			fmt.Printf("  @%s: %s\n", source.Post.AuthorUsername, firstLine(source.Post.Content))
		}
	}
	return nil
}

func suggestCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return err
	}

	partial := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	suggestions, err := searcher.Suggest(c.Context, partial, c.Int("limit"))
	if err != nil {
		return err
	}

	if len(suggestions) == 0 {
		fmt.Println("No suggestions yet.")
		return nil
	}
	for _, s := range suggestions {
		fmt.Println(s)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.Stats(c.Context)
	if err != nil {
		return err
	}

	fmt.Printf("Posts:          %d\n", stats.Posts)
	fmt.Printf("Authors:        %d\n", stats.Authors)
	fmt.Printf("Searches run:   %d\n", stats.Queries)
	fmt.Printf("Lexical index:  %d\n", stats.Indexed)
	fmt.Printf("Semantic index: %d\n", stats.Semantic)
	return nil
}

// seedPost is the JSON shape of one post in a seed file.
type seedPost struct {
	PostID            string    `json:"post_id"`
	AuthorUsername    string    `json:"author_username"`
	AuthorDisplayName string    `json:"author_display_name"`
	Content           string    `json:"content"`
	Likes             int       `json:"likes"`
	Retweets          int       `json:"retweets"`
	Replies           int       `json:"replies"`
	Views             int       `json:"views"`
	PostedAt          time.Time `json:"posted_at"`
}

func seedCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("a seed file is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var seeds []seedPost
	if err := json.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	posts := make([]*core.Post, 0, len(seeds))
	now := time.Now().UTC()
	for _, seed := range seeds {
		postedAt := seed.PostedAt
		if postedAt.IsZero() {
			postedAt = now
		}
		posts = append(posts, &core.Post{
			PostID:            seed.PostID,
			AuthorUsername:    seed.AuthorUsername,
			AuthorDisplayName: seed.AuthorDisplayName,
			Content:           seed.Content,
			Likes:             seed.Likes,
			Retweets:          seed.Retweets,
			Replies:           seed.Replies,
			Views:             seed.Views,
			PostedAt:          postedAt,
			ScrapedAt:         now,
		})
	}

	added, err := pipeline.IngestPosts(c.Context, posts...)
	if err != nil {
		return err
	}
	fmt.Printf("Seeded %d posts (%d new)\n", len(posts), added)
	return nil
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	if len(s) > 100 {
		s = s[:100] + "…"
	}
	return s
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
