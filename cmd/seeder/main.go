package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/poiesic/sift"
	"github.com/poiesic/sift/core"
)

// samplePost is one row of the built-in corpus.
type samplePost struct {
	author   string
	content  string
	likes    int
	retweets int
	views    int
	daysAgo  int
}

var samplePosts = []samplePost{
	{"techoptimist", "AI tools are amazing for productivity. I shipped a week of work in two days.", 420, 85, 12000, 1},
	{"skeptic_dev", "AI is overhyped and dangerous. We're automating mistakes at scale.", 310, 120, 9800, 2},
	{"mlpractitioner", "Fine-tuned a small model on our support tickets. Accuracy beats the giant hosted one, at a tenth of the cost.", 560, 140, 21000, 3},
	{"gopher_jane", "Go's new iterator functions finally clicked for me. Range over func is such a clean design.", 230, 40, 7600, 4},
	{"dbnerd", "Benchmarked embedded key-value stores all weekend. LSM trees keep surprising me.", 180, 25, 5400, 5},
	{"prodmanager_pat", "Hot take: most dashboards exist so nobody has to make a decision.", 890, 260, 45000, 2},
	{"quietcoder", "Deleted 4000 lines of code today. Best feature I ever shipped.", 1500, 420, 88000, 6},
	{"sre_sam", "Our incident count dropped 60% after we started writing blameless postmortems. Culture is infrastructure.", 640, 190, 30000, 7},
	{"frontend_fern", "CSS has-selector support everywhere now. Throwing a small party for my stylesheet.", 120, 15, 3900, 3},
	{"datadiver", "Reminder: your retrieval system is only as good as your chunking strategy.", 350, 95, 14000, 1},
	{"searchgeek", "Hybrid search beats pure vector search on every internal benchmark we ran. Keywords still matter.", 470, 130, 19000, 2},
	{"angry_ops", "Another cloud outage, another all-nighter. Multi-region is not optional anymore.", 275, 88, 11000, 4},
	{"startup_sue", "We hit profitability this quarter. Three years of ramen were worth it.", 2100, 310, 120000, 8},
	{"compiler_carl", "Spent the evening reading the new garbage collector design doc. Beautiful engineering in there.", 95, 12, 2800, 5},
	{"rustacean_rita", "Borrow checker fights are just the compiler caring about you aggressively.", 760, 210, 38000, 3},
	{"teachertech", "Taught my first intro programming class tonight. Watching loops click for people never gets old.", 430, 60, 15000, 6},
	{"cynical_cto", "Vendor demos are fiction. Always run the proof of concept on your own data.", 520, 170, 23000, 2},
	{"opensource_olly", "Our little library crossed 10k stars. Thank you to every contributor who fixed a typo at 2am.", 1800, 390, 95000, 9},
	{"privacy_paula", "Scraping public posts doesn't make the ethics questions go away. Consent still matters.", 290, 110, 13000, 4},
	{"perfhunter", "Profiled the hot path, found one allocation in a loop, got 3x throughput. Profilers before opinions.", 610, 150, 27000, 1},
}

var (
	dbPath = flag.String("db", "./sift_db", "path to database directory")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

func main() {
	db, err := sift.NewDatabase(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	now := time.Now().UTC()
	posts := make([]*core.Post, 0, len(samplePosts))
	for i, sample := range samplePosts {
		posts = append(posts, &core.Post{
			PostID:         fmt.Sprintf("seed-%04d", i+1),
			AuthorUsername: sample.author,
			Content:        sample.content,
			Likes:          sample.likes,
			Retweets:       sample.retweets,
			Replies:        sample.retweets / 3,
			Views:          sample.views,
			PostedAt:       now.AddDate(0, 0, -sample.daysAgo),
			ScrapedAt:      now,
		})
	}

	added, err := pipeline.IngestPosts(context.Background(), posts...)
	if err != nil {
		panic(err)
	}
	pipeline.Flush()

	fmt.Printf("Seeded %d posts (%d new)\n", len(posts), added)
}
