// Package feed fetches the configured RSS sources and normalizes their
// items into the canonical article shape used by the rest of the pipeline.
package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/config"
	"github.com/mmcdole/gofeed"
)

const snippetLimit = 400

// Article is the canonical article shape for one cycle. Articles are
// never persisted; they live from fetch to dispatch.
type Article struct {
	Source    string
	Title     string
	Link      string
	Snippet   string
	Published time.Time
	Score     int
}

type Fetcher interface {
	Fetch(ctx context.Context, source config.Source) ([]Article, error)
}

type RSSFetcher struct {
	parser *gofeed.Parser
	now    func() time.Time
}

func NewRSSFetcher() *RSSFetcher {
	return &RSSFetcher{parser: gofeed.NewParser(), now: time.Now}
}

func (f *RSSFetcher) Fetch(ctx context.Context, source config.Source) ([]Article, error) {
	parsed, err := f.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, err)
	}

	articles := make([]Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		articles = append(articles, normalize(item, source.Name, f.now()))
	}
	return articles, nil
}

// normalize applies the defaulting rules for sloppy feeds: a missing
// title becomes "No Title", a missing link "#", a missing timestamp the
// fetch time. The snippet keeps any markup; the renderer strips it.
func normalize(item *gofeed.Item, sourceName string, now time.Time) Article {
	title := item.Title
	if title == "" {
		title = "No Title"
	}

	link := item.Link
	if link == "" {
		link = "#"
	}

	published := now
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	summary := item.Description
	if summary == "" {
		summary = item.Content
	}

	return Article{
		Source:    sourceName,
		Title:     title,
		Link:      link,
		Snippet:   firstRunes(summary, snippetLimit),
		Published: published,
	}
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Result holds the combined outcome of one fan-out fetch. Errors carry
// one entry per failed source; the articles of healthy sources are
// unaffected by a failing sibling.
type Result struct {
	Articles []Article
	Errors   []error
}

// FetchAll fetches every source concurrently and waits for all of them
// to settle. A source failure degrades to zero articles from that
// source; it never aborts the others and never propagates.
func FetchAll(ctx context.Context, sources []config.Source) Result {
	var (
		mu     sync.Mutex
		result Result
		wg     sync.WaitGroup
	)

	fetcher := NewRSSFetcher()

	for _, src := range sources {
		wg.Add(1)
		go func(s config.Source) {
			defer wg.Done()
			articles, err := fetcher.Fetch(ctx, s)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, err)
				return
			}
			result.Articles = append(result.Articles, articles...)
		}(src)
	}

	wg.Wait()
	return result
}
