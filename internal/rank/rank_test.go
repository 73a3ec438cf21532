package rank

import (
	"reflect"
	"testing"
	"time"

	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/feed"
)

func TestDedupeKeepsFirstOccurrence(t *testing.T) {
	articles := []feed.Article{
		{Title: "Same Headline", Source: "First"},
		{Title: "Other Headline", Source: "Second"},
		{Title: "Same Headline", Source: "Third"},
	}

	got := Dedupe(articles)

	if len(got) != 2 {
		t.Fatalf("expected 2 unique titles, got %d", len(got))
	}
	if got[0].Source != "First" {
		t.Errorf("expected first occurrence to win, got source %q", got[0].Source)
	}
}

func TestScoreTitle(t *testing.T) {
	tests := []struct {
		title string
		min   int
	}{
		{"Israeli AI Startup Raises $50 Million", 3}, // AI, Startup, Million (Raise also hits)
		{"Quiet day in the market", 0},
		{"Cyber merger nets billion-dollar exit", 4},
	}
	for _, tt := range tests {
		got := ScoreTitle(tt.title)
		if got < tt.min {
			t.Errorf("ScoreTitle(%q) = %d, want >= %d", tt.title, got, tt.min)
		}
	}
}

func TestScoreTitleCaseInsensitive(t *testing.T) {
	if ScoreTitle("STARTUP ipo") != ScoreTitle("startup IPO") {
		t.Error("expected scoring to ignore case")
	}
	if ScoreTitle("nothing relevant here") != 0 {
		t.Error("expected zero score for keyword-free title")
	}
}

func TestSelectOrdersByScoreThenRecency(t *testing.T) {
	now := time.Now()
	articles := []feed.Article{
		{Title: "plain headline", Published: now.Add(-1 * time.Hour)},
		{Title: "Startup Raises Round", Published: now.Add(-5 * time.Hour)},
		{Title: "Tech IPO", Published: now.Add(-2 * time.Hour)},
	}

	got := Select(articles)

	if got[0].Title != "Startup Raises Round" {
		t.Errorf("expected highest score first, got %q", got[0].Title)
	}
	if got[1].Title != "Tech IPO" {
		t.Errorf("expected second-highest score next, got %q", got[1].Title)
	}
	if got[2].Title != "plain headline" {
		t.Errorf("expected zero-score last, got %q", got[2].Title)
	}
}

func TestSelectRecencyTieBreak(t *testing.T) {
	t1 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(-2 * time.Hour)
	articles := []feed.Article{
		{Title: "older plain headline", Published: t2},
		{Title: "newer plain headline", Published: t1},
	}

	got := Select(articles)

	if got[0].Title != "newer plain headline" || got[1].Title != "older plain headline" {
		t.Errorf("expected recency ordering for equal scores, got %v, %v", got[0].Title, got[1].Title)
	}
}

func TestSelectTruncatesToDigestSize(t *testing.T) {
	now := time.Now()
	var articles []feed.Article
	for i := 0; i < 9; i++ {
		articles = append(articles, feed.Article{
			Title:     "headline " + string(rune('a'+i)),
			Published: now.Add(-time.Duration(i) * time.Hour),
		})
	}

	got := Select(articles)

	if len(got) != DigestSize {
		t.Fatalf("expected %d articles, got %d", DigestSize, len(got))
	}
}

func TestSelectEmptyInput(t *testing.T) {
	if got := Select(nil); len(got) != 0 {
		t.Errorf("expected empty digest for empty pool, got %d", len(got))
	}
}

func TestSelectIdempotent(t *testing.T) {
	now := time.Now()
	articles := []feed.Article{
		{Title: "Startup Raises Round", Published: now.Add(-5 * time.Hour)},
		{Title: "Tech IPO", Published: now.Add(-2 * time.Hour)},
		{Title: "plain headline", Published: now.Add(-1 * time.Hour)},
		{Title: "Cyber Exit", Published: now.Add(-3 * time.Hour)},
		{Title: "another plain one", Published: now.Add(-4 * time.Hour)},
		{Title: "sixth headline", Published: now.Add(-6 * time.Hour)},
	}

	once := Select(articles)
	twice := Select(once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Select is not idempotent:\nonce:  %v\ntwice: %v", once, twice)
	}
}
