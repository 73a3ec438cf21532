package archive

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/feed"
)

func testArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("opening test archive: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func sampleDigest() []feed.Article {
	return []feed.Article{
		{Title: "Cyber Startup Raises Round", Link: "https://a.example", Source: "Globes", Score: 3},
		{Title: "Tech IPO", Link: "https://b.example", Source: "Jerusalem Post", Score: 2},
	}
}

func TestRecordAndStats(t *testing.T) {
	a := testArchive(t)

	if err := a.Record(time.Now(), sampleDigest(), 4); err != nil {
		t.Fatalf("record: %v", err)
	}

	cycles, articles, size, err := a.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if cycles != 1 {
		t.Errorf("expected 1 cycle, got %d", cycles)
	}
	if articles != 2 {
		t.Errorf("expected 2 archived articles, got %d", articles)
	}
	if size == 0 {
		t.Error("expected non-zero db size")
	}
}

func TestPrune(t *testing.T) {
	a := testArchive(t)

	if err := a.Record(time.Now().Add(-40*24*time.Hour), sampleDigest(), 1); err != nil {
		t.Fatalf("record old: %v", err)
	}
	if err := a.Record(time.Now(), sampleDigest(), 1); err != nil {
		t.Fatalf("record fresh: %v", err)
	}

	deleted, err := a.Prune(30 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 pruned cycle, got %d", deleted)
	}

	cycles, articles, _, err := a.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if cycles != 1 {
		t.Errorf("expected 1 remaining cycle, got %d", cycles)
	}
	if articles != 2 {
		t.Errorf("expected old cycle's articles removed, got %d", articles)
	}
}

func TestLastRun(t *testing.T) {
	a := testArchive(t)

	empty, err := a.LastRun()
	if err != nil {
		t.Fatalf("last run on empty archive: %v", err)
	}
	if !empty.IsZero() {
		t.Errorf("expected zero time for empty archive, got %v", empty)
	}

	ranAt := time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)
	if err := a.Record(ranAt, sampleDigest(), 2); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := a.LastRun()
	if err != nil {
		t.Fatalf("last run: %v", err)
	}
	if !got.Equal(ranAt) {
		t.Errorf("expected %v, got %v", ranAt, got)
	}
}
