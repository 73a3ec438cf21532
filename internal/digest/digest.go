// Package digest runs one end-to-end bulletin cycle: fetch, rank,
// quotes, daily content, subscriber sync, render, dispatch. Failure
// containment lives here: a degraded source shrinks the bulletin, it
// never kills the cycle, and only tomorrow's trigger retries anything.
package digest

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/archive"
	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/config"
	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/daily"
	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/feed"
	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/mailer"
	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/rank"
	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/roster"
	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/stocks"
)

type Runner struct {
	cfg        *config.Config
	dispatcher mailer.Dispatcher
	arch       *archive.Archive

	fetchArticles   func(context.Context, []config.Source) feed.Result
	fetchQuotes     func(context.Context, []string) []stocks.Quote
	syncSubscribers func(context.Context) ([]string, int, error)
	now             func() time.Time

	running atomic.Bool
}

// NewRunner wires a runner from the real collaborators. The archive may
// be nil, in which case history is skipped.
func NewRunner(cfg *config.Config, dispatcher mailer.Dispatcher, reconciler *roster.Reconciler, quotes *stocks.Client, arch *archive.Archive) *Runner {
	return &Runner{
		cfg:             cfg,
		dispatcher:      dispatcher,
		arch:            arch,
		fetchArticles:   feed.FetchAll,
		fetchQuotes:     quotes.FetchAll,
		syncSubscribers: reconciler.Sync,
		now:             time.Now,
	}
}

// TryCycle runs one cycle unless a previous one is still in flight.
// Cycles are expected to finish well inside a day; the guard exists so
// a stalled cycle cannot race a fresh trigger on the subscriber store.
// Returns false when the trigger was skipped.
func (r *Runner) TryCycle(ctx context.Context) bool {
	if !r.running.CompareAndSwap(false, true) {
		slog.Warn("previous cycle still running, skipping trigger")
		return false
	}
	defer r.running.Store(false)

	r.Cycle(ctx)
	return true
}

// Cycle executes one daily run. Unanticipated panics are recovered and
// logged so the next scheduled trigger still fires.
func (r *Runner) Cycle(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("cycle aborted", "panic", rec)
		}
	}()

	now := r.now().In(r.cfg.Location())
	slog.Info("cycle started", "at", now)

	result := r.fetchArticles(ctx, r.cfg.EnabledSources())
	for _, err := range result.Errors {
		slog.Warn("feed fetch failed", "error", err)
	}
	slog.Info("articles fetched", "count", len(result.Articles))

	selected := rank.Select(result.Articles)
	slog.Info("digest selected", "count", len(selected))

	quotes := r.fetchQuotes(ctx, r.cfg.Symbols)
	slog.Info("quotes fetched", "count", len(quotes))

	hook := daily.TodayHook(now)
	slang := daily.TodaySlang(now)
	spotlight := daily.TodaySpotlight(now)

	recipients, added, err := r.syncSubscribers(ctx)
	if err != nil {
		// Degraded sync still returns the last persisted set.
		slog.Error("subscriber sync failed", "error", err)
	} else {
		slog.Info("subscribers synced", "added", added, "total", len(recipients))
	}
	recipients = withAlwaysInclude(recipients, r.cfg.AlwaysInclude())

	if len(selected) == 0 {
		slog.Info("nothing to report, skipping dispatch")
		return
	}
	if len(recipients) == 0 {
		slog.Info("no recipients, skipping dispatch")
		return
	}

	msg, err := mailer.Render(mailer.Bulletin{
		Date:      now,
		Articles:  selected,
		Quotes:    quotes,
		Hook:      hook,
		Slang:     slang,
		Spotlight: spotlight,
	})
	if err != nil {
		slog.Error("render failed", "error", err)
		return
	}

	sent := 0
	for _, recipient := range recipients {
		if err := r.dispatcher.Send(recipient, msg); err != nil {
			slog.Error("send failed", "recipient", recipient, "error", err)
			continue
		}
		sent++
	}
	slog.Info("cycle complete", "sent", sent, "recipients", len(recipients))

	if r.arch != nil {
		if err := r.arch.Record(now, selected, sent); err != nil {
			slog.Warn("archive write failed", "error", err)
		}
	}
}

// withAlwaysInclude appends the operator address unless it is already a
// subscriber (post-normalization).
func withAlwaysInclude(recipients []string, extra string) []string {
	extra = strings.ToLower(strings.TrimSpace(extra))
	if extra == "" {
		return recipients
	}
	for _, r := range recipients {
		if r == extra {
			return recipients
		}
	}
	return append(recipients, extra)
}
