// Package roster reconciles the remote signup sheet with the persisted
// subscriber set. The set only ever grows: unsubscribe handling lives
// outside this pipeline.
package roster

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Reconciler struct {
	store      *Store
	url        string
	httpClient *http.Client
}

func New(store *Store, url string) *Reconciler {
	return &Reconciler{
		store:      store,
		url:        url,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewWithClient is used by tests to inject a fake sheet server.
func NewWithClient(store *Store, url string, httpClient *http.Client) *Reconciler {
	return &Reconciler{store: store, url: url, httpClient: httpClient}
}

// Sync fetches the remote roster, merges newly seen addresses into the
// persisted set, saves, and returns the full set plus the number of new
// entries. On a fetch failure the persisted set is left untouched and
// returned as-is, so the cycle degrades to previously known
// subscribers. Syncing an unchanged roster twice is a no-op.
func (r *Reconciler) Sync(ctx context.Context) ([]string, int, error) {
	current, err := r.store.Load()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.fetchRows(ctx)
	if err != nil {
		return current, 0, fmt.Errorf("fetching roster: %w", err)
	}

	known := make(map[string]bool, len(current))
	for _, e := range current {
		known[e] = true
	}

	added := 0
	for _, row := range rows {
		email, ok := extractEmail(row)
		if !ok {
			continue
		}
		if known[email] {
			continue
		}
		known[email] = true
		current = append(current, email)
		added++
	}

	// Save even when nothing changed so the storage format stays stable.
	if err := r.store.Save(current); err != nil {
		return current, added, err
	}
	return current, added, nil
}

func (r *Reconciler) fetchRows(ctx context.Context) ([][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}

// extractEmail finds the first cell that looks like an address. The
// sheet's column layout is operator-controlled and arbitrary, so this
// stays a loose shape check, not validation.
func extractEmail(row []string) (string, bool) {
	for _, cell := range row {
		if strings.Contains(cell, "@") && strings.Contains(cell, ".") {
			return strings.ToLower(strings.TrimSpace(cell)), true
		}
	}
	return "", false
}
