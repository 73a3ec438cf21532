// Package stocks scrapes the market pulse quotes from the public quote
// pages. Every requested symbol always yields a quote: a failed fetch
// degrades to a sentinel so positional alignment with the symbol list
// holds downstream.
package stocks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const defaultBaseURL = "https://finance.yahoo.com/quote/"

type Quote struct {
	Symbol        string
	Price         string
	Change        string
	ChangePercent string
	Up            bool
}

// Sentinel is the placeholder quote substituted when a symbol's page
// cannot be fetched or parsed.
func Sentinel(symbol string) Quote {
	return Quote{Symbol: symbol, Price: "---", Change: "0.00", ChangePercent: "(---)", Up: true}
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
	}
}

// NewClientWithBase is used by tests to point the scraper at a fake page.
func NewClientWithBase(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &Client{httpClient: httpClient, baseURL: base}
}

// FetchAll fetches one quote per symbol, sequentially and in order. A
// slow or failing symbol delays but never aborts the rest.
func (c *Client) FetchAll(ctx context.Context, symbols []string) []Quote {
	quotes := make([]Quote, 0, len(symbols))
	for _, symbol := range symbols {
		q, err := c.fetch(ctx, symbol)
		if err != nil {
			slog.Warn("stock fetch failed", "symbol", symbol, "error", err)
			q = Sentinel(symbol)
		}
		quotes = append(quotes, q)
	}
	return quotes
}

func (c *Client) fetch(ctx context.Context, symbol string) (Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+symbol, nil)
	if err != nil {
		return Quote{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Quote{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Quote{}, fmt.Errorf("parse quote page: %w", err)
	}

	price := strings.TrimSpace(doc.Find(`fin-streamer[data-field="regularMarketPrice"]`).First().Text())
	change := strings.TrimSpace(doc.Find(`fin-streamer[data-field="regularMarketChange"]`).First().Text())
	percent := strings.TrimSpace(doc.Find(`fin-streamer[data-field="regularMarketChangePercent"]`).First().Text())

	up := !strings.HasPrefix(change, "-")

	if price == "" {
		price = "N/A"
	}
	if change == "" {
		change = "0.00"
	}
	if percent == "" {
		percent = "(0.00%)"
	}

	return Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		ChangePercent: percent,
		Up:            up,
	}, nil
}
