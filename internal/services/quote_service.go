package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"todo-list/internal/config"
	"todo-list/internal/errors"
	"todo-list/internal/logging"
)

// maxQuoteBody caps how much of a quote response is read
const maxQuoteBody = 1 << 20

// Quote is the text returned by the quotes endpoint
type Quote struct {
	Text      string    `json:"text"`
	Parts     []string  `json:"parts"`
	RequestID string    `json:"request_id"`
	FetchedAt time.Time `json:"fetched_at"`
}

// quoteServiceImpl implements QuoteService over HTTP
type quoteServiceImpl struct {
	client *http.Client
	url    string
	now    Clock
	newID  func() string
}

// NewQuoteService creates a QuoteService. A nil client gets one with the
// configured timeout.
func NewQuoteService(cfg config.QuoteConfig, client *http.Client) QuoteService {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &quoteServiceImpl{
		client: client,
		url:    cfg.URL,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Fetch issues a single GET for a quote
func (q *quoteServiceImpl) Fetch(ctx context.Context) (*Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.url, nil)
	if err != nil {
		return nil, errors.NewNetworkError(q.url, err)
	}
	requestID := q.newID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	logging.Debugf("quote request %s -> %s\n", requestID, q.url)
	resp, err := q.client.Do(req)
	if err != nil {
		return nil, errors.NewNetworkError(q.url, err).WithContext("request_id", requestID)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewHTTPStatusError(q.url, resp.StatusCode).WithContext("request_id", requestID)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxQuoteBody))
	if err != nil {
		return nil, errors.NewNetworkError(q.url, err).WithContext("request_id", requestID)
	}

	parts, err := decodeQuoteBody(body)
	if err != nil {
		return nil, errors.NewNetworkError(q.url, err).WithContext("request_id", requestID)
	}

	return &Quote{
		Text:      strings.Join(parts, ","),
		Parts:     parts,
		RequestID: requestID,
		FetchedAt: q.now(),
	}, nil
}

// decodeQuoteBody accepts a JSON array of strings or a single JSON string
func decodeQuoteBody(body []byte) ([]string, error) {
	var parts []string
	if err := json.Unmarshal(body, &parts); err == nil {
		return parts, nil
	}
	var single string
	if err := json.Unmarshal(body, &single); err == nil {
		return []string{single}, nil
	}
	return nil, fmt.Errorf("unexpected quote response: %.64s", string(body))
}

// QuoteBoard holds the quote on display. Each fetch takes a ticket first;
// a response is only shown if no later fetch has started since.
type QuoteBoard struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
	current *Quote
}

// NewQuoteBoard creates an empty board
func NewQuoteBoard() *QuoteBoard {
	return &QuoteBoard{}
}

// Begin issues the ticket for a new fetch
func (b *QuoteBoard) Begin() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.issued++
	return b.issued
}

// Apply shows quote if ticket is the latest issued. It reports whether the
// quote was accepted.
func (b *QuoteBoard) Apply(ticket uint64, quote *Quote) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ticket != b.issued || ticket <= b.applied {
		logging.Debugf("discarding stale quote response (ticket %d, latest %d)\n", ticket, b.issued)
		return false
	}
	b.applied = ticket
	b.current = quote
	return true
}

// Current returns the quote on display, or nil
func (b *QuoteBoard) Current() *Quote {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Refresh fetches through svc and applies the result. Errors are returned
// as-is. A stale success returns the quote on display instead, or the
// fetched quote when nothing is on display yet.
func (b *QuoteBoard) Refresh(ctx context.Context, svc QuoteService) (*Quote, error) {
	ticket := b.Begin()
	quote, err := svc.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if !b.Apply(ticket, quote) {
		if current := b.Current(); current != nil {
			return current, nil
		}
	}
	return quote, nil
}
