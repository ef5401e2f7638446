// Package webhook mirrors ledger changes to Discord-compatible
// webhooks as embed messages.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/mirror"
)

// Embed colors: green for income, red for expense, gray for deletes.
const (
	colorIncome  = 0x00ff00
	colorExpense = 0xff4500
	colorDeleted = 0x808080
)

type (
	embedField struct {
		Name   string `json:"name"`
		Value  string `json:"value"`
		Inline bool   `json:"inline"`
	}

	embed struct {
		Title       string       `json:"title"`
		Description string       `json:"description"`
		Color       int          `json:"color"`
		Fields      []embedField `json:"fields"`
		Timestamp   string       `json:"timestamp"`
	}

	payload struct {
		Embeds []embed `json:"embeds"`
	}
)

// Sink posts every event to all configured webhook URLs. Delivery
// succeeds only if every URL accepts the message.
type Sink struct {
	urls   []string
	client *http.Client
	now    func() time.Time
}

var _ mirror.Sink = (*Sink)(nil)

func New(urls []string) *Sink {
	return &Sink{
		urls:   urls,
		client: &http.Client{Timeout: 10 * time.Second},
		now:    time.Now,
	}
}

func (s *Sink) Mirror(ctx context.Context, ev mirror.Event) error {
	if len(s.urls) == 0 {
		return fmt.Errorf("no webhook URLs configured")
	}

	body, err := json.Marshal(s.buildPayload(ev))
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	for _, url := range s.urls {
		if err := s.post(ctx, url, body); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sink) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func (s *Sink) buildPayload(ev mirror.Event) payload {
	r := ev.Record

	color := colorExpense
	title := "Expense Recorded"
	switch {
	case ev.Action == mirror.ActionDeleted:
		color = colorDeleted
		title = "Transaction Deleted"
	case r.Kind == core.Income:
		color = colorIncome
		title = "Income Recorded"
	}

	scope := "Shared"
	if r.Scope == core.Personal {
		scope = "Personal"
	}
	sub := r.SubCategory
	if sub == "" {
		sub = "N/A"
	}
	note := r.Note
	if note == "" {
		note = "No note provided."
	}

	e := embed{
		Title:       title,
		Description: fmt.Sprintf("A transaction has been %s.", ev.Action),
		Color:       color,
		Fields: []embedField{
			{Name: "Transaction ID", Value: fmt.Sprintf("`%s`", r.ID)},
			{Name: "Category", Value: fmt.Sprintf("%s / %s (%s)", r.Category, sub, r.Kind), Inline: true},
			{Name: "Amount", Value: r.Amount.Format(r.Currency), Inline: true},
			{Name: "Date", Value: r.OccurredOn.Key(), Inline: true},
			{Name: "Scope", Value: scope, Inline: true},
			{Name: "Note", Value: note},
		},
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}
	return payload{Embeds: []embed{e}}
}
