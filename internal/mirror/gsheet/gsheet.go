// Package gsheet mirrors ledger changes to a Google Sheets
// spreadsheet, one row appended per event.
package gsheet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/mirror"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/nepali"
)

type Sink struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

var _ mirror.Sink = (*Sink)(nil)

// New creates a sheets sink using service account credentials from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, spreadsheetID, sheetName string) (*Sink, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(sheetName) == "" {
		sheetName = "Transactions"
	}

	creds, err := loadCredentials()
	if err != nil {
		return nil, err
	}

	svc, err := sheets.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Sink{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func loadCredentials() ([]byte, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		return []byte(inline), nil
	}
	path := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if path == "" {
		path = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if path == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	creds, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return creds, nil
}

func (s *Sink) Mirror(ctx context.Context, ev mirror.Event) error {
	if s.svc == nil {
		return errors.New("sheets service not initialized")
	}

	r := ev.Record

	// The Bikram Sambat column is best effort; dates outside the
	// conversion table leave it blank.
	bs := ""
	if nd, err := nepali.FromGregorian(r.OccurredOn.Time()); err == nil {
		bs = nd.String()
	}

	vr := &sheets.ValueRange{Values: [][]any{{
		r.OccurredOn.Key(),
		bs,
		string(r.Kind),
		r.Category,
		r.SubCategory,
		r.Note,
		r.Amount.Units(),
		string(r.Currency),
		string(r.Scope),
		ev.Action,
		r.ID,
	}}}

	rng := fmt.Sprintf("%s!A:K", s.sheetName)
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", s.sheetName, err)
	}
	return nil
}
