package sheets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"visit-tracker/internal/domain"
	"visit-tracker/internal/repository"
	"visit-tracker/pkg/logger"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Columns written per visit: timestamp, ip, user agent, note
const columnSpan = "A:D"

// Config describes where visits are mirrored and how to authenticate
type Config struct {
	SpreadsheetID   string
	WorksheetName   string
	CredentialsJSON string // inline service account key, takes precedence
	CredentialsFile string
}

// Service mirrors visit records to a Google Sheets worksheet.
// It connects on first use and retries the connection on later calls if that fails.
type Service struct {
	cfg    Config
	logger *logger.Logger

	// clientOptions builds the API client options; replaced in tests
	clientOptions func(ctx context.Context) ([]option.ClientOption, error)

	mu     sync.Mutex
	values *sheets.SpreadsheetsValuesService
}

// NewService creates a Sheets backed remote visit repository
func NewService(cfg Config, logger *logger.Logger) *Service {
	s := &Service{
		cfg:    cfg,
		logger: logger.WithField("backend", "google_sheets"),
	}
	s.clientOptions = s.credentialOptions
	return s
}

var _ repository.RemoteVisitRepository = (*Service)(nil)

// Name identifies the backend in logs
func (s *Service) Name() string {
	return "google_sheets"
}

// Append adds the visit as a new row at the end of the worksheet
func (s *Service) Append(ctx context.Context, record domain.VisitRecord) error {
	values, err := s.connect(ctx)
	if err != nil {
		return err
	}

	row := &sheets.ValueRange{
		Values: [][]interface{}{{record.Timestamp, record.IPAddress, record.UserAgent, record.Note}},
	}

	_, err = values.Append(s.cfg.SpreadsheetID, s.sheetRange(), row).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: failed to append row: %w", repository.ErrRemoteUnavailable, err)
	}

	s.logger.WithField("ip", record.IPAddress).Debug("Visit appended to Google Sheets")
	return nil
}

// FetchAll returns every data row below the header row
func (s *Service) FetchAll(ctx context.Context) ([]domain.VisitRecord, error) {
	values, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := values.Get(s.cfg.SpreadsheetID, s.sheetRange()).
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read rows: %w", repository.ErrRemoteUnavailable, err)
	}

	return parseRows(resp.Values)
}

// connect lazily builds the values client and verifies the worksheet exists
func (s *Service) connect(ctx context.Context) (*sheets.SpreadsheetsValuesService, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.values != nil {
		return s.values, nil
	}

	if s.cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("%w: GOOGLE_SHEETS_ID is not set", repository.ErrRemoteNotConfigured)
	}

	opts, err := s.clientOptions(ctx)
	if err != nil {
		return nil, err
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create sheets client: %w", repository.ErrRemoteUnavailable, err)
	}

	spreadsheet, err := svc.Spreadsheets.Get(s.cfg.SpreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open spreadsheet: %w", repository.ErrRemoteUnavailable, err)
	}

	if !hasWorksheet(spreadsheet, s.cfg.WorksheetName) {
		return nil, fmt.Errorf("%w: worksheet %q not found", repository.ErrRemoteUnavailable, s.cfg.WorksheetName)
	}

	s.logger.WithFields(map[string]interface{}{
		"spreadsheet_id": s.cfg.SpreadsheetID,
		"worksheet":      s.cfg.WorksheetName,
	}).Info("Connected to Google Sheets")

	s.values = svc.Spreadsheets.Values
	return s.values, nil
}

// credentialOptions loads service account credentials from inline JSON or a key file
func (s *Service) credentialOptions(ctx context.Context) ([]option.ClientOption, error) {
	raw := []byte(s.cfg.CredentialsJSON)
	if len(raw) == 0 {
		if s.cfg.CredentialsFile == "" {
			return nil, fmt.Errorf("%w: no credentials provided", repository.ErrRemoteNotConfigured)
		}
		data, err := os.ReadFile(s.cfg.CredentialsFile)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: credentials file %s not found", repository.ErrRemoteNotConfigured, s.cfg.CredentialsFile)
			}
			return nil, fmt.Errorf("%w: failed to read credentials file: %w", repository.ErrRemoteUnavailable, err)
		}
		raw = data
	}

	creds, err := google.CredentialsFromJSON(ctx, raw, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid credentials: %w", repository.ErrRemoteUnavailable, err)
	}

	return []option.ClientOption{option.WithCredentials(creds)}, nil
}

// sheetRange quotes the worksheet name so titles with spaces or quotes work
func (s *Service) sheetRange() string {
	name := strings.ReplaceAll(s.cfg.WorksheetName, "'", "''")
	return fmt.Sprintf("'%s'!%s", name, columnSpan)
}

func hasWorksheet(spreadsheet *sheets.Spreadsheet, title string) bool {
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return true
		}
	}
	return false
}

// parseRows skips the header row and pads short rows. Every remaining row is
// one visit, so the record count is the row count minus the header.
func parseRows(rows [][]interface{}) ([]domain.VisitRecord, error) {
	if len(rows) <= 1 {
		return []domain.VisitRecord{}, nil
	}

	records := make([]domain.VisitRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		cells := make([]string, 4)
		for j := 0; j < len(row) && j < len(cells); j++ {
			cell, err := cellString(row[j])
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %v", repository.ErrRemoteMalformed, i+2, j+1, err)
			}
			cells[j] = cell
		}
		records = append(records, domain.VisitRecord{
			Timestamp: cells[0],
			IPAddress: cells[1],
			UserAgent: cells[2],
			Note:      cells[3],
		})
	}
	return records, nil
}

func cellString(v interface{}) (string, error) {
	switch value := v.(type) {
	case nil:
		return "", nil
	case string:
		return value, nil
	case float64, bool:
		return fmt.Sprint(value), nil
	default:
		return "", fmt.Errorf("unexpected cell type %T", v)
	}
}
