// Package google reads transfer record sheets from a Google spreadsheet
// using service-account credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"traspasos/internal/core"
	"traspasos/internal/dataset"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

var _ dataset.Source = (*Client)(nil)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
}

func (c *Client) ID() string {
	return c.spreadsheetID
}

// ListSheets returns all sheet titles of the spreadsheet.
func (c *Client) ListSheets(ctx context.Context) ([]string, error) {
	resp, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet: %w", err)
	}
	titles := make([]string, 0, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			titles = append(titles, sh.Properties.Title)
		}
	}
	return titles, nil
}

// ReadSheet reads all rows of the named sheet and parses them into records.
func (c *Client) ReadSheet(ctx context.Context, sheet string) (core.Table, error) {
	titles, err := c.ListSheets(ctx)
	if err != nil {
		return nil, err
	}
	found := false
	for _, t := range titles {
		if t == sheet {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", core.ErrSheetNotFound, sheet)
	}

	rng := fmt.Sprintf("'%s'!A:Z", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get values of %s: %w", sheet, err)
	}
	return parseValues(resp.Values)
}

// parseValues converts a Sheets values matrix into a record table. The
// first row must carry the Fecha / Descripción del Concepto / Datos headers.
func parseValues(values [][]interface{}) (core.Table, error) {
	if len(values) == 0 {
		return core.Table{}, nil
	}

	iFecha, iConcepto, iDatos := -1, -1, -1
	for i, h := range values[0] {
		switch strings.TrimSpace(asString(h)) {
		case "Fecha":
			iFecha = i
		case "Descripción del Concepto":
			iConcepto = i
		case "Datos":
			iDatos = i
		}
	}
	if iFecha == -1 || iConcepto == -1 || iDatos == -1 {
		return nil, fmt.Errorf("%w: header row %v", core.ErrMissingColumn, values[0])
	}

	table := make(core.Table, 0, len(values)-1)
	for _, row := range values[1:] {
		table = append(table, core.Record{
			Fecha:    core.ParseFecha(strings.TrimSpace(safeGet(row, iFecha))),
			Concepto: safeGet(row, iConcepto),
			Datos:    parseDatos(safeGet(row, iDatos)),
		})
	}
	return table, nil
}

func parseDatos(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func safeGet(row []interface{}, i int) string {
	if i < len(row) {
		return asString(row[i])
	}
	return ""
}
