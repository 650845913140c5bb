// Package sheets is a minimal Google Sheets v4 values client, just the
// three calls the daily pipeline needs: read a column, update a range,
// append a row.
package sheets

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"salespipe-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2/google"
)

const baseURL = "https://sheets.googleapis.com"

var Scopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive",
}

type Client struct {
	http *resty.Client
}

// NewClient builds a client authorized by a service account JSON key
// file. The sheet must be shared with the service account's email for
// writes to succeed.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, &CredentialError{Path: credentialsFile, Err: err}
	}
	conf, err := google.JWTConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, &CredentialError{Path: credentialsFile, Err: err}
	}
	return newClient(conf.Client(ctx), baseURL), nil
}

// NewClientWithBase skips service account auth and points the client
// at an arbitrary endpoint, used against fakes in tests.
func NewClientWithBase(httpClient *http.Client, base string) *Client {
	return newClient(httpClient, base)
}

func newClient(httpClient *http.Client, base string) *Client {
	client := resty.NewWithClient(httpClient)
	client.SetBaseURL(base)
	telemetry.InstrumentResty(client, "lib/sheets/http")
	return &Client{http: client}
}

func (c *Client) Spreadsheet(id string) Spreadsheet {
	return Spreadsheet{http: c.http, id: id}
}

type Spreadsheet struct {
	http *resty.Client
	id   string
}

func (s Spreadsheet) Worksheet(title string) *Worksheet {
	return &Worksheet{http: s.http, spreadsheet: s.id, title: title}
}

// Worksheet is one tab of a spreadsheet. All writes use the
// USER_ENTERED input option so numeric strings land as numbers, not
// text.
type Worksheet struct {
	http        *resty.Client
	spreadsheet string
	title       string
}

func (w *Worksheet) Title() string {
	return w.title
}

// rangeName quotes the worksheet title for A1 notation, titles here
// are korean brand names which sheets requires to be quoted.
func (w *Worksheet) rangeName(ref string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(w.title, "'", "''"), ref)
}

// ColValues returns the cell values of a column ("A") from the top,
// one entry per row up to the last non-empty row.
func (w *Worksheet) ColValues(ctx context.Context, col string) ([]string, error) {
	var out struct {
		Values [][]any `json:"values"`
	}
	res, err := w.http.R().
		SetContext(ctx).
		SetPathParam("spreadsheet", w.spreadsheet).
		SetPathParam("range", w.rangeName(col+":"+col)).
		SetResult(&out).
		Get("/v4/spreadsheets/{spreadsheet}/values/{range}")
	if err != nil {
		return nil, fmt.Errorf("read column %s of %s: %w", col, w.title, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("read column %s of %s: %s: %s", col, w.title, res.Status(), res.String())
	}

	values := make([]string, len(out.Values))
	for i, row := range out.Values {
		if len(row) > 0 {
			values[i] = fmt.Sprint(row[0])
		}
	}
	return values, nil
}

// Update writes one row of values into a contiguous range
// ("B2:G2") in a single call.
func (w *Worksheet) Update(ctx context.Context, ref string, values []any) error {
	res, err := w.http.R().
		SetContext(ctx).
		SetPathParam("spreadsheet", w.spreadsheet).
		SetPathParam("range", w.rangeName(ref)).
		SetQueryParam("valueInputOption", "USER_ENTERED").
		SetBody(map[string]any{"values": [][]any{values}}).
		Put("/v4/spreadsheets/{spreadsheet}/values/{range}")
	if err != nil {
		return fmt.Errorf("update %s of %s: %w", ref, w.title, err)
	}
	if res.IsError() {
		return fmt.Errorf("update %s of %s: %s: %s", ref, w.title, res.Status(), res.String())
	}
	return nil
}

// AppendRow appends a row after the last non-empty row of the sheet.
func (w *Worksheet) AppendRow(ctx context.Context, values []any) error {
	res, err := w.http.R().
		SetContext(ctx).
		SetPathParam("spreadsheet", w.spreadsheet).
		SetPathParam("range", w.rangeName("A1")).
		SetQueryParam("valueInputOption", "USER_ENTERED").
		SetQueryParam("insertDataOption", "INSERT_ROWS").
		SetBody(map[string]any{"values": [][]any{values}}).
		Post("/v4/spreadsheets/{spreadsheet}/values/{range}:append")
	if err != nil {
		return fmt.Errorf("append row to %s: %w", w.title, err)
	}
	if res.IsError() {
		return fmt.Errorf("append row to %s: %s: %s", w.title, res.Status(), res.String())
	}
	return nil
}
