package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Range  string
	Query  url.Values
	Body   map[string]any
}

func fakeSheetsServer(t *testing.T, colValues [][]any) (*httptest.Server, *[]recordedRequest) {
	var requests []recordedRequest

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method: r.Method,
			Range:  r.URL.Path,
			Query:  r.URL.Query(),
		}
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&rec.Body)
		}
		requests = append(requests, rec)

		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			json.NewEncoder(w).Encode(map[string]any{"values": colValues})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{})
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, &requests
}

func TestColValues(t *testing.T) {
	server, requests := fakeSheetsServer(t, [][]any{
		{"date"}, {"2024-01-14"}, {}, {"2024-01-15"},
	})
	ws := NewClientWithBase(server.Client(), server.URL).
		Spreadsheet("sheet-id").
		Worksheet("부담제로")

	values, err := ws.ColValues(context.Background(), "A")
	require.NoError(t, err)
	require.Equal(t, []string{"date", "2024-01-14", "", "2024-01-15"}, values)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	require.Equal(t, http.MethodGet, req.Method)
	require.Contains(t, req.Range, "'부담제로'!A:A")
}

func TestUpdateUsesUserEntered(t *testing.T) {
	server, requests := fakeSheetsServer(t, nil)
	ws := NewClientWithBase(server.Client(), server.URL).
		Spreadsheet("sheet-id").
		Worksheet("뉴턴젤리")

	err := ws.Update(context.Background(), "B2:G2", []any{100, 2, "", "", 55, 1})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	require.Equal(t, http.MethodPut, req.Method)
	require.Equal(t, "USER_ENTERED", req.Query.Get("valueInputOption"))

	rows, ok := req.Body["values"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 1)
	require.Equal(t, []any{float64(100), float64(2), "", "", float64(55), float64(1)}, rows[0])
}

func TestAppendRow(t *testing.T) {
	server, requests := fakeSheetsServer(t, nil)
	ws := NewClientWithBase(server.Client(), server.URL).
		Spreadsheet("sheet-id").
		Worksheet("부담제로")

	err := ws.AppendRow(context.Background(), []any{"2024-01-15"})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	require.Equal(t, http.MethodPost, req.Method)
	require.Contains(t, req.Range, ":append")
	require.Equal(t, "INSERT_ROWS", req.Query.Get("insertDataOption"))
}

func TestServerErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "The caller does not have permission"}}`, http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	ws := NewClientWithBase(server.Client(), server.URL).
		Spreadsheet("sheet-id").
		Worksheet("부담제로")

	_, err := ws.ColValues(context.Background(), "A")
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not have permission")
}

func TestMissingCredentialFile(t *testing.T) {
	_, err := NewClient(context.Background(), "/nonexistent/sa.json")

	var credErr *CredentialError
	require.ErrorAs(t, err, &credErr)
	require.Equal(t, "/nonexistent/sa.json", credErr.Path)
}
