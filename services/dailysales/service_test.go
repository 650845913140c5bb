package dailysales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"salespipe-backend/lib/testutil"
	"salespipe-backend/services/dailysales/db"

	"github.com/stretchr/testify/require"
)

type fakeInvoker struct {
	payloads map[string]map[string]any
	failing  map[string]error
	calls    []string
}

func (f *fakeInvoker) Run(ctx context.Context, script string, args ...string) (map[string]any, error) {
	call := strings.Join(append([]string{script}, args...), " ")
	f.calls = append(f.calls, call)
	if err, ok := f.failing[script]; ok {
		return nil, err
	}
	payload, ok := f.payloads[call]
	if !ok {
		return nil, fmt.Errorf("unexpected invocation: %s", call)
	}
	return payload, nil
}

type fakeWorksheet struct {
	title    string
	dates    []string
	updates  map[string][]any
	appended [][]any
}

func (f *fakeWorksheet) Title() string { return f.title }

func (f *fakeWorksheet) ColValues(ctx context.Context, col string) ([]string, error) {
	return f.dates, nil
}

func (f *fakeWorksheet) Update(ctx context.Context, ref string, values []any) error {
	if f.updates == nil {
		f.updates = map[string][]any{}
	}
	f.updates[ref] = values
	return nil
}

func (f *fakeWorksheet) AppendRow(ctx context.Context, values []any) error {
	f.appended = append(f.appended, values)
	return nil
}

type fakeSpreadsheet struct {
	worksheets map[string]*fakeWorksheet
}

func (f *fakeSpreadsheet) Worksheet(title string) Worksheet {
	ws, ok := f.worksheets[title]
	if !ok {
		ws = &fakeWorksheet{title: title}
		if f.worksheets == nil {
			f.worksheets = map[string]*fakeWorksheet{}
		}
		f.worksheets[title] = ws
	}
	return ws
}

func testConfig() Config {
	return Config{
		Spreadsheet:     "sheet-id",
		CredentialsFile: "creds.json",
		SalesChannels: []ChannelConfig{
			{Name: "cafe24", Script: "cafe24.py", PerBrand: true},
			{Name: "coupang", Script: "coupang.py"},
			{Name: "naver", Script: "naver.py"},
		},
		AdsChannel: &ChannelConfig{Name: "coupang_ads", Script: "coupang_ads.py"},
		Brands: []BrandConfig{
			{
				Key:         "burdenzero",
				Worksheet:   "부담제로",
				NativeNames: []string{"부담제로"},
				Channels:    []string{"cafe24", "coupang", "naver"},
				Ads:         true,
			},
			{
				Key:       "brainology",
				Worksheet: "뉴턴젤리",
				Channels:  []string{"cafe24", "coupang"},
				Ads:       true,
			},
		},
	}
}

func TestRunWritesEveryBrandRow(t *testing.T) {
	invoker := &fakeInvoker{payloads: map[string]map[string]any{
		"cafe24.py --profile burdenzero --date 2024-01-15": {"sales": float64(100), "orders": float64(2)},
		"cafe24.py --profile brainology --date 2024-01-15": {"sales": "688,100 원", "orders": "19건"},
		"coupang.py --date 2024-01-15": {
			"mapped": map[string]any{
				"burdenzero": map[string]any{"sales": float64(50), "orders": float64(1)},
				"brainology": map[string]any{"sales": float64(30), "orders": float64(1)},
			},
		},
		"naver.py --date 2024-01-15": {
			"brands": map[string]any{
				"부담제로": map[string]any{"sales": float64(10), "orders": float64(1)},
			},
		},
		"coupang_ads.py --date 2024-01-15": {
			"mapped": map[string]any{
				"burdenzero": map[string]any{"spend": "12,000", "purchases": "3"},
				"brainology": map[string]any{"spend": float64(4000), "purchases": float64(1)},
			},
		},
	}}
	sheet := &fakeSpreadsheet{}

	svc, err := NewService(testConfig(), invoker, sheet, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Run(context.Background(), "2024-01-15"))

	burdenzero := sheet.worksheets["부담제로"]
	require.Equal(t, [][]any{{"2024-01-15"}}, burdenzero.appended)
	require.Equal(t, []any{100, 2, 50, 1, 10, 1}, burdenzero.updates["B1:G1"])
	require.Equal(t, []any{12000, 3}, burdenzero.updates["J1:K1"])

	// brainology has no naver channel, F-G stay empty rather than 0
	brainology := sheet.worksheets["뉴턴젤리"]
	require.Equal(t, []any{688100, 19, 30, 1, "", ""}, brainology.updates["B1:G1"])
	require.Equal(t, []any{4000, 1}, brainology.updates["J1:K1"])
}

func TestRunReusesExistingDateRow(t *testing.T) {
	invoker := &fakeInvoker{payloads: map[string]map[string]any{
		"cafe24.py --profile burdenzero --date 2024-01-15": {"sales": float64(1), "orders": float64(1)},
	}}
	ws := &fakeWorksheet{
		title: "부담제로",
		dates: []string{"Date", "2024-01-14", " 2024-01-15 ", "2024-01-16"},
	}
	sheet := &fakeSpreadsheet{worksheets: map[string]*fakeWorksheet{"부담제로": ws}}

	config := testConfig()
	config.AdsChannel = nil
	config.SalesChannels = config.SalesChannels[:1]
	config.Brands = []BrandConfig{{
		Key:       "burdenzero",
		Worksheet: "부담제로",
		Channels:  []string{"cafe24"},
	}}

	svc, err := NewService(config, invoker, sheet, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Run(context.Background(), "2024-01-15"))

	require.Empty(t, ws.appended)
	require.Equal(t, []any{1, 1, "", "", "", ""}, ws.updates["B3:G3"])
}

func TestRunAbortsBeforeAnyWriteOnScraperFailure(t *testing.T) {
	scriptErr := errors.New("login form changed")
	invoker := &fakeInvoker{
		payloads: map[string]map[string]any{
			"cafe24.py --profile burdenzero --date 2024-01-15": {"sales": float64(1), "orders": float64(1)},
			"cafe24.py --profile brainology --date 2024-01-15": {"sales": float64(1), "orders": float64(1)},
		},
		failing: map[string]error{"coupang.py": scriptErr},
	}
	sheet := &fakeSpreadsheet{}

	svc, err := NewService(testConfig(), invoker, sheet, nil)
	require.NoError(t, err)

	err = svc.Run(context.Background(), "2024-01-15")
	require.ErrorIs(t, err, scriptErr)
	require.ErrorContains(t, err, "collect coupang")
	for _, ws := range sheet.worksheets {
		require.Empty(t, ws.updates)
		require.Empty(t, ws.appended)
	}
}

func TestRunRecordsHistory(t *testing.T) {
	result, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "dailysales",
		DbSchema: db.Schema,
	})
	defer cleanup()

	invoker := &fakeInvoker{payloads: map[string]map[string]any{
		"cafe24.py --profile burdenzero --date 2024-01-15": {"sales": float64(100), "orders": float64(2)},
	}}
	config := testConfig()
	config.AdsChannel = nil
	config.SalesChannels = config.SalesChannels[:1]
	config.Brands = []BrandConfig{{
		Key:       "burdenzero",
		Worksheet: "부담제로",
		Channels:  []string{"cafe24"},
	}}

	svc, err := NewService(config, invoker, &fakeSpreadsheet{}, db.New(result.DB))
	require.NoError(t, err)
	require.NoError(t, svc.Run(context.Background(), "2024-01-15"))

	records, err := db.New(result.DB).GetRecordsByDate(context.Background(), "2024-01-15")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "burdenzero", records[0].Brand)
	require.Equal(t, "cafe24", records[0].Channel)
	require.Equal(t, int64(100), records[0].Sales.Int64)
	require.Equal(t, int64(2), records[0].Orders.Int64)
	require.False(t, records[0].Spend.Valid)
}

func TestValidateRejectsIncompleteConfig(t *testing.T) {
	config := testConfig()
	config.Spreadsheet = ""
	var confErr *ConfigError
	require.ErrorAs(t, config.Validate(), &confErr)
	require.Equal(t, "spreadsheet", confErr.Key)

	config = testConfig()
	config.Brands[0].Channels = []string{"cafe24", "coupang", "naver", "etc"}
	require.Error(t, config.Validate())

	config = testConfig()
	config.Brands[0].Channels = []string{"nope"}
	require.ErrorContains(t, config.Validate(), "unknown channel")

	require.NoError(t, testConfig().Validate())
}
