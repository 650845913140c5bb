package dailysales

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetricsFromSimple(t *testing.T) {
	m := MetricsFromSimple(map[string]any{
		"status": "ok",
		"date":   "2024-01-15",
		"sales":  float64(688100),
		"orders": float64(19),
		"raw":    "688,100 원 19건",
	})
	require.Equal(t, DailyMetrics{Sales: 688100, Orders: 19}, m)
}

func TestMetricsFromSimpleStringValues(t *testing.T) {
	m := MetricsFromSimple(map[string]any{"sales": "688,100 원", "orders": "19건"})
	require.Equal(t, DailyMetrics{Sales: 688100, Orders: 19}, m)
}

func TestMetricsFromSimpleMissingFields(t *testing.T) {
	require.Equal(t, DailyMetrics{}, MetricsFromSimple(map[string]any{"status": "ok"}))
	require.Equal(t, DailyMetrics{}, MetricsFromSimple(nil))
	require.Equal(t, DailyMetrics{}, MetricsFromSimple(map[string]any{
		"sales":  nil,
		"orders": []any{"garbage"},
	}))
}

func TestAdMetricsForBrand(t *testing.T) {
	payload := map[string]any{
		"mapped": map[string]any{
			"burdenzero": map[string]any{"spend": "12,000", "purchases": "3"},
		},
	}
	m := AdMetricsForBrand(payload, Brand{Key: "burdenzero"})
	require.Equal(t, AdMetrics{Spend: 12000, Purchases: 3}, m)
}

func TestAdMetricsSpendAliases(t *testing.T) {
	for _, alias := range []string{"spend", "amount_spent", "ad_spend", "cost", "spend_krw", "cost_krw"} {
		payload := map[string]any{
			"data": map[string]any{
				"burdenzero": map[string]any{alias: "5,500원", "purchases": 1},
			},
		}
		m := AdMetricsForBrand(payload, Brand{Key: "burdenzero"})
		require.Equal(t, 5500, m.Spend, "alias: %s", alias)
	}
}

func TestContainerKeyPriority(t *testing.T) {
	// "mapped" outranks "data" even when both are present
	payload := map[string]any{
		"data":   map[string]any{"burdenzero": map[string]any{"sales": 1}},
		"mapped": map[string]any{"burdenzero": map[string]any{"sales": 2}},
	}
	m := MetricsForBrand(payload, Brand{Key: "burdenzero"})
	require.Equal(t, 2, m.Sales)
}

func TestBrandKeyedPayloadWithoutContainer(t *testing.T) {
	payload := map[string]any{
		"burdenzero": map[string]any{"sales": 7, "orders": 2},
	}
	m := MetricsForBrand(payload, Brand{Key: "burdenzero"})
	require.Equal(t, DailyMetrics{Sales: 7, Orders: 2}, m)
}

func TestNativeBrandNameFallback(t *testing.T) {
	payload := map[string]any{
		"brands": map[string]any{
			"부담제로": map[string]any{"sales": "1,000", "orders": 1},
		},
	}
	m := MetricsForBrand(payload, Brand{Key: "burdenzero", NativeNames: []string{"부담제로"}})
	require.Equal(t, DailyMetrics{Sales: 1000, Orders: 1}, m)
}

func TestFuzzyBrandKeyFallback(t *testing.T) {
	payload := map[string]any{
		"mapped": map[string]any{
			"Burden_Zero ": map[string]any{"sales": 3, "orders": 1},
		},
	}
	m := MetricsForBrand(payload, Brand{Key: "burdenzero"})
	require.Equal(t, DailyMetrics{Sales: 3, Orders: 1}, m)
}

func TestUnknownBrandZeroFilled(t *testing.T) {
	payload := map[string]any{
		"mapped": map[string]any{
			"somethingelse": map[string]any{"sales": 3},
		},
	}
	require.Equal(t, DailyMetrics{}, MetricsForBrand(payload, Brand{Key: "burdenzero"}))
	require.Equal(t, AdMetrics{}, AdMetricsForBrand(payload, Brand{Key: "burdenzero"}))
}

func TestNormalizerNeverPanics(t *testing.T) {
	payloads := []map[string]any{
		nil,
		{},
		{"mapped": "not an object"},
		{"mapped": map[string]any{"burdenzero": "not an object"}},
		{"mapped": map[string]any{"burdenzero": map[string]any{"sales": map[string]any{}}}},
		{"data": []any{1, 2, 3}},
	}
	for _, payload := range payloads {
		require.NotPanics(t, func() {
			MetricsForBrand(payload, Brand{Key: "burdenzero"})
			AdMetricsForBrand(payload, Brand{Key: "burdenzero"})
			MetricsFromSimple(payload)
		})
	}
}
