package dailysales

import (
	"salespipe-backend/lib/textutil"

	"github.com/antzucaro/matchr"
)

// DailyMetrics is one sales channel's result for one brand on one day.
type DailyMetrics struct {
	Sales  int
	Orders int
}

// AdMetrics is one ad channel's result for one brand on one day.
type AdMetrics struct {
	Spend     int
	Purchases int
}

// scraper payloads are not stable across channels or versions, so
// every lookup goes through ordered priority lists instead of a single
// fixed key. order matters, the first present key wins.
var containerKeys = []string{"mapped", "brands", "by_brand", "data"}

var salesKeys = []string{"sales", "revenue", "total_sales", "sales_krw", "amount"}
var orderKeys = []string{"orders", "order_count", "purchase_count"}
var spendKeys = []string{"spend", "amount_spent", "ad_spend", "cost", "spend_krw", "cost_krw"}
var purchaseKeys = []string{"purchases", "purchase", "purchase_count", "orders", "results", "conversions"}

// brand keys that aren't an exact or native-name hit still match when
// they normalize to nearly the same string ("Burden_Zero ")
const fuzzyBrandThreshold = 0.92

// Brand identifies one brand across payloads: the english id the
// scrapers are asked for via --profile, plus the native-language
// display names some consoles report instead.
type Brand struct {
	Key         string
	NativeNames []string
}

func firstOf(payload map[string]any, keys []string) any {
	for _, key := range keys {
		value, ok := payload[key]
		if ok && value != nil {
			return value
		}
	}
	return nil
}

// MetricsFromSimple normalizes a single-brand payload. Absent, null or
// non-numeric fields coerce to 0, this never fails.
func MetricsFromSimple(payload map[string]any) DailyMetrics {
	return DailyMetrics{
		Sales:  textutil.CoerceInt(firstOf(payload, salesKeys)),
		Orders: textutil.CoerceInt(firstOf(payload, orderKeys)),
	}
}

// BrandContainer locates the brand-keyed object of a multi-brand
// payload. When no known container key holds an object the payload
// itself is assumed to be brand-keyed.
func BrandContainer(payload map[string]any) map[string]any {
	for _, key := range containerKeys {
		if obj, ok := payload[key].(map[string]any); ok {
			return obj
		}
	}
	return payload
}

// MetricsForBrand normalizes one brand's entry out of a multi-brand
// payload. A missing or malformed entry yields zero-filled metrics.
func MetricsForBrand(payload map[string]any, brand Brand) DailyMetrics {
	return MetricsFromSimple(brandEntry(BrandContainer(payload), brand))
}

// AdMetricsForBrand is MetricsForBrand for ad channels.
func AdMetricsForBrand(payload map[string]any, brand Brand) AdMetrics {
	entry := brandEntry(BrandContainer(payload), brand)
	return AdMetrics{
		Spend:     textutil.CoerceInt(firstOf(entry, spendKeys)),
		Purchases: textutil.CoerceInt(firstOf(entry, purchaseKeys)),
	}
}

// brandEntry resolves a brand inside a brand-keyed container: exact
// key first, then native display names, then a fuzzy pass over the
// normalized keys (same JaroWinkler matching the retailer consoles
// already forced on the scrapers).
func brandEntry(container map[string]any, brand Brand) map[string]any {
	if obj, ok := container[brand.Key].(map[string]any); ok {
		return obj
	}
	for _, name := range brand.NativeNames {
		if obj, ok := container[name].(map[string]any); ok {
			return obj
		}
	}

	want := textutil.NormalizeKey(brand.Key)
	var bestSimilarity float64
	var best map[string]any
	for key, value := range container {
		obj, ok := value.(map[string]any)
		if !ok {
			continue
		}
		similarity := matchr.JaroWinkler(textutil.NormalizeKey(key), want, false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = obj
		}
	}
	if bestSimilarity >= fuzzyBrandThreshold {
		return best
	}
	return nil
}
