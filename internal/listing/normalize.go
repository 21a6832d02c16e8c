package listing

import (
	"fmt"
	"strconv"
	"strings"
)

// Scraper and county feeds label the same thing a dozen ways. These maps
// collapse the common variants onto the marketplace enums; anything that
// fails to map stays raw and is caught by structural validation downstream.
var propertyTypeAliases = map[string]PropertyType{
	"house":        PropertySingleFamily,
	"home":         PropertySingleFamily,
	"sfr":          PropertySingleFamily,
	"sfh":          PropertySingleFamily,
	"duplex":       PropertyMultiFamily,
	"triplex":      PropertyMultiFamily,
	"quadplex":     PropertyMultiFamily,
	"apartment":    PropertyMultiFamily,
	"manufactured": PropertyMobileHome,
	"lot":          PropertyLand,
	"vacant_land":  PropertyLand,
	"retail":       PropertyCommercial,
	"office":       PropertyCommercial,
	"industrial":   PropertyCommercial,
}

var conditionAliases = map[string]Condition{
	"new":           ConditionExcellent,
	"like_new":      ConditionExcellent,
	"move_in_ready": ConditionGood,
	"needs_work":    ConditionFair,
	"fixer":         ConditionPoor,
	"fixer_upper":   ConditionPoor,
	"tear_down":     ConditionDistressed,
	"condemned":     ConditionDistressed,
}

// NormalizePropertyType maps a raw scraped label onto a PropertyType.
// The second return value is false when no mapping exists.
func NormalizePropertyType(raw string) (PropertyType, bool) {
	key := snakeCase(raw)
	if pt := PropertyType(key); pt.IsValid() {
		return pt, true
	}
	if pt, ok := propertyTypeAliases[key]; ok {
		return pt, true
	}
	return PropertyType(raw), false
}

// NormalizeCondition maps a raw scraped label onto a Condition.
func NormalizeCondition(raw string) (Condition, bool) {
	key := snakeCase(raw)
	if c := Condition(key); c.IsValid() {
		return c, true
	}
	if c, ok := conditionAliases[key]; ok {
		return c, true
	}
	return Condition(raw), false
}

// NormalizeDealType maps a raw scraped label onto a DealType.
func NormalizeDealType(raw string) (DealType, bool) {
	key := snakeCase(raw)
	if d := DealType(key); d.IsValid() {
		return d, true
	}
	return DealType(raw), false
}

func snakeCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.Join(strings.Fields(s), "_")
}

// ParseAmount parses a dollar amount from the loose formats county and
// listing feeds emit, e.g. "$165,000" or "165000.50".
func ParseAmount(raw string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	return v, nil
}
