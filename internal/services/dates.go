package services

import (
	"strings"
	"time"

	"milgapo/scholarship-matcher/internal/models"
)

type datePick string

const (
	pickStart datePick = "start"
	pickEnd   datePick = "end"
)

// Field-name fragments that identify an application window's endpoints. The
// catalog mixes Hebrew and English column names, so both are recognized.
var (
	openFieldNames = []string{
		"תאריך פתיחה",
		"מועד פתיחה",
		"פתיחה",
		"open",
		"start",
		"from",
	}
	closeFieldNames = []string{
		"תאריך סיום",
		"מועד אחרון",
		"דדליין",
		"deadline",
		"close",
		"end",
		"to",
	}
	summaryFieldNames = []string{"תיאור", "תקציר", "summary", "פרטים"}
)

// Accepted date layouts, tried in order.
var dateFormats = []string{"2006-01-02", "02/01/2006", "2006/01/02"}

// parseCatalogDate parses a heterogeneous date value. Range values separated
// by " - " are split and pick chooses the endpoint; a trailing time component
// after "T" is dropped. An unparseable value yields nil, not an error — the
// caller treats it as "no window information".
func parseCatalogDate(value string, pick datePick) *time.Time {
	text := strings.TrimSpace(value)
	if text == "" {
		return nil
	}

	if strings.Contains(text, " - ") {
		var parts []string
		for _, part := range strings.Split(text, " - ") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) == 0 {
			return nil
		}
		if pick == pickStart {
			text = parts[0]
		} else {
			text = parts[len(parts)-1]
		}
	}

	if idx := strings.Index(text, "T"); idx >= 0 {
		text = text[:idx]
	}

	for _, format := range dateFormats {
		if parsed, err := time.Parse(format, text); err == nil {
			return &parsed
		}
	}
	return nil
}

// extractFieldDate scans fields in order and parses the value of the first
// field whose name contains any of the candidate names (case-insensitive).
// Later fields are not consulted once a name matches, even if its value does
// not parse.
func extractFieldDate(fields []models.CatalogField, candidateNames []string, pick datePick) *time.Time {
	lowered := make([]string, len(candidateNames))
	for i, name := range candidateNames {
		lowered[i] = strings.ToLower(name)
	}

	for _, field := range fields {
		name := strings.ToLower(field.Name)
		for _, candidate := range lowered {
			if strings.Contains(name, candidate) {
				return parseCatalogDate(field.Value, pick)
			}
		}
	}
	return nil
}

// findFieldValue returns the value of the first field whose name contains any
// of the given keywords (case-insensitive), or "".
func findFieldValue(fields []models.CatalogField, keywords []string) string {
	for _, field := range fields {
		name := strings.ToLower(field.Name)
		for _, keyword := range keywords {
			if strings.Contains(name, strings.ToLower(keyword)) {
				return field.Value
			}
		}
	}
	return ""
}

// withinWindow reports open <= day <= close at date granularity.
func withinWindow(day, open, close time.Time) bool {
	return !day.Before(open) && !day.After(close)
}
