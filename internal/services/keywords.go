package services

// KeywordMap maps a questionnaire option value to the synonym substrings that
// count as a match when found inside a scholarship's text blob. The table is
// constant lookup data loaded once at startup and passed into the scorer; it
// is never mutated at runtime.
type KeywordMap map[string][]string

// DefaultKeywordMap returns a fresh copy of the built-in synonym table so a
// caller can never mutate the shared defaults.
func DefaultKeywordMap() KeywordMap {
	source := KeywordMap{
		"מכינה":      {"מכינה"},
		"תואר ראשון": {"תואר ראשון", "בוגר", "undergraduate"},
		"תואר שני":   {"תואר שני", "תואר מתקדם", "graduate", "master"},
		"הנדסאי":     {"הנדסאי"},
		"הנדסה / מדעים מדויקים":       {"הנדסה", "מדעים מדויקים", "הנדסי", "פיזיקה", "כימיה", "מתמטיקה"},
		"מדעי החברה / כלכלה / ניהול":  {"מדעי החברה", "כלכלה", "ניהול", "מנהל עסקים"},
		"חינוך / מדעי הרוח":           {"חינוך", "מדעי הרוח", "היסטוריה", "ספרות"},
		"רפואה / מקצועות הבריאות":     {"רפואה", "סיעוד", "בריאות", "פרא רפואי"},
		"לפני שירות":                  {"לפני שירות"},
		"במהלך שירות":                 {"במהלך שירות", "חיילים", "בצה"},
		"חייל משוחרר":                 {"משוחרר", "חייל משוחרר"},
		"שירות לאומי / אזרחי":         {"שירות לאומי", "אזרחי"},
		"תושב פריפריה":                {"פריפריה"},
		"עולה חדש":                    {"עולה חדש"},
		"יוצא אתיופיה":                {"אתיופ"},
		"חרדי":                        {"חרדי"},
		"ערבי / דרוזי":                {"ערבי", "דרוזי"},
		"נכות מוכרת":                  {"נכות", "מוגבל"},
	}

	copied := make(KeywordMap, len(source))
	for option, keywords := range source {
		copied[option] = append([]string(nil), keywords...)
	}
	return copied
}
