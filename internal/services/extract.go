package services

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"milgapo/scholarship-matcher/internal/models"
)

const (
	untitledScholarship = "מלגה ללא כותרת"
	unavailableValue    = "לא זמין"
)

// Requirement column names recognized in the catalog, per flag. Order matters:
// the first name present in the record wins, and once a name matches the
// remaining candidates for that flag are not consulted — even when the
// matching field resolves to unknown.
var requirementFieldNames = map[string][]string{
	"volunteering": {
		"RequiresVolunteering",
		"VolunteeringRequired",
		"Requires Volunteering",
		"התנדבות נדרשת",
	},
	"military": {
		"RequiresMilitaryService",
		"MilitaryServiceRequired",
		"Requires Military Service",
		"שירות צבאי נדרש",
	},
}

var (
	requirementYesValues = []string{"כן", "נדרש", "חובה"}
	requirementNoValues  = []string{"לא", "אופציונלי"}
)

func joinPlainText(items gjson.Result) string {
	var sb strings.Builder
	items.ForEach(func(_, item gjson.Result) bool {
		sb.WriteString(item.Get("plain_text").String())
		return true
	})
	return sb.String()
}

// extractPropertyValue renders a single Notion property to text. Multi-select
// properties return their option names joined later by the caller; every
// other type renders to a single string. Unrecognized property types render
// as a fixed placeholder instead of failing the record.
func extractPropertyValue(prop gjson.Result) (string, []string) {
	switch prop.Get("type").String() {
	case "title":
		return joinPlainText(prop.Get("title")), nil
	case "rich_text":
		return joinPlainText(prop.Get("rich_text")), nil
	case "select":
		return prop.Get("select.name").String(), nil
	case "multi_select":
		var options []string
		prop.Get("multi_select").ForEach(func(_, item gjson.Result) bool {
			options = append(options, item.Get("name").String())
			return true
		})
		return "", options
	case "date":
		start := prop.Get("date.start").String()
		end := prop.Get("date.end").String()
		if start != "" && end != "" {
			return start + " - " + end, nil
		}
		return start, nil
	case "url":
		return prop.Get("url").String(), nil
	case "email":
		return prop.Get("email").String(), nil
	case "phone_number":
		return prop.Get("phone_number").String(), nil
	case "number":
		number := prop.Get("number")
		if !number.Exists() || number.Type == gjson.Null {
			return "", nil
		}
		return number.String(), nil
	case "checkbox":
		if prop.Get("checkbox").Bool() {
			return "כן", nil
		}
		return "לא", nil
	case "people":
		var names []string
		prop.Get("people").ForEach(func(_, person gjson.Result) bool {
			names = append(names, person.Get("name").String())
			return true
		})
		return strings.Join(names, ", "), nil
	case "files":
		var files []string
		prop.Get("files").ForEach(func(_, file gjson.Result) bool {
			name := file.Get("name").String()
			url := file.Get("file.url").String()
			if url == "" {
				url = file.Get("external.url").String()
			}
			if name != "" {
				files = append(files, name)
			} else if url != "" {
				files = append(files, url)
			}
			return true
		})
		return strings.Join(files, ", "), nil
	case "relation":
		count := prop.Get("relation.#").Int()
		return fmt.Sprintf("%d פריטים", count), nil
	case "formula":
		formulaType := prop.Get("formula.type").String()
		if formulaType == "" {
			return "", nil
		}
		return prop.Get("formula." + formulaType).String(), nil
	case "rollup":
		rollupType := prop.Get("rollup.type").String()
		if rollupType == "" {
			return "", nil
		}
		if rollupType == "array" {
			return fmt.Sprintf("%d", prop.Get("rollup.array.#").Int()), nil
		}
		return prop.Get("rollup." + rollupType).String(), nil
	case "":
		return "", nil
	default:
		return unavailableValue, nil
	}
}

// propertyText renders a property for the blob: list values are flattened to
// space-joined text.
func propertyText(prop gjson.Result) string {
	value, options := extractPropertyValue(prop)
	if options != nil {
		var nonEmpty []string
		for _, option := range options {
			if option != "" {
				nonEmpty = append(nonEmpty, option)
			}
		}
		return strings.Join(nonEmpty, " ")
	}
	return value
}

func matchesAnyValue(value string, candidates []string) bool {
	for _, candidate := range candidates {
		if value == candidate {
			return true
		}
	}
	return false
}

// extractRequirement resolves one requirement flag from the record's
// properties. Checkbox columns map directly; select/multi-select columns map
// through the yes/no option sets; anything else is unknown.
func extractRequirement(props gjson.Result, fieldNames []string) *bool {
	for _, name := range fieldNames {
		prop := props.Get(escapeGJSONPath(name))
		if !prop.Exists() {
			continue
		}
		switch prop.Get("type").String() {
		case "checkbox":
			value := prop.Get("checkbox").Bool()
			return &value
		case "select":
			value := prop.Get("select.name").String()
			if matchesAnyValue(value, requirementYesValues) {
				yes := true
				return &yes
			}
			if matchesAnyValue(value, requirementNoValues) {
				no := false
				return &no
			}
		case "multi_select":
			var values []string
			prop.Get("multi_select").ForEach(func(_, item gjson.Result) bool {
				values = append(values, item.Get("name").String())
				return true
			})
			for _, value := range values {
				if matchesAnyValue(value, requirementYesValues) {
					yes := true
					return &yes
				}
			}
			for _, value := range values {
				if matchesAnyValue(value, requirementNoValues) {
					no := false
					return &no
				}
			}
		}
		return nil
	}
	return nil
}

func extractRequirements(props gjson.Result) models.Requirements {
	return models.Requirements{
		Volunteering: extractRequirement(props, requirementFieldNames["volunteering"]),
		Military:     extractRequirement(props, requirementFieldNames["military"]),
	}
}

// findBestURL returns the first non-empty url-typed property, falling back to
// the first file attachment URL.
func findBestURL(props gjson.Result) string {
	best := ""
	props.ForEach(func(_, prop gjson.Result) bool {
		switch prop.Get("type").String() {
		case "url":
			if url := prop.Get("url").String(); url != "" {
				best = url
				return false
			}
		case "files":
			if best != "" {
				return true
			}
			prop.Get("files").ForEach(func(_, file gjson.Result) bool {
				url := file.Get("file.url").String()
				if url == "" {
					url = file.Get("external.url").String()
				}
				if url != "" && best == "" {
					best = url
					return false
				}
				return true
			})
		}
		return true
	})
	return best
}

// escapeGJSONPath escapes path control characters in a property name so it
// can be looked up literally.
func escapeGJSONPath(name string) string {
	replacer := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	return replacer.Replace(name)
}

// buildCatalogRecord converts one raw page into a CatalogRecord: the blob
// concatenates every property's text (title included), fields keep the
// ordered non-empty named values minus the title, and multi-select values are
// siphoned into tags.
func buildCatalogRecord(page gjson.Result) models.CatalogRecord {
	props := page.Get("properties")

	record := models.CatalogRecord{
		ID:           page.Get("id").String(),
		Requirements: extractRequirements(props),
		URL:          findBestURL(props),
	}

	var blobParts []string
	props.ForEach(func(name, prop gjson.Result) bool {
		propType := prop.Get("type").String()
		value, options := extractPropertyValue(prop)
		text := propertyText(prop)
		if text != "" {
			blobParts = append(blobParts, text)
		}

		if propType == "title" {
			if record.Title == "" {
				record.Title = value
			}
			return true
		}
		if propType == "multi_select" {
			for _, tag := range options {
				if tag != "" {
					record.Tags = append(record.Tags, tag)
				}
			}
			return true
		}
		if text == "" {
			return true
		}
		record.Fields = append(record.Fields, models.CatalogField{Name: name.String(), Value: text})
		return true
	})

	record.Blob = strings.Join(blobParts, " ")
	if record.Title == "" {
		record.Title = untitledScholarship
	}
	return record
}
