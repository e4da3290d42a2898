package sitemap

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// timestampLayouts are tried in order. The compact forms are the
// digit-only timestamps some content stores emit.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"20060102T150405Z",
	"20060102T150405",
	dateLayout,
}

// formatLastMod returns raw as a calendar date, or false when it is empty,
// unparseable, a placeholder or later than now. Placeholders are years
// before 1902 and anything on the epoch day, 1970-01-01, either as written
// or in UTC. The date is taken as written, without converting zones.
func formatLastMod(raw string, now time.Time) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	t, ok := parseTimestamp(raw)
	if !ok {
		return "", false
	}

	utc := t.UTC()
	switch {
	case t.Year() < 1902:
		return "", false
	case isEpochDay(t) || isEpochDay(utc):
		return "", false
	case t.After(now):
		return "", false
	}

	return t.Format(dateLayout), true
}

func isEpochDay(t time.Time) bool {
	return t.Year() == 1970 && t.YearDay() == 1
}

func parseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// valueKeys are the object keys upstream uses to wrap enumerated values.
var valueKeys = []string{"value", "name"}

// flattenValue turns an upstream priority or change frequency into text.
// Strings and numbers pass through; objects are unwrapped by "value" then
// "name". Anything else yields "".
func flattenValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	case map[string]any:
		for _, key := range valueKeys {
			if inner, ok := val[key]; ok {
				if s := flattenValue(inner); s != "" {
					return s
				}
			}
		}
		return ""
	default:
		return ""
	}
}
