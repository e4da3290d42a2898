package sitemap_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zescabedo/globalpayments-poc-sub001/internal/sitemap"
)

func TestFormatLastMod(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{name: "rfc3339", raw: "2024-01-15T10:00:00Z", want: "2024-01-15", ok: true},
		{name: "rfc3339 with offset keeps written date", raw: "2024-01-15T23:30:00-05:00", want: "2024-01-15", ok: true},
		{name: "fractional seconds", raw: "2024-03-02T08:00:00.1234567Z", want: "2024-03-02", ok: true},
		{name: "compact utc", raw: "20240115T100000Z", want: "2024-01-15", ok: true},
		{name: "compact local", raw: "20231231T235959", want: "2023-12-31", ok: true},
		{name: "compact 1900 placeholder", raw: "19000101T000000", ok: false},
		{name: "1901 placeholder", raw: "1901-01-01T00:00:00Z", ok: false},
		{name: "zero time", raw: "0001-01-01T00:00:00Z", ok: false},
		{name: "unix epoch", raw: "1970-01-01T00:00:00Z", ok: false},
		{name: "later on the epoch day", raw: "1970-01-01T15:30:00Z", ok: false},
		{name: "compact epoch day", raw: "19700101T000000", ok: false},
		{name: "epoch instant in another zone", raw: "1969-12-31T19:00:00-05:00", ok: false},
		{name: "epoch day as written", raw: "1970-01-01T20:00:00-05:00", ok: false},
		{name: "day after the epoch", raw: "1970-01-02T00:00:00Z", want: "1970-01-02", ok: true},
		{name: "future", raw: "2025-06-02T00:00:00Z", ok: false},
		{name: "empty", raw: "", ok: false},
		{name: "garbage", raw: "yesterday", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := sitemap.FormatLastMod(tt.raw, now)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlattenValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "string", in: " weekly ", want: "weekly"},
		{name: "float", in: 0.8, want: "0.8"},
		{name: "integer float", in: float64(1), want: "1"},
		{name: "json number", in: json.Number("0.5"), want: "0.5"},
		{name: "value object", in: map[string]any{"value": "0.3"}, want: "0.3"},
		{name: "name object", in: map[string]any{"name": "monthly"}, want: "monthly"},
		{name: "nested", in: map[string]any{"value": map[string]any{"name": "daily"}}, want: "daily"},
		{name: "empty value falls back to name", in: map[string]any{"value": "", "name": "yearly"}, want: "yearly"},
		{name: "bool ignored", in: true, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sitemap.FlattenValue(tt.in))
		})
	}
}
