// Package importer parses bulk-upload CSV exports of consigners and
// parts into typed records. Malformed fields degrade to defaults or
// absent values; a row is never rejected for a bad field, only for
// missing identity fields.
package importer

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// dateLayouts are tried in order: ISO first, legacy exports second.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"01/02/2006",
}

// Clean trims a raw CSV value and collapses the absent-value tokens
// ("", "-", "NA", "N/A") to not-present. With allowNA the literal
// token is preserved, so "N/A" can be stored as a condition code
// distinct from unknown.
func Clean(value string, allowNA bool) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	switch value {
	case "-", "NA", "N/A":
		if allowNA {
			return value, true
		}
		return "", false
	}
	return value, true
}

// ParseDate cleans the value and parses it as ISO-8601 or MM/DD/YYYY.
// Unparseable dates are logged and dropped; the row keeps importing.
func (im *Importer) ParseDate(value string) *time.Time {
	v, ok := Clean(value, false)
	if !ok {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &t
		}
	}
	im.log.Warnw("invalid date in import row", "value", v)
	return nil
}

// parseMoney parses a required money column, defaulting to zero on
// absent or malformed input.
func parseMoney(value string) decimal.Decimal {
	v, ok := Clean(value, false)
	if !ok {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseOptionalFee parses a fee column where absence is meaningful:
// a missing or malformed commission/fixed fee stays unset rather than
// becoming zero, since absence signals "use the other fee mode or none".
func parseOptionalFee(value string) decimal.NullDecimal {
	v, ok := Clean(value, false)
	if !ok {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// Importer parses CSV exports, logging per-field degradations.
type Importer struct {
	log *zap.SugaredLogger
}

// New creates an importer.
func New(log *zap.SugaredLogger) *Importer {
	return &Importer{log: log}
}
