package models

import (
	"fmt"
	"time"
)

// Document field names on the wire.
const (
	FieldID          = "id"
	FieldAmount      = "amount"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldDate        = "date"
	FieldUserID      = "userId"
	FieldCreatedAt   = "createdAt"
)

// TimestampLayout is the ISO-8601 form timestamps are written in.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Document is a raw record as held by the remote document store. Values are
// JSON-compatible: strings, float64, bool, nil, nested maps and slices.
type Document map[string]any

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts any RFC 3339 timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// ToDocument converts e to its wire form. The id is not part of the stored
// fields and is omitted.
func (e Expense) ToDocument() Document {
	return Document{
		FieldAmount:      e.Amount.String(),
		FieldDescription: e.Description,
		FieldCategory:    string(e.Category),
		FieldDate:        FormatTimestamp(e.Date),
		FieldUserID:      e.UserID,
		FieldCreatedAt:   FormatTimestamp(e.CreatedAt),
	}
}

// FromDocument decodes a raw document. The amount may be a string or a
// number. A missing createdAt decodes to the zero time; every other field is
// required.
func FromDocument(doc Document) (Expense, error) {
	var (
		e   Expense
		err error
	)

	if e.ID, err = requireString(doc, FieldID); err != nil {
		return Expense{}, err
	}

	raw, ok := doc[FieldAmount]
	if !ok {
		return Expense{}, invalid(FieldAmount, "missing")
	}
	if e.Amount, err = ParseAmount(raw); err != nil {
		return Expense{}, invalid(FieldAmount, err.Error())
	}

	if e.Description, err = requireString(doc, FieldDescription); err != nil {
		return Expense{}, err
	}

	category, err := requireString(doc, FieldCategory)
	if err != nil {
		return Expense{}, err
	}
	e.Category = Category(category)
	if !e.Category.Valid() {
		return Expense{}, invalid(FieldCategory, fmt.Sprintf("unknown category %q", category))
	}

	if e.Date, err = requireTime(doc, FieldDate); err != nil {
		return Expense{}, err
	}

	if e.UserID, err = requireString(doc, FieldUserID); err != nil {
		return Expense{}, err
	}

	if _, ok := doc[FieldCreatedAt]; ok {
		if e.CreatedAt, err = requireTime(doc, FieldCreatedAt); err != nil {
			return Expense{}, err
		}
	}

	return e, nil
}

func requireString(doc Document, field string) (string, error) {
	v, ok := doc[field]
	if !ok {
		return "", invalid(field, "missing")
	}
	s, ok := v.(string)
	if !ok {
		return "", invalid(field, fmt.Sprintf("expected string, got %T", v))
	}
	if s == "" {
		return "", invalid(field, "must not be empty")
	}
	return s, nil
}

func requireTime(doc Document, field string) (time.Time, error) {
	s, err := requireString(doc, field)
	if err != nil {
		return time.Time{}, err
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, invalid(field, "not an ISO-8601 timestamp")
	}
	return t, nil
}
