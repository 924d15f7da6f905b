package models

import "time"

// Document is one schemaless record of a collection. Body never contains the
// id; UserID mirrors the body's "userId" field and is what ownership checks
// and list filters use.
type Document struct {
	ID         string
	Collection string
	UserID     string
	Body       map[string]any
	CreatedAt  time.Time
}

// Clone returns a copy whose Body can be modified independently. Nested
// values are shared.
func (d *Document) Clone() *Document {
	c := *d
	c.Body = make(map[string]any, len(d.Body))
	for k, v := range d.Body {
		c.Body[k] = v
	}
	return &c
}
