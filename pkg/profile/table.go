package profile

import (
	"errors"
	"fmt"
)

var ErrProfile = errors.New("profiling columns")

// Columns profiles a CSV table column by column. Columns are matched by
// header name, so several files with the same columns in any order may be
// added to one Columns.
type Columns struct {
	fields map[string]Field
}

func NewColumns() *Columns {
	return &Columns{fields: make(map[string]Field)}
}

// Adder returns a function which adds records laid out as header to c.
func (c *Columns) Adder(header []string) func(record []string) error {
	return func(record []string) error {
		if len(record) != len(header) {
			return fmt.Errorf("%w: got %d cells for %d columns", ErrProfile, len(record), len(header))
		}

		for i, name := range header {
			field := c.fields[name]
			if field == nil {
				field = &EmptyField{}
			}

			field, err := field.Add(record[i])
			if err != nil {
				return fmt.Errorf("%w: column %q: %w", ErrProfile, name, err)
			}
			c.fields[name] = field
		}
		return nil
	}
}

// Fields returns the profile of every column seen so far.
func (c *Columns) Fields() map[string]Field {
	return c.fields
}
