package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/lib/pq"
)

// IDSet is an insertion-ordered set of user IDs. It is stored as a bigint[]
// column in PostgreSQL and as an array in MongoDB.
type IDSet []uint

// Contains reports whether id is a member of the set
func (s IDSet) Contains(id uint) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Add returns the set with id appended, unless already present
func (s IDSet) Add(id uint) IDSet {
	if s.Contains(id) {
		return s
	}
	return append(s, id)
}

// Remove returns the set without id. The receiver is not modified.
func (s IDSet) Remove(id uint) IDSet {
	out := make(IDSet, 0, len(s))
	for _, v := range s {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Len is the cardinality of the set
func (s IDSet) Len() int {
	return len(s)
}

// Clone returns an independent copy, never nil
func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	copy(out, s)
	return out
}

// GormDataType tells GORM which column type to migrate
func (IDSet) GormDataType() string {
	return "bigint[]"
}

// Value implements driver.Valuer
func (s IDSet) Value() (driver.Value, error) {
	arr := make(pq.Int64Array, len(s))
	for i, v := range s {
		arr[i] = int64(v)
	}
	return arr.Value()
}

// Scan implements sql.Scanner
func (s *IDSet) Scan(src any) error {
	var arr pq.Int64Array
	if err := arr.Scan(src); err != nil {
		return fmt.Errorf("scan id set: %w", err)
	}
	out := make(IDSet, 0, len(arr))
	for _, v := range arr {
		if v < 0 {
			return fmt.Errorf("scan id set: negative id %d", v)
		}
		out = append(out, uint(v))
	}
	*s = out
	return nil
}
