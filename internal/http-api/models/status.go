package models

import "strings"

// ReadingStatus is the reading state of a catalogued book.
type ReadingStatus string

const (
	StatusWantToRead ReadingStatus = "WANT_TO_READ"
	StatusReading    ReadingStatus = "READING"
	StatusRead       ReadingStatus = "READ"
	StatusPaused     ReadingStatus = "PAUSED"
	StatusAbandoned  ReadingStatus = "ABANDONED"
)

// ReadingStatuses lists every status in display order.
var ReadingStatuses = []ReadingStatus{
	StatusWantToRead,
	StatusReading,
	StatusRead,
	StatusPaused,
	StatusAbandoned,
}

// ParseReadingStatus accepts a status name in any case, surrounding spaces ignored.
func ParseReadingStatus(s string) (ReadingStatus, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, st := range ReadingStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Valid reports whether s is exactly one of the canonical statuses.
func (s ReadingStatus) Valid() bool {
	for _, st := range ReadingStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// StatusNames returns the canonical names, for messages and validator tags.
func StatusNames() []string {
	names := make([]string, 0, len(ReadingStatuses))
	for _, st := range ReadingStatuses {
		names = append(names, string(st))
	}
	return names
}
