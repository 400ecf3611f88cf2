package models

import "time"

const day = 24 * time.Hour

func optional[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func omitEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// NormalizeTime converts t to UTC at millisecond precision, the resolution
// every store keeps.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
