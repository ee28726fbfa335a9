package model

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord matches any *MalformedRecordError.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrEmptyTimeline matches any *EmptyTimelineError.
	ErrEmptyTimeline = errors.New("empty timeline")
	// ErrDateParse matches any *DateParseError.
	ErrDateParse = errors.New("date parse error")
	// ErrUnknownGroupColor matches any *UnknownGroupColorError.
	ErrUnknownGroupColor = errors.New("group color mismatch")
)

// MalformedRecordError reports a record whose end precedes its start.
type MalformedRecordError struct {
	Label string
	Start Date
	End   Date
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %q: end %s is before start %s", e.Label, e.End, e.Start)
}

func (e *MalformedRecordError) Is(target error) bool { return target == ErrMalformedRecord }

// EmptyTimelineError reports a layout request without any data rows.
type EmptyTimelineError struct{}

func (e *EmptyTimelineError) Error() string {
	return "empty timeline: no data rows to establish canvas width"
}

func (e *EmptyTimelineError) Is(target error) bool { return target == ErrEmptyTimeline }

// DateParseError reports a date string that is not YYYY-MM-DD.
type DateParseError struct {
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("invalid date %q: %v", e.Value, e.Err)
}

func (e *DateParseError) Unwrap() error { return e.Err }

func (e *DateParseError) Is(target error) bool { return target == ErrDateParse }

// UnknownGroupColorError reports one group name seen with two colors.
type UnknownGroupColorError struct {
	Group    string
	First    ColorToken
	Conflict ColorToken
}

func (e *UnknownGroupColorError) Error() string {
	return fmt.Sprintf("group %q uses color %q and %q", e.Group, e.First, e.Conflict)
}

func (e *UnknownGroupColorError) Is(target error) bool { return target == ErrUnknownGroupColor }
