package schema

import "strings"

// StatusClass groups the open, bilingual status vocabulary.
type StatusClass string

const (
	StatusCompleted  StatusClass = "completed"
	StatusInProgress StatusClass = "in_progress"
	StatusNotStarted StatusClass = "not_started"
	StatusSuspended  StatusClass = "suspended"
	StatusCancelled  StatusClass = "cancelled"
	StatusOther      StatusClass = "other"
)

var statusClasses = map[string]StatusClass{
	"completed":    StatusCompleted,
	"done":         StatusCompleted,
	"مكتمل":        StatusCompleted,
	"in progress":  StatusInProgress,
	"جاري التنفيذ": StatusInProgress,
	"قيد التنفيذ":  StatusInProgress,
	"قيد الإنجاز":  StatusInProgress,
	"not started":  StatusNotStarted,
	"لم يبدأ":      StatusNotStarted,
	"suspended":    StatusSuspended,
	"on hold":      StatusSuspended,
	"معلق":         StatusSuspended,
	"cancelled":    StatusCancelled,
	"canceled":     StatusCancelled,
	"ملغي":         StatusCancelled,
}

// ClassifyStatus maps a raw status cell onto its class.
// Matching ignores case and surrounding whitespace; unknown values are
// StatusOther.
func ClassifyStatus(s string) StatusClass {
	if c, ok := statusClasses[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c
	}
	return StatusOther
}

// IsCompleted reports whether s is one of the completed spellings.
func IsCompleted(s string) bool {
	return ClassifyStatus(s) == StatusCompleted
}
