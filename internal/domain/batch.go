package domain

import (
	"errors"
	"time"
)

// EntryKind is the direction of a batch conversion.
type EntryKind string

const (
	EntryResolve EntryKind = "resolve" // civil -> instant
	EntryRender  EntryKind = "render"  // instant -> civil
)

// BatchEntry is one conversion inside a batch file. Exactly one of Civil or
// Instant is meaningful, depending on Kind.
type BatchEntry struct {
	Name    string
	Kind    EntryKind
	Zone    ZoneID
	Civil   CivilDateTime
	Instant Instant
	Policy  Policy
	Display DisplayFormat
}

// Batch groups conversions under one logical unit (Git-friendly).
type Batch struct {
	Name string

	// Zone is used by entries that do not name their own.
	Zone ZoneID

	Entries []BatchEntry
}

// BatchRef is a lightweight reference to a batch file on disk.
type BatchRef struct {
	Name string
	Path string
}

// EntryError is a structured, serializable error attached to an entry result.
type EntryError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// NewEntryError keeps the kind of an OpError and falls back to KindExecution.
func NewEntryError(err error) *EntryError {
	if err == nil {
		return nil
	}
	kind := KindExecution
	var oe *OpError
	if errors.As(err, &oe) {
		kind = oe.Kind
	}
	return &EntryError{Kind: kind, Message: err.Error()}
}

// EntryResult is the outcome of a single batch entry.
type EntryResult struct {
	Name string    `json:"name"`
	Kind EntryKind `json:"kind"`
	Zone ZoneID    `json:"zone"`

	Civil   *CivilDateTime   `json:"civil,omitempty"`
	Instant *Instant         `json:"instant,omitempty"`
	Offset  string           `json:"offset,omitempty"`
	Status  ResolutionStatus `json:"status,omitempty"`
	Display string           `json:"display,omitempty"`

	Alternate *Instant `json:"alternate,omitempty"`

	Error *EntryError `json:"error,omitempty"`
}

// Failed reports whether the entry produced no usable value.
func (r EntryResult) Failed() bool {
	return r.Error != nil
}

// BatchRun is the result of executing a batch.
type BatchRun struct {
	BatchName string    `json:"batch_name"`
	BatchPath string    `json:"batch_path"`
	Source    string    `json:"source"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`

	Results []EntryResult `json:"results"`
}

// Failures counts entries that produced an error.
func (r BatchRun) Failures() int {
	n := 0
	for _, res := range r.Results {
		if res.Failed() {
			n++
		}
	}
	return n
}
