package models

import (
	"sync"
	"time"
)

const (
	ShiftPagi  = "Pagi"
	ShiftSiang = "Siang"
	ShiftMalam = "Malam"
)

func ValidShift(s string) bool {
	return s == ShiftPagi || s == ShiftSiang || s == ShiftMalam
}

// Checkpoint statuses, ordered by severity.
const (
	StatusAman    = "Aman"
	StatusRawan   = "Rawan"
	StatusWaspada = "Waspada"
	StatusBahaya  = "Bahaya"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusAman, StatusRawan, StatusWaspada, StatusBahaya:
		return true
	}
	return false
}

// Checkpoint is a patrol location identified by a stable scannable code.
// RemoteID is set only once the backend has registered the location.
type Checkpoint struct {
	Code     string `json:"id"`
	Location string `json:"location"`
	RemoteID int64  `json:"dbId,omitempty"`
}

// RollCallRecord is one apel headcount. Total is always computed from the
// per-block per-floor inputs, never entered directly.
type RollCallRecord struct {
	ID    int64  `json:"id"`
	PIC   string `json:"pic"`
	Shift string `json:"shift"`
	Total int    `json:"total"`
	Time  string `json:"time"`
	Date  string `json:"dateISO"`
}

// ActivityRecord is a free-text log entry with optional photo
// documentation. Images keeps attachment order; each entry is either a
// public URL or an inline data URI.
type ActivityRecord struct {
	ID     int64    `json:"id"`
	Time   string   `json:"time"`
	Name   string   `json:"name"`
	Desc   string   `json:"desc"`
	User   string   `json:"user"`
	Images []string `json:"images"`
	Date   string   `json:"dateISO"`
}

// ScanRecord is one completed checkpoint visit.
type ScanRecord struct {
	ID       int64  `json:"id"`
	Location string `json:"location"`
	Status   string `json:"status"`
	Notes    string `json:"notes,omitempty"`
	Time     string `json:"time"`
	Date     string `json:"dateISO"`
}

var (
	idMu   sync.Mutex
	lastID int64
)

// NewID returns a millisecond-timestamp identifier, bumped by one when two
// calls land in the same millisecond so ids stay unique for the process
// lifetime.
func NewID() int64 {
	idMu.Lock()
	defer idMu.Unlock()
	id := time.Now().UnixMilli()
	if id <= lastID {
		id = lastID + 1
	}
	lastID = id
	return id
}

// BlockFloors is the housing catalog used by the roll-call form: block
// name to number of floors.
var BlockFloors = map[string]int{
	"Anggrek":     2,
	"Bougenville": 2,
	"Cempaka":     2,
	"Dahlia":      2,
	"Edelweise":   2,
	"Dapur":       1,
}

// SumCounts computes the roll-call total from the submitted per-floor
// inputs (keys like "Anggrek-L1"). Negative entries are ignored.
func SumCounts(counts map[string]int) int {
	total := 0
	for _, n := range counts {
		if n > 0 {
			total += n
		}
	}
	return total
}

func DateISO(t time.Time) string { return t.Format("2006-01-02") }
func ClockHM(t time.Time) string { return t.Format("15:04") }
