package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSumCounts(t *testing.T) {
	counts := map[string]int{
		"BlockA-L1": 10,
		"BlockA-L2": 5,
		"BlockB-L1": 8,
	}
	assert.Equal(t, 23, SumCounts(counts))
}

func TestSumCountsIgnoresNonPositive(t *testing.T) {
	counts := map[string]int{
		"Anggrek-L1": 12,
		"Anggrek-L2": 0,
		"Dapur-L1":   -3,
	}
	assert.Equal(t, 12, SumCounts(counts))
	assert.Equal(t, 0, SumCounts(nil))
}

func TestNewIDMonotonic(t *testing.T) {
	prev := NewID()
	for i := 0; i < 1000; i++ {
		id := NewID()
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusAman, StatusRawan, StatusWaspada, StatusBahaya} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("Darurat"))
	assert.False(t, ValidStatus(""))
}

func TestValidShift(t *testing.T) {
	assert.True(t, ValidShift(ShiftPagi))
	assert.True(t, ValidShift(ShiftMalam))
	assert.False(t, ValidShift("Sore"))
}

func TestFindAccount(t *testing.T) {
	acc, ok := FindAccount("administrator", "123456")
	assert.True(t, ok)
	assert.Equal(t, RoleSuperAdmin, acc.Role)
	assert.Equal(t, "Administrator", acc.Name)

	_, ok = FindAccount("Administrator", "wrong")
	assert.False(t, ok)

	acc, ok = FindAccount("RUPAM II", "123456")
	assert.True(t, ok)
	assert.Equal(t, RoleReguII, acc.Role)
}

func TestGenerateDemoData(t *testing.T) {
	d := GenerateDemoData("2026-08-30", "2026-08-29")
	assert.Len(t, d.RollCalls, 4)
	assert.Len(t, d.Activities, 30)
	assert.Len(t, d.Scans, 30)
	for _, s := range d.Scans {
		assert.True(t, ValidStatus(s.Status))
	}
}
