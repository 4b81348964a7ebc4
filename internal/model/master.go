package model

import "slices"

// MasterData holds the enumerations a new measurement is validated against.
type MasterData struct {
	Groups []string `json:"groups" yaml:"groups"`
	Shifts []int    `json:"shifts" yaml:"shifts"`
	Lines  []string `json:"lines" yaml:"lines"`
}

// DefaultMasterData returns the enumerations used when none are configured.
func DefaultMasterData() MasterData {
	return MasterData{
		Groups: []string{"SD", "SMP", "SMA", "Mahasiswa"},
		Shifts: []int{1, 2, 3},
		Lines:  []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M"},
	}
}

func (m MasterData) HasGroup(g string) bool { return slices.Contains(m.Groups, g) }
func (m MasterData) HasShift(s int) bool    { return slices.Contains(m.Shifts, s) }
func (m MasterData) HasLine(l string) bool  { return slices.Contains(m.Lines, l) }

// Standards is the process-wide acceptance window for a measurement.
type Standards struct {
	MinSuhu  float64 `json:"minSuhu" yaml:"min_suhu"`
	MaxSuhu  float64 `json:"maxSuhu" yaml:"max_suhu"`
	MinBerat float64 `json:"minBerat" yaml:"min_berat"`
	MaxBerat float64 `json:"maxBerat" yaml:"max_berat"`
}

// DefaultStandards returns the thresholds used when none are configured.
func DefaultStandards() Standards {
	return Standards{MinSuhu: 12, MaxSuhu: 20, MinBerat: 12.5, MaxBerat: 18.5}
}
