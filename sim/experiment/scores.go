package experiment

import (
	"encoding/json"
	"math"
)

// Keys of ObjectiveScores.
const (
	KeyEnergy   = "energy"   // kWh
	KeySLA      = "sla"      // average SLA violation
	KeyShutdown = "shutdown" // mean time before host shutdown, seconds
)

// JoulesPerKWh converts watt-seconds to kilowatt-hours (3600 s/h * 1000 W/kW).
const JoulesPerKWh = 3600 * 1000

// ObjectiveScores maps metric name to score for one run.
// A successful run always carries exactly KeyEnergy, KeySLA and KeyShutdown.
type ObjectiveScores map[string]float64

func newObjectiveScores(energy, sla, shutdown float64) ObjectiveScores {
	return ObjectiveScores{
		KeyEnergy:   energy,
		KeySLA:      sla,
		KeyShutdown: shutdown,
	}
}

// Energy returns the energy score in kWh.
func (s ObjectiveScores) Energy() float64 { return s[KeyEnergy] }

// SLA returns the average SLA violation.
func (s ObjectiveScores) SLA() float64 { return s[KeySLA] }

// Shutdown returns the mean time before host shutdown; NaN when no host shut down.
func (s ObjectiveScores) Shutdown() float64 { return s[KeyShutdown] }

// MarshalJSON encodes NaN and infinite scores as null.
func (s ObjectiveScores) MarshalJSON() ([]byte, error) {
	out := make(map[string]*float64, len(s))
	for k, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[k] = nil
			continue
		}
		out[k] = &v
	}
	return json.Marshal(out)
}
