// Package metrics records randomizer activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Recorder interface {
	Randomized(assignmentMode, teamMode string, fallbacks int)
	Rejected(reason string)
	WeaponDrawn(groups bool)
	LobbiesOpen(n int)
}

func NewRecorder(registry *prometheus.Registry) Recorder {
	return setupPrometheusRecorder(registry)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Randomized(string, string, int) {}
func (Nop) Rejected(string)                {}
func (Nop) WeaponDrawn(bool)               {}
func (Nop) LobbiesOpen(int)                {}
