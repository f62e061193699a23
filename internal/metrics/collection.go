package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type prometheusRecorder struct {
	randomizations prometheus.CounterVec
	fallbacks      prometheus.Counter
	rejections     prometheus.CounterVec
	weapons        prometheus.CounterVec
	lobbies        prometheus.Gauge
}

func setupPrometheusRecorder(registry *prometheus.Registry) prometheusRecorder {
	factory := promauto.With(registry)

	randomizations := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "squad_randomizations_total",
			Help: "Completed randomizations by assignment and team mode",
		}, []string{"assignment_mode", "team_mode"})
	fallbacks := factory.NewCounter(
		prometheus.CounterOpts{
			Name: "squad_duplicate_fallbacks_total",
			Help: "Draws that accepted a duplicate after the retry budget ran out",
		})
	rejections := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "squad_rejected_commands_total",
			Help: "Commands refused by the lobby, by reason",
		}, []string{"reason"})
	weapons := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "squad_weapon_draws_total",
			Help: "Standalone weapon draws",
		}, []string{"groups"})
	lobbies := factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "squad_lobbies_open",
			Help: "Lobbies currently held by the hub",
		})

	return prometheusRecorder{
		randomizations: *randomizations,
		fallbacks:      fallbacks,
		rejections:     *rejections,
		weapons:        *weapons,
		lobbies:        lobbies,
	}
}

func (r prometheusRecorder) Randomized(assignmentMode, teamMode string, fallbacks int) {
	r.randomizations.With(prometheus.Labels{"assignment_mode": assignmentMode, "team_mode": teamMode}).Inc()
	r.fallbacks.Add(float64(fallbacks))
}

func (r prometheusRecorder) Rejected(reason string) {
	r.rejections.With(prometheus.Labels{"reason": reason}).Inc()
}

func (r prometheusRecorder) WeaponDrawn(groups bool) {
	r.weapons.With(prometheus.Labels{"groups": strconv.FormatBool(groups)}).Inc()
}

func (r prometheusRecorder) LobbiesOpen(n int) {
	r.lobbies.Set(float64(n))
}
