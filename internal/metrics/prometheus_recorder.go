package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "tessera"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	writeDuration *prom.HistogramVec
	writeResults  *prom.CounterVec
	quotaPurges   prom.Counter
	purgedBackups prom.Counter
	backups       *prom.GaugeVec
	loads         *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		writeDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_write_duration_seconds",
			Help:      "Duration of snapshot writes including backup rotation",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"}),
		writeResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_writes_total",
			Help:      "Snapshot writes by kind and outcome",
		}, []string{"kind", "result"}),
		quotaPurges: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "quota_purges_total",
			Help:      "Times backups were purged after a quota error",
		}),
		purgedBackups: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "quota_purged_backups_total",
			Help:      "Backups deleted by quota purges",
		}),
		backups: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "backups",
			Help:      "Backups retained per dashboard after the last write",
		}, []string{"dashboard"}),
		loads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_loads_total",
			Help:      "Dashboard loads by source",
		}, []string{"source"}),
	}
	reg.MustRegister(pr.writeDuration, pr.writeResults, pr.quotaPurges, pr.purgedBackups, pr.backups, pr.loads)
	return pr
}

func (p *PrometheusRecorder) ObserveWriteDuration(kind WriteKind, d time.Duration) {
	if p == nil || p.writeDuration == nil {
		return
	}
	p.writeDuration.WithLabelValues(string(kind)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncWriteResult(kind WriteKind, result ResultLabel) {
	if p == nil || p.writeResults == nil {
		return
	}
	p.writeResults.WithLabelValues(string(kind), string(result)).Inc()
}

func (p *PrometheusRecorder) IncQuotaPurge(backupsRemoved int) {
	if p == nil || p.quotaPurges == nil {
		return
	}
	p.quotaPurges.Inc()
	p.purgedBackups.Add(float64(backupsRemoved))
}

func (p *PrometheusRecorder) SetBackups(dashboard string, n int) {
	if p == nil || p.backups == nil {
		return
	}
	p.backups.WithLabelValues(dashboard).Set(float64(n))
}

func (p *PrometheusRecorder) IncLoad(source LoadSource) {
	if p == nil || p.loads == nil {
		return
	}
	p.loads.WithLabelValues(string(source)).Inc()
}
