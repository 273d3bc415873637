// Package metrics provides persistence observability hooks.
//
// Components take a Recorder and default to NoopRecorder, so nothing needs a
// nil check. PrometheusRecorder forwards to a Prometheus registry.
package metrics

import "time"

// WriteKind distinguishes debounced background writes from explicit saves.
type WriteKind string

const (
	WriteDebounced WriteKind = "debounced"
	WriteImmediate WriteKind = "immediate"
)

// ResultLabel enumerates write outcomes for counters.
type ResultLabel string

const (
	ResultSuccess   ResultLabel = "success"
	ResultRecovered ResultLabel = "recovered" // succeeded after a quota purge
	ResultFailed    ResultLabel = "failed"
)

// LoadSource records where a dashboard was loaded from.
type LoadSource string

const (
	LoadSnapshot LoadSource = "snapshot"
	LoadDefault  LoadSource = "default"
	LoadBackup   LoadSource = "backup"
	LoadImport   LoadSource = "import"
)

// Recorder defines the hooks the persistence manager reports through.
type Recorder interface {
	ObserveWriteDuration(kind WriteKind, d time.Duration)
	IncWriteResult(kind WriteKind, result ResultLabel)
	IncQuotaPurge(backupsRemoved int)
	SetBackups(dashboard string, n int)
	IncLoad(source LoadSource)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveWriteDuration(WriteKind, time.Duration) {}
func (NoopRecorder) IncWriteResult(WriteKind, ResultLabel)         {}
func (NoopRecorder) IncQuotaPurge(int)                             {}
func (NoopRecorder) SetBackups(string, int)                        {}
func (NoopRecorder) IncLoad(LoadSource)                            {}
