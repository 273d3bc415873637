package metrics

import (
	"bytes"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDump(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncWriteResult(WriteImmediate, ResultSuccess)
	pr.ObserveWriteDuration(WriteImmediate, 250*time.Millisecond)
	pr.SetBackups("fleet", 3)

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, reg))

	out := buf.String()
	assert.Contains(t, out, `tessera_snapshot_writes_total{kind="immediate",result="success"} 1`)
	assert.Contains(t, out, `tessera_backups{dashboard="fleet"} 3`)
	assert.Contains(t, out, `tessera_snapshot_write_duration_seconds{kind="immediate"} count=1 sum=0.25`)
}

func TestDump_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, prom.NewRegistry()))
	assert.Empty(t, buf.String())
}
