// Package metrics wires go-metrics to an in-memory sink and, when configured,
// to a Prometheus Pushgateway.
package metrics

import (
	"time"

	"github.com/actiontech/udt/config"
	"github.com/actiontech/udt/g"
	gometrics "github.com/armon/go-metrics"
	hclog "github.com/hashicorp/go-hclog"
)

type Metrics struct {
	Inmem      *gometrics.InmemSink
	Prometheus *PrometheusSink
}

// Setup installs the global go-metrics sink. Aggregate on 10 second intervals
// for 1 minute.
func Setup(conf *config.MetricsConfig, logger hclog.Logger) (*Metrics, error) {
	m := &Metrics{
		Inmem: gometrics.NewInmemSink(10*time.Second, time.Minute),
	}

	metricsConf := gometrics.DefaultConfig(g.ProgramName)
	metricsConf.EnableHostname = false
	metricsConf.EnableServiceLabel = true
	metricsConf.EnableRuntimeMetrics = false

	fanout := gometrics.FanoutSink{m.Inmem}
	if conf != nil && conf.PrometheusPushAddr != "" {
		sink, err := NewPrometheusSink(logger, g.ProgramName, conf.PrometheusPushAddr, conf.PushInterval)
		if err != nil {
			return nil, err
		}
		m.Prometheus = sink
		fanout = append(fanout, sink)
	}

	if _, err := gometrics.NewGlobal(metricsConf, fanout); err != nil {
		m.Shutdown()
		return nil, err
	}
	return m, nil
}

// Shutdown flushes the Pushgateway client, if any.
func (m *Metrics) Shutdown() {
	if m.Prometheus != nil {
		m.Prometheus.Shutdown()
	}
}
