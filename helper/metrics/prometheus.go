package metrics

import (
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	gometrics "github.com/armon/go-metrics"
	hclog "github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// PrometheusSink is a go-metrics sink backed by a private prometheus
// registry, optionally pushed to a Pushgateway.
type PrometheusSink struct {
	logger   hclog.Logger
	registry *prometheus.Registry

	mu        sync.Mutex
	gauges    map[string]prometheus.Gauge
	summaries map[string]prometheus.Summary
	counters  map[string]prometheus.Counter

	pusher   *push.Pusher
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

var _ gometrics.MetricSink = (*PrometheusSink)(nil)

// NewPrometheusSink starts pushing to addr every interval. Pushing is
// disabled when addr is empty or interval is zero.
func NewPrometheusSink(logger hclog.Logger, job, addr string, interval time.Duration) (*PrometheusSink, error) {
	s := &PrometheusSink{
		logger:    logger.Named("prometheus"),
		registry:  prometheus.NewRegistry(),
		gauges:    make(map[string]prometheus.Gauge),
		summaries: make(map[string]prometheus.Summary),
		counters:  make(map[string]prometheus.Counter),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
	s.pushMetric(job, addr, interval)
	return s, nil
}

func (p *PrometheusSink) flattenKey(parts []string) string {
	joined := strings.Join(parts, "_")
	joined = strings.Replace(joined, " ", "_", -1)
	joined = strings.Replace(joined, ".", "_", -1)
	joined = strings.Replace(joined, "-", "_", -1)
	joined = strings.Replace(joined, "=", "_", -1)
	return joined
}

// metricID distinguishes series of the same name by their labels.
func metricID(name string, labels prometheus.Labels) string {
	if len(labels) == 0 {
		return name
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	id := name
	for _, k := range keys {
		id += ";" + k + "=" + labels[k]
	}
	return id
}

func promLabels(labels []gometrics.Label) prometheus.Labels {
	if len(labels) == 0 {
		return nil
	}
	l := make(prometheus.Labels, len(labels))
	for _, label := range labels {
		l[label.Name] = label.Value
	}
	return l
}

func (p *PrometheusSink) SetGauge(parts []string, val float32) {
	p.SetGaugeWithLabels(parts, val, nil)
}

func (p *PrometheusSink) SetGaugeWithLabels(parts []string, val float32, labels []gometrics.Label) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := p.flattenKey(parts)
	constLabels := promLabels(labels)
	id := metricID(key, constLabels)
	g, ok := p.gauges[id]
	if !ok {
		g = prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        key,
			Help:        key,
			ConstLabels: constLabels,
		})
		if !p.register(g) {
			return
		}
		p.gauges[id] = g
	}
	g.Set(float64(val))
}

func (p *PrometheusSink) AddSample(parts []string, val float32) {
	p.AddSampleWithLabels(parts, val, nil)
}

func (p *PrometheusSink) AddSampleWithLabels(parts []string, val float32, labels []gometrics.Label) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := p.flattenKey(parts)
	constLabels := promLabels(labels)
	id := metricID(key, constLabels)
	g, ok := p.summaries[id]
	if !ok {
		g = prometheus.NewSummary(prometheus.SummaryOpts{
			Name:        key,
			Help:        key,
			MaxAge:      10 * time.Second,
			ConstLabels: constLabels,
		})
		if !p.register(g) {
			return
		}
		p.summaries[id] = g
	}
	g.Observe(float64(val))
}

// EmitKey is not implemented. Prometheus doesn't offer a type for which an
// arbitrary number of values is retained.
func (p *PrometheusSink) EmitKey(key []string, val float32) {
}

func (p *PrometheusSink) IncrCounter(parts []string, val float32) {
	p.IncrCounterWithLabels(parts, val, nil)
}

func (p *PrometheusSink) IncrCounterWithLabels(parts []string, val float32, labels []gometrics.Label) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := p.flattenKey(parts)
	constLabels := promLabels(labels)
	id := metricID(key, constLabels)
	g, ok := p.counters[id]
	if !ok {
		g = prometheus.NewCounter(prometheus.CounterOpts{
			Name:        key,
			Help:        key,
			ConstLabels: constLabels,
		})
		if !p.register(g) {
			return
		}
		p.counters[id] = g
	}
	g.Add(float64(val))
}

// register reports false when c clashes with an existing series, e.g. the
// same name used as both a gauge and a counter.
func (p *PrometheusSink) register(c prometheus.Collector) bool {
	if err := p.registry.Register(c); err != nil {
		p.logger.Warn("dropping metric", "err", err)
		return false
	}
	return true
}

// pushMetric pushes metrics in background.
func (p *PrometheusSink) pushMetric(job, addr string, interval time.Duration) {
	if interval == 0 || len(addr) == 0 {
		p.logger.Info("disable Prometheus push client")
		close(p.doneCh)
		return
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	p.pusher = push.New(addr, job).Gatherer(p.registry).Grouping("instance", hostname)
	p.logger.Info("start Prometheus push client", "addr", addr, "interval", interval)
	go p.pushLoop(interval)
}

func (p *PrometheusSink) pushLoop(interval time.Duration) {
	defer close(p.doneCh)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopCh:
			p.push()
			return
		case <-ticker.C:
			p.push()
		}
	}
}

func (p *PrometheusSink) push() {
	if err := p.pusher.Add(); err != nil {
		p.logger.Error("could not push metrics to Prometheus Pushgateway", "err", err)
	}
}

// Shutdown stops the push loop after a final push.
func (p *PrometheusSink) Shutdown() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
	<-p.doneCh
}
