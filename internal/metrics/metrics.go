// Package metrics 提供Prometheus监控指标
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 应用指标集合
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	generateTotal    *prometheus.CounterVec
	generateDuration prometheus.Histogram
	coverage         prometheus.Gauge
	fairness         prometheus.Gauge
}

// New 创建指标集合并注册所有采集器
// 重复注册时复用已有采集器
func New() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paigong_http_requests_total",
			Help: "HTTP请求总数",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "paigong_http_request_duration_seconds",
			Help:    "HTTP请求耗时",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		generateTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paigong_schedule_generate_total",
			Help: "排班生成总数",
		}, []string{"outcome"}),
		generateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "paigong_schedule_generate_duration_seconds",
			Help:    "排班生成耗时",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}),
		coverage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "paigong_schedule_coverage_percent",
			Help: "最近一次排班的覆盖率",
		}),
		fairness: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "paigong_schedule_fairness_score",
			Help: "最近一次排班的公平性得分",
		}),
	}

	collectors := []prometheus.Collector{
		m.requestsTotal, m.requestDuration,
		m.generateTotal, m.generateDuration,
		m.coverage, m.fairness,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}

	return m, nil
}

// RecordRequest 记录一次HTTP请求
func (m *Metrics) RecordRequest(method, path string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordGenerate 记录一次排班生成
func (m *Metrics) RecordGenerate(outcome string, duration time.Duration, coverage, fairness float64) {
	m.generateTotal.WithLabelValues(outcome).Inc()
	m.generateDuration.Observe(duration.Seconds())
	m.coverage.Set(coverage)
	m.fairness.Set(fairness)
}

// Handler 返回 /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
