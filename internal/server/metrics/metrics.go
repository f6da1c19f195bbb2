package metrics

import (
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Prom 全局指标实例
	Prom = New()
)

// Prometheus HTTP 服务指标集合
type Prometheus struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
}

// New 创建指标集合并注册 HTTP 指标
func New() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		requestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		}),
	}

	p.registry.MustRegister(p.requestsTotal, p.requestDuration, p.requestsInFlight)
	return p
}

// WithGoCollectorRuntimeMetrics 注册 Go 运行时指标
func (p *Prometheus) WithGoCollectorRuntimeMetrics() {
	p.registry.MustRegister(collectors.NewGoCollector(
		collectors.WithGoCollectorRuntimeMetrics(collectors.GoRuntimeMetricsRule{Matcher: regexp.MustCompile("/.*")}),
	))
}

// WithBuildInfoCollector 注册构建信息指标
func (p *Prometheus) WithBuildInfoCollector() {
	p.registry.MustRegister(collectors.NewBuildInfoCollector())
}

// Registry 获取底层注册表
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Middleware 创建请求指标采集中间件
// path 标签使用路由模板而不是原始 URL，避免高基数
func (p *Prometheus) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		p.requestsInFlight.Inc()
		start := time.Now()

		c.Next()

		p.requestsInFlight.Dec()
		p.requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
		p.requestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
