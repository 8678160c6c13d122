// Package metrics 提供Prometheus文本格式的监控指标
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MetricsRegistry 指标注册表
type MetricsRegistry struct {
	counters   map[string]*Counter
	gauges     map[string]*Gauge
	histograms map[string]*Histogram
	mu         sync.RWMutex
}

// Counter 计数器
type Counter struct {
	Name   string
	Help   string
	Labels []string
	values map[string]float64
	mu     sync.RWMutex
}

// Gauge 仪表盘
type Gauge struct {
	Name   string
	Help   string
	Labels []string
	values map[string]float64
	mu     sync.RWMutex
}

// Histogram 直方图
type Histogram struct {
	Name    string
	Help    string
	Labels  []string
	Buckets []float64
	counts  map[string][]int
	sums    map[string]float64
	mu      sync.RWMutex
}

// 指标名称
const (
	HTTPRequestsTotal   = "schichtplan_http_requests_total"
	HTTPRequestDuration = "schichtplan_http_request_duration_seconds"
	GenerationsTotal    = "schichtplan_generations_total"
	GenerationDuration  = "schichtplan_generation_duration_seconds"
	SolverObjective     = "schichtplan_solver_objective"
	SolverGap           = "schichtplan_solver_gap_ratio"
	PostFillPlacedTotal = "schichtplan_postfill_placed_total"
	PostFillUnmetTotal  = "schichtplan_postfill_unmet_total"
	WishViolationsTotal = "schichtplan_wish_violations_total"
	FairnessGini        = "schichtplan_fairness_gini"
	ActiveGenerations   = "schichtplan_active_generations"
	DBConnections       = "schichtplan_db_connections"
	DBQueryDuration     = "schichtplan_db_query_duration_seconds"
)

var (
	registry *MetricsRegistry
	once     sync.Once
)

// NewRegistry 创建带默认指标的注册表
func NewRegistry() *MetricsRegistry {
	r := &MetricsRegistry{
		counters:   make(map[string]*Counter),
		gauges:     make(map[string]*Gauge),
		histograms: make(map[string]*Histogram),
	}
	r.initDefaultMetrics()
	return r
}

// GetRegistry 获取全局注册表
func GetRegistry() *MetricsRegistry {
	once.Do(func() {
		registry = NewRegistry()
	})
	return registry
}

// initDefaultMetrics 初始化默认指标
func (r *MetricsRegistry) initDefaultMetrics() {
	r.NewCounter(HTTPRequestsTotal, "HTTP请求总数", []string{"method", "path", "status"})
	r.NewHistogram(HTTPRequestDuration, "HTTP请求延迟",
		[]string{"method", "path"},
		[]float64{0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 30.0, 60.0})

	// 按求解状态 (OPTIMAL/FEASIBLE/INFEASIBLE/...) 计数
	r.NewCounter(GenerationsTotal, "计划生成次数", []string{"status"})
	r.NewHistogram(GenerationDuration, "计划生成耗时",
		[]string{"status"},
		[]float64{0.5, 1.0, 2.5, 5.0, 10.0, 20.0, 30.0, 60.0})

	r.NewGauge(SolverObjective, "最近一次求解的目标值", nil)
	r.NewGauge(SolverGap, "最近一次求解的相对间隙", nil)
	r.NewCounter(PostFillPlacedTotal, "补排的 Z 班次数", nil)
	r.NewCounter(PostFillUnmetTotal, "补排后仍未达到目标的员工数", nil)
	r.NewCounter(WishViolationsTotal, "未满足的愿望数", nil)
	r.NewGauge(FairnessGini, "公平性基尼系数", []string{"metric_type"})
	r.NewGauge(ActiveGenerations, "正在进行的生成数", nil)
	r.NewGauge(DBConnections, "数据库连接数", []string{"state"})
	r.NewHistogram(DBQueryDuration, "SQL 执行耗时",
		[]string{"table", "statement"},
		[]float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 1.0, 5.0})
}

// NewCounter 创建计数器
func (r *MetricsRegistry) NewCounter(name, help string, labels []string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()

	counter := &Counter{
		Name:   name,
		Help:   help,
		Labels: labels,
		values: make(map[string]float64),
	}
	r.counters[name] = counter
	return counter
}

// NewGauge 创建仪表盘
func (r *MetricsRegistry) NewGauge(name, help string, labels []string) *Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()

	gauge := &Gauge{
		Name:   name,
		Help:   help,
		Labels: labels,
		values: make(map[string]float64),
	}
	r.gauges[name] = gauge
	return gauge
}

// NewHistogram 创建直方图
func (r *MetricsRegistry) NewHistogram(name, help string, labels []string, buckets []float64) *Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()

	histogram := &Histogram{
		Name:    name,
		Help:    help,
		Labels:  labels,
		Buckets: buckets,
		counts:  make(map[string][]int),
		sums:    make(map[string]float64),
	}
	r.histograms[name] = histogram
	return histogram
}

// GetCounter 获取计数器
func (r *MetricsRegistry) GetCounter(name string) *Counter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counters[name]
}

// GetGauge 获取仪表盘
func (r *MetricsRegistry) GetGauge(name string) *Gauge {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gauges[name]
}

// GetHistogram 获取直方图
func (r *MetricsRegistry) GetHistogram(name string) *Histogram {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.histograms[name]
}

// Inc 增加计数
func (c *Counter) Inc(labelValues ...string) {
	c.Add(1, labelValues...)
}

// Add 增加指定值
func (c *Counter) Add(value float64, labelValues ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[labelKey(labelValues)] += value
}

// Value 当前值
func (c *Counter) Value(labelValues ...string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[labelKey(labelValues)]
}

// Set 设置值
func (g *Gauge) Set(value float64, labelValues ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.values[labelKey(labelValues)] = value
}

// Inc 增加
func (g *Gauge) Inc(labelValues ...string) {
	g.Add(1, labelValues...)
}

// Dec 减少
func (g *Gauge) Dec(labelValues ...string) {
	g.Add(-1, labelValues...)
}

// Add 增加指定值
func (g *Gauge) Add(value float64, labelValues ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.values[labelKey(labelValues)] += value
}

// Value 当前值
func (g *Gauge) Value(labelValues ...string) float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.values[labelKey(labelValues)]
}

// Observe 记录观测值
func (h *Histogram) Observe(value float64, labelValues ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := labelKey(labelValues)
	if _, exists := h.counts[key]; !exists {
		h.counts[key] = make([]int, len(h.Buckets)+1)
	}

	// 只计入第一个满足的 bucket，输出时再累加
	idx := len(h.Buckets)
	for i, bucket := range h.Buckets {
		if value <= bucket {
			idx = i
			break
		}
	}
	h.counts[key][idx]++
	h.sums[key] += value
}

// labelKey 生成标签键
func labelKey(labels []string) string {
	return strings.Join(labels, ",")
}

// splitLabelKey 分割标签键
func splitLabelKey(key string) []string {
	if key == "" {
		return nil
	}
	return strings.Split(key, ",")
}

// formatLabels 格式化标签
func formatLabels(names []string, key string) string {
	vals := splitLabelKey(key)
	parts := make([]string, len(names))
	for i, name := range names {
		val := ""
		if i < len(vals) {
			val = vals[i]
		}
		parts[i] = fmt.Sprintf("%s=%q", name, val)
	}
	return strings.Join(parts, ",")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func series(name string, labels []string, key, extra string) string {
	var parts []string
	if key != "" {
		parts = append(parts, formatLabels(labels, key))
	}
	if extra != "" {
		parts = append(parts, extra)
	}
	if len(parts) == 0 {
		return name
	}
	return name + "{" + strings.Join(parts, ",") + "}"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteTo 以Prometheus文本格式输出，名称与标签按字典序排列
func (r *MetricsRegistry) WriteTo(w io.Writer) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range sortedKeys(r.counters) {
		c := r.counters[name]
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n", c.Name, c.Help, c.Name)
		c.mu.RLock()
		for _, key := range sortedKeys(c.values) {
			fmt.Fprintf(w, "%s %s\n", series(c.Name, c.Labels, key, ""), formatFloat(c.values[key]))
		}
		c.mu.RUnlock()
	}

	for _, name := range sortedKeys(r.gauges) {
		g := r.gauges[name]
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s gauge\n", g.Name, g.Help, g.Name)
		g.mu.RLock()
		for _, key := range sortedKeys(g.values) {
			fmt.Fprintf(w, "%s %s\n", series(g.Name, g.Labels, key, ""), formatFloat(g.values[key]))
		}
		g.mu.RUnlock()
	}

	for _, name := range sortedKeys(r.histograms) {
		h := r.histograms[name]
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s histogram\n", h.Name, h.Help, h.Name)
		h.mu.RLock()
		for _, key := range sortedKeys(h.counts) {
			counts := h.counts[key]
			cumulative := 0
			for i, bucket := range h.Buckets {
				cumulative += counts[i]
				le := fmt.Sprintf("le=%q", formatFloat(bucket))
				fmt.Fprintf(w, "%s %d\n", series(h.Name+"_bucket", h.Labels, key, le), cumulative)
			}
			cumulative += counts[len(h.Buckets)]
			fmt.Fprintf(w, "%s %d\n", series(h.Name+"_bucket", h.Labels, key, `le="+Inf"`), cumulative)
			fmt.Fprintf(w, "%s %s\n", series(h.Name+"_sum", h.Labels, key, ""), formatFloat(h.sums[key]))
			fmt.Fprintf(w, "%s %d\n", series(h.Name+"_count", h.Labels, key, ""), cumulative)
		}
		h.mu.RUnlock()
	}
}

// Handler 返回Prometheus格式的指标HTTP处理器
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		GetRegistry().WriteTo(w)
	})
}

// RecordRequestMetrics 记录请求指标
func RecordRequestMetrics(method, path string, status int, duration time.Duration) {
	reg := GetRegistry()
	if c := reg.GetCounter(HTTPRequestsTotal); c != nil {
		c.Inc(method, path, strconv.Itoa(status))
	}
	if h := reg.GetHistogram(HTTPRequestDuration); h != nil {
		h.Observe(duration.Seconds(), method, path)
	}
}

// Generation 一次计划生成的结果摘要
type Generation struct {
	Status         string
	Duration       time.Duration
	Objective      float64
	Gap            float64
	Placed         int
	Unmet          int
	WishViolations int
	Gini           map[string]float64 // day/night/weekend
}

// RecordGeneration 记录一次生成；失败时只记录状态与耗时
func RecordGeneration(g Generation, success bool) {
	reg := GetRegistry()
	if c := reg.GetCounter(GenerationsTotal); c != nil {
		c.Inc(g.Status)
	}
	if h := reg.GetHistogram(GenerationDuration); h != nil {
		h.Observe(g.Duration.Seconds(), g.Status)
	}
	if !success {
		return
	}

	reg.GetGauge(SolverObjective).Set(g.Objective)
	reg.GetGauge(SolverGap).Set(g.Gap)
	reg.GetCounter(PostFillPlacedTotal).Add(float64(g.Placed))
	reg.GetCounter(PostFillUnmetTotal).Add(float64(g.Unmet))
	reg.GetCounter(WishViolationsTotal).Add(float64(g.WishViolations))
	gini := reg.GetGauge(FairnessGini)
	for metric, v := range g.Gini {
		gini.Set(v, metric)
	}
}

// TrackActive 标记一次生成开始，返回结束回调
func TrackActive() func() {
	g := GetRegistry().GetGauge(ActiveGenerations)
	g.Inc()
	return func() { g.Dec() }
}

// RecordQuery 记录 SQL 耗时
func RecordQuery(table, statement string, duration time.Duration) {
	if h := GetRegistry().GetHistogram(DBQueryDuration); h != nil {
		h.Observe(duration.Seconds(), table, statement)
	}
}

// SetDBConnections 记录连接池状态
func SetDBConnections(inUse, idle int) {
	g := GetRegistry().GetGauge(DBConnections)
	g.Set(float64(inUse), "in_use")
	g.Set(float64(idle), "idle")
}
