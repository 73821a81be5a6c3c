// Package metrics 提供基于Prometheus的指标收集
//
// 指标类型选择：
// - 计数用Counter：请求数、错误数、上架数
// - 瞬时值用Gauge：正在处理的请求数
// - 分布用Histogram：耗时（自动计算P50、P90、P99）
//
// 指标通过/metrics端点暴露，由Prometheus Server定期抓取。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（/api/v1/books）、status（200/403）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 业务指标

	// BooksCreatedTotal 图书创建总数（Counter）
	BooksCreatedTotal prometheus.Counter

	// BookUpdatesDeniedTotal 因权限被拒绝的图书修改总数（Counter）
	BookUpdatesDeniedTotal prometheus.Counter

	// RelationPatchesTotal 用户图书关系更新总数（Counter）
	// 标签：field（like/in_bookmarks/rate）
	RelationPatchesTotal *prometheus.CounterVec

	// RatingRecomputesTotal 评分重算总数（Counter）
	RatingRecomputesTotal prometheus.Counter

	// RatingRecomputeDuration 评分重算耗时（Histogram）
	RatingRecomputeDuration prometheus.Histogram

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange（交换机）、routing_key（路由键）
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
//
// 必须在程序启动时调用一次，用于注册所有指标到全局Registry。
// promauto.New*会自动注册到默认Registry，重复注册会panic，
// 所以用initialized做保护（测试中可能多次调用）。
func InitMetrics() {
	if initialized {
		return
	}
	initialized = true

	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 图书业务指标
	BooksCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "books_created_total",
			Help: "图书创建总数",
		},
	)

	BookUpdatesDeniedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "book_updates_denied_total",
			Help: "因权限被拒绝的图书修改总数",
		},
	)

	RelationPatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relation_patches_total",
			Help: "用户图书关系更新总数",
		},
		[]string{"field"},
	)

	RatingRecomputesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rating_recomputes_total",
			Help: "评分重算总数",
		},
	)

	RatingRecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "rating_recompute_duration_seconds",
			Help: "评分重算耗时（秒）",
			// 重算是一次聚合查询加一次UPDATE，正常在百毫秒以内
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// 消息队列指标
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)
}
