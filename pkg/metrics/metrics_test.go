package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestInitMetrics 测试指标初始化
func TestInitMetrics(t *testing.T) {
	InitMetrics()

	if HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal未初始化")
	}
	if HTTPRequestDuration == nil {
		t.Error("HTTPRequestDuration未初始化")
	}
	if HTTPRequestsInProgress == nil {
		t.Error("HTTPRequestsInProgress未初始化")
	}
	if BooksCreatedTotal == nil {
		t.Error("BooksCreatedTotal未初始化")
	}
	if RelationPatchesTotal == nil {
		t.Error("RelationPatchesTotal未初始化")
	}
	if RatingRecomputesTotal == nil {
		t.Error("RatingRecomputesTotal未初始化")
	}

	// 重复调用不应panic（promauto重复注册会panic,由initialized保护）
	InitMetrics()

	t.Log("✅ 所有指标初始化成功")
}

// TestBusinessCounters 测试业务计数器
func TestBusinessCounters(t *testing.T) {
	InitMetrics()

	before := getCounterValue(t, BooksCreatedTotal)
	BooksCreatedTotal.Inc()
	BooksCreatedTotal.Inc()
	after := getCounterValue(t, BooksCreatedTotal)

	if after-before != 2 {
		t.Errorf("Counter增量错误: expected=2, got=%f", after-before)
	}
}

// TestRelationPatchesByField 测试按字段维度的关系更新计数
func TestRelationPatchesByField(t *testing.T) {
	InitMetrics()

	RelationPatchesTotal.WithLabelValues("like").Inc()
	RelationPatchesTotal.WithLabelValues("rate").Inc()
	RelationPatchesTotal.WithLabelValues("like").Inc()

	likeCounter, err := RelationPatchesTotal.GetMetricWithLabelValues("like")
	if err != nil {
		t.Fatalf("获取like计数器失败: %v", err)
	}

	value := getCounterValue(t, likeCounter)
	if value < 2 {
		t.Errorf("like计数器值错误: expected>=2, got=%f", value)
	}
}

// getCounterValue 读取Counter当前值
func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	var m dto.Metric
	if err := counter.Write(&m); err != nil {
		t.Fatalf("读取指标失败: %v", err)
	}
	return m.GetCounter().GetValue()
}
