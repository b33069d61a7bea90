// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordImportSuccess(mode string)
	RecordImportFailure(mode string)
	RecordRateLimitDenied()
	RecordPromptRejected(kind string)
	RecordModelRejected()
	RecordAccessDenied(action string)
	RecordGenerationSuccess()
	RecordGenerationFailure()
	RecordGenerationLatency(duration time.Duration)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	importSuccess     *prometheus.CounterVec
	importFail        *prometheus.CounterVec
	rateLimitDenied   prometheus.Counter
	promptRejected    *prometheus.CounterVec
	modelRejected     prometheus.Counter
	accessDenied      *prometheus.CounterVec
	generationSuccess prometheus.Counter
	generationFail    prometheus.Counter
	generationLatency prometheus.Histogram
	httpStatus        *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		importSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foliogen_import_success_total",
			Help: "プロフィール取り込み成功の合計数（モード別）",
		}, []string{"mode"}),
		importFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foliogen_import_fail_total",
			Help: "プロフィール取り込み失敗の合計数（モード別）",
		}, []string{"mode"}),
		rateLimitDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foliogen_ai_rate_limit_denied_total",
			Help: "AIレート制限による拒否の合計数",
		}),
		promptRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foliogen_prompt_rejected_total",
			Help: "プロンプト拒否の合計数（理由別）",
		}, []string{"kind"}),
		modelRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foliogen_model_rejected_total",
			Help: "許可リスト外モデル拒否の合計数",
		}),
		accessDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foliogen_access_denied_total",
			Help: "エンタイトルメント拒否の合計数（操作別）",
		}, []string{"action"}),
		generationSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foliogen_generation_success_total",
			Help: "ポートフォリオ生成成功の合計数",
		}),
		generationFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foliogen_generation_fail_total",
			Help: "ポートフォリオ生成失敗の合計数",
		}),
		generationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "foliogen_generation_latency_seconds",
			Help:    "ポートフォリオ生成のレイテンシ（秒）",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foliogen_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.importSuccess,
		c.importFail,
		c.rateLimitDenied,
		c.promptRejected,
		c.modelRejected,
		c.accessDenied,
		c.generationSuccess,
		c.generationFail,
		c.generationLatency,
		c.httpStatus,
	)

	return c
}

// RecordImportSuccess はプロフィール取り込み成功を記録する。
func (c *Collector) RecordImportSuccess(mode string) {
	c.importSuccess.WithLabelValues(mode).Inc()
}

// RecordImportFailure はプロフィール取り込み失敗を記録する。
func (c *Collector) RecordImportFailure(mode string) {
	c.importFail.WithLabelValues(mode).Inc()
}

// RecordRateLimitDenied はAIレート制限による拒否を記録する。
func (c *Collector) RecordRateLimitDenied() {
	c.rateLimitDenied.Inc()
}

// RecordPromptRejected はプロンプト拒否を理由別に記録する。
func (c *Collector) RecordPromptRejected(kind string) {
	c.promptRejected.WithLabelValues(kind).Inc()
}

// RecordModelRejected は許可リスト外モデルの拒否を記録する。
func (c *Collector) RecordModelRejected() {
	c.modelRejected.Inc()
}

// RecordAccessDenied はエンタイトルメント拒否を操作別に記録する。
func (c *Collector) RecordAccessDenied(action string) {
	c.accessDenied.WithLabelValues(action).Inc()
}

// RecordGenerationSuccess はポートフォリオ生成成功を記録する。
func (c *Collector) RecordGenerationSuccess() {
	c.generationSuccess.Inc()
}

// RecordGenerationFailure はポートフォリオ生成失敗を記録する。
func (c *Collector) RecordGenerationFailure() {
	c.generationFail.Inc()
}

// RecordGenerationLatency は生成のレイテンシを記録する。
func (c *Collector) RecordGenerationLatency(duration time.Duration) {
	c.generationLatency.Observe(duration.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
