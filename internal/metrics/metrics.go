// Package metrics exposes Prometheus instrumentation for the chat
// pipeline. A nil *Collector is valid and records nothing, so tests
// and degraded wiring don't need a registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all pipeline metrics
type Collector struct {
	chatRequests   *prometheus.CounterVec
	llmCalls       prometheus.Counter
	llmFailures    prometheus.Counter
	synthCacheHits prometheus.Counter
	synthCacheMiss prometheus.Counter
	synthFailures  prometheus.Counter
	graphWrites    prometheus.Counter
	graphRejected  prometheus.Counter
	summaries      prometheus.Counter
	requestLatency prometheus.Histogram
}

// NewCollector registers all metrics on the given registerer
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		chatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linguachat_chat_requests_total",
			Help: "Chat messages processed, labeled by resolved intent.",
		}, []string{"intent"}),
		llmCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linguachat_llm_calls_total",
			Help: "Chat-completion requests sent to the LLM provider.",
		}),
		llmFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linguachat_llm_failures_total",
			Help: "Chat-completion requests that failed after retries.",
		}),
		synthCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linguachat_synthesis_cache_hits_total",
			Help: "Audio requests served from the memo cache.",
		}),
		synthCacheMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linguachat_synthesis_cache_misses_total",
			Help: "Audio requests that went to the synthesis provider.",
		}),
		synthFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linguachat_synthesis_failures_total",
			Help: "Speech synthesis attempts that failed.",
		}),
		graphWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linguachat_graph_writes_total",
			Help: "Entity and relationship upserts executed against the graph store.",
		}),
		graphRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linguachat_graph_rejected_queries_total",
			Help: "Queries blocked by the Cypher safety gate.",
		}),
		summaries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linguachat_summaries_generated_total",
			Help: "Conversation summaries generated.",
		}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "linguachat_chat_request_seconds",
			Help:    "End-to-end chat message handling latency.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.chatRequests,
		c.llmCalls,
		c.llmFailures,
		c.synthCacheHits,
		c.synthCacheMiss,
		c.synthFailures,
		c.graphWrites,
		c.graphRejected,
		c.summaries,
		c.requestLatency,
	)
	return c
}

func (c *Collector) ChatRequest(intent string) {
	if c != nil {
		c.chatRequests.WithLabelValues(intent).Inc()
	}
}

func (c *Collector) LLMCall() {
	if c != nil {
		c.llmCalls.Inc()
	}
}

func (c *Collector) LLMFailure() {
	if c != nil {
		c.llmFailures.Inc()
	}
}

func (c *Collector) SynthCacheHit() {
	if c != nil {
		c.synthCacheHits.Inc()
	}
}

func (c *Collector) SynthCacheMiss() {
	if c != nil {
		c.synthCacheMiss.Inc()
	}
}

func (c *Collector) SynthFailure() {
	if c != nil {
		c.synthFailures.Inc()
	}
}

func (c *Collector) GraphWrite() {
	if c != nil {
		c.graphWrites.Inc()
	}
}

func (c *Collector) GraphRejected() {
	if c != nil {
		c.graphRejected.Inc()
	}
}

func (c *Collector) SummaryGenerated() {
	if c != nil {
		c.summaries.Inc()
	}
}

func (c *Collector) ObserveChatLatency(seconds float64) {
	if c != nil {
		c.requestLatency.Observe(seconds)
	}
}

// Handler returns the Prometheus exposition handler for a gatherer
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
