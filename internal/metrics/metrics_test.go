package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRegistersAndCounts(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollector(registry)

	c.ChatRequest("chat")
	c.ChatRequest("teaching")
	c.LLMCall()
	c.SynthCacheHit()
	c.GraphWrite()
	c.SummaryGenerated()
	c.ObserveChatLatency(0.25)

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["linguachat_chat_requests_total"])
	assert.True(t, names["linguachat_llm_calls_total"])
	assert.True(t, names["linguachat_synthesis_cache_hits_total"])
	assert.True(t, names["linguachat_graph_writes_total"])
	assert.True(t, names["linguachat_chat_request_seconds"])
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector

	c.ChatRequest("chat")
	c.LLMCall()
	c.LLMFailure()
	c.SynthCacheHit()
	c.SynthCacheMiss()
	c.SynthFailure()
	c.GraphWrite()
	c.GraphRejected()
	c.SummaryGenerated()
	c.ObserveChatLatency(1)
}
