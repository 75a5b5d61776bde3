package speech

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linguachat/pkg/errors"
)

func TestClampSpeed(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.8, 0.8},
		{0.5, 0.5},
		{1.5, 1.5},
		{0.3, DefaultSpeed},
		{2.0, DefaultSpeed},
		{0, DefaultSpeed},
		{-1, DefaultSpeed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampSpeed(tt.in), "speed %v", tt.in)
	}
}

func TestSynthesizeDisabledWithoutCredentials(t *testing.T) {
	s := NewSynthesizer("", "", nil)

	_, err := s.Synthesize(context.Background(), "hola", "Spanish", 0.8)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeSpeech))
}

func testSynthesizer(t *testing.T, handler http.HandlerFunc) *Synthesizer {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s := NewSynthesizer("test-key", "westeurope", nil)
	s.endpoint = server.URL
	return s
}

func TestSynthesizeReturnsBase64Audio(t *testing.T) {
	var calls int32
	s := testSynthesizer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "test-key", r.Header.Get("Ocp-Apim-Subscription-Key"))
		assert.Equal(t, "application/ssml+xml", r.Header.Get("Content-Type"))
		assert.Equal(t, outputFormat, r.Header.Get("X-Microsoft-OutputFormat"))
		w.Write([]byte("fake-mp3-bytes"))
	})

	audio, err := s.Synthesize(context.Background(), "hola", "Spanish", 0.8)
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("fake-mp3-bytes")), audio)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSynthesizeCaches(t *testing.T) {
	var calls int32
	s := testSynthesizer(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte("audio"))
	})

	first, err := s.Synthesize(context.Background(), "hola", "Spanish", 0.8)
	require.NoError(t, err)
	second, err := s.Synthesize(context.Background(), "hola", "Spanish", 0.8)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second request is a cache hit")
	assert.Equal(t, 1, s.CacheSize())

	// A different speed is a different cache entry
	_, err = s.Synthesize(context.Background(), "hola", "Spanish", 1.0)
	require.NoError(t, err)
	assert.Equal(t, 2, s.CacheSize())

	s.ClearCache()
	assert.Equal(t, 0, s.CacheSize())
}

func TestSynthesizeProviderError(t *testing.T) {
	s := testSynthesizer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad voice", http.StatusBadRequest)
	})

	_, err := s.Synthesize(context.Background(), "hola", "Spanish", 0.8)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeSpeech))
	assert.Equal(t, 0, s.CacheSize(), "failures are not cached")
}
