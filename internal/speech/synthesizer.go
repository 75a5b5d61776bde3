// Package speech converts reply text to audio through the hosted
// text-to-speech endpoint, with SSML pause shaping and an in-process
// memo cache.
package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"linguachat/internal/language"
	"linguachat/internal/metrics"
	"linguachat/pkg/errors"
	"linguachat/pkg/logger"
)

const (
	// DefaultSpeed is used when a requested speed is out of range
	DefaultSpeed = 0.8
	minSpeed     = 0.5
	maxSpeed     = 1.5

	outputFormat = "audio-16khz-32kbitrate-mono-mp3"
)

// ClampSpeed validates a speed multiplier, falling back to the default
// for out-of-range values. The bounds themselves are accepted.
func ClampSpeed(speed float64) float64 {
	if speed < minSpeed || speed > maxSpeed {
		return DefaultSpeed
	}
	return speed
}

// Synthesizer is the text-to-speech client. The memo cache lives for
// the process lifetime and is cleared when a new session starts; there
// is no eviction policy.
type Synthesizer struct {
	endpoint string
	key      string
	client   *http.Client
	enabled  bool

	mu    sync.Mutex
	cache map[string]string
	group singleflight.Group

	metrics *metrics.Collector
	logger  *zap.Logger
}

// NewSynthesizer creates a synthesizer for the given provider region
// and key. Empty credentials yield a disabled synthesizer that returns
// no audio.
func NewSynthesizer(key, region string, collector *metrics.Collector) *Synthesizer {
	s := &Synthesizer{
		key:     key,
		client:  &http.Client{},
		cache:   make(map[string]string),
		metrics: collector,
		logger:  logger.Get().Named("speech"),
	}
	if key != "" && region != "" {
		s.endpoint = fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", region)
		s.enabled = true
	} else {
		s.logger.Warn("speech credentials not configured, audio disabled")
	}
	return s
}

// Synthesize returns a base64-encoded audio payload for the text, or
// an error on synthesis failure. Callers on the chat path treat errors
// as "no audio" and still return a text-only reply.
func (s *Synthesizer) Synthesize(ctx context.Context, text, lang string, speed float64) (string, error) {
	if !s.enabled {
		return "", errors.ErrSpeechNotConfigured
	}

	cacheKey := fmt.Sprintf("%s|%s|%.2f", text, lang, speed)

	s.mu.Lock()
	if cached, ok := s.cache[cacheKey]; ok {
		s.mu.Unlock()
		s.metrics.SynthCacheHit()
		return cached, nil
	}
	s.mu.Unlock()

	// Collapse concurrent duplicate requests onto one provider call.
	encoded, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		s.metrics.SynthCacheMiss()
		audio, err := s.synthesize(ctx, text, lang, speed)
		if err != nil {
			return "", err
		}
		s.mu.Lock()
		s.cache[cacheKey] = audio
		s.mu.Unlock()
		return audio, nil
	})
	if err != nil {
		s.metrics.SynthFailure()
		s.logger.Error("speech synthesis failed",
			zap.String("language", lang),
			zap.Float64("speed", speed),
			zap.Error(err),
		)
		return "", errors.NewSynthesisFailed(lang, err)
	}
	return encoded.(string), nil
}

func (s *Synthesizer) synthesize(ctx context.Context, text, lang string, speed float64) (string, error) {
	voice := language.VoiceName(lang, "default")
	ssml := BuildSSML(text, voice, speed)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(ssml))
	if err != nil {
		return "", err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", s.key)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", outputFormat)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("synthesis returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(audio), nil
}

// ClearCache drops all memoized audio. Called when a session resets.
func (s *Synthesizer) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]string)
}

// CacheSize returns the number of memoized entries
func (s *Synthesizer) CacheSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}
