package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSSMLPauses(t *testing.T) {
	ssml := BuildSSML("Hello, world. Wait; go!", "en-US-GuyNeural", 1.0)

	assert.Contains(t, ssml, `<voice name="en-US-GuyNeural">`)
	assert.Contains(t, ssml, `<prosody rate="1.0">`)
	assert.Contains(t, ssml, `,<break time="150ms"/>`)
	assert.Contains(t, ssml, `.<break time="300ms"/>`)
	assert.Contains(t, ssml, `;<break time="200ms"/>`)
	assert.Contains(t, ssml, `!<break time="300ms"/>`)
}

func TestBuildSSMLPausesScaleWithSpeed(t *testing.T) {
	// Half speed doubles the pauses
	slow := BuildSSML("Hello. Bye,", "en-US-GuyNeural", 0.5)
	assert.Contains(t, slow, `.<break time="600ms"/>`)
	assert.Contains(t, slow, `,<break time="300ms"/>`)
	assert.Contains(t, slow, `<prosody rate="0.5">`)

	// Faster speech shortens them
	fast := BuildSSML("Hello.", "en-US-GuyNeural", 1.5)
	assert.Contains(t, fast, `.<break time="200ms"/>`)
}
