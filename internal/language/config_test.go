package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoiceName(t *testing.T) {
	assert.Equal(t, "es-ES-AlvaroNeural", VoiceName("Spanish", "default"))
	assert.Equal(t, "es-ES-ElviraNeural", VoiceName("Spanish", "female"))
	assert.Equal(t, "ja-JP-KeitaNeural", VoiceName("Japanese", "male"))

	// Unknown languages fall back to English
	assert.Equal(t, "en-US-GuyNeural", VoiceName("Klingon", "default"))
	// Unknown preferences fall back to the language default
	assert.Equal(t, "de-DE-ConradNeural", VoiceName("German", "robotic"))
}

func TestErrorMessageLocalized(t *testing.T) {
	assert.Equal(t,
		"Lo siento, estoy teniendo problemas en este momento. Por favor, inténtalo de nuevo.",
		ErrorMessage("Spanish"))
	assert.Equal(t,
		"I'm sorry, I'm having trouble right now. Please try again in a moment.",
		ErrorMessage("Klingon"))
}

func TestSupported(t *testing.T) {
	supported := Supported()
	assert.Len(t, supported, 12)
	assert.Contains(t, supported, "English")
	assert.Contains(t, supported, "Hindi")
}
