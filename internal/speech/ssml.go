package speech

import (
	"fmt"
	"strings"

	"linguachat/internal/language"
)

// BuildSSML wraps text in a synthesis markup document: timed pauses
// after sentence punctuation, commas and semicolons (scaled inversely
// with the speed multiplier, so faster speech gets shorter pauses) and
// a prosody rate set to the multiplier.
func BuildSSML(text, voice string, speed float64) string {
	pauses := language.Pauses()
	multiplier := 1.0 / speed

	sentencePause := int(float64(pauses.Sentence) * multiplier)
	commaPause := int(float64(pauses.Comma) * multiplier)
	semicolonPause := int(float64(pauses.Semicolon) * multiplier)

	marked := text
	for _, punct := range []string{".", "!", "?"} {
		marked = strings.ReplaceAll(marked, punct,
			fmt.Sprintf(`%s<break time="%dms"/>`, punct, sentencePause))
	}
	marked = strings.ReplaceAll(marked, ",",
		fmt.Sprintf(`,<break time="%dms"/>`, commaPause))
	marked = strings.ReplaceAll(marked, ";",
		fmt.Sprintf(`;<break time="%dms"/>`, semicolonPause))

	return fmt.Sprintf(`<speak version="1.0" xmlns="http://www.w3.org/2001/10/synthesis" xml:lang="en-US">
    <voice name="%s">
        <prosody rate="%.1f">
            %s
        </prosody>
    </voice>
</speak>`, voice, speed, marked)
}
