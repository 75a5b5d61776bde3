// Package language holds the static per-language tables: synthesis
// voices, pause timings and localized fallback error messages.
package language

// Default is used whenever a language is unknown
const Default = "English"

// Voices maps a voice preference to a provider voice identifier
type Voices struct {
	Male   string
	Female string
}

type entry struct {
	voices       Voices
	defaultVoice string
	errorMessage string
}

var table = map[string]entry{
	"Spanish": {
		voices:       Voices{Male: "es-ES-AlvaroNeural", Female: "es-ES-ElviraNeural"},
		defaultVoice: "male",
		errorMessage: "Lo siento, estoy teniendo problemas en este momento. Por favor, inténtalo de nuevo.",
	},
	"English": {
		voices:       Voices{Male: "en-US-GuyNeural", Female: "en-US-AriaNeural"},
		defaultVoice: "male",
		errorMessage: "I'm sorry, I'm having trouble right now. Please try again in a moment.",
	},
	"French": {
		voices:       Voices{Male: "fr-FR-HenriNeural", Female: "fr-FR-DeniseNeural"},
		defaultVoice: "male",
		errorMessage: "Désolé, j'ai des difficultés en ce moment. Veuillez réessayer.",
	},
	"German": {
		voices:       Voices{Male: "de-DE-ConradNeural", Female: "de-DE-KatjaNeural"},
		defaultVoice: "male",
		errorMessage: "Entschuldigung, ich habe gerade Probleme. Bitte versuchen Sie es noch einmal.",
	},
	"Italian": {
		voices:       Voices{Male: "it-IT-DiegoNeural", Female: "it-IT-ElsaNeural"},
		defaultVoice: "male",
		errorMessage: "Mi dispiace, sto avendo problemi in questo momento. Per favore riprova.",
	},
	"Portuguese": {
		voices:       Voices{Male: "pt-BR-AntonioNeural", Female: "pt-BR-FranciscaNeural"},
		defaultVoice: "male",
		errorMessage: "Desculpe, estou tendo problemas no momento. Por favor, tente novamente.",
	},
	"Russian": {
		voices:       Voices{Male: "ru-RU-DmitryNeural", Female: "ru-RU-SvetlanaNeural"},
		defaultVoice: "male",
		errorMessage: "Извините, у меня сейчас проблемы. Пожалуйста, попробуйте еще раз.",
	},
	"Chinese": {
		voices:       Voices{Male: "zh-CN-YunxiNeural", Female: "zh-CN-XiaoxiaoNeural"},
		defaultVoice: "male",
		errorMessage: "对不起，我现在遇到了问题。请稍后再试。",
	},
	"Japanese": {
		voices:       Voices{Male: "ja-JP-KeitaNeural", Female: "ja-JP-NanamiNeural"},
		defaultVoice: "male",
		errorMessage: "申し訳ありません、現在問題が発生しています。もう一度お試しください。",
	},
	"Korean": {
		voices:       Voices{Male: "ko-KR-InJoonNeural", Female: "ko-KR-SunHiNeural"},
		defaultVoice: "male",
		errorMessage: "죄송합니다, 지금 문제가 있습니다. 다시 시도해 주세요.",
	},
	"Arabic": {
		voices:       Voices{Male: "ar-SA-HamedNeural", Female: "ar-SA-ZariyahNeural"},
		defaultVoice: "male",
		errorMessage: "آسف، أواجه مشكلة الآن. يرجى المحاولة مرة أخرى.",
	},
	"Hindi": {
		voices:       Voices{Male: "hi-IN-MadhurNeural", Female: "hi-IN-SwaraNeural"},
		defaultVoice: "male",
		errorMessage: "क्षमा करें, मुझे अभी समस्या हो रही है। कृपया फिर से प्रयास करें।",
	},
}

// PauseDurations are SSML break times in milliseconds, one per
// punctuation class. Shared across languages.
type PauseDurations struct {
	Sentence  int // after . ! ?
	Comma     int // after ,
	Semicolon int // after ;
}

// Pauses returns the configured pause durations
func Pauses() PauseDurations {
	return PauseDurations{Sentence: 300, Comma: 150, Semicolon: 200}
}

// VoiceName maps a language and voice preference to a provider voice
// identifier. Unknown languages fall back to the English table, unknown
// preferences to the language's default voice.
func VoiceName(lang, preference string) string {
	e, ok := table[lang]
	if !ok {
		e = table[Default]
	}
	if preference == "" || preference == "default" {
		preference = e.defaultVoice
	}
	switch preference {
	case "female":
		return e.voices.Female
	case "male":
		return e.voices.Male
	default:
		if e.defaultVoice == "female" {
			return e.voices.Female
		}
		return e.voices.Male
	}
}

// ErrorMessage returns the localized generic apology for a language
func ErrorMessage(lang string) string {
	if e, ok := table[lang]; ok {
		return e.errorMessage
	}
	return table[Default].errorMessage
}

// Supported returns all configured language names
func Supported() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	return names
}
