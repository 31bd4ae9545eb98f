// Package ocr recognizes text in screenshot regions. Recognition runs
// on a background worker with at most one request in flight; the
// engine is created lazily on first use and reused afterwards.
package ocr

import (
	"os"
	"path/filepath"
	"strings"
)

const systemModelDir = "/usr/share/snapmark/models"

// Language selects the recognition model and character set.
type Language int

const (
	LanguageEnglish Language = iota
	LanguageKorean
	LanguageChinese
	LanguageLatin
	LanguageCyrillic
	LanguageArabic
	LanguageThai
	LanguageGreek
	LanguageDevanagari
	LanguageTamil
	LanguageTelugu
)

// String returns the config value for the language.
func (l Language) String() string {
	switch l {
	case LanguageKorean:
		return "korean"
	case LanguageChinese:
		return "chinese"
	case LanguageLatin:
		return "latin"
	case LanguageCyrillic:
		return "cyrillic"
	case LanguageArabic:
		return "arabic"
	case LanguageThai:
		return "th"
	case LanguageGreek:
		return "el"
	case LanguageDevanagari:
		return "devanagari"
	case LanguageTamil:
		return "ta"
	case LanguageTelugu:
		return "te"
	default:
		return "en"
	}
}

// DisplayName returns the human-readable language name.
func (l Language) DisplayName() string {
	switch l {
	case LanguageKorean:
		return "Korean"
	case LanguageChinese:
		return "Chinese"
	case LanguageLatin:
		return "Latin"
	case LanguageCyrillic:
		return "Cyrillic"
	case LanguageArabic:
		return "Arabic"
	case LanguageThai:
		return "Thai"
	case LanguageGreek:
		return "Greek"
	case LanguageDevanagari:
		return "Devanagari"
	case LanguageTamil:
		return "Tamil"
	case LanguageTelugu:
		return "Telugu"
	default:
		return "English"
	}
}

// RecognitionModelFilename is the recognition model file inside the
// model directory.
func (l Language) RecognitionModelFilename() string {
	switch l {
	case LanguageKorean:
		return "korean_PP-OCRv5_mobile_rec_infer.mnn"
	case LanguageChinese:
		return "PP-OCRv5_mobile_rec.mnn"
	case LanguageLatin:
		return "latin_PP-OCRv5_mobile_rec_infer.mnn"
	case LanguageCyrillic:
		return "cyrillic_PP-OCRv5_mobile_rec_infer.mnn"
	case LanguageArabic:
		return "arabic_PP-OCRv5_mobile_rec_infer.mnn"
	case LanguageThai:
		return "th_PP-OCRv5_mobile_rec_infer.mnn"
	case LanguageGreek:
		return "el_PP-OCRv5_mobile_rec_infer.mnn"
	case LanguageDevanagari:
		return "devanagari_PP-OCRv5_mobile_rec_infer.mnn"
	case LanguageTamil:
		return "ta_PP-OCRv5_mobile_rec_infer.mnn"
	case LanguageTelugu:
		return "te_PP-OCRv5_mobile_rec_infer.mnn"
	default:
		return "en_PP-OCRv5_mobile_rec_infer.mnn"
	}
}

// CharsetFilename is the character-set file inside the model
// directory.
func (l Language) CharsetFilename() string {
	switch l {
	case LanguageKorean:
		return "ppocr_keys_korean.txt"
	case LanguageChinese:
		return "ppocr_keys_v5.txt"
	case LanguageLatin:
		return "ppocr_keys_latin.txt"
	case LanguageCyrillic:
		return "ppocr_keys_cyrillic.txt"
	case LanguageArabic:
		return "ppocr_keys_arabic.txt"
	case LanguageThai:
		return "ppocr_keys_th.txt"
	case LanguageGreek:
		return "ppocr_keys_el.txt"
	case LanguageDevanagari:
		return "ppocr_keys_devanagari.txt"
	case LanguageTamil:
		return "ppocr_keys_ta.txt"
	case LanguageTelugu:
		return "ppocr_keys_te.txt"
	default:
		return "ppocr_keys_en.txt"
	}
}

// ParseLanguage maps a config value onto a language. Unrecognized
// values report false so callers can fall back to system detection.
func ParseLanguage(value string) (Language, bool) {
	switch strings.ToLower(value) {
	case "korean", "ko":
		return LanguageKorean, true
	case "en", "english":
		return LanguageEnglish, true
	case "chinese", "zh", "ch":
		return LanguageChinese, true
	case "latin":
		return LanguageLatin, true
	case "cyrillic", "ru":
		return LanguageCyrillic, true
	case "arabic", "ar":
		return LanguageArabic, true
	case "th", "thai":
		return LanguageThai, true
	case "el", "greek":
		return LanguageGreek, true
	case "devanagari", "hi":
		return LanguageDevanagari, true
	case "ta", "tamil":
		return LanguageTamil, true
	case "te", "telugu":
		return LanguageTelugu, true
	default:
		return LanguageEnglish, false
	}
}

// DetectSystemLanguage infers the language from the LANG environment
// variable, defaulting to English.
func DetectSystemLanguage() Language {
	lang, _, _ := strings.Cut(os.Getenv("LANG"), "_")
	switch lang {
	case "ko":
		return LanguageKorean
	case "zh":
		return LanguageChinese
	case "ru", "uk", "be":
		return LanguageCyrillic
	case "ar":
		return LanguageArabic
	case "th":
		return LanguageThai
	case "el":
		return LanguageGreek
	case "hi", "mr", "ne":
		return LanguageDevanagari
	case "ta":
		return LanguageTamil
	case "te":
		return LanguageTelugu
	default:
		return LanguageEnglish
	}
}

// ResolveLanguage prefers an explicit config value and falls back to
// system detection when it is empty or unrecognized.
func ResolveLanguage(configValue string) Language {
	if configValue != "" {
		if lang, ok := ParseLanguage(configValue); ok {
			return lang
		}
	}
	return DetectSystemLanguage()
}

// ResolveModelDir locates the model directory, preferring the user
// data dir over the system install.
func ResolveModelDir() (string, bool) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		if home := os.Getenv("HOME"); home != "" {
			base = filepath.Join(home, ".local", "share")
		}
	}
	if base != "" {
		userDir := filepath.Join(base, "snapmark", "models")
		if info, err := os.Stat(userDir); err == nil && info.IsDir() {
			return userDir, true
		}
	}
	if info, err := os.Stat(systemModelDir); err == nil && info.IsDir() {
		return systemModelDir, true
	}
	return "", false
}
