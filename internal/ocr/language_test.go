package ocr

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		value string
		want  Language
		ok    bool
	}{
		{"korean", LanguageKorean, true},
		{"ko", LanguageKorean, true},
		{"KOREAN", LanguageKorean, true},
		{"en", LanguageEnglish, true},
		{"English", LanguageEnglish, true},
		{"chinese", LanguageChinese, true},
		{"zh", LanguageChinese, true},
		{"ru", LanguageCyrillic, true},
		{"klingon", LanguageEnglish, false},
		{"", LanguageEnglish, false},
	}
	for _, tt := range tests {
		got, ok := ParseLanguage(tt.value)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParseLanguage(%q) = (%v, %v), want (%v, %v)", tt.value, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDetectSystemLanguage(t *testing.T) {
	tests := []struct {
		env  string
		want Language
	}{
		{"ko_KR.UTF-8", LanguageKorean},
		{"en_US.UTF-8", LanguageEnglish},
		{"zh_CN.UTF-8", LanguageChinese},
		{"uk_UA.UTF-8", LanguageCyrillic},
		{"", LanguageEnglish},
	}
	for _, tt := range tests {
		t.Setenv("LANG", tt.env)
		if got := DetectSystemLanguage(); got != tt.want {
			t.Fatalf("LANG=%q: got %v, want %v", tt.env, got, tt.want)
		}
	}
}

func TestResolveLanguagePrefersConfig(t *testing.T) {
	t.Setenv("LANG", "en_US.UTF-8")
	if got := ResolveLanguage("korean"); got != LanguageKorean {
		t.Fatalf("got %v, want Korean", got)
	}
	if got := ResolveLanguage(""); got != LanguageEnglish {
		t.Fatalf("got %v, want English fallback", got)
	}
	if got := ResolveLanguage("not-a-language"); got != LanguageEnglish {
		t.Fatalf("got %v, want English fallback for invalid config", got)
	}
}

func TestResolveModelDirPrefersUserDir(t *testing.T) {
	dataHome := t.TempDir()
	modelDir := filepath.Join(dataHome, "snapmark", "models")
	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	t.Setenv("XDG_DATA_HOME", dataHome)

	got, ok := ResolveModelDir()
	if !ok || got != modelDir {
		t.Fatalf("ResolveModelDir() = (%q, %v), want (%q, true)", got, ok, modelDir)
	}
}

func TestResolveModelDirMissingEverywhere(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", filepath.Join(t.TempDir(), "missing"))
	t.Setenv("HOME", filepath.Join(t.TempDir(), "missing-home"))

	if _, err := os.Stat(systemModelDir); err == nil {
		t.Skip("system model dir exists on this machine")
	}
	if dir, ok := ResolveModelDir(); ok {
		t.Fatalf("ResolveModelDir() = %q, want miss", dir)
	}
}

func TestLanguageModelFilenames(t *testing.T) {
	if got := LanguageKorean.RecognitionModelFilename(); got != "korean_PP-OCRv5_mobile_rec_infer.mnn" {
		t.Fatalf("korean model = %q", got)
	}
	if got := LanguageChinese.CharsetFilename(); got != "ppocr_keys_v5.txt" {
		t.Fatalf("chinese charset = %q", got)
	}
	if got := LanguageEnglish.RecognitionModelFilename(); got != "en_PP-OCRv5_mobile_rec_infer.mnn" {
		t.Fatalf("english model = %q", got)
	}
}
