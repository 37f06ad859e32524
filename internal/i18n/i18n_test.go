package i18n

import "testing"

func TestNew_English(t *testing.T) {
	i := New("en")
	if i.Locale() != "en" {
		t.Fatalf("Locale()=%q, want en", i.Locale())
	}
	if got := i.T("panel.recommendations"); got != "AI RECOMMENDATIONS" {
		t.Fatalf("T(panel.recommendations)=%q", got)
	}
}

func TestNew_ChineseFromLang(t *testing.T) {
	i := New("zh_CN.UTF-8")
	if i.Locale() != "zh-CN" {
		t.Fatalf("Locale()=%q, want zh-CN", i.Locale())
	}
	if got := i.T("rec.retry"); got != "按 'a' 重试" {
		t.Fatalf("T(rec.retry)=%q", got)
	}
}

func TestT_WithArgs(t *testing.T) {
	i := New("en")
	if got := i.T("panel.projects", 3); got != "PROJECT DETAILS (3 projects)" {
		t.Fatalf("T with args=%q", got)
	}
}

func TestT_MissingKey(t *testing.T) {
	if got := New("en").T("nonexistent.key"); got != "nonexistent.key" {
		t.Fatalf("T missing key=%q, want key itself", got)
	}
}

func TestCatalogsInSync(t *testing.T) {
	for k := range EnMessages {
		if _, ok := ZhCNMessages[k]; !ok {
			t.Errorf("zh-CN catalog missing %q", k)
		}
	}
	for k := range ZhCNMessages {
		if _, ok := EnMessages[k]; !ok {
			t.Errorf("en catalog missing %q", k)
		}
	}
}

func TestDetectLocaleFromEnv(t *testing.T) {
	t.Setenv("MUXSUMMARY_LANG", "zh_CN")
	if got := DetectLocale(); got != "zh-CN" {
		t.Fatalf("DetectLocale()=%q", got)
	}
}

func TestNormalizeLocale(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en_US.UTF-8", "en"},
		{"zh_CN.UTF-8", "zh-CN"},
		{"zh_TW", "zh-CN"},
		{"", "en"},
		{"fr_FR", "fr-FR"},
		{"C", "en"},
		{"POSIX", "en"},
		{"de_DE@euro", "de-DE"},
	}
	for _, tt := range tests {
		if got := normalizeLocale(tt.input); got != tt.expected {
			t.Errorf("normalizeLocale(%q)=%q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestInitSurvivesGlobal(t *testing.T) {
	t.Setenv("MUXSUMMARY_LANG", "en")
	Init("zh-CN")
	if got := Global().Locale(); got != "zh-CN" {
		t.Fatalf("Global().Locale()=%q after Init(zh-CN)", got)
	}
	Init("en")
	if got := T("rec.retry"); got != "Press 'a' to retry" {
		t.Fatalf("T after Init(en)=%q", got)
	}
}

func TestDetectLocalePrecedence(t *testing.T) {
	t.Setenv("MUXSUMMARY_LANG", "")
	t.Setenv("LC_ALL", "zh_CN.UTF-8")
	t.Setenv("LANG", "en_US.UTF-8")
	if got := DetectLocale(); got != "zh-CN" {
		t.Fatalf("DetectLocale()=%q, want LC_ALL to win over LANG", got)
	}
}
