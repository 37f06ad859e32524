package i18n

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
)

// I18n 一种语言的只读消息表
// I18n is the read-only message catalog of one locale
type I18n struct {
	locale   string
	messages map[string]string
}

var global atomic.Pointer[I18n]

// Global 返回全局实例；未调用 Init 时按环境变量检测语言
// Global returns the process-wide catalog. Without a prior Init it detects the
// locale from the environment once.
func Global() *I18n {
	if i := global.Load(); i != nil {
		return i
	}
	global.CompareAndSwap(nil, New(""))
	return global.Load()
}

// Init 用配置中的 locale 替换全局实例，空值表示自动检测
// Init replaces the global catalog; an empty locale means auto-detect.
func Init(locale string) *I18n {
	i := New(locale)
	global.Store(i)
	return i
}

// T 全局翻译快捷函数
func T(key string, args ...any) string {
	return Global().T(key, args...)
}

// New 创建 i18n 实例
// New builds a catalog for locale, falling back to English for missing keys
func New(locale string) *I18n {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = DetectLocale()
	}
	locale = normalizeLocale(locale)

	messages := make(map[string]string, len(EnMessages))
	for k, v := range EnMessages {
		messages[k] = v
	}
	if locale == "zh-CN" {
		for k, v := range ZhCNMessages {
			messages[k] = v
		}
	}
	return &I18n{locale: locale, messages: messages}
}

// T 翻译；缺失的 key 原样返回
func (i *I18n) T(key string, args ...any) string {
	tmpl, ok := i.messages[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

func (i *I18n) Locale() string {
	return i.locale
}

// localeEnv 按 POSIX 优先级排列，MUXSUMMARY_LANG 最优先
var localeEnv = []string{"MUXSUMMARY_LANG", "LC_ALL", "LC_MESSAGES", "LANG"}

// DetectLocale 自动检测 locale
// DetectLocale reads the first non-empty locale variable
func DetectLocale() string {
	for _, env := range localeEnv {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return normalizeLocale(v)
		}
	}
	return "en"
}

func normalizeLocale(s string) string {
	s = strings.TrimSpace(s)
	// 去掉 .UTF-8 与 @modifier 后缀
	if idx := strings.IndexAny(s, ".@"); idx >= 0 {
		s = s[:idx]
	}
	if s == "" || s == "C" || s == "POSIX" {
		return "en"
	}
	s = strings.ReplaceAll(s, "_", "-")
	lower := strings.ToLower(s)

	switch {
	case strings.HasPrefix(lower, "zh"):
		return "zh-CN"
	case strings.HasPrefix(lower, "en"):
		return "en"
	}
	return s
}
