package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type ProviderConfig struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	// APIKeyEnv 保存凭据的环境变量名；凭据本身从不写入配置
	// APIKeyEnv names the environment variable holding the credential; the credential itself never lives in config
	APIKeyEnv   string  `json:"api_key_env"`
	TimeoutMS   int     `json:"timeout_ms"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

type ProjectsConfig struct {
	ConfigDirs   []string `json:"config_dirs"`
	ProgressFile string   `json:"progress_file"`
	Skip         []string `json:"skip"`
}

type UIConfig struct {
	UrgencyDays int    `json:"urgency_days"`
	Locale      string `json:"locale"`
}

type LogConfig struct {
	// File "-" disables logging.
	File  string `json:"file"`
	Level string `json:"level"`
}

type Config struct {
	Provider ProviderConfig `json:"provider"`
	Projects ProjectsConfig `json:"projects"`
	UI       UIConfig       `json:"ui"`
	Log      LogConfig      `json:"log"`
}

type fileProviderConfig struct {
	BaseURL     *string  `json:"base_url"`
	Model       *string  `json:"model"`
	APIKeyEnv   *string  `json:"api_key_env"`
	TimeoutMS   *int     `json:"timeout_ms"`
	Temperature *float64 `json:"temperature"`
	MaxTokens   *int     `json:"max_tokens"`
}

type fileProjectsConfig struct {
	ConfigDirs   *[]string `json:"config_dirs"`
	ProgressFile *string   `json:"progress_file"`
	Skip         *[]string `json:"skip"`
}

type fileUIConfig struct {
	UrgencyDays *int    `json:"urgency_days"`
	Locale      *string `json:"locale"`
}

type fileConfig struct {
	Provider *fileProviderConfig `json:"provider"`
	Projects *fileProjectsConfig `json:"projects"`
	UI       *fileUIConfig       `json:"ui"`
	Log      *LogConfig          `json:"log"`
}

// Default 默认配置
// Default returns the built-in configuration
func Default() Config {
	return Config{
		Provider: ProviderConfig{
			BaseURL:     DefaultBaseURL,
			Model:       DefaultModel,
			APIKeyEnv:   DefaultAPIKeyEnv,
			TimeoutMS:   DefaultTimeoutMS,
			Temperature: DefaultTemperature,
			MaxTokens:   DefaultMaxTokens,
		},
		Projects: ProjectsConfig{
			ConfigDirs:   []string{"~/.config/tmuxinator", "~/.tmuxinator"},
			ProgressFile: DefaultProgressFile,
			Skip:         []string{"template.yml"},
		},
		UI: UIConfig{
			UrgencyDays: DefaultUrgencyDays,
		},
		Log: LogConfig{
			File:  DefaultLogFile,
			Level: DefaultLogLevel,
		},
	}
}

// Load 按 默认 < 全局 < 项目 < $MUXSUMMARY_CONFIG_PATH < path < 环境变量 的顺序合并配置
// Load merges default < global < project < $MUXSUMMARY_CONFIG_PATH < path < env overrides
func Load(path string) (Config, error) {
	cfg := Default()

	for _, globalPath := range globalConfigPaths() {
		if err := mergeFromFile(&cfg, globalPath); err != nil {
			return Config{}, err
		}
	}
	if err := mergeFromFile(&cfg, findProjectConfigPath()); err != nil {
		return Config{}, err
	}
	if envPath := strings.TrimSpace(os.Getenv("MUXSUMMARY_CONFIG_PATH")); envPath != "" {
		if err := mergeFromFile(&cfg, envPath); err != nil {
			return Config{}, err
		}
	}
	if err := mergeFromFile(&cfg, path); err != nil {
		return Config{}, err
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := normalize(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func globalConfigPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	dir := filepath.Join(home, ".muxsummary")
	return []string{filepath.Join(dir, "config.json"), filepath.Join(dir, "config.jsonc")}
}

func findProjectConfigPath() string {
	candidates := []string{
		".muxsummary/config.jsonc",
		".muxsummary/config.json",
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func mergeFromFile(cfg *Config, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	resolved, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("expand config path %q: %w", path, err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %q: %w", resolved, err)
	}

	var fc fileConfig
	if err := json.Unmarshal(stripJSONComments(data), &fc); err != nil {
		return fmt.Errorf("parse config %q: %w", resolved, err)
	}
	applyFileConfig(cfg, fc)
	return nil
}

func applyFileConfig(cfg *Config, fc fileConfig) {
	if p := fc.Provider; p != nil {
		if p.BaseURL != nil {
			cfg.Provider.BaseURL = *p.BaseURL
		}
		if p.Model != nil {
			cfg.Provider.Model = *p.Model
		}
		if p.APIKeyEnv != nil {
			cfg.Provider.APIKeyEnv = *p.APIKeyEnv
		}
		if p.TimeoutMS != nil {
			cfg.Provider.TimeoutMS = *p.TimeoutMS
		}
		if p.Temperature != nil {
			cfg.Provider.Temperature = *p.Temperature
		}
		if p.MaxTokens != nil {
			cfg.Provider.MaxTokens = *p.MaxTokens
		}
	}
	if p := fc.Projects; p != nil {
		if p.ConfigDirs != nil {
			cfg.Projects.ConfigDirs = append([]string(nil), (*p.ConfigDirs)...)
		}
		if p.ProgressFile != nil {
			cfg.Projects.ProgressFile = *p.ProgressFile
		}
		if p.Skip != nil {
			cfg.Projects.Skip = append([]string(nil), (*p.Skip)...)
		}
	}
	if u := fc.UI; u != nil {
		if u.UrgencyDays != nil {
			cfg.UI.UrgencyDays = *u.UrgencyDays
		}
		if u.Locale != nil {
			cfg.UI.Locale = *u.Locale
		}
	}
	if l := fc.Log; l != nil {
		if strings.TrimSpace(l.File) != "" {
			cfg.Log.File = l.File
		}
		if strings.TrimSpace(l.Level) != "" {
			cfg.Log.Level = l.Level
		}
	}
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("MUXSUMMARY_BASE_URL")); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("MUXSUMMARY_MODEL")); v != "" {
		cfg.Provider.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("MUXSUMMARY_API_KEY_ENV")); v != "" {
		cfg.Provider.APIKeyEnv = v
	}
	if v := strings.TrimSpace(os.Getenv("MUXSUMMARY_TIMEOUT_MS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid MUXSUMMARY_TIMEOUT_MS: %q", v)
		}
		cfg.Provider.TimeoutMS = n
	}
	if v := strings.TrimSpace(os.Getenv("MUXSUMMARY_LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

func normalize(cfg *Config) error {
	cfg.Provider.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Provider.BaseURL), "/")
	cfg.Provider.Model = strings.TrimSpace(cfg.Provider.Model)
	cfg.Provider.APIKeyEnv = strings.TrimSpace(cfg.Provider.APIKeyEnv)
	if cfg.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is empty")
	}
	if cfg.Provider.Model == "" {
		return fmt.Errorf("provider.model is empty")
	}
	if cfg.Provider.APIKeyEnv == "" {
		return fmt.Errorf("provider.api_key_env is empty")
	}
	if cfg.Provider.TimeoutMS <= 0 {
		cfg.Provider.TimeoutMS = DefaultTimeoutMS
	}
	if cfg.Provider.MaxTokens < 0 {
		cfg.Provider.MaxTokens = 0
	}

	cfg.Projects.ConfigDirs = normalizePaths(cfg.Projects.ConfigDirs)
	if len(cfg.Projects.ConfigDirs) == 0 {
		return fmt.Errorf("projects.config_dirs is empty")
	}
	cfg.Projects.ProgressFile = strings.TrimSpace(cfg.Projects.ProgressFile)
	if cfg.Projects.ProgressFile == "" {
		cfg.Projects.ProgressFile = DefaultProgressFile
	}

	if cfg.UI.UrgencyDays < 0 {
		cfg.UI.UrgencyDays = 0
	}

	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return err
	}
	if f := strings.TrimSpace(cfg.Log.File); f != "" && f != "-" {
		expanded, err := expandPath(f)
		if err != nil {
			return fmt.Errorf("expand log file: %w", err)
		}
		cfg.Log.File = expanded
	}
	return nil
}

// ParseLevel maps a config level name to slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func normalizePaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	seen := map[string]struct{}{}
	for _, p := range paths {
		expanded, err := expandPath(p)
		if err != nil || expanded == "" {
			continue
		}
		if _, ok := seen[expanded]; ok {
			continue
		}
		seen[expanded] = struct{}{}
		out = append(out, expanded)
	}
	return out
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return filepath.Abs(path)
}

func stripJSONComments(data []byte) []byte {
	const (
		stateNormal = iota
		stateString
		stateLineComment
		stateBlockComment
	)

	state := stateNormal
	escaped := false
	out := bytes.Buffer{}

	for i := 0; i < len(data); i++ {
		c := data[i]
		next := byte(0)
		if i+1 < len(data) {
			next = data[i+1]
		}

		switch state {
		case stateNormal:
			if c == '"' {
				state = stateString
				out.WriteByte(c)
				continue
			}
			if c == '/' && next == '/' {
				state = stateLineComment
				i++
				continue
			}
			if c == '/' && next == '*' {
				state = stateBlockComment
				i++
				continue
			}
			out.WriteByte(c)
		case stateString:
			out.WriteByte(c)
			if escaped {
				escaped = false
				continue
			}
			if c == '\\' {
				escaped = true
				continue
			}
			if c == '"' {
				state = stateNormal
			}
		case stateLineComment:
			if c == '\n' {
				state = stateNormal
				out.WriteByte(c)
			}
		case stateBlockComment:
			if c == '*' && next == '/' {
				state = stateNormal
				i++
			}
		}
	}

	return out.Bytes()
}
