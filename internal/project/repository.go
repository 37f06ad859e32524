package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoConfigDir is returned when none of the configured project directories exist.
var ErrNoConfigDir = errors.New("no project config directory found")

// Options 仓库配置
// Options configures a Repository
type Options struct {
	// ConfigDirs are tried in order; the first existing directory is used.
	ConfigDirs []string
	// ProgressFile is the progress note file name looked up under each project root.
	ProgressFile string
	// Skip lists config file names that are never loaded (templates).
	Skip []string
}

// Repository 从 tmuxinator 配置目录加载项目
// Repository loads projects from a tmuxinator-style config directory
type Repository struct {
	opts Options
}

func NewRepository(opts Options) *Repository {
	if strings.TrimSpace(opts.ProgressFile) == "" {
		opts.ProgressFile = "prgs.md"
	}
	return &Repository{opts: opts}
}

// Dir returns the config directory Load would read, or "" when none exists.
func (r *Repository) Dir() string {
	for _, dir := range r.opts.ConfigDirs {
		dir = expandHome(dir)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}

// rawConfig is the subset of a tmuxinator project file this tool reads.
type rawConfig struct {
	Name        string `yaml:"name"`
	Ddl         any    `yaml:"ddl"`
	Priority    string `yaml:"priority"`
	Description string `yaml:"description"`
	Root        string `yaml:"root"`
}

// Load 读取当前配置与进度文件，返回新快照
// Load reads the current configs and progress files and returns a fresh snapshot.
// Broken configs become warnings; only a missing or unreadable directory is an error.
func (r *Repository) Load() (Snapshot, error) {
	dir := r.Dir()
	if dir == "" {
		return Snapshot{}, fmt.Errorf("%w (tried %s)", ErrNoConfigDir, strings.Join(r.opts.ConfigDirs, ", "))
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read config dir: %w", err)
	}

	var (
		records  []Record
		warnings []LoadWarning
	)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isProjectFile(name) || r.skipped(name) {
			continue
		}
		rec, ws, ok := r.loadFile(filepath.Join(dir, name))
		warnings = append(warnings, ws...)
		if ok {
			records = append(records, rec)
		}
	}
	return NewSnapshot(records, warnings), nil
}

func (r *Repository) loadFile(path string) (Record, []LoadWarning, bool) {
	base := filepath.Base(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, []LoadWarning{{File: base, Message: fmt.Sprintf("read failed: %v", err)}}, false
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return Record{}, []LoadWarning{{File: base, Message: fmt.Sprintf("parse failed: %v", err)}}, false
	}
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return Record{}, []LoadWarning{{File: base, Message: "not a YAML mapping"}}, false
	}
	var raw rawConfig
	if err := node.Content[0].Decode(&raw); err != nil {
		return Record{}, []LoadWarning{{File: base, Message: fmt.Sprintf("decode failed: %v", err)}}, false
	}

	var warnings []LoadWarning
	rec := Record{
		Name:        strings.TrimSpace(raw.Name),
		Priority:    ParsePriority(raw.Priority),
		Description: strings.TrimSpace(raw.Description),
		File:        path,
	}
	if rec.Name == "" {
		rec.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	deadline, ok, err := parseDeadline(raw.Ddl)
	if err != nil {
		warnings = append(warnings, LoadWarning{File: base, Message: fmt.Sprintf("invalid ddl: %v", err)})
	}
	rec.Deadline, rec.HasDeadline = deadline, ok

	if root := strings.TrimSpace(raw.Root); root != "" {
		rec.Root = expandHome(root)
		progress, found, err := readProgress(filepath.Join(rec.Root, r.opts.ProgressFile))
		if err != nil {
			warnings = append(warnings, LoadWarning{File: base, Message: fmt.Sprintf("read %s: %v", r.opts.ProgressFile, err)})
		}
		rec.Progress, rec.HasProgress = progress, found
	}
	return rec, warnings, true
}

func parseDeadline(v any) (time.Time, bool, error) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, false, nil
	case time.Time:
		return NewDate(d), true, nil
	case string:
		if strings.TrimSpace(d) == "" {
			return time.Time{}, false, nil
		}
		t, err := ParseDate(d)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("%q is not YYYY-MM-DD", d)
		}
		return t, true, nil
	default:
		return time.Time{}, false, fmt.Errorf("unsupported value %v", d)
	}
}

// readProgress treats a missing file as absent, not as an error.
func readProgress(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

func (r *Repository) skipped(name string) bool {
	for _, s := range r.opts.Skip {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

func isProjectFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yml" || ext == ".yaml"
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
