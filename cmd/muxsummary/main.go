package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"muxsummary/internal/config"
	"muxsummary/internal/i18n"
	"muxsummary/internal/project"
	"muxsummary/internal/provider"
	"muxsummary/internal/tui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	configDirs []string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "muxsummary",
		Short: "Dashboard of tmuxinator projects with AI prioritization",
		Long: `muxsummary reads tmuxinator project configs (ddl, priority, description, root)
and each project's progress note, shows them sorted by deadline, and on request
asks a chat-completion model for a prioritized plan.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to config JSON/JSONC")
	root.PersistentFlags().StringSliceVar(&flags.configDirs, "config-dir", nil, "Project config directory (repeatable, overrides projects.config_dirs)")

	root.AddCommand(newListCmd(flags))
	root.AddCommand(newPromptCmd(flags))
	root.AddCommand(newMatrixCmd(flags))
	return root
}

// runtimeEnv 启动时解析出的配置、日志与项目仓库
type runtimeEnv struct {
	cfg      config.Config
	logger   *slog.Logger
	closeLog func() error
	repo     *project.Repository
	locale   *i18n.I18n
}

func setup(flags *rootFlags) (*runtimeEnv, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if len(flags.configDirs) > 0 {
		cfg.Projects.ConfigDirs = append([]string(nil), flags.configDirs...)
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	locale := i18n.Init(cfg.UI.Locale)

	repo := project.NewRepository(project.Options{
		ConfigDirs:   cfg.Projects.ConfigDirs,
		ProgressFile: cfg.Projects.ProgressFile,
		Skip:         cfg.Projects.Skip,
	})
	return &runtimeEnv{cfg: cfg, logger: logger, closeLog: closeLog, repo: repo, locale: locale}, nil
}

func (e *runtimeEnv) close() {
	if err := e.closeLog(); err != nil {
		fmt.Fprintf(os.Stderr, "close log failed: %v\n", err)
	}
}

// loadInitial 首次加载失败即退出
func (e *runtimeEnv) loadInitial() (project.Snapshot, error) {
	snap, err := e.repo.Load()
	if err != nil {
		e.logger.Error("initial load failed", "error", err)
		return project.Snapshot{}, fmt.Errorf("load projects: %w", err)
	}
	for _, w := range snap.Warnings() {
		e.logger.Warn("project config warning", "file", w.File, "message", w.Message)
	}
	e.logger.Info("projects loaded", "dir", e.repo.Dir(), "projects", snap.Len(), "warnings", len(snap.Warnings()))
	return snap, nil
}

// errNoTerminal 仪表盘需要交互终端
var errNoTerminal = errors.New("the dashboard needs an interactive terminal; use 'muxsummary list', 'muxsummary matrix' or 'muxsummary prompt' instead")

func runDashboard(flags *rootFlags) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNoTerminal
	}

	env, err := setup(flags)
	if err != nil {
		return err
	}
	defer env.close()

	snap, err := env.loadInitial()
	if err != nil {
		return err
	}

	client := provider.NewClient(providerResolver(flags.configPath, env.cfg.Provider, env.logger)).
		WithLogger(env.logger)

	env.logger.Info("starting dashboard", "model", env.cfg.Provider.Model, "base_url", env.cfg.Provider.BaseURL)
	err = tui.Run(tui.Options{
		Loader:      env.repo,
		Analyzer:    client,
		Snapshot:    snap,
		UrgencyDays: env.cfg.UI.UrgencyDays,
		Locale:      env.locale,
		Logger:      env.logger,
	})
	if err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	env.logger.Info("dashboard exited")
	return nil
}

// providerResolver 每次分析时重新读取配置；读取失败沿用启动时的 provider 配置
// providerResolver re-reads the config for every analysis call and falls back to
// the startup provider settings when the reload fails
func providerResolver(configPath string, fallback config.ProviderConfig, logger *slog.Logger) provider.Resolver {
	return func() config.ProviderConfig {
		cfg, err := config.Load(configPath)
		if err != nil {
			logger.Warn("config reload failed, using startup provider settings", "error", err)
			return fallback
		}
		return cfg.Provider
	}
}
