package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/bastiangx/keymark/internal/cli"
	"github.com/bastiangx/keymark/internal/logger"
	"github.com/bastiangx/keymark/internal/utils"
	"github.com/bastiangx/keymark/pkg/catalog"
	"github.com/bastiangx/keymark/pkg/composer"
	"github.com/bastiangx/keymark/pkg/config"
	"github.com/bastiangx/keymark/pkg/server"
)

func serveCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve msgpack IPC on stdin/stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags)
		},
	}
}

func replCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Type into an interactive input backed by the engine",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runRepl(flags)
		},
	}
}

func configCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or rebuild the config file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file in use",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(config.GetActiveConfigPath(flags.configPath))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		RunE: func(_ *cobra.Command, _ []string) error {
			logger.SetLevel(flags.debug)
			cfg, _, err := config.LoadConfigWithPriority(flags.configPath)
			if err != nil {
				return err
			}
			return toml.NewEncoder(os.Stdout).Encode(cfg)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rebuild",
		Short: "Overwrite the default config file with defaults",
		RunE: func(_ *cobra.Command, _ []string) error {
			path, err := config.RebuildConfigFile()
			if err != nil {
				return fmt.Errorf("rebuild config: %w", err)
			}
			fmt.Println(path)
			return nil
		},
	})
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show current version",
		Run: func(_ *cobra.Command, _ []string) {
			printVersion()
		},
	}
}

func runServe(ctx context.Context, flags *rootFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger.SetLevel(flags.debug)
	if flags.debug {
		log.SetReportTimestamp(true)
	}

	cfg, configPath, err := config.LoadConfigWithPriority(flags.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(cfg, flags)

	c := newComposer(cfg, logger.Default("engine"))
	defer c.Close()

	keys := c.Refresh(ctx)
	showStartupInfo(configPath, cfg, keys)

	srv := server.NewServer(c, os.Stdin, os.Stdout, logger.Default("server"))
	srv.SetReadyBanner(cfg.Server.ReadyBanner)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

func runRepl(flags *rootFlags) error {
	logger.SetLevel(flags.debug)

	cfg, _, err := config.LoadConfigWithPriority(flags.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(cfg, flags)

	// The terminal belongs to the input; logs go to a file in debug mode
	// and nowhere otherwise.
	engineLog := logger.NewWithConfig(io.Discard, "engine", log.GetLevel(), false, false, log.TextFormatter)
	log.SetOutput(io.Discard)
	if flags.debug {
		path := filepath.Join(os.TempDir(), AppName+"-repl.log")
		fileLog, closer, err := logger.ToFile(path, "engine")
		if err != nil {
			return err
		}
		defer closer.Close()
		engineLog = fileLog
		log.SetDefault(fileLog)
		fmt.Fprintf(os.Stderr, "debug log: %s\n", path)
	}

	c := newComposer(cfg, engineLog)
	defer c.Close()

	return cli.Run(c, cli.Options{
		Placeholder:  cfg.CLI.Placeholder,
		ShowEntities: cfg.CLI.ShowEntities,
	})
}

func applyOverrides(cfg *config.Config, flags *rootFlags) {
	if flags.url != "" {
		cfg.Catalog.URL = flags.url
	}
	if flags.keysFile != "" {
		cfg.Catalog.KeysFile = flags.keysFile
		if flags.url == "" {
			cfg.Catalog.URL = ""
		}
	}
}

func newComposer(cfg *config.Config, l *log.Logger) *composer.Composer {
	return composer.New(composer.Options{
		Source:     buildSource(cfg.Catalog),
		Logger:     l,
		MaxMatches: cfg.Suggest.MaxMatches,
		CacheSize:  cfg.Suggest.CacheSize,
	})
}

// buildSource picks the key source: the endpoint when configured, else the
// key file, else none.
func buildSource(cc config.CatalogConfig) catalog.Source {
	if cc.URL != "" {
		log.Debugf("Using keys endpoint: %s", cc.URL)
		return catalog.NewHTTPSource(cc.URL, cc.Token())
	}
	if cc.KeysFile == "" {
		log.Warn("No key catalog configured, autocomplete stays empty")
		return nil
	}

	resolver, err := utils.NewPathResolver()
	if err != nil {
		log.Warnf("Failed to initialize path resolver: %v", err)
		return catalog.FileSource{Path: cc.KeysFile}
	}
	path, err := resolver.ResolveKeysFile(cc.KeysFile)
	if err != nil {
		log.Warnf("Key file %s not found in config, executable or working dir", cc.KeysFile)
		return catalog.FileSource{Path: cc.KeysFile}
	}
	log.Debugf("Using key file: %s", path)
	return catalog.FileSource{Path: path}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(configPath string, cfg *config.Config, keys int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	source := "none"
	switch {
	case cfg.Catalog.URL != "":
		source = cfg.Catalog.URL
	case cfg.Catalog.KeysFile != "":
		source = cfg.Catalog.KeysFile
	}

	println("=========")
	println(" keymark ")
	println("=========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("config: ( %s )", config.GetActiveConfigPath(configPath))
	log.Infof("keys: %d from %s", keys, source)
	log.Info("status: ready")
	println("=========")

	if resolver, err := utils.NewPathResolver(); err == nil {
		log.SetLevel(currentLevel)
		log.Debug("Runtime", "info", resolver.GetRuntimeInfo())
	}
}

func printVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ keymark ] Keeps your keys where you typed them")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}
