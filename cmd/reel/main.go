package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pders01/reel/internal/config"
	"github.com/pders01/reel/internal/debuglog"
	"github.com/pders01/reel/internal/media"
	"github.com/pders01/reel/internal/tui"
	"github.com/pders01/reel/internal/validation"
	"github.com/spf13/cobra"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath string
	dbPath     string
	logLevel   string
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:           "reel",
	Short:         "Find movies you'll enjoy without the hassle",
	Long:          "reel searches TMDb as you type and keeps a tally of what people look for.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("reel %s\n", Version)
		fmt.Println("Movie discovery")
		fmt.Println("github.com/pders01/reel")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := validation.NewSecurePathHandler().ConfigPath(configPath)
		if err != nil {
			return fmt.Errorf("config path: %w", err)
		}
		if err := config.GenerateDefaultConfig(path); err != nil {
			return fmt.Errorf("failed to generate config: %w", err)
		}
		fmt.Printf("Generated default configuration at: %s\n", path)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to configuration file")
	pf.StringVar(&dbPath, "db", "", "Path to database file (overrides config)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error, off (overrides config)")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Skip startup banner")

	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(versionCmd, configCmd, searchCmd, trendingCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !quiet {
		tui.ShowBanner(cmd.OutOrStdout(), Version)
	}

	ctx := commandContext(cmd)
	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	tui.ApplyTheme(svc.cfg.UI.Colors)

	app := tui.NewApp(svc.cfg, tui.Deps{
		Fetcher:   svc.client,
		Counter:   svc.counter,
		Suggester: svc.suggester,
		Opener:    media.NewLauncher(svc.cfg),
		PosterURL: svc.client.PosterURL,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		debuglog.Errorf("ui exited: %v", err)
		return err
	}
	return nil
}
