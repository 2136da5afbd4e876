// Package main implements archbase - a terminal-resident workspace shell
// that hosts independently-built third-party terminal apps side by side,
// giving each a capability-scoped view of shared desktop services.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/adrg/xdg"
	"github.com/archbase/shell/internal/app"
	"github.com/archbase/shell/internal/config"
	"github.com/archbase/shell/internal/host"
	"github.com/archbase/shell/internal/input"
	"github.com/archbase/shell/internal/registry"
	"github.com/archbase/shell/internal/server"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// run subcommand flags
var (
	sshMode    bool
	sshPort    string
	sshHost    string
	sshKeyPath string
	debugMode  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "archbase",
		Short:   "Terminal workspace shell for hosting third-party apps",
		Version: version,
	}

	rootCmd.AddCommand(newRunCommand(), newManifestCommand(), newDoctorCommand())

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run archbase locally or as an SSH server",
		Example: `  # Run locally
  archbase run

  # Host over SSH, one isolated shell instance per connection
  archbase run --ssh --host 0.0.0.0 --port 2222`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if debugMode {
				_ = os.Setenv("ARCHBASE_DEBUG_INTERNAL", "1")
			}
			if sshMode {
				return runSSHServer()
			}
			return runLocal()
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolVar(&sshMode, "ssh", false, "Run archbase as an SSH server")
	cmd.Flags().StringVar(&sshPort, "port", "2222", "SSH server port")
	cmd.Flags().StringVar(&sshHost, "host", "localhost", "SSH server host")
	cmd.Flags().StringVar(&sshKeyPath, "key-path", "", "Path to SSH host key (auto-generated if not specified)")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	return cmd
}

func runLocal() error {
	app.SetInputHandler(input.HandleInput)

	initialOS := &app.OS{
		FocusedWindow:    -1,
		WindowExitChan:   make(chan string, 10),
		MouseSnapping:    false,
		CurrentWorkspace: 1,
		NumWorkspaces:    9,
		WorkspaceFocus:   make(map[int]int),
	}

	appHost, err := newAppHost(initialOS)
	if err != nil {
		log.Warn("app host unavailable, running with plain shell windows only", "error", err)
	} else {
		initialOS.Host = appHost
	}

	p := tea.NewProgram(initialOS, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithFPS(config.NormalFPS))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("archbase exited with error: %w", err)
	}
	return nil
}

// newAppHost builds the registry/loader/sdk/permissions pipeline for os
// and registers its global window-management shortcuts. Manifests are
// rehydrated from the user's installed-apps directory; a host with zero
// registered apps is still fully wired, it simply has nothing to launch
// until the user installs one.
func newAppHost(appOS *app.OS) (*host.AppHost, error) {
	manifestDir := filepath.Join(xdg.DataHome, "archbase", "apps")
	h, err := host.NewDefault(manifestDir)
	if err != nil {
		return nil, err
	}

	userConfig, err := config.LoadUserConfig()
	if err != nil {
		log.Warn("failed to load config for app host shortcuts, using defaults", "error", err)
		userConfig = config.DefaultConfig()
	}

	launchNext := func() {
		for _, m := range h.Registry.List() {
			appOS.LaunchHostedApp(m.ID)
			return
		}
		log.Info("no apps registered under", "dir", manifestDir)
	}
	overrides := config.AppLauncherOverrides(userConfig)
	if err := h.RegisterWindowBuiltins(launchNext, appOS.Viewport, overrides); err != nil {
		return nil, fmt.Errorf("register window shortcuts: %w", err)
	}

	return h, nil
}

func runSSHServer() error {
	log.Info("starting archbase SSH server", "host", sshHost, "port", sshPort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Info("shutting down SSH server")
		cancel()
	}()

	return server.StartSSHServer(ctx, &server.SSHServerConfig{
		Host:    sshHost,
		Port:    sshPort,
		KeyPath: sshKeyPath,
		Version: version,
	})
}

func newManifestCommand() *cobra.Command {
	manifestCmd := &cobra.Command{
		Use:   "manifest",
		Short: "Inspect and validate app manifests",
	}

	validateCmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate a manifest.toml file against the registry schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			m, err := registry.LoadManifestFile(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s (%s) valid — strategy: %s\n", m.Name, m.ID, strategyName(m.Strategy()))
			return nil
		},
		SilenceUsage: true,
	}

	manifestCmd.AddCommand(validateCmd)
	return manifestCmd
}

func strategyName(s registry.Strategy) string {
	switch s {
	case registry.StrategyWasm:
		return "wasm"
	case registry.StrategySandbox:
		return "sandbox"
	default:
		return "federated"
	}
}

func newDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the local archbase environment for common problems",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDoctor()
		},
		SilenceUsage: true,
	}
}

func runDoctor() error {
	ok := true

	configPath, err := xdg.SearchConfigFile("archbase/config.toml")
	if err != nil {
		fmt.Println("[warn] no user config found, defaults will be used")
	} else {
		fmt.Printf("[ ok ] user config: %s\n", configPath)
	}

	if _, err := config.LoadUserConfig(); err != nil {
		fmt.Printf("[fail] user config failed to load: %v\n", err)
		ok = false
	} else {
		fmt.Println("[ ok ] user config loads cleanly")
	}

	manifestDir := filepath.Join(xdg.DataHome, "archbase", "apps")
	manifests, err := registry.LoadManifestDir(manifestDir)
	if err != nil {
		fmt.Printf("[fail] installed manifests at %s: %v\n", manifestDir, err)
		ok = false
	} else {
		fmt.Printf("[ ok ] %d installed manifest(s) under %s\n", len(manifests), manifestDir)
	}

	if !ok {
		return fmt.Errorf("doctor found problems")
	}
	fmt.Println("archbase environment looks healthy")
	return nil
}
