// Package server provides SSH server functionality for ArchBase.
package server

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/archbase/shell/internal/app"
	"github.com/archbase/shell/internal/config"
	"github.com/archbase/shell/internal/host"
	"github.com/archbase/shell/internal/input"
	"github.com/charmbracelet/log"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish/v2"
	"github.com/charmbracelet/wish/v2/bubbletea"
	"github.com/charmbracelet/wish/v2/logging"
)

// SSHServerConfig holds configuration for the SSH server. Each connection
// gets its own independent ArchBase instance and window store; there is no
// shared window state across sessions.
type SSHServerConfig struct {
	Host    string
	Port    string
	KeyPath string
	Version string
}

// StartSSHServer initializes and runs the SSH server.
func StartSSHServer(ctx context.Context, cfg *SSHServerConfig) error {
	var hostKeyPath string
	if cfg.KeyPath != "" {
		hostKeyPath = cfg.KeyPath
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}
		hostKeyPath = filepath.Join(homeDir, ".ssh", "archbase_host_key")
	}

	server, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(teaHandler),
			logging.Middleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create SSH server: %w", err)
	}

	go func() {
		log.Info("starting SSH server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil {
			log.Error("SSH server error", "err", err)
		}
	}()

	<-ctx.Done()

	log.Info("shutting down SSH server")
	return server.Shutdown(ctx)
}

// teaHandler creates an independent ArchBase instance for each SSH session.
func teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, active := sshSession.Pty()
	if !active {
		return nil, nil
	}
	return createArchBaseInstance(sshSession, pty.Window.Width, pty.Window.Height)
}

// createArchBaseInstance creates a standalone ArchBase instance scoped to
// one SSH session; its window store, focus stack and settings are private
// to that session.
func createArchBaseInstance(sshSession ssh.Session, width, height int) (tea.Model, []tea.ProgramOption) {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		log.Warn("failed to load config for SSH session, using defaults", "err", err)
		userConfig = config.DefaultConfig()
	}
	keybindRegistry := config.NewKeybindRegistry(userConfig)

	app.SetInputHandler(input.HandleInput)

	archbaseInstance := &app.OS{
		FocusedWindow:        -1,
		WindowExitChan:       make(chan string, 10),
		MouseSnapping:        false,
		MasterRatio:          0.5,
		CurrentWorkspace:     1,
		NumWorkspaces:        9,
		WorkspaceFocus:       make(map[int]int),
		WorkspaceLayouts:     make(map[int][]app.WindowLayout),
		WorkspaceHasCustom:   make(map[int]bool),
		WorkspaceMasterRatio: make(map[int]float64),
		PendingResizes:       make(map[string][2]int),
		Width:                width,
		Height:               height,
		SSHSession:           sshSession,
		IsSSHMode:            true,
		KeybindRegistry:      keybindRegistry,
		RecentKeys:           []app.KeyEvent{},
		KeyHistoryMaxSize:    5,
	}

	manifestDir := filepath.Join(xdg.DataHome, "archbase", "apps")
	appHost, err := host.NewDefault(manifestDir)
	if err != nil {
		log.Warn("app host unavailable for SSH session, running with plain shell windows only", "err", err)
	} else {
		archbaseInstance.Host = appHost
		launchNext := func() {
			for _, m := range appHost.Registry.List() {
				archbaseInstance.LaunchHostedApp(m.ID)
				return
			}
			log.Info("no apps registered under", "dir", manifestDir)
		}
		overrides := config.AppLauncherOverrides(userConfig)
		if err := appHost.RegisterWindowBuiltins(launchNext, archbaseInstance.Viewport, overrides); err != nil {
			log.Warn("failed to register window shortcuts for SSH session", "err", err)
		}
	}

	return archbaseInstance, []tea.ProgramOption{
		tea.WithFPS(config.NormalFPS),
	}
}
