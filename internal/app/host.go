package app

import (
	"fmt"

	"github.com/archbase/shell/internal/config"
	"github.com/archbase/shell/internal/host"
	"github.com/archbase/shell/internal/snap"
	"github.com/archbase/shell/internal/terminal"
)

// Viewport reports the shell's current usable area for window placement
// and tiling, the three numbers every AppHost built-in shortcut needs to
// size a window it doesn't own a layout engine for on its own.
func (m *OS) Viewport() (vw, vh, taskbarH int) {
	return m.Width, m.Height, config.DockHeight
}

// LaunchHostedApp resolves appID through m.Host (the registry -> loader
// -> façade pipeline) and hosts the result as a window the same way
// AddWindow hosts a plain shell: a federated app's PTY is wrapped with
// terminal.NewWindowFromPTY so it gets the same chrome, drag/resize and
// scrollback machinery as any other window; a sandboxed or WASM app has
// no PTY to attach, so it gets a static window announcing itself until
// its bridge/wasm surface has something real to paint.
func (m *OS) LaunchHostedApp(appID string) *OS {
	if m.Host == nil {
		m.LogError("cannot launch %s: no app host configured", appID)
		return m
	}

	vw, vh, taskbarH := m.Viewport()
	if vw == 0 || vh == 0 {
		vw, vh = 80, 24
	}

	launched, err := m.Host.Launch(appID, vw, vh, taskbarH)
	if err != nil {
		m.LogError("launch %s: %v", appID, err)
		return m
	}

	placement := snap.AtPosition(vw/4, vh/4, snap.Zones(vw, vh, taskbarH))
	x, y, width, height := vw/4, vh/4, vw/2, vh/2
	if placement != nil {
		x, y, width, height = placement.Bounds.X, placement.Bounds.Y, placement.Bounds.W, placement.Bounds.H
	}

	var window *terminal.Window
	if launched.Federated {
		window = terminal.NewWindowFromPTY(launched.WindowID, launched.Manifest.DisplayName, x, y, width, height,
			len(m.Windows), m.WindowExitChan, launched.PTY, launched.Cmd)
	} else {
		content := fmt.Sprintf("%s\r\n\r\nloaded via %s isolation.\r\nthis app talks to the host over its bridge, not a pty.\r\n",
			launched.Manifest.DisplayName, isolationName(launched))
		window = terminal.NewStaticWindow(launched.WindowID, launched.Manifest.DisplayName, x, y, width, height,
			len(m.Windows), content)
	}
	if window == nil {
		m.LogError("launch %s: window construction failed", appID)
		_ = m.Host.Close(appID, launched.WindowID)
		return m
	}

	window.Workspace = m.CurrentWorkspace
	window.AppID = launched.Manifest.ID
	m.Windows = append(m.Windows, window)
	m.FocusWindow(len(m.Windows) - 1)

	if m.AutoTiling {
		if tree := m.GetOrCreateBSPTree(); tree != nil {
			m.AddWindowToBSPTree(window)
		} else {
			m.TileAllWindows()
		}
	}

	return m
}

func isolationName(la *host.LaunchedApp) string {
	if la.Federated {
		return "federated"
	}
	if la.Manifest.Wasm != nil {
		return "wasm"
	}
	return "sandbox"
}
