package loader

import (
	"fmt"
	"os"
	"os/exec"

	xpty "github.com/charmbracelet/x/xpty"

	"github.com/archbase/shell/internal/registry"
)

// FederatedApp is a directly-hosted child process sharing the host's
// trust boundary: its stdio is a PTY the window renders into directly,
// with no bridge indirection. This is the terminal-host analogue of an
// in-process federated module.
type FederatedApp struct {
	Manifest *registry.Manifest
	Pty      xpty.Pty
	Cmd      *exec.Cmd
}

// Dispose kills the child process and releases the PTY.
func (a *FederatedApp) Dispose() error {
	if a.Cmd != nil && a.Cmd.Process != nil {
		_ = a.Cmd.Process.Kill()
	}
	if a.Pty != nil {
		return a.Pty.Close()
	}
	return nil
}

// NewFederatedFactory builds a Factory that launches m.Entrypoint as a
// PTY-backed child at the given terminal size. A manifest with no
// entrypoint fails the load, mirroring "loadRemote resolves falsy."
func NewFederatedFactory(cols, rows int) Factory {
	return func(m *registry.Manifest) (Instance, error) {
		if m.Entrypoint == "" {
			return nil, fmt.Errorf("federated app %s: no entrypoint", m.ID)
		}

		p, err := xpty.NewPty(cols, rows)
		if err != nil {
			return nil, fmt.Errorf("federated app %s: pty: %w", m.ID, err)
		}

		cmd := exec.Command(m.Entrypoint)
		cmd.Env = append(os.Environ(),
			"ARCHBASE_APP_ID="+m.ID,
			"ARCHBASE_WINDOW_ISOLATION=federated",
		)
		if err := p.Start(cmd); err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("federated app %s: start: %w", m.ID, err)
		}

		return &FederatedApp{Manifest: m, Pty: p, Cmd: cmd}, nil
	}
}
