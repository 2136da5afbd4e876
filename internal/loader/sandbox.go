package loader

import (
	"fmt"
	"net"
	"net/url"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/archbase/shell/internal/bridge"
	"github.com/archbase/shell/internal/registry"
)

// dangerousAllowTokens mirrors the iframe sandbox attribute's unsafe
// tokens; even re-grounded as a child-process boundary, a manifest must
// not be able to ask the host to waive isolation it cannot actually
// waive, so the tokens are still rejected and the rest forwarded to the
// child as a documented capability hint.
var dangerousAllowTokens = map[string]bool{
	"allow-same-origin":                        true,
	"allow-top-navigation":                     true,
	"allow-top-navigation-by-user-activation":  true,
	"allow-top-navigation-to-custom-protocols": true,
}

// NormalizeSandboxTokens assembles the sandbox attribute string's token
// set: always "allow-scripts", plus every declared token that is not on
// the dangerous list.
func NormalizeSandboxTokens(allow []string) []string {
	tokens := []string{"allow-scripts"}
	for _, a := range allow {
		if dangerousAllowTokens[a] {
			continue
		}
		tokens = append(tokens, a)
	}
	return tokens
}

// allowedSandboxScheme reports whether scheme names a transport this
// host can actually isolate a child across: a bare local path (no
// scheme, exec'd directly) or a "unix" socket a pre-launched sandboxed
// process is already listening on. Anything else — including the
// browser-era "javascript:" — is refused before any process is
// touched.
func allowedSandboxScheme(scheme string) bool {
	return scheme == "" || scheme == "unix"
}

// SandboxedApp is an out-of-process child connected to the host
// exclusively through a framed bridge.Endpoint over its stdio (or a
// dialed unix socket): the terminal-host analogue of an iframe that can
// only speak to its parent through postMessage.
type SandboxedApp struct {
	Manifest *registry.Manifest
	Endpoint *bridge.Endpoint
	cmd      *exec.Cmd
	conn     net.Conn
}

// Dispose tears down the child process or socket connection.
func (a *SandboxedApp) Dispose() error {
	if a.cmd != nil && a.cmd.Process != nil {
		_ = a.cmd.Process.Kill()
	}
	if a.conn != nil {
		return a.conn.Close()
	}
	return nil
}

// NewSandboxedFactory builds a Factory that launches m.Sandbox's target
// behind a host bridge. handler answers incoming SDK method calls
// (already routed through the capability-checking façade, per §4.7).
func NewSandboxedFactory(handler bridge.Handler) Factory {
	return func(m *registry.Manifest) (Instance, error) {
		if m.Sandbox == nil {
			return nil, fmt.Errorf("sandboxed app %s: no sandbox config", m.ID)
		}

		scheme, target, err := parseSandboxURL(m.Sandbox.URL)
		if err != nil {
			return nil, fmt.Errorf("sandboxed app %s: %w", m.ID, err)
		}
		if !allowedSandboxScheme(scheme) {
			return nil, fmt.Errorf("sandboxed app %s: invalid sandbox url scheme %q", m.ID, scheme)
		}

		if m.Sandbox.Origin == "*" {
			log.Warn("sandbox origin is wildcard; permissible for development only", "app", m.ID)
		}

		tokens := NormalizeSandboxTokens(m.Sandbox.Allow)

		switch scheme {
		case "unix":
			conn, err := net.Dial("unix", target)
			if err != nil {
				return nil, fmt.Errorf("sandboxed app %s: dial %s: %w", m.ID, target, err)
			}
			ep := bridge.NewEndpoint(conn, handler)
			go func() { _ = ep.ReadLoop(conn) }()
			return &SandboxedApp{Manifest: m, Endpoint: ep, conn: conn}, nil

		default:
			if target == "" {
				return nil, fmt.Errorf("sandboxed app %s: empty sandbox target", m.ID)
			}
			cmd := exec.Command(target)
			cmd.Env = append(cmd.Env,
				"ARCHBASE_APP_ID="+m.ID,
				"ARCHBASE_WINDOW_ISOLATION=sandbox",
				"ARCHBASE_SANDBOX_ALLOW="+strings.Join(tokens, " "),
			)
			stdin, err := cmd.StdinPipe()
			if err != nil {
				return nil, fmt.Errorf("sandboxed app %s: stdin pipe: %w", m.ID, err)
			}
			stdout, err := cmd.StdoutPipe()
			if err != nil {
				return nil, fmt.Errorf("sandboxed app %s: stdout pipe: %w", m.ID, err)
			}
			if err := cmd.Start(); err != nil {
				return nil, fmt.Errorf("sandboxed app %s: start: %w", m.ID, err)
			}
			ep := bridge.NewEndpoint(stdin, handler)
			go func() { _ = ep.ReadLoop(stdout) }()
			return &SandboxedApp{Manifest: m, Endpoint: ep, cmd: cmd}, nil
		}
	}
}

// parseSandboxURL splits raw into a scheme ("" for a bare path) and the
// remaining target (path, or unix socket path for "unix://...").
// url.Parse is called unconditionally: gating on "://" would let an
// opaque-form URI like "javascript:alert(1)" (no slashes at all) slip
// through misclassified as a bare local path instead of being refused
// for its scheme.
func parseSandboxURL(raw string) (scheme, target string, err error) {
	if raw == "" {
		return "", "", fmt.Errorf("empty sandbox url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parse sandbox url: %w", err)
	}
	switch u.Scheme {
	case "":
		return "", raw, nil
	case "unix":
		return "unix", u.Path, nil
	default:
		return u.Scheme, "", nil
	}
}
