package input

import (
	"github.com/archbase/shell/internal/app"
	"github.com/archbase/shell/internal/interact"
	"github.com/archbase/shell/internal/keycombo"
	tea "github.com/charmbracelet/bubbletea/v2"
)

// HandleInput is the application's single entry point for every input
// message, registered with app.SetInputHandler at startup. It tries the
// app host's global shortcut registry first — except in terminal mode
// with a focused window, where the keystroke counts as editable input and
// global shortcuts are skipped — then falls back to the mode-specific
// terminal/window-management/copy-mode dispatchers, and finally to mouse
// handling.
func HandleInput(msg tea.Msg, o *app.OS) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return handleKeyPress(msg, o)
	case tea.MouseClickMsg:
		return handleMouseClick(msg, o)
	case tea.MouseMotionMsg:
		return handleMouseMotion(msg, o)
	case tea.MouseReleaseMsg:
		return handleMouseRelease(msg, o)
	case tea.MouseWheelMsg:
		return handleMouseWheel(msg, o)
	default:
		return o, nil
	}
}

func handleKeyPress(msg tea.KeyPressMsg, o *app.OS) (*app.OS, tea.Cmd) {
	if o.Host != nil {
		editable := interact.EditableTarget(o.Mode == app.TerminalMode && o.GetFocusedWindow() != nil)
		if ev, ok := keyEvent(msg); ok && o.Host.Interact.DispatchGlobal(ev, editable) {
			return o, nil
		}
	}

	if win := o.GetFocusedWindow(); win != nil && win.CopyMode != nil && win.CopyMode.Active {
		return HandleCopyModeKey(msg, o, win)
	}

	if o.Mode == app.TerminalMode {
		return HandleTerminalModeKey(msg, o)
	}
	return HandleWindowManagementModeKey(msg, o)
}

// keyEvent reinterprets a bubbletea key message as a keycombo.Event by
// round-tripping it through keycombo.Parse: tea.KeyPressMsg.String()
// already renders "ctrl+shift+p"-style combo strings, the exact format
// Parse expects, so there is no need for a second modifier-bit mapping.
func keyEvent(msg tea.KeyPressMsg) (keycombo.Event, bool) {
	combo, err := keycombo.Parse(msg.String())
	if err != nil {
		return keycombo.Event{}, false
	}
	return keycombo.Event{
		Key:   combo.Key,
		Ctrl:  combo.Ctrl,
		Meta:  combo.Meta,
		Alt:   combo.Alt,
		Shift: combo.Shift,
	}, true
}
