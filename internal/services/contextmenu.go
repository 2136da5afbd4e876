package services

// MenuItem is one context-menu entry; Items non-empty makes it a
// submenu, opened on 150ms hover or ArrowRight per the host UI contract.
type MenuItem struct {
	ID       string
	Label    string
	Disabled bool
	Items    []MenuItem
	Action   func()
}

// Menu is the clamped-to-viewport position plus item tree for one open
// context menu instance.
type Menu struct {
	X, Y  int
	Items []MenuItem
}

// Clamp adjusts X, Y so the menu of size (w, h) stays fully inside a
// viewport of size (vw, vh).
func (m *Menu) Clamp(w, h, vw, vh int) {
	if m.X+w > vw {
		m.X = vw - w
	}
	if m.X < 0 {
		m.X = 0
	}
	if m.Y+h > vh {
		m.Y = vh - h
	}
	if m.Y < 0 {
		m.Y = 0
	}
}
