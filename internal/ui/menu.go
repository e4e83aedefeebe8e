// Package ui holds small pieces of page state that outlive a single render.
package ui

import "sync"

// ScrollLocker freezes and restores page scrolling.
type ScrollLocker interface {
	LockScroll()
	UnlockScroll()
}

// Menu is the mobile navigation menu. Page scrolling is locked exactly while
// the menu is open.
type Menu struct {
	mu     sync.Mutex
	locker ScrollLocker
	open   bool
	locked bool
}

// NewMenu returns a closed menu bound to locker.
func NewMenu(locker ScrollLocker) *Menu {
	return &Menu{locker: locker}
}

// Toggle opens a closed menu and closes an open one.
func (m *Menu) Toggle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(!m.open)
}

// Open shows the menu and locks scrolling.
func (m *Menu) Open() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(true)
}

// Close hides the menu, as when a navigation link is followed.
func (m *Menu) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(false)
}

// IsOpen reports whether the menu is shown.
func (m *Menu) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Teardown releases the scroll lock if held, whatever the menu state.
func (m *Menu) Teardown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	if m.locked {
		m.locked = false
		m.locker.UnlockScroll()
	}
}

func (m *Menu) setLocked(open bool) {
	m.open = open
	switch {
	case open && !m.locked:
		m.locked = true
		m.locker.LockScroll()
	case !open && m.locked:
		m.locked = false
		m.locker.UnlockScroll()
	}
}
