// Package ui holds the transient notification line shown under the player.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sonata-cli/sonata/style"
)

// Lifetime is how long a notification stays visible.
const Lifetime = 3 * time.Second

// Model holds the current notification.
type Model struct {
	notification string
	notifiedAt   time.Time
}

// NotificationMsg shows its text until Lifetime has passed.
type NotificationMsg string

// ClearNotificationMsg resets the notification if it has expired.
type ClearNotificationMsg struct{}

// Notify returns a command that shows text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg(text)
	}
}

// ClearNotification returns a delayed command that clears expired notifications.
func ClearNotification() tea.Cmd {
	return tea.Tick(Lifetime, func(time.Time) tea.Msg {
		return ClearNotificationMsg{}
	})
}

// Current returns the visible notification, if any.
func (m *Model) Current() string {
	return m.notification
}

// Update processes notification messages.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotificationMsg:
		m.notification = string(msg)
		m.notifiedAt = time.Now()
		return ClearNotification()
	case ClearNotificationMsg:
		// A newer notification restarted the clock.
		if time.Since(m.notifiedAt) >= Lifetime {
			m.notification = ""
		}
		return nil
	}
	return nil
}

// View appends the notification to the last line of content.
func (m *Model) View(content string) string {
	if m.notification == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	lines[len(lines)-1] += "  " + style.Faint(m.notification)
	return strings.Join(lines, "\n")
}
