package notify

import (
	"fmt"
	"os/exec"
)

// DesktopNotifier dispatches notifications through the desktop
// environment via notify-send.
type DesktopNotifier struct {
	command string
}

// NewDesktopNotifier creates a desktop notifier. It errors when no
// notification command is available on this system.
func NewDesktopNotifier() (*DesktopNotifier, error) {
	path, err := exec.LookPath("notify-send")
	if err != nil {
		return nil, fmt.Errorf("notify-send not found: %w", err)
	}
	return &DesktopNotifier{command: path}, nil
}

// Send shows a desktop notification with a 5 second timeout.
func (d *DesktopNotifier) Send(n Notification) error {
	cmd := exec.Command(d.command, "-i", "logwatcher", "-t", "5000", n.Title, n.Message) // #nosec G204 - fixed command, data passed as arguments
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}
