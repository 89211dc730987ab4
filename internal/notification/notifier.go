package notification

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

type Notifier interface {
	Send(title, message string) error
}

type DefaultNotifier struct {
	goos string
	run  func(name string, args ...string) error
}

func New() *DefaultNotifier {
	return &DefaultNotifier{
		goos: runtime.GOOS,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

func (n *DefaultNotifier) Send(title, message string) error {
	switch n.goos {
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escape(message), escape(title))
		return n.run("osascript", "-e", script)
	case "linux":
		return n.run("notify-send", title, message)
	case "windows":
		psScript := fmt.Sprintf(`
		[reflection.assembly]::loadwithpartialname("System.Windows.Forms")
		$notify = new-object system.windows.forms.notifyicon
		$notify.icon = [System.Drawing.SystemIcons]::Information
		$notify.visible = $true
		$notify.showballoontip(10, %s, %s, [system.windows.forms.tooltipicon]::None)
	`, psQuote(title), psQuote(message))
		return n.run("powershell", "-c", psScript)
	default:
		return fmt.Errorf("unsupported operating system: %s", n.goos)
	}
}

// escape keeps quotes in a licensee name from ending the AppleScript string.
func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// psQuote returns s as a single-quoted PowerShell literal. Nothing inside
// one is expanded; PowerShell also ends it on typographic single quotes, so
// those are doubled too.
func psQuote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'', '\u2018', '\u2019', '\u201a', '\u201b':
			b.WriteRune(r)
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}
