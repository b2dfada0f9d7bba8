package initcmd

import (
	"os/exec"
	"runtime"
)

// DetectCopyCommand probes for a known clipboard tool and returns the
// command line to invoke it, or empty when none is installed. macOS always
// has pbcopy; on Linux the Wayland tool wins over the X11 ones.
func DetectCopyCommand() string {
	if runtime.GOOS == "darwin" {
		return "pbcopy"
	}

	candidates := []struct {
		binary  string
		command string
	}{
		{"wl-copy", "wl-copy"},
		{"xclip", "xclip -selection clipboard"},
		{"xsel", "xsel --clipboard --input"},
	}

	for _, c := range candidates {
		if _, err := exec.LookPath(c.binary); err == nil {
			return c.command
		}
	}

	return ""
}
