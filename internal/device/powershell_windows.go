//go:build windows

package device

import (
	"os/exec"

	"golang.org/x/sys/windows"
)

// hideWindow не даёт PowerShell мигнуть консольным окном.
func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &windows.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}
