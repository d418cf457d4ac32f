//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const runKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (service *osService) installAutostart(entry LaunchEntry) error {
	return reg("add", runKey, "/v", entry.Name, "/t", "REG_SZ", "/d", commandLine(entry), "/f")
}

func (service *osService) removeAutostart(entry LaunchEntry) error {
	// reg exits non-zero when the value is missing.
	if err := reg("query", runKey, "/v", entry.Name); err != nil {
		return nil
	}
	return reg("delete", runKey, "/v", entry.Name, "/f")
}

func reg(args ...string) error {
	output, err := exec.Command("reg", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("reg %s: %w: %s", args[0], err, strings.TrimSpace(string(output)))
	}
	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

func commandLine(entry LaunchEntry) string {
	words := []string{`"` + strings.Trim(entry.Exec, `"`) + `"`}
	for _, arg := range entry.Args {
		if strings.ContainsAny(arg, " \t") {
			arg = `"` + arg + `"`
		}
		words = append(words, arg)
	}
	return strings.Join(words, " ")
}
