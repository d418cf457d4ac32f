//go:build linux

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (service *osService) installAutostart(entry LaunchEntry) error {
	path, err := service.desktopEntryPath(entry)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(desktopEntry(entry)), 0o644); err != nil {
		return fmt.Errorf("write desktop entry: %w", err)
	}
	return nil
}

func (service *osService) removeAutostart(entry LaunchEntry) error {
	path, err := service.desktopEntryPath(entry)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove desktop entry: %w", err)
	}
	return nil
}

func (service *osService) desktopEntryPath(entry LaunchEntry) (string, error) {
	configDir, err := service.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autostart", entry.slug()+".desktop"), nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func desktopEntry(entry LaunchEntry) string {
	words := []string{desktopQuote(entry.Exec)}
	for _, arg := range entry.Args {
		words = append(words, desktopQuote(arg))
	}

	var builder strings.Builder
	builder.WriteString("[Desktop Entry]\n")
	builder.WriteString("Type=Application\n")
	fmt.Fprintf(&builder, "Name=%s\n", entry.Name)
	if entry.Comment != "" {
		fmt.Fprintf(&builder, "Comment=%s\n", entry.Comment)
	}
	fmt.Fprintf(&builder, "Exec=%s\n", strings.Join(words, " "))
	builder.WriteString("Terminal=false\n")
	builder.WriteString("X-GNOME-Autostart-enabled=true\n")
	return builder.String()
}

// desktopQuote quotes an Exec word when it contains spaces or quotes.
func desktopQuote(word string) string {
	if !strings.ContainsAny(word, " \t\"\\") {
		return word
	}
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(word)
	return `"` + escaped + `"`
}
