// Package platform holds the OS integration: config directory, login
// autostart and the single instance guard.
package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const defaultSlug = "cozyfocus"

// Service is the OS specific part of the app.
type Service interface {
	ConfigDir() (string, error)
	SetAutostart(entry LaunchEntry, enabled bool) error
}

// LaunchEntry describes how the OS should start the app at login.
type LaunchEntry struct {
	Name    string
	Exec    string
	Args    []string
	Comment string
}

// CurrentLaunchEntry builds an entry for the running executable.
func CurrentLaunchEntry(name string, args ...string) (LaunchEntry, error) {
	execPath, err := os.Executable()
	if err != nil {
		return LaunchEntry{}, fmt.Errorf("resolve executable: %w", err)
	}
	return LaunchEntry{
		Name:    name,
		Exec:    execPath,
		Args:    args,
		Comment: "Cozy pomodoro focus timer",
	}, nil
}

func (entry LaunchEntry) validate(enabling bool) error {
	if strings.TrimSpace(entry.Name) == "" {
		return errors.New("launch entry: name is empty")
	}
	if enabling && entry.Exec == "" {
		return errors.New("launch entry: exec path is empty")
	}
	return nil
}

// slug is the file system friendly form of the entry name.
func (entry LaunchEntry) slug() string {
	name := strings.ToLower(strings.TrimSpace(entry.Name))
	name = strings.Join(strings.Fields(name), "-")
	if name == "" {
		return defaultSlug
	}
	return name
}

type osService struct{}

// NewService returns the implementation for the running OS.
func NewService() Service {
	return &osService{}
}

// ConfigDir returns the OS configuration directory, falling back to the
// conventional location under the home directory.
func (service *osService) ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		return "", fmt.Errorf("config dir: %w", errors.Join(err, homeErr))
	}
	return fallbackConfigDir(homeDir), nil
}

// SetAutostart installs or removes the login entry. Removing an entry
// that does not exist is not an error.
func (service *osService) SetAutostart(entry LaunchEntry, enabled bool) error {
	if err := entry.validate(enabled); err != nil {
		return err
	}
	if enabled {
		if err := service.installAutostart(entry); err != nil {
			return fmt.Errorf("enable autostart: %w", err)
		}
		return nil
	}
	if err := service.removeAutostart(entry); err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	return nil
}
