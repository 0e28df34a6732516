package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// systemPluginDirs are the directories the docker CLI searches for plugins
// after the per-user one.
var systemPluginDirs = []string{
	"/usr/local/lib/docker/cli-plugins",
	"/usr/local/libexec/docker/cli-plugins",
	"/usr/lib/docker/cli-plugins",
	"/usr/libexec/docker/cli-plugins",
}

// PluginDirs returns the docker CLI plugin directories in search order:
// $DOCKER_CONFIG/cli-plugins (or ~/.docker/cli-plugins), then the system
// directories.
func PluginDirs() []string {
	var dirs []string
	if cfg := os.Getenv("DOCKER_CONFIG"); cfg != "" {
		dirs = append(dirs, filepath.Join(cfg, "cli-plugins"))
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".docker", "cli-plugins"))
	}
	if runtime.GOOS == "windows" {
		if pf := os.Getenv("ProgramData"); pf != "" {
			dirs = append(dirs, filepath.Join(pf, "Docker", "cli-plugins"))
		}
		return dirs
	}
	return append(dirs, systemPluginDirs...)
}

// PluginName returns the file name of the CLI plugin that implements
// "<binary> <subcommand>", e.g. "docker-compose" for "docker compose".
func PluginName(binary, subcommand string) string {
	name := binary + "-" + subcommand
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return name
}

// FindPlugin returns the path of the first regular file called name in
// dirs. Directories are checked in order.
func FindPlugin(dirs []string, name string) (string, error) {
	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", fmt.Errorf("CLI plugin %s not found in any of: %s",
		name, strings.Join(dirs, ", "))
}
