package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	appDirName     = "todo"
	configFileName = "todo.toml"
)

// findProjectConfigFile returns todo.toml or .todo.toml from the working directory.
func findProjectConfigFile() string {
	for _, name := range []string{configFileName, "." + configFileName} {
		if isFile(name) {
			return name
		}
	}
	return ""
}

// findUserConfigFile checks ~/.todo/todo.toml, then <user config dir>/todo/todo.toml.
func findUserConfigFile() string {
	var candidates []string
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, "."+appDirName, configFileName))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, appDirName, configFileName))
	}
	for _, path := range candidates {
		if isFile(path) {
			return path
		}
	}
	return ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// expandPath expands $VARS and a leading ~ in a configured directory.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimLeft(p[1:], `/\`))
}
