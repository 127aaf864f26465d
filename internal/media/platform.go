package media

import (
	"os"
	"path/filepath"
)

// Platform identifies the operating-system family for path probing
type Platform int

const (
	Other Platform = iota
	Windows
	MacOS
	Linux
)

func (p Platform) String() string {
	switch p {
	case Windows:
		return "windows"
	case MacOS:
		return "macos"
	case Linux:
		return "linux"
	default:
		return "other"
	}
}

// PlatformFromGOOS maps a runtime.GOOS value to a Platform
func PlatformFromGOOS(goos string) Platform {
	switch goos {
	case "windows":
		return Windows
	case "darwin":
		return MacOS
	case "linux":
		return Linux
	default:
		return Other
	}
}

// Env holds the environment values that influence where Anki keeps its data
type Env struct {
	Home        string
	AppData     string // %APPDATA% (roaming) on Windows
	XDGDataHome string
}

// EnvFromOS reads Env from the current process environment
func EnvFromOS() Env {
	home, _ := os.UserHomeDir()
	return Env{
		Home:        home,
		AppData:     os.Getenv("APPDATA"),
		XDGDataHome: os.Getenv("XDG_DATA_HOME"),
	}
}

// CandidateBases returns the Anki2 base directories to probe, in order.
// It has no side effects; existence is checked by the Resolver.
func CandidateBases(platform Platform, env Env) []string {
	var bases []string

	switch platform {
	case Windows:
		if env.AppData != "" {
			bases = append(bases, filepath.Join(env.AppData, "Anki2"))
		}
	case MacOS:
		bases = append(bases, filepath.Join(env.Home, "Library", "Application Support", "Anki2"))
	case Linux:
		if env.XDGDataHome != "" {
			bases = append(bases, filepath.Join(env.XDGDataHome, "Anki2"))
		}
		bases = append(bases,
			filepath.Join(env.Home, ".local", "share", "Anki2"),
			// Flatpak install
			filepath.Join(env.Home, ".var", "app", "net.ankiweb.Anki", "data", "Anki2"),
		)
	}

	return bases
}
