// Package version reports build and runtime-configuration information for
// the emulator: the version/commit baked in at link time, plus which of the
// NES_CPU_DEBUG/NES_PPU_DEBUG/NES_APU_CHANNELS environment toggles are
// active, so a bug report can capture both in one call.
package version

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"time"
)

var (
	// These will be set at build time via -ldflags
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	BuildUser = "unknown"
)

// BuildInfo contains detailed build and runtime-configuration information.
type BuildInfo struct {
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit"`
	BuildTime  string `json:"build_time"`
	BuildUser  string `json:"build_user"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
	Arch       string `json:"arch"`
	CGOEnabled bool       `json:"cgo_enabled"`
	Debug      DebugFlags `json:"debug"`
}

// DebugFlags mirrors the NES_* environment toggles read by the CPU, PPU and
// APU packages, so PrintBuildInfo can show what's actually active without
// each package having to expose its own reporting hook.
type DebugFlags struct {
	CPUTrace    bool   `json:"cpu_trace"`
	PPUOverlay  bool   `json:"ppu_overlay"`
	APUChannels string `json:"apu_channels"`
}

func readDebugFlags() DebugFlags {
	channels, ok := os.LookupEnv("NES_APU_CHANNELS")
	if !ok {
		channels = "(default: all)"
	}
	return DebugFlags{
		CPUTrace:    os.Getenv("NES_CPU_DEBUG") == "1",
		PPUOverlay:  os.Getenv("NES_PPU_DEBUG") == "1",
		APUChannels: channels,
	}
}

// GetBuildInfo returns detailed build and runtime-configuration information.
func GetBuildInfo() BuildInfo {
	buildInfo := BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		BuildUser: BuildUser,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
		Debug:     readDebugFlags(),
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if GitCommit == "unknown" {
					buildInfo.GitCommit = setting.Value
				}
			case "vcs.time":
				if BuildTime == "unknown" {
					buildInfo.BuildTime = setting.Value
				}
			case "CGO_ENABLED":
				buildInfo.CGOEnabled = setting.Value == "1"
			}
		}
	}

	return buildInfo
}

// GetVersion returns a simple version string
func GetVersion() string {
	if Version == "dev" {
		buildInfo := GetBuildInfo()
		if buildInfo.GitCommit != "unknown" && len(buildInfo.GitCommit) >= 7 {
			return fmt.Sprintf("dev-%s", buildInfo.GitCommit[:7])
		}
	}
	return Version
}

// GetDetailedVersion returns a detailed version string
func GetDetailedVersion() string {
	buildInfo := GetBuildInfo()

	versionStr := fmt.Sprintf("gones version %s", buildInfo.Version)

	if buildInfo.GitCommit != "unknown" {
		if len(buildInfo.GitCommit) >= 7 {
			versionStr += fmt.Sprintf(" (commit %s)", buildInfo.GitCommit[:7])
		} else {
			versionStr += fmt.Sprintf(" (commit %s)", buildInfo.GitCommit)
		}
	}

	if buildInfo.BuildTime != "unknown" {
		if parsedTime, err := time.Parse(time.RFC3339, buildInfo.BuildTime); err == nil {
			versionStr += fmt.Sprintf(" built on %s", parsedTime.Format("2006-01-02 15:04:05"))
		} else {
			versionStr += fmt.Sprintf(" built on %s", buildInfo.BuildTime)
		}
	}

	versionStr += fmt.Sprintf(" with %s for %s/%s", buildInfo.GoVersion, buildInfo.Platform, buildInfo.Arch)

	if buildInfo.BuildUser != "unknown" {
		versionStr += fmt.Sprintf(" by %s", buildInfo.BuildUser)
	}

	return versionStr
}

// PrintBuildInfo prints formatted build information
func PrintBuildInfo() {
	buildInfo := GetBuildInfo()

	fmt.Printf("gones - Go NES Emulator\n")
	fmt.Printf("Version:     %s\n", buildInfo.Version)
	fmt.Printf("Git Commit:  %s\n", buildInfo.GitCommit)
	fmt.Printf("Build Time:  %s\n", buildInfo.BuildTime)
	fmt.Printf("Build User:  %s\n", buildInfo.BuildUser)
	fmt.Printf("Go Version:  %s\n", buildInfo.GoVersion)
	fmt.Printf("Platform:    %s/%s\n", buildInfo.Platform, buildInfo.Arch)
	fmt.Printf("CGO Enabled: %t\n", buildInfo.CGOEnabled)
	fmt.Printf("CPU Trace:   %t (NES_CPU_DEBUG)\n", buildInfo.Debug.CPUTrace)
	fmt.Printf("PPU Overlay: %t (NES_PPU_DEBUG)\n", buildInfo.Debug.PPUOverlay)
	fmt.Printf("APU Channels: %s (NES_APU_CHANNELS)\n", buildInfo.Debug.APUChannels)
}
