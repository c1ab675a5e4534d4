package cli

import (
	"runtime/debug"
	"strings"
)

const devVersion = "dev"

var readBuildInfo = debug.ReadBuildInfo

// resolvedVersion prefers an injected release version, then module build
// info, then the VCS revision.
func resolvedVersion(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" && trimmed != devVersion {
		return trimmed
	}

	info, ok := readBuildInfo()
	if ok && info != nil {
		mainVersion := strings.TrimSpace(info.Main.Version)
		if mainVersion != "" && mainVersion != "(devel)" {
			return mainVersion
		}
		if revision := buildRevision(info.Settings); revision != "" {
			return revision
		}
	}

	if trimmed != "" {
		return trimmed
	}
	return devVersion
}

func buildRevision(settings []debug.BuildSetting) string {
	var revision string
	dirty := false
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			revision = strings.TrimSpace(setting.Value)
		case "vcs.modified":
			dirty = strings.EqualFold(strings.TrimSpace(setting.Value), "true")
		}
	}
	if revision == "" {
		return ""
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if dirty {
		revision += "-dirty"
	}
	return revision
}
