package tui

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aalvaropc/wallclock/internal/domain"
)

var reLine = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)

// UserMessage turns an error into one short line for the status bar or the
// terminal. Details stay in the log.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var oe *domain.OpError
	if !errors.As(err, &oe) {
		if looksLikeYAMLProblem(err.Error()) {
			if line := extractLine(err.Error()); line != "" {
				return "Invalid YAML line " + line
			}
			return "Invalid YAML"
		}
		return "Unexpected error (see logs)"
	}

	switch oe.Kind {
	case domain.KindUnknownZone:
		if oe.Zone == "" {
			return "Zone is required"
		}
		return "Unknown zone " + string(oe.Zone)

	case domain.KindInvalidCivilFields:
		return "Invalid date/time: " + cause(oe)

	case domain.KindAmbiguousOrNonexistent:
		return "Ambiguous or skipped wall-clock time in " + string(oe.Zone) + " (policy is reject)"

	case domain.KindDidNotConverge:
		return "Zone data for " + string(oe.Zone) + " is inconsistent; no instant shows that time"

	case domain.KindNotFound:
		switch {
		case strings.Contains(oe.Op, "workspacefinder.findroot"):
			return "Workspace not found"
		case strings.Contains(oe.Op, "batch"), strings.Contains(oe.Op, "config.load"):
			return "Batch not found"
		case strings.Contains(oe.Op, "ruletable"):
			return "Rules file not found"
		case strings.Contains(oe.Op, "tzif"):
			return "Zoneinfo directory not found"
		case strings.Contains(oe.Op, "workspacefinder.loadconfig"):
			return "wallclock.yaml not found"
		}
		return "Not found"

	case domain.KindInvalidConfig:
		base := "config"
		if strings.TrimSpace(oe.Path) != "" {
			base = filepath.Base(oe.Path)
		}
		if line := extractLine(err.Error()); line != "" {
			return "Invalid YAML at " + base + " line " + line
		}
		if looksLikeYAMLProblem(err.Error()) {
			return "Invalid YAML at " + base
		}
		return "Invalid " + base + ": " + cause(oe)

	default:
		return "Unexpected error (see logs)"
	}
}

// cause is the innermost message without sentinel suffixes.
func cause(oe *domain.OpError) string {
	if oe.Err == nil {
		return string(oe.Kind)
	}
	msg := oe.Err.Error()
	if i := strings.LastIndex(msg, ": "); i > 0 {
		msg = msg[:i]
	}
	return msg
}

func looksLikeYAMLProblem(s string) bool {
	ls := strings.ToLower(s)
	return strings.Contains(ls, "yaml:") || strings.Contains(ls, "did not find expected") || strings.Contains(ls, "cannot unmarshal")
}

func extractLine(s string) string {
	m := reLine.FindStringSubmatch(s)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}
