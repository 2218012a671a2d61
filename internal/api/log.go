package api

import (
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"linkcfg/pkg/logging"
)

// logAttr matches key=value and key="quoted value" pairs of slog text lines.
var logAttr = regexp.MustCompile(`([a-zA-Z0-9_\-.]+)=(?:"([^"]*)"|([^ ]+))`)

// maxSummaryValue drops attributes too long for a one-line summary.
const maxSummaryValue = 20

// handleLatestLog returns the last log line as a summary: GET /api/log/latest.
func handleLatestLog(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, r, http.StatusOK, map[string]string{"log": formatLogLine(logging.GlobalCapture.LastLine())})
}

// handleRecentChanges returns the latest setting changes, oldest first:
// GET /api/log/changes.
func handleRecentChanges(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, r, http.StatusOK, logging.GlobalCapture.Changes())
}

// formatLogLine condenses a slog text line to "HH:MM:SS msg (k=v, ...)".
// Setting changes read "HH:MM:SS key = value".
func formatLogLine(raw string) string {
	matches := logAttr.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return raw
	}

	var msg, clock, key, value string
	var params []string
	for _, m := range matches {
		name, val := m[1], m[2]
		if val == "" {
			val = m[3]
		}
		val = strings.TrimSpace(val)

		switch name {
		case "time":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				clock = t.Format("15:04:05")
			}
		case "level", "source":
		case "msg":
			msg = val
		default:
			if name == "key" {
				key = val
			}
			if name == "value" {
				value = val
			}
			if len(val) <= maxSummaryValue {
				params = append(params, name+"="+val)
			}
		}
	}
	if msg == "" {
		return raw
	}

	line := msg
	if msg == logging.ChangeMessage && key != "" {
		line = fmt.Sprintf("%s = %s", key, value)
		params = nil
	}
	if clock != "" {
		line = clock + " " + line
	}
	if len(params) > 0 {
		sort.Strings(params)
		line += " (" + strings.Join(params, ", ") + ")"
	}
	return line
}
