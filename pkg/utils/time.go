package utils

import "time"

// NowRFC3339 returns the current time in RFC3339 format
func NowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// UnixToTime converts the agent service's unix-seconds timestamps
func UnixToTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// FormatUnix renders a unix-seconds timestamp for display; zero renders as "-"
func FormatUnix(sec int64, layout string) string {
	if sec == 0 {
		return "-"
	}
	return UnixToTime(sec).Local().Format(layout)
}
