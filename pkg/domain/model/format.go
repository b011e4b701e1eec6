package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders a byte count with two decimals at most, trailing zeros trimmed
func FormatFileSize(size int64) string {
	if size <= 0 {
		return "0 Bytes"
	}
	value := float64(size)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	return strconv.FormatFloat(math.Round(value*100)/100, 'f', -1, 64) + " " + sizeUnits[unit]
}

// FormatRecordingTime renders elapsed whole seconds as mm:ss
func FormatRecordingTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// FormatConfidence renders a 0..1 score as a percentage with one decimal
func FormatConfidence(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}

// FormatPercent renders a value that is already a percentage with one decimal
func FormatPercent(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

// FormatQuality renders a 0..1 score as a whole-number percentage
func FormatQuality(score float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(score*100)))
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// FormatTimestamp renders a backend timestamp for display; unparseable values are returned as-is
func FormatTimestamp(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.Format("2006-01-02 15:04")
		}
	}
	return raw
}

// FormatDate renders only the date part of a backend timestamp
func FormatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.Format("2006-01-02")
		}
	}
	return raw
}
