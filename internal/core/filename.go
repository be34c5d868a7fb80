package core

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	taxLabelDeduct   = "ลดหย่อนภาษี"
	taxLabelNoDeduct = "ไม่ลดหย่อน"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// SlipFileName builds the deterministic stored name for an uploaded slip:
// sanitized donor name, raw amount, tax-status label, donation date and a
// sortable timestamp, keeping the original file's extension (jpg when absent).
// Example: สมชาย-ใจดี_500B_ไม่ลดหย่อน_2024-05-01_2024-05-01 14-30-00.jpg
func SlipFileName(fullName, rawAmount string, taxDeduction bool, date Date, now time.Time, originalName string) string {
	name := whitespaceRun.ReplaceAllString(strings.TrimSpace(fullName), "-")
	label := taxLabelNoDeduct
	if taxDeduction {
		label = taxLabelDeduct
	}
	// YYYY-MM-DD HH:MM:SS with colons swapped for hyphens sorts naturally
	// and stays valid as a filename.
	stamp := strings.ReplaceAll(now.Format("2006-01-02 15:04:05"), ":", "-")
	ext := "jpg"
	if i := strings.LastIndex(originalName, "."); i >= 0 && i < len(originalName)-1 {
		ext = originalName[i+1:]
	}
	return fmt.Sprintf("%s_%sB_%s_%s_%s.%s", name, rawAmount, label, date.String(), stamp, ext)
}
