package render

import (
	"strings"

	"github.com/fatih/color"
)

var (
	stepStyle     = color.New(color.FgCyan)
	contractStyle = color.New(color.FgGreen)
	addressStyle  = color.New(color.FgWhite)
	mutedStyle    = color.New(color.FgHiBlack)
	warnStyle     = color.New(color.FgYellow)
	errorStyle    = color.New(color.FgRed)
	successStyle  = color.New(color.FgGreen)
	headerStyle   = color.New(color.Bold)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warnStyle.Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}
	return errorStyle.Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return successStyle.Sprintf("✅ %s", message)
}

// shortAddress abbreviates 0x-prefixed addresses and hashes
func shortAddress(addr string) string {
	if len(addr) <= 14 {
		return addr
	}
	return addr[:8] + "…" + addr[len(addr)-6:]
}
