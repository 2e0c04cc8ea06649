package render

import (
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-dao/internal/domain"
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error with the error icon, followed by its code for governance errors
func FormatError(err error) string {
	msg := err.Error()

	// Capitalize first letter
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}
	if code := domain.CodeOf(err); code != "" {
		msg += labelStyle.Sprintf(" [%s]", code)
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}
