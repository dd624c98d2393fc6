package telegram

import (
	"fmt"
	"strings"
	"time"

	"ticker-calendar/internal/tracker/dto"
	"ticker-calendar/pkg/utils"
)

// maxFailedSymbols caps how many failed symbols a sweep summary lists so the
// message stays well under the Telegram length limit.
const maxFailedSymbols = 20

// FormatSweepReportForTelegram formats a sweep report into a Markdown string for Telegram.
func FormatSweepReportForTelegram(report *dto.SweepReport) string {
	var builder strings.Builder

	if report.Skipped {
		builder.WriteString("⏭️ *Stale Event Sweep Skipped*\n\n")
		builder.WriteString("Another sweep was already running.\n")
		builder.WriteString(fmt.Sprintf("📅 %s\n", utils.PrettyDate(report.StartedAt)))
		return builder.String()
	}

	builder.WriteString("🧹 *Stale Event Sweep Completed*\n\n")
	builder.WriteString(fmt.Sprintf("📊 Scanned: %d\n", report.Scanned))
	builder.WriteString(fmt.Sprintf("✅ Refreshed: %d\n", report.Refreshed))
	builder.WriteString(fmt.Sprintf("❌ Failed: %d\n", report.Failed))

	if len(report.FailedSymbols) > 0 {
		builder.WriteString("\n⚠️ *Failed symbols:*\n")
		for i, symbol := range report.FailedSymbols {
			if i == maxFailedSymbols {
				builder.WriteString(fmt.Sprintf("  … and %d more\n", len(report.FailedSymbols)-maxFailedSymbols))
				break
			}
			builder.WriteString(fmt.Sprintf("  - `%s`\n", symbol))
		}
	}

	builder.WriteString(fmt.Sprintf("\n⏱ Duration: %s\n", report.Duration))
	builder.WriteString(fmt.Sprintf("📅 %s\n", utils.PrettyDate(report.StartedAt)))

	return builder.String()
}

// FormatSweepFailureForTelegram formats a failed sweep into an alert message.
func FormatSweepFailureForTelegram(startedAt time.Time, err error) string {
	return fmt.Sprintf(`📛 [SWEEP FAILED]
%s
⚠️ %v
`, utils.PrettyDate(startedAt), err)
}
