package ical

import (
	"fmt"
	"strings"
	"time"

	"ticker-calendar/internal/entity"
)

// Event is one calendar entry to render.
type Event struct {
	Symbol      string
	StockName   string
	Type        entity.EventType
	Date        time.Time
	LastUpdated time.Time
	Source      string
}

const (
	prodID    = "-//Ticker Calendar Tracker//Stock Events Calendar//EN"
	uidDomain = "tickercaltracker.com"

	dateLayout  = "20060102"
	stampLayout = "20060102T150405Z"
)

// Render builds an RFC 5545 calendar document for the given events, in the
// given order. Output is byte-for-byte reproducible: every timestamp is
// derived from the events themselves, never from the wall clock. Lines are
// joined with CRLF and the document ends with a trailing CRLF.
func Render(events []Event, calendarName string, reminderBefore *time.Duration) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + prodID,
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"X-WR-CALNAME:" + calendarName,
		"X-WR-TIMEZONE:UTC",
		"X-WR-CALDESC:Stock events calendar",
	}

	for _, event := range events {
		lines = append(lines, renderEvent(event, reminderBefore)...)
	}

	lines = append(lines, "END:VCALENDAR")

	return strings.Join(lines, "\r\n") + "\r\n"
}

func renderEvent(event Event, reminderBefore *time.Duration) []string {
	date := event.Date.UTC().Format(dateLayout)
	stamp := event.LastUpdated.UTC().Format(stampLayout)
	uid := fmt.Sprintf("%s-%s-%s@%s", event.Symbol, event.Type, date, uidDomain)
	summary, description := eventDetails(event)

	lines := []string{
		"BEGIN:VEVENT",
		"UID:" + uid,
		"DTSTAMP:" + stamp,
		"DTSTART;VALUE=DATE:" + date,
		"SUMMARY:" + summary,
		"DESCRIPTION:" + description,
		"LAST-MODIFIED:" + stamp,
		"STATUS:CONFIRMED",
		"TRANSP:TRANSPARENT",
		"CATEGORIES:" + string(event.Type),
	}

	if event.Source != "" {
		lines = append(lines, "X-SOURCE:"+event.Source)
	}

	if reminderBefore != nil {
		lines = append(lines, renderAlarm(*reminderBefore)...)
	}

	lines = append(lines, "END:VEVENT")

	return lines
}

func eventDetails(event Event) (string, string) {
	name := typeName(event.Type)
	summary := fmt.Sprintf("%s: %s", event.Symbol, name)

	var description strings.Builder
	fmt.Fprintf(&description, "%s (%s) - %s\\n\\n", event.StockName, event.Symbol, name)
	description.WriteString(typeDetail(event.Type))
	if event.Source != "" {
		fmt.Fprintf(&description, "\\n\\nSource: %s", event.Source)
	}

	return summary, description.String()
}

// typeName returns the human readable event name used in summaries.
func typeName(t entity.EventType) string {
	switch t {
	case entity.EventTypeEarningsAnnouncement:
		return "Earnings Announcement"
	case entity.EventTypeDividendEx:
		return "Dividend Ex-Date"
	case entity.EventTypeDividendDeclaration:
		return "Dividend Declaration"
	case entity.EventTypeDividendRecord:
		return "Dividend Record Date"
	case entity.EventTypeDividendPayment:
		return "Dividend Payment"
	case entity.EventTypeStockSplit:
		return "Stock Split"
	}
	return string(t)
}

// typeDetail returns the contextual sentence appended to descriptions.
func typeDetail(t entity.EventType) string {
	switch t {
	case entity.EventTypeEarningsAnnouncement:
		return "Company earnings report will be announced."
	case entity.EventTypeDividendEx:
		return "Ex-dividend date - last day to buy stock to receive the dividend."
	case entity.EventTypeDividendDeclaration:
		return "Dividend declaration date - company announces dividend details."
	case entity.EventTypeDividendRecord:
		return "Dividend record date - shareholders on record will receive dividend."
	case entity.EventTypeDividendPayment:
		return "Dividend payment date - dividend will be paid to shareholders."
	case entity.EventTypeStockSplit:
		return "Stock split effective date."
	}
	return ""
}

// renderAlarm emits a display alarm firing the given duration before the
// event.
func renderAlarm(reminderBefore time.Duration) []string {
	return []string{
		"BEGIN:VALARM",
		"ACTION:DISPLAY",
		"DESCRIPTION:Reminder: Stock event upcoming",
		"TRIGGER:-" + duration(reminderBefore),
		"END:VALARM",
	}
}

// duration renders a non-negative duration in RFC 5545 form with day, hour
// and minute components. Zero components are omitted, a zero duration
// renders as P0D.
func duration(d time.Duration) string {
	totalSeconds := int64(d.Seconds())
	if totalSeconds < 0 {
		totalSeconds = 0
	}

	days := totalSeconds / 86400
	remaining := totalSeconds % 86400
	hours := remaining / 3600
	minutes := remaining % 3600 / 60

	var b strings.Builder
	b.WriteString("P")
	if days > 0 {
		fmt.Fprintf(&b, "%dD", days)
	}
	if hours > 0 || minutes > 0 {
		b.WriteString("T")
		if hours > 0 {
			fmt.Fprintf(&b, "%dH", hours)
		}
		if minutes > 0 {
			fmt.Fprintf(&b, "%dM", minutes)
		}
	}
	if b.Len() == 1 {
		b.WriteString("0D")
	}

	return b.String()
}
