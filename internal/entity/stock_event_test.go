package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventType_Valid(t *testing.T) {
	for _, eventType := range AllEventTypes() {
		assert.True(t, eventType.Valid(), "type %s", eventType)
	}

	assert.False(t, EventType("").Valid())
	assert.False(t, EventType("BOARD_MEETING").Valid())
	assert.False(t, EventType("earnings_announcement").Valid())
}

func TestAllEventTypes(t *testing.T) {
	assert.Equal(t, []EventType{
		EventTypeEarningsAnnouncement,
		EventTypeDividendEx,
		EventTypeDividendDeclaration,
		EventTypeDividendRecord,
		EventTypeDividendPayment,
		EventTypeStockSplit,
	}, AllEventTypes())
}
