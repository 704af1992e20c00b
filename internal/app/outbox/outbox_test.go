package outbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "wayfare/internal/domain/booking"
	"wayfare/internal/domain/shared/events"
	"wayfare/internal/domain/shared/money"
)

type collectingOutbox struct {
	records []EventRecord
}

func (o *collectingOutbox) Add(_ context.Context, rec EventRecord) error {
	o.records = append(o.records, rec)
	return nil
}

func (o *collectingOutbox) Flush(context.Context) error { return nil }

func TestJSONEventEncoderAssignsUniqueIDs(t *testing.T) {
	at := time.Date(2026, time.August, 1, 10, 0, 0, 0, time.UTC)
	ev := domainbooking.Confirmed{BookingID: "bk-1", Total: money.Must(100, "INR"), At: at}

	enc := JSONEventEncoder{}
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		rec, err := enc.Encode(ev)
		require.NoError(t, err)
		require.NotEmpty(t, rec.ID)
		seen[rec.ID] = struct{}{}
	}
	// Two events recorded in the same instant must never share a record id.
	assert.Len(t, seen, 100)
}

func TestJSONEventEncoderCarriesEventMetadata(t *testing.T) {
	at := time.Date(2026, time.August, 1, 10, 0, 0, 0, time.UTC)
	ev := domainbooking.Cancelled{
		BookingID: "bk-9",
		Refund:    money.Must(9000, "INR"),
		Fee:       money.Must(1000, "INR"),
		Reason:    "weather",
		At:        at,
	}

	rec, err := JSONEventEncoder{}.Encode(ev)
	require.NoError(t, err)
	assert.Equal(t, "booking.cancelled", rec.Name)
	assert.Equal(t, "bk-9", rec.Aggregate)
	assert.Equal(t, at, rec.OccurredAt)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Payload, &decoded))
	assert.Equal(t, "weather", decoded["reason"])
}

func TestRecordDomainEventsStagesBatch(t *testing.T) {
	box := &collectingOutbox{}
	at := time.Date(2026, time.August, 1, 10, 0, 0, 0, time.UTC)
	batch := []events.DomainEvent{
		domainbooking.Confirmed{BookingID: "bk-1", Total: money.Must(100, "INR"), At: at},
		domainbooking.TripCompleted{BookingID: "bk-1", At: at},
	}

	require.NoError(t, RecordDomainEvents(context.Background(), box, nil, batch))
	require.Len(t, box.records, 2)
	assert.Equal(t, "booking.confirmed", box.records[0].Name)
	assert.NotEqual(t, box.records[0].ID, box.records[1].ID)

	// Nil outbox and empty batches are tolerated.
	require.NoError(t, RecordDomainEvents(context.Background(), nil, nil, batch))
	require.NoError(t, RecordDomainEvents(context.Background(), box, nil, nil))
	assert.Len(t, box.records, 2)
}
