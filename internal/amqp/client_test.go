package amqp

import (
	"testing"
	"time"
)

func TestNewDatasetReseededMessage(t *testing.T) {
	msg := NewDatasetReseededMessage(60)

	if msg.Count != 60 {
		t.Errorf("NewDatasetReseededMessage() Count = %v, want 60", msg.Count)
	}
	if msg.Timestamp.IsZero() {
		t.Error("NewDatasetReseededMessage() Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("NewDatasetReseededMessage() Timestamp should be recent")
	}
}

func TestDatasetReseededMessage_JSON(t *testing.T) {
	timestamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := &DatasetReseededMessage{
		Count:     42,
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := DatasetReseededMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("DatasetReseededMessageFromJSON() error = %v", err)
	}

	if parsed.Count != msg.Count {
		t.Errorf("Parsed Count = %v, want %v", parsed.Count, msg.Count)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestDatasetReseededMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"count": "not_a_number"}`)

	_, err := DatasetReseededMessageFromJSON(invalidJSON)
	if err == nil {
		t.Error("DatasetReseededMessageFromJSON() should fail with invalid JSON")
	}
}
