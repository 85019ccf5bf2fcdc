package amqp

import (
	"encoding/json"
	"time"
)

// DatasetReseededMessage announces a wholesale replacement of the
// transaction store. Consumers holding month-keyed caches should drop
// them on receipt.
type DatasetReseededMessage struct {
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

func NewDatasetReseededMessage(count int) *DatasetReseededMessage {
	return &DatasetReseededMessage{
		Count:     count,
		Timestamp: time.Now(),
	}
}

func (m *DatasetReseededMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func DatasetReseededMessageFromJSON(data []byte) (*DatasetReseededMessage, error) {
	var msg DatasetReseededMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
