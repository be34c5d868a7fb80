package amqp

import (
	"encoding/json"
	"time"
)

// DonationSyncMessage asks the worker to push one donation to Google.
// It carries only the ID and version; the worker fetches the full record,
// slip payload included, from the local database.
type DonationSyncMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewDonationSyncMessage(id, version int64) *DonationSyncMessage {
	return &DonationSyncMessage{
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (m *DonationSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func DonationSyncMessageFromJSON(data []byte) (*DonationSyncMessage, error) {
	var msg DonationSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
