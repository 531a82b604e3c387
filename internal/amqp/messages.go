package amqp

import (
	"encoding/json"
	"time"
)

// SIPExportMessage announces that a SIP record should be mirrored to the
// export ledger. It carries only the ID and version; the worker loads the
// full record from the database.
type SIPExportMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSIPExportMessage(id, version int64) *SIPExportMessage {
	return &SIPExportMessage{
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (m *SIPExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SIPExportMessageFromJSON(data []byte) (*SIPExportMessage, error) {
	var msg SIPExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
