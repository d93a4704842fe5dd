package amqp

import (
	"encoding/json"
	"time"
)

// RefreshMessage asks the sync worker to re-pull one account's data for a
// date range. It carries only identifiers; the worker fetches the rows.
type RefreshMessage struct {
	GUID        string    `json:"guid"`
	LocationID  string    `json:"locationId,omitempty"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	RequestedAt time.Time `json:"requestedAt"`
}

func NewRefreshMessage(guid, locationID, from, to string) *RefreshMessage {
	return &RefreshMessage{
		GUID:        guid,
		LocationID:  locationID,
		From:        from,
		To:          to,
		RequestedAt: time.Now(),
	}
}

func (m *RefreshMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RefreshMessageFromJSON(data []byte) (*RefreshMessage, error) {
	var msg RefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
