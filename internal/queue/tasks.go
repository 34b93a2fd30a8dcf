package queue

import (
	"encoding/json"
	"fmt"
)

// Task types
const (
	TypeRemoveOrphanMedia = "media:remove_orphan"
)

// Queue names
const (
	QueueMedia = "media"
)

// RemoveOrphanPayload identifies a stored media object that no record points at.
type RemoveOrphanPayload struct {
	StorageID string `json:"storage_id"`
	Reason    string `json:"reason"`
}

// NewRemoveOrphanTask creates a new orphaned media removal payload
func NewRemoveOrphanTask(storageID, reason string) (*RemoveOrphanPayload, error) {
	if storageID == "" {
		return nil, fmt.Errorf("storage ID is required")
	}

	return &RemoveOrphanPayload{StorageID: storageID, Reason: reason}, nil
}

// Marshal serializes the payload to JSON
func (p *RemoveOrphanPayload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// UnmarshalRemoveOrphanPayload deserializes JSON to payload
func UnmarshalRemoveOrphanPayload(data []byte) (*RemoveOrphanPayload, error) {
	var payload RemoveOrphanPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	if payload.StorageID == "" {
		return nil, fmt.Errorf("payload missing storage ID")
	}
	return &payload, nil
}
