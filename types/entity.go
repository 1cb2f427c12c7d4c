package types

import "time"

// Entity carries the creation and last-modification timestamps shared by
// every persisted record. Domain types embed it; the storage backends map
// the fields onto their own column schemas.
type Entity struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEntity stamps both timestamps with the current UTC time.
func NewEntity() Entity {
	now := time.Now().UTC()
	return Entity{
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch marks the entity as modified now. Mutating operations call this
// before handing the record to the store.
func (e *Entity) Touch() {
	e.UpdatedAt = time.Now().UTC()
}
