package types

import (
	"testing"
	"time"
)

func TestNewEntity(t *testing.T) {
	e := NewEntity()

	if e.CreatedAt.IsZero() || e.UpdatedAt.IsZero() {
		t.Fatalf("NewEntity() timestamps not set: %+v", e)
	}
	if !e.CreatedAt.Equal(e.UpdatedAt) {
		t.Errorf("CreatedAt = %v, UpdatedAt = %v, want equal at creation", e.CreatedAt, e.UpdatedAt)
	}
	if loc := e.CreatedAt.Location(); loc != time.UTC {
		t.Errorf("CreatedAt location = %v, want UTC", loc)
	}
}

func TestEntityTouch(t *testing.T) {
	e := NewEntity()
	created := e.CreatedAt

	time.Sleep(time.Millisecond)
	e.Touch()

	if !e.UpdatedAt.After(created) {
		t.Errorf("UpdatedAt = %v, want after %v", e.UpdatedAt, created)
	}
	if !e.CreatedAt.Equal(created) {
		t.Errorf("Touch() changed CreatedAt from %v to %v", created, e.CreatedAt)
	}
}
