package user

import (
	"fmt"

	"github.com/xraph/spendbook/id"
	"github.com/xraph/spendbook/types"
)

type User struct {
	types.Entity
	ID id.UserID `json:"id"`

	// SequentialID is assigned once at registration from the "userId"
	// counter namespace ("user001", "user002", ...) and is immutable.
	SequentialID string `json:"sequential_id"`

	// ExternalIdentityID is the subject identifier issued by the external
	// auth collaborator. Identity itself is owned there; this core only
	// uses it for idempotent registration lookup.
	ExternalIdentityID string `json:"external_identity_id"`

	Email           string `json:"email"`
	DisplayName     string `json:"display_name"`
	ProfileImageRef string `json:"profile_image_ref,omitempty"`
}

// Registration is the input for registering an owner on first sign-in.
type Registration struct {
	ExternalIdentityID string `json:"external_identity_id"`
	Email              string `json:"email"`
	DisplayName        string `json:"display_name"`
	ProfileImageRef    string `json:"profile_image_ref,omitempty"`
}

// ProfileUpdate carries the mutable profile fields. Changing them does not
// rewrite the snapshots denormalized onto historical expense records.
type ProfileUpdate struct {
	DisplayName     string `json:"display_name"`
	ProfileImageRef string `json:"profile_image_ref,omitempty"`
}

// FormatSequentialID renders a user sequence number in the canonical
// zero-padded form: 1 -> "user001", 1234 -> "user1234".
func FormatSequentialID(seq int64) string {
	return fmt.Sprintf("user%03d", seq)
}
