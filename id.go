package spendbook

import "github.com/xraph/spendbook/id"

// ID is the primary identifier type for all Spendbook entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
