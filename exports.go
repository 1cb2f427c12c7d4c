package spendbook

import "github.com/xraph/spendbook/types"

// Re-export common types for convenience so users don't have to import types package.

// Money is re-exported from types package.
type Money = types.Money

// Entity is re-exported from types package.
type Entity = types.Entity

// Re-export Money constructors
var (
	PKR  = types.PKR
	USD  = types.USD
	EUR  = types.EUR
	GBP  = types.GBP
	AED  = types.AED
	SAR  = types.SAR
	INR  = types.INR
	CAD  = types.CAD
	AUD  = types.AUD
	Zero = types.Zero
	Sum  = types.Sum
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
