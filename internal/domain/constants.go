package domain

const (
	RoleUser   = "USER"
	RoleVendor = "VENDOR"
	RoleAdmin  = "ADMIN"
)

const (
	BookingTypeBus     = "bus"
	BookingTypePackage = "package"
)

// Wallet transaction types. "applied"/"removed" form reversible pairs tied
// to a booking; the rest are plain one-way movements.
const (
	WalletTxTypeApplied  = "applied"
	WalletTxTypeRemoved  = "removed"
	WalletTxTypeRefund   = "refund"
	WalletTxTypeAdded    = "added"
	WalletTxTypeDeducted = "deducted"
)

const (
	TripStatusNotStarted = "not_started"
	TripStatusOngoing    = "ongoing"
	TripStatusCompleted  = "completed"
	TripStatusCancelled  = "cancelled"
)

const (
	RewardStatusPending   = "pending"
	RewardStatusCredited  = "credited"
	RewardStatusCancelled = "cancelled"
)

// ValidBookingType reports whether s is a booking type we ledger against.
func ValidBookingType(s string) bool {
	return s == BookingTypeBus || s == BookingTypePackage
}

// ValidTripTransition reports whether a trip may move from old to new.
// Forward-only; cancellation is terminal from any non-completed state.
func ValidTripTransition(old, new string) bool {
	if old == new {
		return true
	}
	switch old {
	case TripStatusNotStarted:
		return new == TripStatusOngoing || new == TripStatusCancelled
	case TripStatusOngoing:
		return new == TripStatusCompleted || new == TripStatusCancelled
	default:
		return false
	}
}
