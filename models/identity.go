package models

// Identity is the per-request cart/order owner: either an authenticated user
// or a guest session. It is passed explicitly into service functions rather
// than read from ambient state.
type Identity struct {
	ID      string // user ID, or guest ID when IsGuest
	IsGuest bool
}

func UserIdentity(userID string) Identity {
	return Identity{ID: userID}
}

func GuestIdentity(guestID string) Identity {
	return Identity{ID: guestID, IsGuest: true}
}
