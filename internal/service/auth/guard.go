package auth

import "github.com/phrazzld/cards-api/internal/search"

// Authorize reports whether actor may act on a resource owned by ownerID.
// Owners and administrators are allowed.
func Authorize(actor Actor, ownerID uint64) bool {
	return actor.ID == ownerID || actor.IsAdmin
}

// Scope returns the search restriction for actor: administrators see every
// card, everyone else only their own.
func Scope(actor Actor) search.Scope {
	if actor.IsAdmin {
		return search.Unrestricted()
	}
	return search.OwnedBy(actor.ID)
}
