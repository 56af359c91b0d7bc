// Package perm holds the access predicates for offer and request items.
// All checks fail closed: access is granted only by an explicit rule below.
package perm

// Actor the acting user as seen by the permission checks
type Actor struct {
	ID             string
	IsSuperuser    bool
	IsDonor        bool
	IsRequester    bool
	OrganisationID string
}

// Ownership who an offer or request belongs to
type Ownership struct {
	ContactID      string
	OrganisationID string
}

// owns matches the acting user against the owning contact or its organisation.
func owns(a Actor, o Ownership) bool {
	return o.ContactID == a.ID || o.OrganisationID == a.OrganisationID
}

// Offer items: requesters browse the supply side.

func CanViewOfferItems(a Actor) bool {
	return a.IsSuperuser || a.IsRequester
}

func CanViewOfferItem(a Actor, o Ownership) bool {
	return a.IsSuperuser || a.IsRequester || owns(a, o)
}

func CanChangeOfferItem(a Actor, o Ownership) bool {
	return a.IsSuperuser || owns(a, o)
}

func CanDeleteOfferItem(a Actor, o Ownership) bool {
	return a.IsSuperuser || owns(a, o)
}

func CanAddOfferItem(a Actor) bool {
	return a.IsSuperuser
}

// Request items: donors browse the demand side.

func CanViewRequestItems(a Actor) bool {
	return a.IsSuperuser || a.IsDonor
}

func CanViewRequestItem(a Actor, o Ownership) bool {
	return a.IsSuperuser || a.IsDonor || owns(a, o)
}

func CanChangeRequestItem(a Actor, o Ownership) bool {
	return a.IsSuperuser || owns(a, o)
}

func CanDeleteRequestItem(a Actor, o Ownership) bool {
	return a.IsSuperuser || owns(a, o)
}

func CanAddRequestItem(a Actor) bool {
	return a.IsSuperuser
}

// Offer/Request aggregates: non-superusers only see and edit their own.

func CanViewAggregate(a Actor, o Ownership) bool {
	return a.IsSuperuser || owns(a, o)
}

func CanEditAggregate(a Actor, o Ownership) bool {
	return a.IsSuperuser || owns(a, o)
}

// Changes: audit log is superuser-only and read-only.

func CanViewChanges(a Actor) bool {
	return a.IsSuperuser
}
