package domain

// CanMutate is the access policy for product mutations: only the owner may
// update, delete, restore or force-delete a listing. Reads are public and
// never consult this predicate.
func CanMutate(p *Product, userID int64) bool {
	return p != nil && p.IsOwnedBy(userID)
}
