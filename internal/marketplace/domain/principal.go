package domain

// PrincipalKind tells which account table a principal comes from.
// Admin and user ids are separate namespaces.
type PrincipalKind string

const (
	PrincipalAdmin PrincipalKind = "admin"
	PrincipalUser  PrincipalKind = "user"
)

// Valid reports whether k is a known kind.
func (k PrincipalKind) Valid() bool {
	return k == PrincipalAdmin || k == PrincipalUser
}

// Principal is the authenticated actor of a request.
type Principal struct {
	Kind     PrincipalKind
	ID       int64
	Username string
}

func (p Principal) IsAdmin() bool { return p.Kind == PrincipalAdmin }
func (p Principal) IsUser() bool  { return p.Kind == PrincipalUser }

// Owns reports whether p is the user that owns a resource with the given owner id.
// An admin never owns anything, even when the numeric ids collide.
func (p Principal) Owns(ownerUserID int64) bool {
	return p.IsUser() && p.ID == ownerUserID
}
