package domain

type Role int

const (
	RoleLurker Role = iota
	RoleSignedIn
	RoleModerator
	RoleOwner
	// RoleSelf is reserved for the client's own record.
	RoleSelf
)

func (r Role) String() string {
	switch r {
	case RoleSelf:
		return "self"
	case RoleOwner:
		return "owner"
	case RoleModerator:
		return "moderator"
	case RoleSignedIn:
		return "signed_in"
	default:
		return "lurker"
	}
}

// ClassifyRole applies the priority Owner > Moderator > SignedIn > Lurker.
func ClassifyRole(self, owner, mod, hasAccount bool) Role {
	switch {
	case self:
		return RoleSelf
	case owner:
		return RoleOwner
	case mod:
		return RoleModerator
	case hasAccount:
		return RoleSignedIn
	default:
		return RoleLurker
	}
}
