package authz

// Permission codes recognized by the authorization gate. Role seed data
// stores these strings in the role's permissions list.
const (
	PermUserCreate = "USER_CREATE"
	PermUserRead   = "USER_READ"
	PermUserUpdate = "USER_UPDATE"
	PermUserDelete = "USER_DELETE"
)
