package model

// Roles carried in platform-issued access tokens.
const (
	RoleAdmin     = "ADMIN"
	RoleOrganizer = "ORGANIZER"
	RoleStaff     = "STAFF"
	RoleCustomer  = "CUSTOMER"
)

// Session is the authenticated caller.  It is handed explicitly to every
// service call; Token is forwarded to the platform as a bearer token.
type Session struct {
	UserID string
	Role   string
	Token  string
}
