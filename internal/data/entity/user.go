package entity

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleStaff  UserRole = "staff"
	RoleClient UserRole = "client"
)

// ParseUserRole maps a stored role string onto the enum. Unknown values
// fall back to the least privileged role.
func ParseUserRole(s string) UserRole {
	switch UserRole(s) {
	case RoleAdmin:
		return RoleAdmin
	case RoleStaff:
		return RoleStaff
	default:
		return RoleClient
	}
}

// CanManageBookings reports whether the role operates the studio side:
// confirming, completing and booking on behalf of clients.
func (r UserRole) CanManageBookings() bool {
	return r == RoleAdmin || r == RoleStaff
}

// CanUpdateStatus is the single capability check for status changes.
// Clients may only cancel bookings they own.
func CanUpdateStatus(role UserRole, target BookingStatus, isOwner bool) bool {
	if role.CanManageBookings() {
		return true
	}
	return isOwner && target == BookingStatusCancelled
}

// CanViewBooking reports whether role may read a booking.
func CanViewBooking(role UserRole, isOwner bool) bool {
	return role.CanManageBookings() || isOwner
}

type User struct {
	Base
	Email        string   `db:"email"`
	PasswordHash string   `db:"password"`
	FirstName    string   `db:"first_name"`
	LastName     string   `db:"last_name"`
	Phone        *string  `db:"phone"`
	Role         UserRole `db:"role"`
	IsActive     bool     `db:"is_active"`
}
