package domain

// Session is the cached profile of the signed-in user.
type Session struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsDriver reports whether the session belongs to a driver.
func (s *Session) IsDriver() bool { return s != nil && s.Role == RoleDriver }

// IsCustomer reports whether the session belongs to a customer.
func (s *Session) IsCustomer() bool { return s != nil && s.Role == RoleCustomer }
