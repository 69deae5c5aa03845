package signup

// roleLevel orders roles from least to most privileged.
var roleLevel = map[UserRole]int{
	RoleGuest:  0,
	RoleMember: 1,
	RoleAdmin:  2,
}

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	_, ok := roleLevel[r]
	return ok
}

// CanRead checks if this role can read resources
func (r UserRole) CanRead() bool {
	return r.IsValid()
}

// CanEdit checks if this role can edit resources
func (r UserRole) CanEdit() bool {
	return r.IsAtLeast(RoleMember)
}

// CanCreate checks if this role can create resources
func (r UserRole) CanCreate() bool {
	return r.IsAtLeast(RoleAdmin)
}

// IsAtLeast checks if this role meets the minimum required role
func (r UserRole) IsAtLeast(min UserRole) bool {
	level, ok := roleLevel[r]
	if !ok {
		return false
	}

	minLevel, ok := roleLevel[min]
	if !ok {
		return false
	}

	return level >= minLevel
}
