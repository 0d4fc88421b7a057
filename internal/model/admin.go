package model

import "time"

// Admin represents a back-office user (course author or platform operator).
type Admin struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      AdminRole `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdminRole is a named permission bundle. Roles are fixed in code; the
// permissions they grant are embedded into the admin JWT at login.
type AdminRole string

const (
	RoleSuperAdmin AdminRole = "SUPER_ADMIN"
	RoleInstructor AdminRole = "INSTRUCTOR"
)

// Permission codes checked by the RBAC middleware.
type Permission string

const (
	PermissionCoursesRead    Permission = "courses:read"
	PermissionCoursesWrite   Permission = "courses:write"
	PermissionQuizzesWrite   Permission = "quizzes:write"
	PermissionAttemptsRead   Permission = "attempts:read"
	PermissionStudentsRead   Permission = "students:read"
	PermissionStudentsWrite  Permission = "students:write"
	PermissionEnrollmentsOps Permission = "enrollments:ops"
)

// RolePermissions maps each role to its granted permission codes.
var RolePermissions = map[AdminRole][]Permission{
	RoleSuperAdmin: {
		PermissionCoursesRead,
		PermissionCoursesWrite,
		PermissionQuizzesWrite,
		PermissionAttemptsRead,
		PermissionStudentsRead,
		PermissionStudentsWrite,
		PermissionEnrollmentsOps,
	},
	RoleInstructor: {
		PermissionCoursesRead,
		PermissionCoursesWrite,
		PermissionQuizzesWrite,
		PermissionAttemptsRead,
	},
}

// PermissionsFor returns the permission codes for a role as strings,
// ready to embed in JWT claims.
func PermissionsFor(role AdminRole) []string {
	perms := RolePermissions[role]
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, string(p))
	}
	return out
}

// AdminLoginRequest is the payload for admin login.
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
