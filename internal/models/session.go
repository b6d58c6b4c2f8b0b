package models

import "strings"

// Roles form a closed set. Everything except Viewer may write records;
// only the Super Admin manages the checkpoint catalog.
const (
	RoleSuperAdmin = "Super Admin"
	RoleReguI      = "Regu Pengamanan I"
	RoleReguII     = "Regu Pengamanan II"
	RoleReguIII    = "Regu Pengamanan III"
	RoleReguIV     = "Regu Pengamanan IV"
	RoleViewer     = "Viewer"
)

var allRoles = []string{
	RoleSuperAdmin, RoleReguI, RoleReguII, RoleReguIII, RoleReguIV, RoleViewer,
}

func ValidRole(role string) bool {
	for _, r := range allRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Session is the active identity. ID is empty for local-only logins.
// Absence of a session means "logged out".
type Session struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func (s *Session) CanWrite() bool {
	return s != nil && s.Role != RoleViewer
}

// Account is one entry of the static operator roster used in
// local-only mode.
type Account struct {
	Username string
	Password string
	Role     string
	Name     string
}

var Accounts = []Account{
	{Username: "Administrator", Password: "123456", Role: RoleSuperAdmin, Name: "Administrator"},
	{Username: "Rupam I", Password: "123456", Role: RoleReguI, Name: "Ka. Rupam I"},
	{Username: "Rupam II", Password: "123456", Role: RoleReguII, Name: "Ka. Rupam II"},
	{Username: "Rupam III", Password: "123456", Role: RoleReguIII, Name: "Ka. Rupam III"},
	{Username: "Rupam IV", Password: "123456", Role: RoleReguIV, Name: "Ka. Rupam IV"},
}

// FindAccount matches the roster by case-insensitive username and exact
// password. First match wins.
func FindAccount(username, password string) (Account, bool) {
	for _, a := range Accounts {
		if strings.EqualFold(a.Username, username) && a.Password == password {
			return a, true
		}
	}
	return Account{}, false
}
