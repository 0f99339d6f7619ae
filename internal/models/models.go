package models

// Restaurant represents a restaurant that can be evaluated
type Restaurant struct {
	ID       int64   `json:"id"`
	Nom      string  `json:"nom"`
	Adresse  string  `json:"adresse"`
	ImageKey *string `json:"-"`
}

// Evaluation represents a user evaluation of a restaurant
type Evaluation struct {
	ID           int64  `json:"id"`
	Evaluateur   string `json:"evaluateur"`
	Commentaire  string `json:"commentaire"`
	Note         int    `json:"note"`
	RestaurantID int64  `json:"-"`
}

// PlatPhoto represents one photo slot attached to an evaluation.
// ImageKey is nil until an upload URL has been issued for the slot.
type PlatPhoto struct {
	ID           int64   `json:"id"`
	EvaluationID int64   `json:"evaluation_id"`
	ImageKey     *string `json:"-"`
}

// Roles known to the authorization policy
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Identity is the resolved caller handed in by the auth middleware.
// A zero Identity is an unauthenticated caller.
type Identity struct {
	Username string
	Roles    []string
}

// IsAdmin reports whether the caller carries the admin role
func (i Identity) IsAdmin() bool {
	for _, r := range i.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}
