package entity

// User is the companion profile document kept alongside a user's listings.
// The ID is the identity provider's stable uid.
type User struct {
	ID    string
	Name  string
	Email string
}
