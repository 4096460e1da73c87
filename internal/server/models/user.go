package models

import "time"

// User is a registered patient account. Email and PhoneNumber are optional
// alternate login identifiers; an empty string means "not set" and is stored
// as NULL. Age is nil when the patient has not provided it.
type User struct {
	ID             string
	UserName       string
	Email          string
	PhoneNumber    string
	PasswordHash   []byte
	Age            *int
	MedicalHistory string
	CreatedAt      time.Time
}

// Identifiers returns the non-empty login identifiers of u.
func (u *User) Identifiers() []string {
	ids := make([]string, 0, 3)
	for _, v := range []string{u.UserName, u.Email, u.PhoneNumber} {
		if v != "" {
			ids = append(ids, v)
		}
	}
	return ids
}

// Principal returns the minimal projection handed out after authentication.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Name: u.UserName, Email: u.Email}
}

// Principal is the authenticated identity as seen by the rest of the server.
// It never carries secret material.
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
