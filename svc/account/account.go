package account

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Role names a permission level. The set of valid roles lives in the
// "roles" collection; these two are always seeded.
type Role string

const (
	RoleAdmin Role = "ADMIN_ROLE"
	RoleUser  Role = "USER_ROLE"
)

func (r Role) String() string { return string(r) }

// AuthProvider marks a federated identity linked to the account.
type AuthProvider struct {
	Name        string `json:"name" bson:"name"`
	ID          string `json:"id,omitempty" bson:"id,omitempty"`
	AccessToken string `json:"-" bson:"accessToken,omitempty"`
}

// Account is a user record. PasswordHash is never serialized to clients.
type Account struct {
	ID            bson.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name          string         `json:"name" bson:"name"`
	Email         string         `json:"email" bson:"email"`
	PasswordHash  string         `json:"-" bson:"password,omitempty"`
	Img           string         `json:"img,omitempty" bson:"img,omitempty"`
	Role          Role           `json:"role" bson:"role"`
	Active        bool           `json:"status" bson:"status"`
	Google        bool           `json:"google" bson:"google"`
	AuthProviders []AuthProvider `json:"authProviders,omitempty" bson:"authProviders,omitempty"`
	CreatedAt     time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time      `json:"-" bson:"updatedAt,omitempty"`
	UpdatedBy     string         `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
}

// IDHex returns the hex form of the id, or "" for unsaved accounts.
func (a *Account) IDHex() string {
	if a.ID.IsZero() {
		return ""
	}
	return a.ID.Hex()
}

// HasPassword reports whether the account can use password login.
func (a *Account) HasPassword() bool {
	return !a.Google && a.PasswordHash != ""
}

// Page is one slice of the active-account listing.
type Page struct {
	Total int64     `json:"total"`
	Users []Account `json:"users"`
}
