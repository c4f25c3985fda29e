package user

import (
	"encoding/json"

	"github.com/irsalhamdi/marble-store/core/catalog"
)

// User is the account returned by the backend on login. Token is the
// bearer token for backend calls made on the user's behalf.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Token   string `json:"token"`
	IsAdmin bool   `json:"isAdmin"`
}

// UnmarshalJSON accepts the backend's "_id" primary key, string or
// numeric.
func (u *User) UnmarshalJSON(b []byte) error {
	type plain User
	var raw struct {
		plain
		ID      catalog.ID `json:"id"`
		MongoID catalog.ID `json:"_id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	id := raw.ID
	if id.IsZero() {
		id = raw.MongoID
	}

	*u = User(raw.plain)
	u.ID = id.String()
	return nil
}

type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Register struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"ConfirmPassword" validate:"required,eqfield=Password"`
}
