package models

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt hash, never serialised
	College   string    `json:"college"`
	Favorites []string  `json:"favorites"` // mess ids, set semantics kept by the store
	Reviews   []string  `json:"reviews"`   // review ids in creation order
	CreatedAt time.Time `json:"createdAt"`
}

// WithoutPassword returns a copy with the hash cleared.
func (u User) WithoutPassword() *User {
	u.Password = ""
	return &u
}
