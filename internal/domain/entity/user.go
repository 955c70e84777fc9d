package entity

import "time"

const (
	RoleClient     = "client"
	RoleFreelancer = "freelancer"
	RoleAdmin      = "admin"
)

type User struct {
	ID           string    `json:"id" firestore:"id"`
	Email        string    `json:"email" firestore:"email"`
	Name         string    `json:"name" firestore:"name"`
	Image        string    `json:"image,omitempty" firestore:"image,omitempty"`
	Role         string    `json:"role" firestore:"role"`
	OnlineStatus bool      `json:"online_status" firestore:"onlineStatus"`
	LastSeen     time.Time `json:"last_seen" firestore:"lastSeen"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updated_at" firestore:"updatedAt"`
}

// CanFreelance reports whether the user may author custom offers.
func (u *User) CanFreelance() bool {
	return u.Role == RoleFreelancer || u.Role == RoleAdmin
}
