package entity

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleVIP   = "vip"
	RoleAdmin = "admin"
)

type User struct {
	ID       string `json:"id" firestore:"id"`
	Email    string `json:"email" firestore:"email"`
	Username string `json:"username" firestore:"username"`
	Phone    string `json:"phone,omitempty" firestore:"phone,omitempty"`
	Bio      string `json:"bio,omitempty" firestore:"bio,omitempty"`
	Role     string `json:"role" firestore:"role"`

	// Loyalty tier derived from cumulative settled order value. Never
	// recomputed from order history; both fields advance together inside
	// the settlement transaction.
	Level                 int     `json:"level" firestore:"level"`
	TotalTransactionValue float64 `json:"total_transaction_value" firestore:"totalTransactionValue"`

	Rating      float64 `json:"rating" firestore:"rating"`
	ReviewCount int     `json:"review_count" firestore:"reviewCount"`

	IsBanned   bool `json:"is_banned" firestore:"isBanned"`
	IsDisabled bool `json:"is_disabled" firestore:"isDisabled"`

	AvatarURL string    `json:"avatar_url,omitempty" firestore:"avatarURL,omitempty"`
	LastSeen  time.Time `json:"last_seen" firestore:"lastSeen"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// Active reports whether the account may use authenticated endpoints.
func (u *User) Active() bool {
	return !u.IsBanned && !u.IsDisabled
}

// VIPLevel is the loyalty level at which a regular user is promoted to vip.
const VIPLevel = 10

// PromoteRole upgrades user to vip once the level threshold is reached.
// Admins and existing vips keep their role.
func PromoteRole(role string, level int) string {
	if role == RoleUser && level >= VIPLevel {
		return RoleVIP
	}
	return role
}
