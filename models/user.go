// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleUser       = "user"
	RoleSeller     = "seller"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// User model covers shoppers, sellers and admins. Sellers carry the
// referral/commission fields; admins carry a referral code sellers sign up with.
type User struct {
	ID                 primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Email              string               `json:"email" bson:"email"`
	Password           string               `json:"password,omitempty" bson:"password"`
	FullName           string               `json:"fullName" bson:"fullName"`
	Role               string               `json:"role" bson:"role"`
	IsActive           bool                 `json:"isActive" bson:"isActive"`
	LastActivityAt     time.Time            `json:"lastActivityAt" bson:"lastActivityAt"`
	Phone              string               `json:"phone,omitempty" bson:"phone,omitempty"`
	Balance            float64              `json:"balance" bson:"balance"`
	AdminID            *primitive.ObjectID  `json:"adminId,omitempty" bson:"adminId,omitempty"`
	ReferredBy         *primitive.ObjectID  `json:"referredBy,omitempty" bson:"referredBy,omitempty"`
	OriginalReferredBy *primitive.ObjectID  `json:"originalReferredBy,omitempty" bson:"originalReferredBy,omitempty"`
	ReferralCode       string               `json:"referralCode,omitempty" bson:"referralCode,omitempty"`
	Referrals          []primitive.ObjectID `json:"referrals,omitempty" bson:"referrals,omitempty"`
	IsDummyAccount     bool                 `json:"isDummyAccount,omitempty" bson:"isDummyAccount,omitempty"`
	MigrationHistory   []MigrationRecord    `json:"migrationHistory,omitempty" bson:"migrationHistory,omitempty"`
	UsdtID             string               `json:"usdtId,omitempty" bson:"usdtId,omitempty"`
	ProfilePic         string               `bson:"profilePic,omitempty" json:"profilePic,omitempty"`
	GoogleID           string               `json:"googleId,omitempty" bson:"googleId,omitempty"`
	FirebaseUID        string               `json:"firebaseUID,omitempty" bson:"firebaseUID,omitempty"`
	FCMToken           string               `json:"fcmToken,omitempty" bson:"fcmToken,omitempty"`
	CreatedAt          time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// MigrationRecord is one entry in a seller's migrationHistory, appended every
// time the seller is reassigned to a different admin.
type MigrationRecord struct {
	FromAdminID *primitive.ObjectID `json:"fromAdminId,omitempty" bson:"fromAdminId,omitempty"`
	ToAdminID   primitive.ObjectID  `json:"toAdminId" bson:"toAdminId"`
	Reason      string              `json:"reason" bson:"reason"`
	MigratedAt  time.Time           `json:"migratedAt" bson:"migratedAt"`
}

// IsAdminRole reports whether the user can own sellers and receive commissions.
func (u *User) IsAdminRole() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperadmin
}

// AuthRequest models
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe,omitempty"`
}

type SignupRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	FullName     string `json:"fullName" validate:"required"`
	Phone        string `json:"phone,omitempty"`
	ReferralCode string `json:"referralCode,omitempty"`
}

// GoogleAuthRequest is the model for Google sign-in via Firebase
type GoogleAuthRequest struct {
	IDToken  string `json:"idToken" validate:"required"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoUrl"`
	GoogleID string `json:"googleId"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
