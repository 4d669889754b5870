// services/google_auth.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JWehbe/tikshop_backend/config"
	"github.com/JWehbe/tikshop_backend/models"
	"github.com/JWehbe/tikshop_backend/repositories"
)

// GoogleAuthService verifies Firebase ID tokens and maps them onto local
// user accounts. First-time Google sign-ins are created as plain users; a
// referral code supplied at signup attaches the new account to the issuing
// admin or seller.
type GoogleAuthService struct {
	db    *mongo.Client
	users *repositories.UserRepository
}

// NewGoogleAuthService creates a new Google auth service
func NewGoogleAuthService(db *mongo.Client) *GoogleAuthService {
	return &GoogleAuthService{db: db, users: repositories.NewUserRepository(db)}
}

// VerifyAndUpsert validates the Firebase ID token and returns the matching
// local user, creating one on first sign-in.
func (s *GoogleAuthService) VerifyAndUpsert(ctx context.Context, idToken, referralCode string) (*models.User, error) {
	if config.FirebaseApp == nil {
		return nil, fmt.Errorf("firebase is not configured")
	}

	authClient, err := config.FirebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get firebase auth client: %w", err)
	}

	token, err := authClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("invalid google token: %w", err)
	}

	email, _ := token.Claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("google token has no email claim")
	}
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)

	users := config.GetCollection(s.db, "users")

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		// Known account: refresh the google-linked fields
		_, _ = users.UpdateOne(ctx, bson.M{"_id": existing.ID}, bson.M{"$set": bson.M{
			"firebaseUID":    token.UID,
			"profilePic":     picture,
			"lastActivityAt": time.Now(),
		}})
		return existing, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user := models.User{
		ID:          primitive.NewObjectID(),
		Email:       email,
		FullName:    name,
		Role:        models.RoleUser,
		FirebaseUID: token.UID,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if picture != "" {
		user.ProfilePic = picture
	}

	if referralCode != "" {
		if referrer, err := s.users.FindByReferralCode(ctx, referralCode); err != nil {
			log.Printf("Google signup with unknown referral code %q: %v", referralCode, err)
		} else {
			user.ReferredBy = &referrer.ID
			if referrer.IsAdminRole() {
				user.AdminID = &referrer.ID
			} else if referrer.AdminID != nil {
				user.AdminID = referrer.AdminID
			}
		}
	}

	if _, err := users.InsertOne(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}
