package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/mehular0ra/propfinder/internal/apperr"
	"github.com/mehular0ra/propfinder/internal/mailer"
	"github.com/mehular0ra/propfinder/internal/models"
)

// The same message covers unknown phone and wrong password so a caller
// cannot probe which accounts exist.
const (
	msgInvalidLogin      = "Invalid phone number or password"
	msgDeactivated       = "Your account has been deactivated"
	msgInvalidAdmin      = "Invalid admin credentials"
	msgPhoneRegistered   = "Phone number already registered"
	msgEmailRegistered   = "Email already registered"
	msgUserNotFound      = "User not found"
	msgAlreadyRegistered = "Account already registered"
)

// userStore is the slice of the users collection the auth service touches.
// *mongo.Collection satisfies it; tests substitute fakes.
type userStore interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

// AuthService handles registration, login and session tokens.
type AuthService struct {
	users    userStore
	mail     mailer.Mailer
	log      zerolog.Logger
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(database *mongo.Database, mail mailer.Mailer, log zerolog.Logger, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:    database.Collection("users"),
		mail:     mail,
		log:      log,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword compares a plain password with a stored bcrypt hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Claims is the session token payload: subject is the user id, plus the
// role for admin-gated routes.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Token issues a signed session token for the user, valid for the
// configured TTL.
func (s *AuthService) Token(user models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken verifies a session token's signature and expiry and returns
// its claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// RegisterInput carries the registration fields; Email is optional.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Register creates a user with a hashed password and issues a session
// token. Duplicate phone or email fails with a conflict; the welcome email
// is best-effort.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.User, string, error) {
	err := s.users.FindOne(ctx, bson.M{"phone": in.Phone}).Err()
	if err == nil {
		return models.User{}, "", apperr.New(apperr.CodeConflict, msgPhoneRegistered)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, "", apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
	}

	if in.Email != "" {
		err := s.users.FindOne(ctx, bson.M{"email": in.Email}).Err()
		if err == nil {
			return models.User{}, "", apperr.New(apperr.CodeConflict, msgEmailRegistered)
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, "", apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
		}
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return models.User{}, "", apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Password:  hash,
		Role:      models.RoleUser,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		// A concurrent registration can slip past the existence checks; the
		// unique index reports it as a duplicate key.
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, "", apperr.New(apperr.CodeConflict, msgAlreadyRegistered)
		}
		return models.User{}, "", apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
	}

	token, err := s.Token(user)
	if err != nil {
		return models.User{}, "", apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
	}

	go notify(s.log, s.mail, mailer.Message{
		To:       user.Email,
		ToName:   user.Name,
		Subject:  "Welcome to PropFinder",
		TextBody: fmt.Sprintf("Hi %s,\n\nYour PropFinder account is ready. Happy house hunting!", user.Name),
	})

	return user, token, nil
}

// authenticate resolves phone+password to a user, with the enumeration-safe
// failure messages shared by Login and AdminLogin.
func (s *AuthService) authenticate(ctx context.Context, phone, password string) (models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"phone": phone}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, apperr.New(apperr.CodeUnauthorized, msgInvalidLogin)
	}
	if err != nil {
		return models.User{}, apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
	}

	if !user.IsActive {
		return models.User{}, apperr.New(apperr.CodeUnauthorized, msgDeactivated)
	}
	if !VerifyPassword(password, user.Password) {
		return models.User{}, apperr.New(apperr.CodeUnauthorized, msgInvalidLogin)
	}
	return user, nil
}

// Login authenticates a user, stamps lastLogin and issues a session token.
func (s *AuthService) Login(ctx context.Context, phone, password string) (models.User, string, error) {
	user, err := s.authenticate(ctx, phone, password)
	if err != nil {
		return models.User{}, "", err
	}
	return s.finishLogin(ctx, user)
}

// AdminLogin is Login with an additional role check before any token is
// issued.
func (s *AuthService) AdminLogin(ctx context.Context, phone, password string) (models.User, string, error) {
	user, err := s.authenticate(ctx, phone, password)
	if err != nil {
		return models.User{}, "", err
	}
	if user.Role != models.RoleAdmin {
		return models.User{}, "", apperr.New(apperr.CodeUnauthorized, msgInvalidAdmin)
	}
	return s.finishLogin(ctx, user)
}

func (s *AuthService) finishLogin(ctx context.Context, user models.User) (models.User, string, error) {
	now := time.Now()
	_, err := s.users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{"lastLogin": now}})
	if err != nil {
		return models.User{}, "", apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
	}
	user.LastLogin = now

	token, err := s.Token(user)
	if err != nil {
		return models.User{}, "", apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
	}
	return user, token, nil
}

// GetProfile returns the user behind a session subject.
func (s *AuthService) GetProfile(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, apperr.New(apperr.CodeNotFound, msgUserNotFound)
	}
	if err != nil {
		return models.User{}, apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
	}
	return user, nil
}

// UpdateProfileInput carries the optional profile fields; nil means leave
// unchanged.
type UpdateProfileInput struct {
	Name  *string
	Phone *string
}

// UpdateProfile applies only the supplied fields and returns the updated
// user.
func (s *AuthService) UpdateProfile(ctx context.Context, id primitive.ObjectID, in UpdateProfileInput) (models.User, error) {
	set := bson.M{}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.Phone != nil {
		set["phone"] = *in.Phone
	}
	if len(set) == 0 {
		return s.GetProfile(ctx, id)
	}

	if _, err := s.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, apperr.New(apperr.CodeConflict, msgPhoneRegistered)
		}
		return models.User{}, apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
	}
	return s.GetProfile(ctx, id)
}

// ResolveUser turns a session subject into a live user record. Used by the
// auth middleware on every bearer request.
func (s *AuthService) ResolveUser(ctx context.Context, hexID string) (models.User, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return models.User{}, apperr.New(apperr.CodeUnauthorized, "Invalid or expired token")
	}
	return s.GetProfile(ctx, id)
}
