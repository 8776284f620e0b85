package mongo

import (
	"context"
	"fmt"
	"time"
	"unicode"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/ngcore/auth-api/internal/core/domain"
)

const (
	usersCollection = "users"
	rolesCollection = "roles"

	minPasswordLength = 8
)

// UserStore implements ports.CredentialStore on MongoDB. It owns the
// password hashing and the password complexity policy; callers only ever
// see plaintext going in and verification results coming out.
type UserStore struct {
	users *mongo.Collection
	roles *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{
		users: db.Collection(usersCollection),
		roles: db.Collection(rolesCollection),
	}
}

type mongoUser struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Username      string             `bson:"username"`
	Email         string             `bson:"email"`
	PasswordHash  string             `bson:"password_hash"`
	SecurityStamp string             `bson:"security_stamp"`
	Roles         []string           `bson:"roles"`
	CreatedAt     int64              `bson:"created_at"`
}

// EnsureIndexes creates the unique indexes registration depends on.
// Call once at startup before serving traffic.
func (s *UserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	_, err = s.roles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create role index: %w", err)
	}
	return nil
}

// SeedRoles upserts the deployment-configured role set. Existing roles are
// left untouched, so re-seeding on every start is safe.
func (s *UserStore) SeedRoles(ctx context.Context, names []string) error {
	for _, name := range names {
		_, err := s.roles.UpdateOne(ctx,
			bson.M{"name": name},
			bson.M{"$setOnInsert": bson.M{"name": name, "created_at": time.Now().UTC().Unix()}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	return nil
}

// CreateUser hashes the password and persists the identity record with its
// initial role in a single insert, so user and role commit together or not
// at all. Duplicate username/email and password policy violations are
// reported together as an ordered domain.ValidationErrors list; nothing is
// persisted in that case.
func (s *UserStore) CreateUser(ctx context.Context, user *domain.User, password, role string) (*domain.User, error) {
	if n, err := s.roles.CountDocuments(ctx, bson.M{"name": role}); err != nil {
		return nil, fmt.Errorf("check role: %w", err)
	} else if n == 0 {
		return nil, domain.ErrUnknownRole
	}

	var verrs domain.ValidationErrors

	if n, err := s.users.CountDocuments(ctx, bson.M{"username": user.Username}); err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	} else if n > 0 {
		verrs = append(verrs, fmt.Sprintf("Username '%s' is already taken.", user.Username))
	}

	if n, err := s.users.CountDocuments(ctx, bson.M{"email": user.Email}); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	} else if n > 0 {
		verrs = append(verrs, fmt.Sprintf("Email '%s' is already taken.", user.Email))
	}

	verrs = append(verrs, passwordPolicyErrors(password)...)
	if len(verrs) > 0 {
		return nil, verrs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	doc := mongoUser{
		Username:      user.Username,
		Email:         user.Email,
		PasswordHash:  string(hash),
		SecurityStamp: user.SecurityStamp,
		Roles:         []string{role},
		CreatedAt:     user.CreatedAt.Unix(),
	}

	res, err := s.users.InsertOne(ctx, doc)
	if err != nil {
		// lost the race against a concurrent registration
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ValidationErrors{fmt.Sprintf("Username '%s' is already taken.", user.Username)}
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.PasswordHash = string(hash)
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

// FindByUsername returns domain.ErrUserNotFound when no record matches.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var mu mongoUser
	if err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &domain.User{
		ID:            mu.ID.Hex(),
		Username:      mu.Username,
		Email:         mu.Email,
		PasswordHash:  mu.PasswordHash,
		SecurityStamp: mu.SecurityStamp,
		CreatedAt:     time.Unix(mu.CreatedAt, 0).UTC(),
	}, nil
}

// VerifyPassword compares the plaintext against the stored bcrypt hash.
// A mismatch is (false, nil), not an error.
func (s *UserStore) VerifyPassword(_ context.Context, user *domain.User, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err == bcrypt.ErrMismatchedHashAndPassword {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("compare password: %w", err)
	}
	return true, nil
}

// GetRoles returns the user's roles in assignment order.
func (s *UserStore) GetRoles(ctx context.Context, userID string) ([]string, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var mu mongoUser
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user roles: %w", err)
	}
	return mu.Roles, nil
}

// AddToRole grants an additional seeded role to an existing user. Unknown
// role names are rejected with domain.ErrUnknownRole.
func (s *UserStore) AddToRole(ctx context.Context, userID, role string) error {
	if n, err := s.roles.CountDocuments(ctx, bson.M{"name": role}); err != nil {
		return fmt.Errorf("check role: %w", err)
	} else if n == 0 {
		return domain.ErrUnknownRole
	}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$addToSet": bson.M{"roles": role}},
	)
	if err != nil {
		return fmt.Errorf("add to role: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// passwordPolicyErrors enforces the store's complexity policy: at least
// eight characters with one uppercase, one lowercase, and one digit.
func passwordPolicyErrors(password string) domain.ValidationErrors {
	var verrs domain.ValidationErrors
	if len(password) < minPasswordLength {
		verrs = append(verrs, fmt.Sprintf("Passwords must be at least %d characters.", minPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		verrs = append(verrs, "Passwords must have at least one uppercase ('A'-'Z').")
	}
	if !hasLower {
		verrs = append(verrs, "Passwords must have at least one lowercase ('a'-'z').")
	}
	if !hasDigit {
		verrs = append(verrs, "Passwords must have at least one digit ('0'-'9').")
	}
	return verrs
}
