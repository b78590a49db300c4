package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/michi-labs/catapi/internal/core/domain"
	"github.com/michi-labs/catapi/internal/core/ports"
)

const usersCollection = "users"

// Unique index names; conflictMessage relies on them to name the offending field.
const (
	indexIdentification = "uniq_identification"
	indexEmail          = "uniq_email"
	indexUsername       = "uniq_username"
)

// UserRepository implements ports.UserRepository on a Mongo collection.
type UserRepository struct {
	coll *mongo.Collection
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	Identification string             `bson:"identification"`
	Email          string             `bson:"email"`
	Age            int                `bson:"age"`
	Username       string             `bson:"username"`
	Password       string             `bson:"password"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:             mu.ID.Hex(),
		Name:           mu.Name,
		Identification: mu.Identification,
		Email:          mu.Email,
		Age:            mu.Age,
		Username:       mu.Username,
		PasswordHash:   mu.Password,
		CreatedAt:      mu.CreatedAt.UTC(),
		UpdatedAt:      mu.UpdatedAt.UTC(),
	}
}

// EnsureIndexes creates the unique indexes that back the store's uniqueness
// guarantees. Concurrent writes with colliding values fail atomically on them.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "identification", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexIdentification)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexEmail)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexUsername)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a new user document and returns it with its generated id.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := mongoUser{
		Name:           user.Name,
		Identification: user.Identification,
		Email:          user.Email,
		Age:            user.Age,
		Username:       user.Username,
		Password:       user.PasswordHash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.NewConflictError(conflictMessage(err), err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

// FindAll returns every user ordered by _id, i.e. insertion order.
func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, nil
}

// FindByID treats a malformed id the same as an unknown one.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// Update applies the supplied fields with $set and returns the updated document.
func (r *UserRepository) Update(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	if update.IsEmpty() {
		return r.findOne(ctx, bson.M{"_id": oid})
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := setDocument(update, time.Now().UTC().Truncate(time.Millisecond))
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mu mongoUser
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&mu)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrUserNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.NewConflictError(conflictMessage(err), err)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return mu.toDomain(), nil
}

// Delete removes the document and returns what was removed.
func (r *UserRepository) Delete(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return mu.toDomain(), nil
}

// setDocument builds the $set payload for the supplied fields.
func setDocument(u domain.UserUpdate, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Identification != nil {
		set["identification"] = *u.Identification
	}
	if u.Email != nil {
		set["email"] = *u.Email
	}
	if u.Age != nil {
		set["age"] = *u.Age
	}
	if u.Username != nil {
		set["username"] = *u.Username
	}
	if u.PasswordHash != nil {
		set["password"] = *u.PasswordHash
	}
	return set
}

// conflictMessage names the unique field a duplicate-key error tripped over.
func conflictMessage(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, indexUsername):
		return "username already exists"
	case strings.Contains(msg, indexEmail):
		return "email already exists"
	case strings.Contains(msg, indexIdentification):
		return "identification already exists"
	default:
		return "user already exists"
	}
}
