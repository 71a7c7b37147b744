package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/haguru/signup/internal/interfaces"
	"github.com/haguru/signup/internal/models"
	"github.com/haguru/signup/internal/userrepo/constants"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongosdk "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository implements UserRepository using the generic DBClient.
// Email uniqueness is enforced by a unique index created in EnsureIndices.
type MongoUserRepository struct {
	dbClient interfaces.DBClient
}

// mongoUser is the BSON shape of a user document.
type mongoUser struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
}

// NewMongoUserRepository creates a new MongoDB repository instance.
func NewMongoUserRepository(dbClient interfaces.DBClient) (interfaces.UserRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	return &MongoUserRepository{dbClient: dbClient}, nil
}

// Create saves a new user to MongoDB via DBClient. MongoDB generates the ObjectID.
func (r *MongoUserRepository) Create(ctx context.Context, user models.User) (*models.User, error) {
	doc := bson.M{
		constants.FieldName:     user.Name,
		constants.FieldEmail:    user.Email,
		constants.FieldPassword: user.Password,
	}

	insertedID, err := r.dbClient.InsertOne(ctx, constants.UsersCollection, doc)
	if err != nil {
		if mongosdk.IsDuplicateKeyError(err) {
			return nil, models.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to add user to MongoDB: %w", err)
	}

	objID, ok := insertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to assert inserted ID to ObjectID")
	}

	created := user
	created.ID = objID.Hex()
	return &created, nil
}

// FindByEmail retrieves a user from MongoDB via DBClient.
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc mongoUser
	filter := bson.M{constants.FieldEmail: email}
	err := r.dbClient.FindOne(ctx, constants.UsersCollection, filter, &doc)
	if err != nil {
		if errors.Is(err, interfaces.ErrNoDocument) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email from MongoDB: %w", err)
	}

	return &models.User{
		ID:       doc.ID.Hex(),
		Name:     doc.Name,
		Email:    doc.Email,
		Password: doc.Password,
	}, nil
}

// EnsureIndices creates the unique index on email.
func (r *MongoUserRepository) EnsureIndices(ctx context.Context) error {
	indexModel := mongosdk.IndexModel{
		Keys:    bson.D{{Key: constants.FieldEmail, Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	}
	return r.dbClient.EnsureSchema(ctx, constants.UsersCollection, indexModel)
}

// Close disconnects the MongoDB client.
func (r *MongoUserRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}
