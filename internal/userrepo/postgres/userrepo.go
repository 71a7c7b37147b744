package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/haguru/signup/internal/interfaces"
	"github.com/haguru/signup/internal/models"
	"github.com/haguru/signup/internal/userrepo/constants"
)

// uniqueViolation is the SQLSTATE PostgreSQL reports for a unique constraint failure.
const uniqueViolation = "23505"

// CreateUsersTable creates the users table. The UNIQUE constraint on email is
// what rejects a second account for the same address.
const CreateUsersTable = `CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL
)`

// PostgresUserRepository implements UserRepository for PostgreSQL databases.
type PostgresUserRepository struct {
	dbClient interfaces.DBClient
}

// NewPostgresUserRepository creates a new PostgreSQL repository instance.
func NewPostgresUserRepository(dbClient interfaces.DBClient) (interfaces.UserRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	return &PostgresUserRepository{dbClient: dbClient}, nil
}

// Create saves a new user to PostgreSQL via DBClient.
// The client generates the UUID primary key.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) (*models.User, error) {
	doc := map[string]interface{}{
		constants.FieldName:     user.Name,
		constants.FieldEmail:    user.Email,
		constants.FieldPassword: user.Password,
	}

	insertedID, err := r.dbClient.InsertOne(ctx, constants.UsersCollection, doc)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, models.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to add user to PostgreSQL: %w", err)
	}

	strID, ok := insertedID.(string)
	if !ok {
		return nil, fmt.Errorf("failed to assert inserted ID to string (expected UUID)")
	}

	created := user
	created.ID = strID
	return &created, nil
}

// FindByEmail retrieves a user from PostgreSQL via DBClient.
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	filter := map[string]interface{}{constants.FieldEmail: email}
	err := r.dbClient.FindOne(ctx, constants.UsersCollection, filter, &user)
	if err != nil {
		if errors.Is(err, interfaces.ErrNoDocument) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email from PostgreSQL: %w", err)
	}
	return &user, nil
}

// EnsureIndices creates the users table with its unique email constraint.
func (r *PostgresUserRepository) EnsureIndices(ctx context.Context) error {
	return r.dbClient.EnsureSchema(ctx, constants.UsersCollection, CreateUsersTable)
}

// Close closes the PostgreSQL database connection.
func (r *PostgresUserRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}
