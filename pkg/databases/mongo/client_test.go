package mongo

import (
	"context"
	"testing"

	"github.com/haguru/signup/config"
	"github.com/haguru/signup/pkg/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func newTestClient(t *testing.T) *MongoDBClient {
	t.Helper()
	client, err := NewMongoDB(&config.MongoDBConfig{
		ValidCollections: []string{"users"},
		ValidFields:      []string{"name", "email", "password"},
	}, zerolog.NewNopLogger())
	require.NoError(t, err)
	return client.(*MongoDBClient)
}

func TestGetDBNameFromMongoDSN(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		want    string
		wantErr bool
	}{
		{name: "plain", dsn: "mongodb://localhost:27017/signupDB", want: "signupDB"},
		{name: "with options", dsn: "mongodb://localhost:27017/signupDB?retryWrites=true", want: "signupDB"},
		{name: "extra path segments", dsn: "mongodb+srv://cluster.example.net/signupDB/users", want: "signupDB"},
		{name: "no database", dsn: "mongodb://localhost:27017", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := getDBNameFromMongoDSN(tt.dsn)
			if (err != nil) != tt.wantErr {
				t.Errorf("getDBNameFromMongoDSN() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("getDBNameFromMongoDSN() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSanitizeDocument(t *testing.T) {
	client := newTestClient(t)

	got := client.sanitizeDocument(bson.M{
		"_id":      "forced",
		"email":    "shikamaru@konoha.jp",
		"name":     "Shikamaru",
		"$where":   "1 == 1",
		"role":     "admin",
		"password": bson.M{"$ne": ""},
	})

	assert.Equal(t, bson.M{"email": "shikamaru@konoha.jp", "name": "Shikamaru"}, got)
	assert.Equal(t, bson.M{}, client.sanitizeDocument("not a map"))
}

func TestConnect_RejectsInvalidDSN(t *testing.T) {
	client := newTestClient(t)

	assert.Error(t, client.Connect(context.Background(), ""))
	assert.Error(t, client.Connect(context.Background(), "postgres://localhost/signup"))
	assert.Error(t, client.Connect(context.Background(), "mongodb://localhost:27017"))
}

func TestOperationsRequireConnection(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	_, err := client.InsertOne(ctx, "users", bson.M{"email": "a@konoha.jp"})
	assert.Error(t, err)
	_, err = client.InsertOne(ctx, "accounts", bson.M{"email": "a@konoha.jp"})
	assert.Error(t, err)

	var out bson.M
	assert.Error(t, client.FindOne(ctx, "users", bson.M{"email": "a@konoha.jp"}, &out))
	assert.Error(t, client.EnsureSchema(ctx, "users", nil))
	assert.Error(t, client.Ping(ctx))
	assert.NoError(t, client.Disconnect(ctx))
}
