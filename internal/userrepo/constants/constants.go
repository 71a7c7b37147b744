package constants

const (
	// UsersCollection is the collection/table holding user records.
	UsersCollection = "users"

	FieldID       = "id"
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
)
