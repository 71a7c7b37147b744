package validation

// End-user messages. The form controller and the registration endpoint both
// render these strings verbatim.
const (
	MsgEmailRequired      = "Email is a required field"
	MsgEmailInvalid       = "Email must be a valid email"
	MsgNameRequired       = "Name is a required field"
	MsgPasswordRequired   = "Password is a required field"
	MsgPasswordTooShort   = "Password must be at least 8 characters long"
	MsgPasswordTooLong    = "Password must be at most 72 bytes long"
	MsgPasswordsMustMatch = "Passwords must match"
	MsgEmailInUse         = "The provided email address is already in use."
	MsgInvalidRequestBody = "Invalid request body"
)

// Field names as they appear on the wire.
const (
	FieldEmail           = "email"
	FieldName            = "name"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)
