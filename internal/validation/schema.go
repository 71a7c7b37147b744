// Package validation holds the sign-up schema.
//
// The same rule table is evaluated by the sign-up form controller before a
// submission leaves the client and by the registration endpoint when it
// arrives, so both sides report the exact same messages. Rules are expressed
// as go-playground/validator tags and evaluated one field at a time.
package validation

import (
	"strconv"

	"github.com/haguru/signup/internal/models/dto"

	structValidator "github.com/go-playground/validator/v10"
)

const (
	// MaxPasswordBytes is the longest password bcrypt will accept.
	MaxPasswordBytes = 72

	tagMaxBytes = "maxbytes"
)

// Rule constrains a single field of a sign-up request.
type Rule struct {
	// Field is the wire name of the field the rule applies to.
	Field string
	// Tag is a validator tag evaluated against the field value.
	Tag string
	// Ref names the field the value is compared against for cross-field tags.
	Ref string
	// Message is reported when the rule fails.
	Message string
}

// SignupRules is the sign-up schema in field-declaration order. Every rule is
// evaluated, so one field can fail more than once; an empty password is both
// missing and too short.
var SignupRules = []Rule{
	{Field: FieldEmail, Tag: "required", Message: MsgEmailRequired},
	// an empty email is only reported as missing
	{Field: FieldEmail, Tag: "omitempty,email", Message: MsgEmailInvalid},
	{Field: FieldName, Tag: "required", Message: MsgNameRequired},
	{Field: FieldPassword, Tag: "required", Message: MsgPasswordRequired},
	{Field: FieldPassword, Tag: "min=8", Message: MsgPasswordTooShort},
	{Field: FieldPassword, Tag: tagMaxBytes + "=" + strconv.Itoa(MaxPasswordBytes), Message: MsgPasswordTooLong},
	// confirmPassword is not required; an empty value only passes when the
	// password is empty too.
	{Field: FieldConfirmPassword, Tag: "eqcsfield", Ref: FieldPassword, Message: MsgPasswordsMustMatch},
}

// Violation is one failed rule.
type Violation struct {
	Field   string
	Message string
}

// Outcome is the ordered list of violations for one request. An empty
// outcome means the request is valid.
type Outcome []Violation

// Valid reports whether no rule failed.
func (o Outcome) Valid() bool {
	return len(o) == 0
}

// Messages returns the violation messages in order.
func (o Outcome) Messages() []string {
	messages := make([]string, 0, len(o))
	for _, v := range o {
		messages = append(messages, v.Message)
	}
	return messages
}

// FieldErrors maps each invalid field to its first message, the one shown
// inline next to the field.
func (o Outcome) FieldErrors() map[string]string {
	fieldErrors := make(map[string]string, len(o))
	for _, v := range o {
		if _, seen := fieldErrors[v.Field]; !seen {
			fieldErrors[v.Field] = v.Message
		}
	}
	return fieldErrors
}

// Schema evaluates a rule table against sign-up requests.
// It is safe for concurrent use.
type Schema struct {
	validator *structValidator.Validate
	rules     []Rule
}

// NewSchema builds a schema over the given rules.
func NewSchema(rules []Rule) *Schema {
	v := structValidator.New()
	// The registration only fails for an empty tag name or a nil func.
	_ = v.RegisterValidation(tagMaxBytes, maxBytes)

	return &Schema{
		validator: v,
		rules:     rules,
	}
}

var signupSchema = NewSchema(SignupRules)

// Validate evaluates the sign-up schema against req.
func Validate(req dto.UserSignupRequestDTO) Outcome {
	return signupSchema.Validate(req)
}

// Validate folds every rule into the outcome without stopping at a failure.
func (s *Schema) Validate(req dto.UserSignupRequestDTO) Outcome {
	outcome := Outcome{}
	for _, rule := range s.rules {
		if err := s.check(req, rule); err != nil {
			outcome = append(outcome, Violation{Field: rule.Field, Message: rule.Message})
		}
	}
	return outcome
}

func (s *Schema) check(req dto.UserSignupRequestDTO, rule Rule) error {
	value := fieldValue(req, rule.Field)
	if rule.Ref != "" {
		return s.validator.VarWithValue(value, fieldValue(req, rule.Ref), rule.Tag)
	}
	return s.validator.Var(value, rule.Tag)
}

func fieldValue(req dto.UserSignupRequestDTO, field string) string {
	switch field {
	case FieldEmail:
		return req.Email
	case FieldName:
		return req.Name
	case FieldPassword:
		return req.Password
	case FieldConfirmPassword:
		return req.ConfirmPassword
	default:
		return ""
	}
}

// maxBytes limits the encoded length of a string, unlike max which counts runes.
func maxBytes(fl structValidator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}
