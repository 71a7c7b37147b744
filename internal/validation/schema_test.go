package validation

import (
	"strings"
	"testing"

	"github.com/haguru/signup/internal/models/dto"
	"github.com/stretchr/testify/assert"
)

func validRequest() dto.UserSignupRequestDTO {
	return dto.UserSignupRequestDTO{
		Email:           "naruto@konoha.jp",
		Name:            "Naruto Uzumaki",
		Password:        "rasengan1",
		ConfirmPassword: "rasengan1",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *dto.UserSignupRequestDTO)
		want   []string
	}{
		{
			name:   "valid request",
			modify: func(r *dto.UserSignupRequestDTO) {},
			want:   []string{},
		},
		{
			name:   "missing email",
			modify: func(r *dto.UserSignupRequestDTO) { r.Email = "" },
			want:   []string{MsgEmailRequired},
		},
		{
			name:   "malformed email",
			modify: func(r *dto.UserSignupRequestDTO) { r.Email = "not-an-email" },
			want:   []string{MsgEmailInvalid},
		},
		{
			name:   "missing name",
			modify: func(r *dto.UserSignupRequestDTO) { r.Name = "" },
			want:   []string{MsgNameRequired},
		},
		{
			name: "missing password",
			modify: func(r *dto.UserSignupRequestDTO) {
				r.Password = ""
				r.ConfirmPassword = ""
			},
			want: []string{MsgPasswordRequired, MsgPasswordTooShort},
		},
		{
			name: "short password",
			modify: func(r *dto.UserSignupRequestDTO) {
				r.Password = "abc1234"
				r.ConfirmPassword = "abc1234"
			},
			want: []string{MsgPasswordTooShort},
		},
		{
			name: "password over bcrypt limit",
			modify: func(r *dto.UserSignupRequestDTO) {
				r.Password = strings.Repeat("a", MaxPasswordBytes+1)
				r.ConfirmPassword = r.Password
			},
			want: []string{MsgPasswordTooLong},
		},
		{
			name:   "passwords differ",
			modify: func(r *dto.UserSignupRequestDTO) { r.ConfirmPassword = "chidori12" },
			want:   []string{MsgPasswordsMustMatch},
		},
		{
			name:   "empty confirmation with a password",
			modify: func(r *dto.UserSignupRequestDTO) { r.ConfirmPassword = "" },
			want:   []string{MsgPasswordsMustMatch},
		},
		{
			name: "empty name and short password",
			modify: func(r *dto.UserSignupRequestDTO) {
				r.Name = ""
				r.Password = "abcd"
				r.ConfirmPassword = "abcd"
			},
			want: []string{MsgNameRequired, MsgPasswordTooShort},
		},
		{
			name: "every field invalid",
			modify: func(r *dto.UserSignupRequestDTO) {
				r.Email = "sasuke@"
				r.Name = ""
				r.Password = "abcd"
				r.ConfirmPassword = "abce"
			},
			want: []string{MsgEmailInvalid, MsgNameRequired, MsgPasswordTooShort, MsgPasswordsMustMatch},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.modify(&req)
			got := Validate(req)
			assert.Equal(t, tt.want, got.Messages())
			assert.Equal(t, len(tt.want) == 0, got.Valid())
		})
	}
}

func TestValidate_MalformedEmails(t *testing.T) {
	for _, email := range []string{"plainaddress", "user@", "@konoha.jp", "user@@konoha.jp", "user name@konoha.jp"} {
		t.Run(email, func(t *testing.T) {
			req := validRequest()
			req.Email = email
			assert.Equal(t, []string{MsgEmailInvalid}, Validate(req).Messages())
		})
	}
}

func TestValidate_PasswordLengthCountsCharacters(t *testing.T) {
	req := validRequest()
	// eight characters, fifteen bytes
	req.Password = "ааааааа1"
	req.ConfirmPassword = req.Password
	assert.True(t, Validate(req).Valid())

	req.Password = "аааааа1"
	req.ConfirmPassword = req.Password
	assert.Equal(t, []string{MsgPasswordTooShort}, Validate(req).Messages())
}

func TestValidate_EmptyPasswordIsAlsoTooShort(t *testing.T) {
	got := Validate(dto.UserSignupRequestDTO{Email: "a@b.co", Name: "N"})

	assert.Equal(t, []string{MsgPasswordRequired, MsgPasswordTooShort}, got.Messages())
	assert.Equal(t, map[string]string{FieldPassword: MsgPasswordRequired}, got.FieldErrors())
}

func TestValidate_EmptyFormReportsEveryMessage(t *testing.T) {
	got := Validate(dto.UserSignupRequestDTO{})
	assert.Equal(t, []string{MsgEmailRequired, MsgNameRequired, MsgPasswordRequired, MsgPasswordTooShort}, got.Messages())
}

func TestOutcome_FieldErrors(t *testing.T) {
	req := validRequest()
	req.Email = ""
	req.ConfirmPassword = "different1"

	got := Validate(req).FieldErrors()
	want := map[string]string{
		FieldEmail:           MsgEmailRequired,
		FieldConfirmPassword: MsgPasswordsMustMatch,
	}
	assert.Equal(t, want, got)
}

func TestSchema_RulesAreEvaluatedInDeclarationOrder(t *testing.T) {
	schema := NewSchema([]Rule{
		{Field: FieldName, Tag: "required", Message: "name first"},
		{Field: FieldEmail, Tag: "required", Message: "email second"},
	})
	got := schema.Validate(dto.UserSignupRequestDTO{})
	assert.Equal(t, []string{"name first", "email second"}, got.Messages())
}
