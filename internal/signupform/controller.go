// Package signupform is a headless sign-up form.
//
// The Controller keeps what the user typed, shows inline messages for fields
// the user has left, and submits through a Submitter. Messages come from the
// same schema the registration endpoint applies, and whatever the endpoint
// rejects with is kept as an alert block next to the inline messages.
package signupform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/haguru/signup/internal/interfaces"
	"github.com/haguru/signup/internal/models/dto"
	"github.com/haguru/signup/internal/validation"
	"github.com/haguru/signup/pkg/zerolog"
)

var (
	// ErrSubmitInProgress is returned by Submit while an earlier submission is in flight.
	ErrSubmitInProgress = errors.New("sign-up submission already in progress")
	// ErrUnknownField is returned for a field name outside the sign-up form.
	ErrUnknownField = errors.New("unknown sign-up field")
	// ErrUnexpectedStatus wraps any endpoint answer other than 201 or 400.
	ErrUnexpectedStatus = errors.New("unexpected sign-up response status")
)

// Fields lists the form fields in display order.
var Fields = []string{
	validation.FieldEmail,
	validation.FieldName,
	validation.FieldPassword,
	validation.FieldConfirmPassword,
}

// Result is how a submission ended.
type Result int

const (
	// ResultInvalid means local validation failed and nothing was sent.
	ResultInvalid Result = iota
	// ResultCreated means the account was created.
	ResultCreated
	// ResultRejected means the endpoint answered 400; see State().Alert.
	ResultRejected
	// ResultFailed means the request did not complete or got an unexpected answer.
	ResultFailed
)

func (r Result) String() string {
	switch r {
	case ResultInvalid:
		return "invalid"
	case ResultCreated:
		return "created"
	case ResultRejected:
		return "rejected"
	case ResultFailed:
		return "failed"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// State is a snapshot of the form.
type State struct {
	Values dto.UserSignupRequestDTO
	// FieldErrors holds the inline message of each touched, invalid field.
	FieldErrors map[string]string
	// Messages holds every message of the touched fields in field order,
	// the same list the endpoint would reject the values with.
	Messages []string
	// Alert holds the messages of the last rejected submission.
	Alert []string

	Submitting bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithOnSuccess sets a hook run after the account is created.
func WithOnSuccess(fn func()) Option {
	return func(c *Controller) { c.onSuccess = fn }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// Controller is safe for concurrent use.
type Controller struct {
	submitter Submitter
	onSuccess func()
	logger    interfaces.Logger

	mu          sync.Mutex
	values      dto.UserSignupRequestDTO
	touched     map[string]bool
	fieldErrors map[string]string
	messages    []string
	alert       []string
	submitting  bool
}

func NewController(submitter Submitter, opts ...Option) *Controller {
	c := &Controller{
		submitter:   submitter,
		onSuccess:   func() {},
		logger:      zerolog.NewNopLogger(),
		touched:     make(map[string]bool, len(Fields)),
		fieldErrors: map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Change stores a new value. Fields that were already left are re-validated.
func (c *Controller) Change(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := setValue(&c.values, field, value); err != nil {
		return err
	}
	c.revalidate()
	return nil
}

// Blur marks field as left and shows its inline message.
func (c *Controller) Blur(field string) error {
	if !knownField(field) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.touched[field] = true
	c.revalidate()
	return nil
}

// Submit validates every field and, when they all pass, sends the request.
// Only one submission may be in flight.
func (c *Controller) Submit(ctx context.Context) (Result, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return ResultFailed, ErrSubmitInProgress
	}
	for _, field := range Fields {
		c.touched[field] = true
	}
	outcome := c.revalidate()
	if !outcome.Valid() {
		c.mu.Unlock()
		return ResultInvalid, nil
	}
	req := normalized(c.values)
	c.submitting = true
	c.mu.Unlock()

	resp, err := c.send(ctx, req)

	c.mu.Lock()
	if err != nil {
		c.mu.Unlock()
		c.logger.Warn("Sign-up submission failed", "error", err)
		return ResultFailed, err
	}

	switch resp.StatusCode {
	case http.StatusCreated:
		c.alert = nil
		c.mu.Unlock()
		c.onSuccess()
		return ResultCreated, nil
	case http.StatusBadRequest:
		c.alert = append([]string(nil), resp.ErrorMessages...)
		c.mu.Unlock()
		return ResultRejected, nil
	default:
		c.mu.Unlock()
		c.logger.Warn("Sign-up submission got an unexpected status", "status", resp.StatusCode)
		return ResultFailed, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
}

// send hands req to the submitter and clears the in-flight flag however it returns.
func (c *Controller) send(ctx context.Context, req dto.UserSignupRequestDTO) (Response, error) {
	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()
	return c.submitter.Submit(ctx, req)
}

// State returns a copy of the current form state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	fieldErrors := make(map[string]string, len(c.fieldErrors))
	for field, message := range c.fieldErrors {
		fieldErrors[field] = message
	}
	return State{
		Values:      c.values,
		FieldErrors: fieldErrors,
		Messages:    append([]string(nil), c.messages...),
		Alert:       append([]string(nil), c.alert...),
		Submitting:  c.submitting,
	}
}

// revalidate refreshes the inline messages of touched fields. c.mu must be held.
func (c *Controller) revalidate() validation.Outcome {
	outcome := validation.Validate(normalized(c.values))
	c.fieldErrors = map[string]string{}
	for field, message := range outcome.FieldErrors() {
		if c.touched[field] {
			c.fieldErrors[field] = message
		}
	}
	c.messages = nil
	for _, v := range outcome {
		if c.touched[v.Field] {
			c.messages = append(c.messages, v.Message)
		}
	}
	return outcome
}

func normalized(values dto.UserSignupRequestDTO) dto.UserSignupRequestDTO {
	values.Normalize()
	return values
}

func knownField(field string) bool {
	for _, f := range Fields {
		if f == field {
			return true
		}
	}
	return false
}

func setValue(values *dto.UserSignupRequestDTO, field, value string) error {
	switch field {
	case validation.FieldEmail:
		values.Email = value
	case validation.FieldName:
		values.Name = value
	case validation.FieldPassword:
		values.Password = value
	case validation.FieldConfirmPassword:
		values.ConfirmPassword = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}
