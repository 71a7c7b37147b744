package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/haguru/signup/internal/interfaces"
	"github.com/haguru/signup/internal/metrics"
	"github.com/haguru/signup/internal/models/dto"
	"github.com/haguru/signup/internal/userservice"
	"github.com/haguru/signup/internal/validation"
	"github.com/haguru/signup/pkg/helper"
)

type Route struct {
	Metrics     interfaces.Metrics
	UserService interfaces.UserService
	Logger      interfaces.Logger
}

// NewRoute creates a new Route instance. metrics may be nil.
func NewRoute(metrics interfaces.Metrics, userService interfaces.UserService, logger interfaces.Logger) *Route {
	return &Route{
		Metrics:     metrics,
		UserService: userService,
		Logger:      logger,
	}
}

// Signup handles sign-up submissions.
//
//	201 empty body          account created
//	400 {"errorMessages"}   malformed body, validation failures or email in use
//	500 {"errorMessages":[]} anything unexpected
func (r *Route) Signup(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	funcName := helper.GetFuncName()
	startTime := time.Now()
	if r.Metrics != nil {
		r.Metrics.IncCounter(metrics.SignupRequestsTotal)
		r.Metrics.IncGauge(metrics.SignupInFlightRequests)
		defer r.Metrics.DecGauge(metrics.SignupInFlightRequests)
	}

	signupRequest, err := decodeSignupRequest(w, req)
	if err != nil {
		r.Logger.Warn(ErrFailedToDecodeRequest, "func", funcName, "error", err)
		r.reject(w, startTime, metrics.ReasonMalformed, []string{validation.MsgInvalidRequestBody})
		return
	}

	signupRequest.Normalize()
	if outcome := validation.Validate(*signupRequest); !outcome.Valid() {
		r.Logger.Debug("Signup data validation failed", "func", funcName, "fields", len(outcome))
		r.reject(w, startTime, metrics.ReasonValidation, outcome.Messages())
		return
	}

	_, err = r.UserService.RegisterUser(req.Context(), signupRequest.Name, signupRequest.Email, signupRequest.Password)
	if err != nil {
		if errors.Is(err, userservice.ErrEmailInUse) {
			r.reject(w, startTime, metrics.ReasonDuplicate, []string{validation.MsgEmailInUse})
			return
		}
		r.Logger.Error(ErrFailedToRegisterUser, "func", funcName, "email", signupRequest.Email, "error", err)
		r.fail(w, startTime)
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(metrics.SignupSuccessTotal)
		r.Metrics.ObserveHistogramVec(metrics.SignupDurationSeconds, time.Since(startTime).Seconds(), metrics.OutcomeCreated)
	}
	w.WriteHeader(http.StatusCreated)
}

func decodeSignupRequest(w http.ResponseWriter, req *http.Request) (*dto.UserSignupRequestDTO, error) {
	mediaType, _, err := mime.ParseMediaType(req.Header.Get(ContentType))
	if err != nil || mediaType != ContentTypeJson {
		return nil, fmt.Errorf(ErrInvalidContentTypeFormat, req.Header.Get(ContentType))
	}

	signupRequest := &dto.UserSignupRequestDTO{}
	decoder := json.NewDecoder(http.MaxBytesReader(w, req.Body, MaxRequestBodyBytes))
	if err := decoder.Decode(signupRequest); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedToDecodeRequest, err)
	}
	return signupRequest, nil
}

// reject answers 400 with the messages the form shows in its alert block.
func (r *Route) reject(w http.ResponseWriter, startTime time.Time, reason string, messages []string) {
	if r.Metrics != nil {
		r.Metrics.IncCounterVec(metrics.SignupRejectedTotal, reason)
		r.Metrics.ObserveHistogramVec(metrics.SignupDurationSeconds, time.Since(startTime).Seconds(), metrics.OutcomeRejected)
	}
	r.errorResponse(w, http.StatusBadRequest, messages)
}

// fail answers 500 without leaking the cause.
func (r *Route) fail(w http.ResponseWriter, startTime time.Time) {
	if r.Metrics != nil {
		r.Metrics.IncCounter(metrics.SignupErrorsTotal)
		r.Metrics.ObserveHistogramVec(metrics.SignupDurationSeconds, time.Since(startTime).Seconds(), metrics.OutcomeError)
	}
	r.errorResponse(w, http.StatusInternalServerError, []string{})
}

func (r *Route) errorResponse(w http.ResponseWriter, status int, messages []string) {
	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(status)
	response := dto.UserSignupErrorResponseDTO{ErrorMessages: messages}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.Logger.Error(ErrFailedToEncodeResponse, "error", err)
	}
}
