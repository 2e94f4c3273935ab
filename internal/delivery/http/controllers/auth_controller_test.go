package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cheerup/internal/delivery/http/helpers"
	"cheerup/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	signUpErr    error
	signUpResult *domain.User
	loginErr     error
	loginToken   string

	lastEmail    string
	lastPassword string
	lastName     string
}

func (f *fakeAuthService) SignUp(ctx context.Context, email, password, name string) (*domain.User, error) {
	f.lastEmail = email
	f.lastPassword = password
	f.lastName = name
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return f.signUpResult, nil
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, error) {
	f.lastEmail = email
	f.lastPassword = password
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.loginToken, nil
}

func TestAuthController_SignUp(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		fakeErr     error
		wantStatus  int
		wantErrCode string
	}{
		{
			name:       "success",
			body:       `{"email":"a@example.com","password":"secretpass","name":"Alice"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:        "missing fields",
			body:        `{"email":"a@example.com"}`,
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeBadRequest,
		},
		{
			name:        "malformed json",
			body:        `{"email":`,
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeBadRequest,
		},
		{
			name:        "unknown field",
			body:        `{"email":"a@example.com","password":"secretpass","name":"Alice","role":"admin"}`,
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeBadRequest,
		},
		{
			name:        "duplicate email",
			body:        `{"email":"a@example.com","password":"secretpass","name":"Alice"}`,
			fakeErr:     domain.ErrDuplicateEmail,
			wantStatus:  http.StatusConflict,
			wantErrCode: helpers.ErrCodeConflict,
		},
		{
			name:        "invalid input from service",
			body:        `{"email":"bad","password":"secretpass","name":"Alice"}`,
			fakeErr:     domain.ErrInvalidInput,
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthService{
				signUpErr:    tt.fakeErr,
				signUpResult: &domain.User{ID: "user-1", Email: "a@example.com", Name: "Alice"},
			}
			ctrl := NewAuthController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "http://test/auth/signup", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			ctrl.SignUp(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantErrCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantErrCode, envelope.Error.Code)
				return
			}
			require.Nil(t, envelope.Error)
			data, ok := envelope.Data.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "user-1", data["id"])
			// The password hash is never serialized.
			assert.NotContains(t, data, "password_hash")
			assert.NotContains(t, data, "salt")
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		fakeErr     error
		wantStatus  int
		wantErrCode string
	}{
		{
			name:       "success",
			body:       `{"email":"a@example.com","password":"secretpass"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:        "missing password",
			body:        `{"email":"a@example.com"}`,
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeBadRequest,
		},
		{
			name:        "bad credentials",
			body:        `{"email":"a@example.com","password":"wrongpass"}`,
			fakeErr:     domain.ErrInvalidCredentials,
			wantStatus:  http.StatusUnauthorized,
			wantErrCode: helpers.ErrCodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthService{loginErr: tt.fakeErr, loginToken: "jwt-token"}
			ctrl := NewAuthController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "http://test/auth/login", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			ctrl.Login(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantErrCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantErrCode, envelope.Error.Code)
				return
			}
			require.Nil(t, envelope.Error)
			data, ok := envelope.Data.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "jwt-token", data["token"])
		})
	}
}
