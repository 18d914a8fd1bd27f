package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err:  &AppError{Code: ErrCodeNotFound, Message: "user not found"},
			want: "user not found",
		},
		{
			name: "error with cause",
			err:  &AppError{Code: ErrCodeInternal, Message: "failed to load", Cause: errors.New("boom")},
			want: "failed to load: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrapf(cause, ErrCodeInternal, "wrapped %s", "error")

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}
	if err.Message != "wrapped error" {
		t.Errorf("Message = %q, want %q", err.Message, "wrapped error")
	}
	if Wrapf(nil, ErrCodeInternal, "x") != nil {
		t.Errorf("Wrapf(nil) should be nil")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeForeignKey, http.StatusBadRequest},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeTimeout, http.StatusGatewayTimeout},
		{ErrCodeCanceled, 499},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := (&AppError{Code: tt.code}).HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	if e := NotFoundf("user %q not found", "cosmo"); e.Code != ErrCodeNotFound || e.Message != `user "cosmo" not found` {
		t.Errorf("NotFoundf = %+v", e)
	}
	if e := Conflictf("taken"); e.Code != ErrCodeConflict || e.Message != "taken" {
		t.Errorf("Conflictf = %+v", e)
	}
	if e := ValidationField("repo_url", "bad"); e.Field != "repo_url" || !IsValidation(e) {
		t.Errorf("ValidationField = %+v", e)
	}
	if e := Forbidden("nope"); e.Code != ErrCodeForbidden {
		t.Errorf("Forbidden = %+v", e)
	}
	if e := Internalf("x %d", 1); e.Message != "x 1" {
		t.Errorf("Internalf = %+v", e)
	}
}

func TestPredicatesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", NotFoundf("missing"))

	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should see through fmt.Errorf wrapping")
	}
	if IsConflict(wrapped) {
		t.Error("IsConflict should be false")
	}
	if GetCode(wrapped) != ErrCodeNotFound {
		t.Errorf("GetCode = %q", GetCode(wrapped))
	}
	if GetCode(errors.New("plain")) != "" {
		t.Error("GetCode of plain error should be empty")
	}
	if GetField(fmt.Errorf("x: %w", ValidationField("role", "bad"))) != "role" {
		t.Error("GetField should return role")
	}
}
