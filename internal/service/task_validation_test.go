package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/taskpad/taskpad/internal/model"
)

// Validation runs before any repository access, so a service with a nil
// repository exercises exactly the reject-before-persistence paths.

func TestCreateTaskValidationErrors(t *testing.T) {
	svc := &TaskService{}

	tests := []struct {
		name    string
		input   CreateTaskInput
		wantErr error
	}{
		{
			name:    "empty_title",
			input:   CreateTaskInput{Title: ""},
			wantErr: model.ErrTitleRequired,
		},
		{
			name:    "title_over_limit",
			input:   CreateTaskInput{Title: strings.Repeat("a", model.MaxTitleLength+1)},
			wantErr: model.ErrTitleTooLong,
		},
		{
			name: "description_over_limit",
			input: CreateTaskInput{
				Title:       "valid title",
				Description: strings.Repeat("d", model.MaxDescriptionLength+1),
			},
			wantErr: model.ErrDescriptionTooLong,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := svc.CreateTask(context.Background(), "owner", test.input)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("expected %v, got %v", test.wantErr, err)
			}
		})
	}
}

func TestUpdateTaskValidationErrors(t *testing.T) {
	svc := &TaskService{}

	empty := ""
	long := strings.Repeat("a", model.MaxTitleLength+1)

	tests := []struct {
		name    string
		patch   model.TaskPatch
		wantErr error
	}{
		{"empty_title", model.TaskPatch{Title: &empty}, model.ErrTitleRequired},
		{"title_over_limit", model.TaskPatch{Title: &long}, model.ErrTitleTooLong},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := svc.UpdateTask(context.Background(), "owner", 1, test.patch)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("expected %v, got %v", test.wantErr, err)
			}
		})
	}
}

func TestRegisterInputValidation(t *testing.T) {
	svc := &AccountService{}

	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{"empty_email", RegisterInput{Password: "pw"}, ErrEmailRequired},
		{"no_at_sign", RegisterInput{Email: "not-an-address", Password: "pw"}, ErrEmailInvalid},
		{"at_sign_first", RegisterInput{Email: "@x.com", Password: "pw"}, ErrEmailInvalid},
		{"at_sign_last", RegisterInput{Email: "a@", Password: "pw"}, ErrEmailInvalid},
		{"empty_password", RegisterInput{Email: "a@x.com"}, ErrPasswordRequired},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), test.input)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("expected %v, got %v", test.wantErr, err)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := normalizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Fatalf("unexpected normalized email: %q", got)
	}
}
