package app_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dineview/backoffice/internal/backoffice/app"
	"github.com/dineview/backoffice/internal/backoffice/ports"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
		{
			name: "no selection",
			err:  ports.ErrNoOrderSelected,
			want: "No order is selected.",
		},
		{
			name: "category in use carries the count",
			err:  fmt.Errorf("%w: 3 products", ports.ErrCategoryInUse),
			want: "This category is still used by products. Move or delete them first.",
		},
		{
			name: "known auth reason",
			err:  &ports.AuthError{Reason: "Invalid login credentials"},
			want: "Incorrect email or password.",
		},
		{
			name: "unconfirmed email",
			err:  &ports.AuthError{Reason: "Email not confirmed"},
			want: "Confirm your email address first.",
		},
		{
			name: "rate limited",
			err:  &ports.AuthError{Reason: "Too many requests"},
			want: "Too many attempts. Try again later.",
		},
		{
			name: "network failure during auth",
			err:  &ports.AuthError{Reason: "Network error"},
			want: "Check your internet connection.",
		},
		{
			name: "unknown auth reason falls back",
			err:  &ports.AuthError{Reason: "weird upstream failure"},
			want: "Could not sign you in. Try again later.",
		},
		{
			name: "permission failure on a write",
			err:  &ports.GatewayError{Op: "create product", Err: errors.New("permission denied for table products")},
			want: "Permission denied by the backend. Check the admin policy configuration.",
		},
		{
			name: "row security rejection",
			err:  &ports.GatewayError{Op: "create product", Err: errors.New("new row violates RLS policy")},
			want: "The database security policy rejected this write. Check the row-level security rules.",
		},
		{
			name: "duplicate record",
			err:  &ports.GatewayError{Op: "create category", Err: errors.New(`duplicate key value violates unique constraint "categories_pkey"`)},
			want: "A record with that name already exists.",
		},
		{
			name: "unclassified gateway failure",
			err:  &ports.GatewayError{Op: "load orders", Err: errors.New("connection reset by peer")},
			want: "Operation failed. Try again.",
		},
		{
			name: "arbitrary error",
			err:  errors.New("boom"),
			want: "Operation failed. Try again.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := app.UserMessage(tc.err); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
