package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/analyses", "/api/v1/analyses"},
		{"/api/v1/cache/org-1", "/api/v1/cache/:org"},
		{"/api/v1/cache/org-1/board-1/2024-03", "/api/v1/cache/:org/:board/:period"},
		{"/api/v1/accounts/acc-9/trend", "/api/v1/accounts/:id/trend"},
		{"/api/v1/accounts/acc-9", "/api/v1/accounts/:id"},
		{"/health", "/health"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Fatalf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
