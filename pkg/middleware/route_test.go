package middleware

import "testing"

func TestRouteLabel(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", "/"},
		{"/products", "/products"},
		{"/products/507f1f77bcf86cd799439011", "/products/:id"},
		{"/services/000000000000000000000000", "/services/:id"},
		{"/services/not-an-id", "/services/not-an-id"},
		{"/products/507F1F77BCF86CD799439011/", "/products/:id/"},
	}
	for _, tt := range tests {
		if got := RouteLabel(tt.path); got != tt.want {
			t.Errorf("RouteLabel(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
