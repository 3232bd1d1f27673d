package factory

import (
	"strings"
	"testing"

	ginadapter "github.com/nimburion/catalog-api/pkg/server/router/gin"
	gorillaadapter "github.com/nimburion/catalog-api/pkg/server/router/gorilla"
)

func TestNewRouter(t *testing.T) {
	tests := []struct {
		in      string
		gorilla bool
	}{
		{in: ""},
		{in: Gin},
		{in: " GIN "},
		{in: Gorilla, gorilla: true},
		{in: "Gorilla", gorilla: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, err := NewRouter(tt.in)
			if err != nil {
				t.Fatalf("NewRouter(%q): %v", tt.in, err)
			}
			_, isGorilla := r.(*gorillaadapter.GorillaRouter)
			_, isGin := r.(*ginadapter.GinRouter)
			if isGorilla != tt.gorilla || isGin == tt.gorilla {
				t.Fatalf("NewRouter(%q) returned %T", tt.in, r)
			}
		})
	}
}

func TestNewRouter_Unsupported(t *testing.T) {
	_, err := NewRouter("chi")
	if err == nil {
		t.Fatal("expected error for chi")
	}
	if !strings.Contains(err.Error(), `"chi"`) || !strings.Contains(err.Error(), "gin, gorilla") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
