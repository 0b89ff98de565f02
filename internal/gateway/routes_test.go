package gateway

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		want   RouteClass
	}{
		{"swagger is bypass", http.MethodGet, "/swagger/index.html", ClassBypass},
		{"api docs is bypass", http.MethodGet, "/v3/api-docs", ClassBypass},
		{"health is bypass", http.MethodGet, "/healthz", ClassBypass},
		{"metrics is bypass", http.MethodGet, "/metrics", ClassBypass},
		{"login is bypass", http.MethodPost, "/auth/login", ClassBypass},
		{"client create is optional", http.MethodPost, "/api/clients", ClassOptional},
		{"client list is required", http.MethodGet, "/api/clients", ClassRequired},
		{"client subpath is required", http.MethodPost, "/api/clients/123", ClassRequired},
		{"appointments are required", http.MethodGet, "/api/appointments", ClassRequired},
		{"unknown paths are required", http.MethodGet, "/anything", ClassRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.method, tt.path))
		})
	}
}
