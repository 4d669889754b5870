// middleware/security_headers_test.go
package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCSPDefaults(t *testing.T) {
	csp := buildCSP(SecurityConfig{AllowedDomains: []string{"*"}})

	assert.Contains(t, csp, "script-src 'self'")
	assert.NotContains(t, csp, "'unsafe-inline' 'unsafe-eval'")
	assert.Contains(t, csp, "connect-src 'self' *")
}

func TestBuildCSPAllowEval(t *testing.T) {
	csp := buildCSP(SecurityConfig{AllowInlineJS: true, AllowEval: true})

	assert.Contains(t, csp, "script-src 'self' 'unsafe-inline' 'unsafe-eval'")
}
