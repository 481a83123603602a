package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORSOptions configures the cross-origin policy for the public widget endpoints
type CORSOptions struct {
	// AllowedOrigins restricts which origins are reflected back.
	// A single "*" entry allows any origin.
	AllowedOrigins []string
}

// DefaultCORSOptions returns the permissive default policy
func DefaultCORSOptions() CORSOptions {
	return CORSOptions{AllowedOrigins: []string{"*"}}
}

// CORS returns a middleware that applies the embed cross-origin policy.
// Third-party pages load the widget script and POST to the chat endpoint
// from the browser, so every response carries the full header set and
// preflight requests short-circuit with 204.
func CORS(opts CORSOptions) gin.HandlerFunc {
	allowAny := len(opts.AllowedOrigins) == 1 && opts.AllowedOrigins[0] == "*"
	allowed := make(map[string]bool, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		switch {
		case origin == "":
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case allowAny || allowed[origin]:
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		default:
			// Origin not on the allow-list. Headers stay unset so the
			// browser blocks the response; preflights still short-circuit
			// and other requests proceed.
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
			c.Next()
			return
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
