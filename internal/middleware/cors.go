package middleware

import (
	"github.com/go-chi/cors"
)

// CORS returns cors.Options for the given origins. Callers install the
// handler only when origins are configured; an empty list here would mean
// allow-all to go-chi/cors. If "*" is present, AllowCredentials is set to
// false (browsers reject Access-Control-Allow-Credentials: true with a
// wildcard origin).
func CORS(allowedOrigins []string) cors.Options {
	allowCreds := true
	for _, o := range allowedOrigins {
		if o == "*" {
			allowCreds = false
			break
		}
	}

	return cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: allowCreds,
		MaxAge:           300,
	}
}
