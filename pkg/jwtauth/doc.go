// Package jwtauth authenticates API callers with HS256 bearer tokens.
//
// Tokens carry the user id in "sub" and an optional "role". Middleware
// verifies the token and stores the parsed Claims in the request context:
//
//	auth, err := jwtauth.New(cfg)
//	r.Use(jwtauth.Middleware(auth))
//
//	claims, ok := jwtauth.ClaimsFromContext(r.Context())
package jwtauth
