package main

import (
	"context"
	"net/http"
)

type contextKey string

const profileIDContextKey = contextKey("profileID")

func setProfileID(r *http.Request, profileID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), profileIDContextKey, profileID))
}

// currentProfileID returns the caller's profile id set by withProfile, or ""
// when the middleware did not run.
func currentProfileID(ctx context.Context) string {
	if profileID, ok := ctx.Value(profileIDContextKey).(string); ok {
		return profileID
	}
	return ""
}
