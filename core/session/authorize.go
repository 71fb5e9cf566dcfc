package session

import (
	"context"
	"slices"
)

// Authorizer is the pluggable role/permission predicate behind
// Session.Authorize and Session.IsAuthorized. It is only consulted for
// authenticated sessions; args are the opaque capability descriptors the
// handler passed in.
type Authorizer interface {
	IsAuthorized(ctx context.Context, s *Session, args ...any) bool
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(ctx context.Context, s *Session, args ...any) bool

func (f AuthorizerFunc) IsAuthorized(ctx context.Context, s *Session, args ...any) bool {
	return f(ctx, s, args...)
}

// RoleAuthorizer grants a capability when the session's role (or one of its
// roles) appears among the requested role names. With no arguments it only
// requires authentication, which the Session already enforced.
type RoleAuthorizer struct{}

func (RoleAuthorizer) IsAuthorized(_ context.Context, s *Session, args ...any) bool {
	if len(args) == 0 {
		return true
	}

	granted, err := s.kernel.publicData.RoleSet()
	if err != nil {
		return false
	}

	for _, arg := range args {
		switch requested := arg.(type) {
		case string:
			if slices.Contains(granted, requested) {
				return true
			}
		case []string:
			for _, role := range requested {
				if slices.Contains(granted, role) {
					return true
				}
			}
		}
	}
	return false
}
