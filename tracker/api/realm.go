package api

import (
	"context"
	"net/http"
	"regexp"

	"github.com/andrebq/taskdeck/tracker/auth"
	"github.com/julienschmidt/httprouter"
)

type (
	// SecurityRealm guards resource routes. It resolves the caller from a
	// bearer token and hands the identity to the protected handler via the
	// request context. Any failure, missing header, bad signature, expired
	// token, produces the same 401.
	SecurityRealm struct {
		tokens *auth.Tokens
		cache  *auth.IdentityCache
	}

	ctxKey byte
)

const identityKey = ctxKey(1)

var bearerTokenRE = regexp.MustCompile(`^Bearer ([^\s]+)$`)

func NewRealm(tokens *auth.Tokens) *SecurityRealm {
	return &SecurityRealm{
		tokens: tokens,
		cache:  auth.NewIdentityCache(),
	}
}

func (s *SecurityRealm) Protect(sensitive httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
		id, ok := s.resolveIdentity(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		sensitive(w, r.WithContext(withIdentity(r.Context(), id)), params)
	}
}

func (s *SecurityRealm) resolveIdentity(r *http.Request) (auth.Identity, bool) {
	groups := bearerTokenRE.FindStringSubmatch(r.Header.Get("Authorization"))
	if len(groups) == 0 {
		return auth.Identity{}, false
	}
	tk := groups[1]
	if id, ok := s.cache.Get(tk); ok {
		return id, true
	}
	id, err := s.tokens.Verify(tk)
	if err != nil {
		return auth.Identity{}, false
	}
	s.cache.Put(tk, id)
	return id, true
}

func withIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// identityFrom panics when called outside a protected route, which is a
// programming error, not a request error.
func identityFrom(ctx context.Context) auth.Identity {
	return ctx.Value(identityKey).(auth.Identity)
}
