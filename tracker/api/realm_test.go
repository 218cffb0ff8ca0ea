package api

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/andrebq/taskdeck/tracker/auth"
	"github.com/julienschmidt/httprouter"
	"github.com/steinfletcher/apitest"
	"github.com/stretchr/testify/require"
)

func TestProtect(t *testing.T) {
	tokens, err := auth.NewTokens([]byte("0123456789abcdef0123456789abcdef"), auth.DefaultTTL)
	require.NoError(t, err)
	realm := NewRealm(tokens)

	var count uint32
	router := httprouter.New()
	router.GET("/", realm.Protect(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		atomic.AddUint32(&count, 1)
		caller := identityFrom(r.Context())
		fmt.Fprintf(w, "%v:%v", caller.UserID, caller.Username)
	}))

	apitest.Handler(router).Get("/").Expect(t).Status(http.StatusUnauthorized).End()
	apitest.Handler(router).Get("/").Header("Authorization", "Bearer garbage").Expect(t).Status(http.StatusUnauthorized).End()
	apitest.Handler(router).Get("/").Header("Authorization", "Basic abc").Expect(t).Status(http.StatusUnauthorized).End()

	token, err := tokens.Issue(42, "alice")
	require.NoError(t, err)
	apitest.Handler(router).
		Get("/").
		Header("Authorization", fmt.Sprintf("Bearer %v", token)).
		Expect(t).
		Status(http.StatusOK).
		Body("42:alice").
		End()
	// second call rides the identity cache
	apitest.Handler(router).
		Get("/").
		Header("Authorization", fmt.Sprintf("Bearer %v", token)).
		Expect(t).
		Status(http.StatusOK).
		Body("42:alice").
		End()
	if count != 2 {
		t.Fatal("protected endpoint should have been called exactly twice")
	}
}
