package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crucial707/family-tree-api/internal/auth"
)

func testIssuer() *auth.Issuer {
	return auth.NewIssuer([]byte("test-secret"), time.Hour, 24*time.Hour)
}

func identityEcho() (http.Handler, *int, *bool) {
	var gotID int
	var gotOK bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return h, &gotID, &gotOK
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	next, _, ok := identityEcho()
	h := RequireAuth(testIssuer())(next)

	req := httptest.NewRequest("GET", "/trees", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
	if *ok {
		t.Error("handler should not run without a token")
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	next, _, _ := identityEcho()
	h := RequireAuth(testIssuer())(next)

	req := httptest.NewRequest("GET", "/trees", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}

func TestRequireAuth_RejectsRefreshToken(t *testing.T) {
	next, _, _ := identityEcho()
	issuer := testIssuer()
	h := RequireAuth(issuer)(next)

	refresh, _ := issuer.IssueRefresh(5)
	req := httptest.NewRequest("GET", "/trees", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	next, id, ok := identityEcho()
	issuer := testIssuer()
	h := RequireAuth(issuer)(next)

	access, _ := issuer.IssueAccess(5)
	req := httptest.NewRequest("GET", "/trees", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if !*ok || *id != 5 {
		t.Errorf("identity: got id=%d ok=%v, want id=5 ok=true", *id, *ok)
	}
}

func TestOptionalAuth_NoTokenPassesAsAnonymous(t *testing.T) {
	next, _, ok := identityEcho()
	h := OptionalAuth(testIssuer())(next)

	req := httptest.NewRequest("GET", "/trees/1", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if *ok {
		t.Error("anonymous request should carry no identity")
	}
}

func TestOptionalAuth_InvalidTokenPassesAsAnonymous(t *testing.T) {
	next, _, ok := identityEcho()
	h := OptionalAuth(testIssuer())(next)

	req := httptest.NewRequest("GET", "/trees/1", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if *ok {
		t.Error("invalid token should be treated as anonymous, not rejected")
	}
}

func TestOptionalAuth_ValidTokenCarriesIdentity(t *testing.T) {
	next, id, ok := identityEcho()
	issuer := testIssuer()
	h := OptionalAuth(issuer)(next)

	access, _ := issuer.IssueAccess(9)
	req := httptest.NewRequest("GET", "/trees/1", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if !*ok || *id != 9 {
		t.Errorf("identity: got id=%d ok=%v, want id=9 ok=true", *id, *ok)
	}
}
