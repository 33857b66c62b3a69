package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/family-tree-api/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:            "test-secret-for-integration",
		AccessTokenTTLMin:    60,
		RefreshTokenTTLHours: 24,
	}
}

// TestAPI_AnonymousTreeLifecycle drives the full router with a sqlmock-backed DB:
// register a user, create an anonymous tree, read it back with the token, then
// verify the tree cannot be deleted because it has no owner.
func TestAPI_AnonymousTreeLifecycle(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	userCols := []string{"id", "username", "email", "password_hash", "created_at"}
	treeCols := []string{"id", "name", "user_id", "data", "background_image", "created_at", "updated_at"}

	// Register: INSERT INTO users
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "alice@example.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "alice", "alice@example.com", "hash", now))

	// POST /trees/anonymous: owner is stored as null despite the token
	mock.ExpectQuery(`INSERT INTO trees`).
		WithArgs("Smiths", nil, `{"a":1}`, "mountains").
		WillReturnRows(sqlmock.NewRows(treeCols).
			AddRow(1, "Smiths", nil, `{"a":1}`, "mountains", now, now))

	// GET /trees/1
	mock.ExpectQuery(`SELECT id, name, user_id, data, background_image`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(treeCols).
			AddRow(1, "Smiths", nil, `{"a":1}`, "mountains", now, now))

	// DELETE /trees/1: fetch only; the delete itself is refused
	mock.ExpectQuery(`SELECT id, name, user_id, data, background_image`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(treeCols).
			AddRow(1, "Smiths", nil, `{"a":1}`, "mountains", now, now))

	r := newRouter(db, testConfig())
	srv := httptest.NewServer(r)
	defer srv.Close()

	// 1) Register
	regBody, _ := json.Marshal(map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "secret1",
	})
	regResp, err := http.Post(srv.URL+"/auth/register", "application/json", bytes.NewReader(regBody))
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	defer regResp.Body.Close()
	if regResp.StatusCode != http.StatusCreated {
		t.Fatalf("register status: got %d, want 201", regResp.StatusCode)
	}
	var regOut struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(regResp.Body).Decode(&regOut); err != nil || regOut.AccessToken == "" {
		t.Fatalf("register response: %v", err)
	}
	token := regOut.AccessToken

	// 2) Create an anonymous tree while authenticated
	createBody, _ := json.Marshal(map[string]interface{}{
		"name": "Smiths", "data": map[string]int{"a": 1},
	})
	req, _ := http.NewRequest("POST", srv.URL+"/trees/anonymous", bytes.NewReader(createBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	createResp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	defer createResp.Body.Close()
	if createResp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: got %d, want 201", createResp.StatusCode)
	}
	var createOut struct {
		Tree struct {
			ID     int  `json:"id"`
			UserID *int `json:"user_id"`
		} `json:"tree"`
	}
	if err := json.NewDecoder(createResp.Body).Decode(&createOut); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if createOut.Tree.UserID != nil {
		t.Errorf("anonymous endpoint stored an owner: %v", createOut.Tree.UserID)
	}

	// 3) Read it back; payload must round-trip
	getResp, err := http.Get(srv.URL + "/trees/1")
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("get status: got %d, want 200", getResp.StatusCode)
	}
	var getOut struct {
		Tree struct {
			Data map[string]interface{} `json:"data"`
		} `json:"tree"`
	}
	if err := json.NewDecoder(getResp.Body).Decode(&getOut); err != nil {
		t.Fatalf("decode get: %v", err)
	}
	if getOut.Tree.Data["a"] != float64(1) {
		t.Errorf("payload round trip: got %v", getOut.Tree.Data)
	}

	// 4) Deleting an anonymous tree is forbidden even with a valid token
	delReq, _ := http.NewRequest("DELETE", srv.URL+"/trees/1", nil)
	delReq.Header.Set("Authorization", "Bearer "+token)
	delResp, err := srv.Client().Do(delReq)
	if err != nil {
		t.Fatalf("delete request: %v", err)
	}
	defer delResp.Body.Close()
	if delResp.StatusCode != http.StatusForbidden {
		t.Errorf("delete status: got %d, want 403", delResp.StatusCode)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// TestAPI_ListRequiresToken checks that GET /trees without a token is rejected.
func TestAPI_ListRequiresToken(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	r := newRouter(db, testConfig())
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/trees")
	if err != nil {
		t.Fatalf("list request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("GET /trees status: got %d, want 401", resp.StatusCode)
	}
}

// TestAPI_Health is a quick smoke test for the health endpoint.
func TestAPI_Health(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	r := newRouter(db, testConfig())
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /health status: got %d, want 200", resp.StatusCode)
	}
}

// TestAPI_Ready checks that /ready pings the DB and returns 200 when DB is reachable.
func TestAPI_Ready(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	r := newRouter(db, testConfig())
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ready")
	if err != nil {
		t.Fatalf("ready request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /ready status: got %d, want 200", resp.StatusCode)
	}
}
