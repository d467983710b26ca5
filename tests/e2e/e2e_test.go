//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

type registerResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
	ExpiresIn   int64  `json:"expires_in"`
}

type taskResponse struct {
	ID          int64  `json:"id"`
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type toggleResponse struct {
	Completed bool `json:"completed"`
}

type account struct {
	UserID string
	Token  string
}

func TestE2ESmoke(t *testing.T) {
	baseURL := envOrDefault("TASKPAD_BASE_URL", "http://localhost:8080")

	acct := registerAndLogin(t, baseURL, "smoke")
	tasksURL := fmt.Sprintf("%s/api/%s/tasks", baseURL, acct.UserID)

	// Create a task
	var created taskResponse
	status := doJSON(t, http.MethodPost, tasksURL, acct.Token, map[string]any{
		"title":       "Buy milk",
		"description": "2 liters",
	}, &created)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 from task create, got %d", status)
	}
	if created.ID == 0 || created.Title != "Buy milk" || created.Completed {
		t.Fatalf("unexpected create response: %+v", created)
	}

	// The list contains the new task
	var list []taskResponse
	status = doJSON(t, http.MethodGet, tasksURL, acct.Token, nil, &list)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from list, got %d", status)
	}
	if !containsTask(list, created.ID) {
		t.Fatalf("created task %d missing from list", created.ID)
	}

	// Toggle completion
	var toggled toggleResponse
	status = doJSON(t, http.MethodPatch, fmt.Sprintf("%s/%d/complete", tasksURL, created.ID), acct.Token, nil, &toggled)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from toggle, got %d", status)
	}
	if !toggled.Completed {
		t.Fatalf("first toggle should report completed=true")
	}

	// Partial update keeps the completed flag
	var updated taskResponse
	status = doJSON(t, http.MethodPut, fmt.Sprintf("%s/%d", tasksURL, created.ID), acct.Token, map[string]any{
		"title": "Buy oat milk",
	}, &updated)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from update, got %d", status)
	}
	if updated.Title != "Buy oat milk" || !updated.Completed {
		t.Fatalf("unexpected update response: %+v", updated)
	}
	if updated.Description != "2 liters" {
		t.Fatalf("update should not touch description, got %q", updated.Description)
	}

	// Delete, then the task is gone
	status = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/%d", tasksURL, created.ID), acct.Token, nil, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from delete, got %d", status)
	}

	status = doJSON(t, http.MethodGet, fmt.Sprintf("%s/%d", tasksURL, created.ID), acct.Token, nil, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", status)
	}
}

func TestE2EOwnershipIsolation(t *testing.T) {
	baseURL := envOrDefault("TASKPAD_BASE_URL", "http://localhost:8080")

	alice := registerAndLogin(t, baseURL, "alice")
	bob := registerAndLogin(t, baseURL, "bob")

	aliceTasks := fmt.Sprintf("%s/api/%s/tasks", baseURL, alice.UserID)

	var created taskResponse
	status := doJSON(t, http.MethodPost, aliceTasks, alice.Token, map[string]any{"title": "Private"}, &created)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 from task create, got %d", status)
	}

	// Bob's token on Alice's collection is rejected outright.
	status = doJSON(t, http.MethodGet, aliceTasks, bob.Token, nil, nil)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for cross-user list, got %d", status)
	}

	status = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/%d", aliceTasks, created.ID), bob.Token, nil, nil)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for cross-user delete, got %d", status)
	}

	// No token at all is unauthorized.
	status = doJSON(t, http.MethodGet, aliceTasks, "", nil, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}

	// Bob's own list does not contain Alice's task.
	var bobList []taskResponse
	status = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/%s/tasks", baseURL, bob.UserID), bob.Token, nil, &bobList)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from bob's list, got %d", status)
	}
	if containsTask(bobList, created.ID) {
		t.Fatalf("bob's list leaked alice's task")
	}
}

func TestE2ELogoutRevokesToken(t *testing.T) {
	baseURL := envOrDefault("TASKPAD_BASE_URL", "http://localhost:8080")

	acct := registerAndLogin(t, baseURL, "logout")

	status := doJSON(t, http.MethodGet, baseURL+"/api/auth/me", acct.Token, nil, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from /me before logout, got %d", status)
	}

	status = doJSON(t, http.MethodPost, baseURL+"/api/auth/logout", acct.Token, nil, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from logout, got %d", status)
	}

	status = doJSON(t, http.MethodGet, baseURL+"/api/auth/me", acct.Token, nil, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", status)
	}
}

func registerAndLogin(t *testing.T, baseURL, prefix string) account {
	t.Helper()

	email := fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
	password := "e2e-password-123"

	var registered registerResponse
	status := doJSON(t, http.MethodPost, baseURL+"/api/auth/register", "", map[string]any{
		"email":    email,
		"password": password,
		"name":     prefix,
	}, &registered)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 from register, got %d", status)
	}
	if registered.ID == "" {
		t.Fatalf("register response missing id")
	}

	var login loginResponse
	status = doJSON(t, http.MethodPost, baseURL+"/api/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	}, &login)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from login, got %d", status)
	}
	if login.AccessToken == "" || login.TokenType != "bearer" {
		t.Fatalf("unexpected login response: %+v", login)
	}
	if login.UserID != registered.ID {
		t.Fatalf("login user_id %q does not match registered id %q", login.UserID, registered.ID)
	}

	return account{UserID: login.UserID, Token: login.AccessToken}
}

func containsTask(list []taskResponse, id int64) bool {
	for _, task := range list {
		if task.ID == id {
			return true
		}
	}
	return false
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func doJSON(t *testing.T, method, url, token string, body any, out any) int {
	t.Helper()

	var buf io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		buf = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		decoder := json.NewDecoder(resp.Body)
		if err := decoder.Decode(out); err != nil && resp.ContentLength != 0 {
			t.Fatalf("decode response: %v", err)
		}
	}

	return resp.StatusCode
}
