package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/ndavydova/taskwise/internal/ai"
)

// completionMock answers every chat-completions call with the given content.
func completionMock(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func setupAIHTTP(t *testing.T, content string) *http.ServeMux {
	t.Helper()

	server := completionMock(t, content)
	t.Cleanup(server.Close)

	client, err := ai.NewClient(ai.Config{
		Endpoint:   server.URL,
		APIKey:     "test-key",
		Deployment: "test-deployment",
		APIVersion: "2024-02-15-preview",
	})
	if err != nil {
		t.Fatalf("new ai client: %v", err)
	}

	h := &Handler{
		TaskRepo:  NewMockTaskRepository(),
		UserRepo:  NewMockUserRepository(),
		AI:        client,
		JWTSecret: []byte(testSecret),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ai/parse", h.AuthMiddleware(h.HandleParse))
	mux.HandleFunc("/ai/improve", h.AuthMiddleware(h.HandleImprove))
	mux.HandleFunc("/ai/classify", h.AuthMiddleware(h.HandleClassify))
	return mux
}

func TestHandleParse(t *testing.T) {
	reply := "```json\n" +
		`{"title":"Dentist","description":"Checkup","category":"Health","priority":"Medium","dueDate":"2026-09-12","estimatedTime":"1 hour"}` +
		"\n```"
	mux := setupAIHTTP(t, reply)
	authz := bearerForUser(t, testSecret, uuid.NewString())

	rec := doJSON(t, mux, http.MethodPost, "/ai/parse", authz,
		`{"text":"dentist checkup on the 12th"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var parsed ai.ParsedTask
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if parsed.Title != "Dentist" || parsed.DueDate != "2026-09-12" {
		t.Errorf("unexpected response: %+v", parsed)
	}
}

func TestHandleParse_MalformedReply(t *testing.T) {
	mux := setupAIHTTP(t, "I could not produce JSON, sorry.")
	authz := bearerForUser(t, testSecret, uuid.NewString())

	rec := doJSON(t, mux, http.MethodPost, "/ai/parse", authz, `{"text":"anything"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp["error"] != "Bad AI response" {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestHandleParse_RequiresAuth(t *testing.T) {
	mux := setupAIHTTP(t, "{}")

	rec := doJSON(t, mux, http.MethodPost, "/ai/parse", "", `{"text":"x"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestHandleImprove(t *testing.T) {
	mux := setupAIHTTP(t,
		`{"improvedTitle":"Schedule dentist appointment","improvedDescription":"Book a checkup for next week"}`)
	authz := bearerForUser(t, testSecret, uuid.NewString())

	rec := doJSON(t, mux, http.MethodPost, "/ai/improve", authz,
		`{"title":"dentist","description":"checkup"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var improved ai.Improvement
	if err := json.Unmarshal(rec.Body.Bytes(), &improved); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if improved.ImprovedTitle != "Schedule dentist appointment" {
		t.Errorf("unexpected response: %+v", improved)
	}
}

func TestHandleClassify(t *testing.T) {
	mux := setupAIHTTP(t, `{"category":"Health","priority":"Low"}`)
	authz := bearerForUser(t, testSecret, uuid.NewString())

	rec := doJSON(t, mux, http.MethodPost, "/ai/classify", authz,
		`{"title":"dentist","description":"checkup"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var classified ai.Classification
	if err := json.Unmarshal(rec.Body.Bytes(), &classified); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if classified.Category != "Health" || classified.Priority != "Low" {
		t.Errorf("unexpected response: %+v", classified)
	}
}

func TestHandleClassify_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"deployment overloaded"}}`)
	}))
	t.Cleanup(server.Close)

	client, err := ai.NewClient(ai.Config{
		Endpoint:   server.URL,
		APIKey:     "test-key",
		Deployment: "test-deployment",
		APIVersion: "2024-02-15-preview",
	})
	if err != nil {
		t.Fatalf("new ai client: %v", err)
	}
	h := &Handler{AI: client, JWTSecret: []byte(testSecret)}
	mux := http.NewServeMux()
	mux.HandleFunc("/ai/classify", h.AuthMiddleware(h.HandleClassify))

	authz := bearerForUser(t, testSecret, uuid.NewString())
	rec := doJSON(t, mux, http.MethodPost, "/ai/classify", authz,
		`{"title":"t","description":"d"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp["error"] != "AI request failed" {
		t.Errorf("error = %q", resp["error"])
	}
}
