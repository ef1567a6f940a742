package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"cine-booking-cli/model"
)

func TestDoJSON_Non2xxReturnsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client(), nil)

	var out map[string]any
	err := client.getJSON(context.Background(), "/fail", &out)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDoJSON_ParsesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Campo horario é obrigatório"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client(), nil)

	err := client.doJSON(context.Background(), http.MethodPost, "/compras", map[string]string{}, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "Campo horario é obrigatório" {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
	if got := UserMessage(err); got != "Campo horario é obrigatório" {
		t.Fatalf("unexpected user message: %q", got)
	}
}

func TestDoJSON_DoesNotRetry(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("retry later"))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client(), nil)

	if err := client.getJSON(context.Background(), "/compras", nil); err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestDoJSON_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, nil, nil)

	err := client.getJSON(context.Background(), "/check-auth", nil)
	if !IsConnection(err) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if got := UserMessage(err); got != "Erro de conexão. Tente novamente." {
		t.Fatalf("unexpected user message: %q", got)
	}
}

func TestDoJSON_SendsRequestID(t *testing.T) {
	seen := map[string]bool{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			t.Errorf("missing %s header", requestIDHeader)
		}
		seen[id] = true
		_, _ = w.Write([]byte(`{"authenticated": false}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client(), nil)
	for i := 0; i < 2; i++ {
		if _, err := client.CheckAuth(context.Background()); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}
	if len(seen) != 2 {
		t.Fatalf("expected a fresh request id per call, got %v", seen)
	}
}

func TestLogin_KeepsSessionCookieAndIdentity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			var req model.LoginRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode login: %v", err)
			}
			if req.Username != "maria" || req.Password != "segredo" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Credenciais inválidas"}`))
				return
			}
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
			_, _ = w.Write([]byte(`{"message":"Login realizado com sucesso","user":{"id":7,"username":"maria","email":"maria@example.com"}}`))
		case "/api/profile":
			cookie, err := r.Cookie("session")
			if err != nil || cookie.Value != "abc" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Usuário não autenticado"}`))
				return
			}
			_, _ = w.Write([]byte(`{"id":7,"username":"maria","email":"maria@example.com","nome_completo":"Maria Silva","generos_preferidos":["Drama"]}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api", server.Client(), nil)

	if _, err := client.Login(context.Background(), model.LoginRequest{Username: "maria", Password: "errada"}); !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, ok := client.Identity(); ok {
		t.Fatal("expected no identity after failed login")
	}

	res, err := client.Login(context.Background(), model.LoginRequest{Username: " maria ", Password: "segredo"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if res.Message != "Login realizado com sucesso" {
		t.Fatalf("unexpected message: %s", res.Message)
	}
	user, ok := client.Identity()
	if !ok || user.Username != "maria" {
		t.Fatalf("unexpected identity: %+v %v", user, ok)
	}

	profile, err := client.Profile(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if profile.NomeCompleto != "Maria Silva" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if cookies := client.Cookies(); len(cookies) != 1 || cookies[0].Value != "abc" {
		t.Fatalf("unexpected cookies: %+v", cookies)
	}
}

func TestSetCookies_RestoresSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("session"); err == nil && cookie.Value == "persisted" {
			_, _ = w.Write([]byte(`{"authenticated":true,"user":{"id":1,"username":"joao"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"authenticated":false}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api", server.Client(), nil)
	client.SetCookies([]*http.Cookie{{Name: "session", Value: "persisted"}})

	status, err := client.CheckAuth(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !status.Authenticated {
		t.Fatal("expected restored cookie to authenticate")
	}
	if user, ok := client.Identity(); !ok || user.Username != "joao" {
		t.Fatalf("unexpected identity: %+v", user)
	}
}

func TestCheckAuth_ClearsIdentity(t *testing.T) {
	authenticated := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authenticated {
			_, _ = w.Write([]byte(`{"authenticated":true,"user":{"id":1,"username":"joao"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"authenticated":false}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client(), nil)
	if _, err := client.CheckAuth(context.Background()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, ok := client.Identity(); !ok {
		t.Fatal("expected identity")
	}

	authenticated = false
	if _, err := client.CheckAuth(context.Background()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, ok := client.Identity(); ok {
		t.Fatal("expected identity to be cleared")
	}
}

func TestLogout_ClearsIdentity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/register":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"message":"Usuário cadastrado com sucesso","user":{"id":3,"username":"ana"}}`))
		case "/logout":
			if r.Method != http.MethodPost {
				t.Errorf("unexpected method: %s", r.Method)
			}
			_, _ = w.Write([]byte(`{"message":"Logout realizado com sucesso"}`))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client(), nil)
	req := model.RegisterRequest{
		Username:     "ana",
		Email:        "ana@example.com",
		Password:     "123456",
		NomeCompleto: "Ana Souza",
	}
	if _, err := client.Register(context.Background(), req, "123456"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, ok := client.Identity(); !ok {
		t.Fatal("expected registration to log the user in")
	}

	msg, err := client.Logout(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if msg != "Logout realizado com sucesso" {
		t.Fatalf("unexpected message: %s", msg)
	}
	if _, ok := client.Identity(); ok {
		t.Fatal("expected identity to be cleared")
	}
}
