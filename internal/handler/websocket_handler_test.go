package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/collabboard/collabboard-backend/internal/domain"
	"github.com/collabboard/collabboard-backend/internal/websocket"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// stubAuthorizer answers every join with a fixed error
type stubAuthorizer struct {
	err error
}

func (s stubAuthorizer) CanJoin(userID uuid.UUID, workspaceID int32) error {
	return s.err
}

func wsToken(t *testing.T, secret string, userID uuid.UUID) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func newWSServer(t *testing.T, hub *websocket.Hub, authorizer websocket.Authorizer) *httptest.Server {
	t.Helper()
	e := echo.New()
	handler := NewWebSocketHandler(hub, websocket.NewJWTValidator("test-secret"), authorizer, nil)
	e.GET("/ws", handler.HandleWS)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func dialWS(t *testing.T, srv *httptest.Server, token string) *ws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitFor polls until cond holds or the deadline passes
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestHandleWSMissingToken(t *testing.T) {
	hub := websocket.NewHub()
	srv := newWSServer(t, hub, stubAuthorizer{})

	resp, err := http.Get(srv.URL + "/ws")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestHandleWSInvalidToken(t *testing.T) {
	hub := websocket.NewHub()
	srv := newWSServer(t, hub, stubAuthorizer{})

	resp, err := http.Get(srv.URL + "/ws?token=garbage")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestHandleWSJoinAndBroadcast(t *testing.T) {
	hub := websocket.NewHub()
	srv := newWSServer(t, hub, stubAuthorizer{})
	conn := dialWS(t, srv, wsToken(t, "test-secret", uuid.New()))

	if err := conn.WriteJSON(map[string]interface{}{"type": "joinWorkspace", "workspaceId": 7}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	waitFor(t, func() bool { return hub.ClientCount(7) == 1 }, "client never subscribed")

	hub.Broadcast(7, websocket.CardCreated(&domain.Card{ID: 1, Title: "Ship it"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(string(data), "card.created") {
		t.Errorf("message = %s, want card.created event", data)
	}
}

func TestHandleWSJoinDenied(t *testing.T) {
	hub := websocket.NewHub()
	srv := newWSServer(t, hub, stubAuthorizer{err: errors.New("forbidden")})
	conn := dialWS(t, srv, wsToken(t, "test-secret", uuid.New()))

	if err := conn.WriteJSON(map[string]interface{}{"type": "joinWorkspace", "workspaceId": 7}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// The connection stays open and receives a denial frame
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(string(data), "join.denied") {
		t.Errorf("message = %s, want join.denied event", data)
	}
	if hub.ClientCount(7) != 0 {
		t.Error("denied client was subscribed")
	}
}

func TestHandleWSDisconnectCleansUp(t *testing.T) {
	hub := websocket.NewHub()
	srv := newWSServer(t, hub, stubAuthorizer{})
	conn := dialWS(t, srv, wsToken(t, "test-secret", uuid.New()))

	if err := conn.WriteJSON(map[string]interface{}{"type": "joinWorkspace", "workspaceId": 7}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	waitFor(t, func() bool { return hub.ClientCount(7) == 1 }, "client never subscribed")

	conn.Close()
	waitFor(t, func() bool { return hub.ClientCount(7) == 0 }, "client never removed after disconnect")
}

func TestCheckOrigin(t *testing.T) {
	handler := NewWebSocketHandler(websocket.NewHub(), websocket.NewJWTValidator("test-secret"),
		stubAuthorizer{}, []string{"http://localhost:3000"})

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"no origin", "", true},
		{"allowed origin", "http://localhost:3000", true},
		{"other origin", "http://evil.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if got := handler.checkOrigin(req); got != tt.want {
				t.Errorf("checkOrigin() = %v, want %v", got, tt.want)
			}
		})
	}
}
