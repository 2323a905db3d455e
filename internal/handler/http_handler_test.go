package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomloop/roomloop/internal/domain"
	"github.com/roomloop/roomloop/pkg/response"
)

type stubUserRepo struct {
	users []domain.User
	err   error
}

func (r *stubUserRepo) Upsert(context.Context, string) (*domain.User, error) { return nil, nil }
func (r *stubUserRepo) GetByUsername(context.Context, string) (*domain.User, error) {
	return nil, nil
}
func (r *stubUserRepo) List(context.Context) ([]domain.User, error) { return r.users, r.err }

type stubRoomRepo struct {
	rooms []domain.RoomWithMessages
	err   error
}

func (r *stubRoomRepo) Upsert(context.Context, string) (*domain.Room, error)    { return nil, nil }
func (r *stubRoomRepo) GetByName(context.Context, string) (*domain.Room, error) { return nil, nil }
func (r *stubRoomRepo) ListWithMessages(context.Context) ([]domain.RoomWithMessages, error) {
	return r.rooms, r.err
}

func setupRouter(users *stubUserRepo, rooms *stubRoomRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHTTPHandler(users, rooms).RegisterRoutes(r)
	return r
}

func TestListRooms(t *testing.T) {
	rooms := &stubRoomRepo{
		rooms: []domain.RoomWithMessages{
			{
				Room: domain.Room{ID: "r1", Name: "lobby", CreatedAt: time.Now()},
				Messages: []domain.ChatMessage{
					{ID: "m1", UserID: "u1", RoomID: "r1", Text: "hi", Timestamp: time.Now()},
				},
			},
		},
	}
	router := setupRouter(&stubUserRepo{}, rooms)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var got []domain.RoomWithMessages
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "lobby", got[0].Name)
	require.Len(t, got[0].Messages, 1)
	assert.Equal(t, "hi", got[0].Messages[0].Text)
}

func TestListRoomsStoreFailure(t *testing.T) {
	router := setupRouter(&stubUserRepo{}, &stubRoomRepo{err: errors.New("store down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListUsers(t *testing.T) {
	users := &stubUserRepo{
		users: []domain.User{
			{ID: "u1", Username: "alice"},
			{ID: "u2", Username: "bob"},
		},
	}
	router := setupRouter(users, &stubRoomRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestCORSAllowsCrossOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(cors.Default())
	NewHTTPHandler(&stubUserRepo{}, &stubRoomRepo{}).RegisterRoutes(router)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodOptions, "/api/rooms", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code, "preflight is answered by the middleware")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(&stubUserRepo{}, &stubRoomRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
