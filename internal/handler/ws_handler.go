package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/roomloop/roomloop/internal/config"
	"github.com/roomloop/roomloop/internal/domain"
	"github.com/roomloop/roomloop/internal/hub"
	"github.com/roomloop/roomloop/internal/service"
	"github.com/roomloop/roomloop/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades connections and dispatches their inbound events to the
// chat service.
type WSHandler struct {
	hub     *hub.Hub
	service service.ChatService
	wsCfg   config.WebSocketConfig
}

func NewWSHandler(h *hub.Hub, svc service.ChatService, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:     h,
		service: svc,
		wsCfg:   wsCfg,
	}
}

func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l := log.L()
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), h.hub, conn, h.wsCfg)
	h.hub.Register(client)

	go client.WritePump()
	go func() {
		client.ReadPump(h.handleEvent)

		// Disconnect runs on the same goroutine as the read loop, so it is
		// the last event in the connection's serial queue.
		if err := h.service.HandleDisconnect(context.Background(), client); err != nil {
			l := log.L()
			l.Error().Err(err).Str(log.FieldConnID, client.ID).Msg("disconnect handling failed")
		}
	}()
}

func (h *WSHandler) handleEvent(client *hub.Client, message []byte) {
	var base domain.BaseMessage
	if err := json.Unmarshal(message, &base); err != nil {
		client.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadRequest, "invalid event format"))
		return
	}

	ctx := context.Background()
	l := log.L()

	switch base.Type {
	case domain.MsgTypeJoin:
		var evt domain.JoinEvent
		if err := json.Unmarshal(message, &evt); err != nil {
			client.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadRequest, "invalid join event"))
			return
		}
		if err := h.service.HandleJoin(ctx, client, evt.Username, evt.Room); err != nil {
			l.Error().Err(err).Str(log.FieldConnID, client.ID).Msg("join failed")
		}

	case domain.MsgTypeSendMessage:
		var evt domain.SendMessageEvent
		if err := json.Unmarshal(message, &evt); err != nil {
			client.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadRequest, "invalid sendMessage event"))
			return
		}
		if err := h.service.HandleSendMessage(ctx, client, evt.Text); err != nil {
			l.Error().Err(err).Str(log.FieldConnID, client.ID).Msg("sendMessage failed")
		}

	case domain.MsgTypePrivateMessage:
		var evt domain.PrivateMessageEvent
		if err := json.Unmarshal(message, &evt); err != nil {
			client.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadRequest, "invalid privateMessage event"))
			return
		}
		if err := h.service.HandlePrivateMessage(ctx, client, evt.To, evt.Text); err != nil {
			l.Error().Err(err).Str(log.FieldConnID, client.ID).Msg("privateMessage failed")
		}

	case domain.MsgTypeTyping:
		if err := h.service.HandleTyping(ctx, client); err != nil {
			l.Error().Err(err).Str(log.FieldConnID, client.ID).Msg("typing relay failed")
		}

	default:
		client.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadRequest, "unknown event type"))
	}
}

func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", func(c *gin.Context) {
		h.HandleWebSocket(c.Writer, c.Request)
	})
}
