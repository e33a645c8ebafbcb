package socket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"unitdesk/internal/canvas"
	"unitdesk/internal/schema"
	"unitdesk/internal/template/repository"
	"unitdesk/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	saveWait   = 15 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is one editor connection. Only its readPump touches Engine once
// the session is running.
type Client struct {
	Hub        *Hub
	Conn       *websocket.Conn
	TemplateID string
	TenantID   string
	UserID     string
	Engine     *canvas.Engine
	Send       chan []byte

	admitted  chan bool
	closeOnce sync.Once
	active    atomic.Int64
}

func (c *Client) touch() {
	c.active.Store(time.Now().UnixNano())
}

func (c *Client) lastActive() time.Time {
	return time.Unix(0, c.active.Load())
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.Send) })
}

func encode(msgType, templateID string, payload any) []byte {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Sugar.Errorf("Error marshalling %s payload: %v", msgType, err)
		raw = nil
	}
	out, _ := json.Marshal(WSMessage{Type: msgType, TemplateID: templateID, Payload: raw})
	return out
}

func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, userID, tenantID string) {
	templateID := r.URL.Query().Get("templateId")
	if templateID == "" {
		http.Error(w, "Missing templateId parameter", http.StatusBadRequest)
		return
	}

	tpl, err := hub.store.Get(r.Context(), tenantID, templateID)
	if errors.Is(err, repository.ErrNotFound) {
		logger.Sugar.Warnf("Connection rejected: template %s not found", templateID)
		http.Error(w, "Template not found", http.StatusNotFound)
		return
	} else if err != nil {
		logger.Sugar.Errorf("Database error loading template %s: %v", templateID, err)
		http.Error(w, "Failed to load template", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Sugar.Error(err)
		return
	}

	client := &Client{
		Hub:        hub,
		Conn:       conn,
		TemplateID: templateID,
		TenantID:   tenantID,
		UserID:     userID,
		Engine:     hub.newEngine(tpl.Document, templateID),
		Send:       make(chan []byte, 256),
		admitted:   make(chan bool, 1),
	}

	client.touch()

	hub.Register <- client
	if !<-client.admitted {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		conn.WriteMessage(websocket.TextMessage, encode(ErrorType, templateID, ErrorPayload{Message: ErrTemplateBusy.Error()}))
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "busy"))
		conn.Close()
		return
	}

	// The first frame is queued before readPump starts so the engine has a
	// single user from here on.
	client.sendFrame()

	go client.writePump()
	go client.readPump()
}

func (c *Client) send(msg []byte) {
	select {
	case c.Send <- msg:
	default:
		logger.Sugar.Warnf("Client %s's send buffer is full, dropping message", c.UserID)
	}
}

func (c *Client) sendFrame() {
	c.send(encode(FrameType, c.TemplateID, c.Hub.frame(c.Engine)))
}

func (c *Client) sendError(message string) {
	c.send(encode(ErrorType, c.TemplateID, ErrorPayload{Message: message}))
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, rawMessage, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Sugar.Errorf("error: %v", err)
			}
			break
		}
		c.touch()

		var msg WSMessage
		if err := json.Unmarshal(rawMessage, &msg); err != nil {
			logger.Sugar.Errorf("Error unmarshalling message: %v", err)
			c.sendError("malformed message")
			continue
		}

		switch msg.Type {
		case EventType:
			c.handleEvent(msg.Payload)
		case SaveType:
			c.save()
		default:
			c.sendError("unknown message type " + msg.Type)
		}
	}
}

func (c *Client) handleEvent(payload json.RawMessage) {
	var ev canvas.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		c.sendError("malformed event")
		return
	}
	if err := c.Engine.Apply(ev); err != nil {
		c.sendError(err.Error())
		return
	}
	c.sendFrame()
}

// save persists the engine's document. On failure the engine keeps its
// document and dirty flag so the user can retry.
func (c *Client) save() {
	ctx, cancel := context.WithTimeout(context.Background(), saveWait)
	defer cancel()

	doc := c.Engine.Document()
	if err := c.Hub.store.Update(ctx, c.TenantID, c.TemplateID, doc); err != nil {
		logger.Sugar.Errorf("Failed to save template %s: %v", c.TemplateID, err)
		c.sendError("save failed: " + err.Error())
		return
	}
	c.Engine.MarkSaved()
	c.send(encode(SavedType, c.TemplateID, SavedPayload{Issues: schema.Validate(doc)}))
	c.sendFrame()
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
