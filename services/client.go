package services

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/bellapacxx/tombola-backend/utils/logger"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// Role is what a connection is allowed to do in its session.
type Role string

const (
	RoleNone   Role = ""
	RoleHost   Role = "host"
	RolePlayer Role = "player"
)

// clientMessage is the incoming action envelope.
type clientMessage struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// Client is one websocket connection with its session identity.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	once    sync.Once
	limiter *rate.Limiter

	socketID string

	// Guarded by hub.mu; see Hub.register.
	role     Role
	code     string
	playerID string
}

func (c *Client) Close() {
	c.once.Do(func() {
		close(c.send)
		c.conn.Close()
	})
}

func (c *Client) sendJSON(payload any) {
	data := marshal(payload)
	if data == nil {
		return
	}
	deliver(c, data)
}

func (c *Client) ack(action string, fields map[string]any) {
	msg := map[string]any{"type": "ack", "action": action, "ok": true}
	for k, v := range fields {
		msg[k] = v
	}
	c.sendJSON(msg)
}

func (c *Client) nack(action string, err error) {
	c.sendJSON(map[string]any{
		"type":   "ack",
		"action": action,
		"ok":     false,
		"error":  err.Error(),
		"kind":   Classify(err).Label(),
	})
}

// --------------------
// Client read/write pumps
// --------------------
func (c *Client) readPump() {
	defer func() {
		c.hub.handleDisconnect(c)
		c.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debugf("[Client %s] disconnected normally", c.socketID)
			} else {
				logger.Debugf("[Client %s] read error: %v", c.socketID, err)
			}
			return
		}

		if !c.limiter.Allow() {
			logger.Warnf("[Client %s] rate limit exceeded", c.socketID)
			c.sendJSON(map[string]any{"type": "notification", "message": "Rate limit exceeded. Please slow down."})
			continue
		}

		var msg clientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			logger.Debugf("[Client %s] invalid message: %v", c.socketID, err)
			continue
		}
		c.handleAction(msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.Debugf("[Client %s] write error: %v", c.socketID, err)
			return
		}
	}
}

// --------------------
// Action dispatch
// --------------------
func (c *Client) handleAction(msg clientMessage) {
	switch msg.Action {
	case "host:create":
		c.onHostCreate(msg)
	case "session:join":
		c.onSessionJoin(msg)
	case "session:get":
		c.onSessionGet(msg)
	case "session:leave":
		c.onSessionLeave(msg)
	case "player:addCard":
		c.onAddCard(msg)
	case "player:addRandomCard":
		c.onAddRandomCard(msg)
	case "player:deleteCard":
		c.onPlayerDeleteCard(msg)
	case "player:getMe":
		c.onGetMe(msg)
	case "player:markNumber":
		c.onMarkNumber(msg)
	case "host:draw":
		c.onDraw(msg)
	case "host:drawSpecific":
		c.onDrawSpecific(msg)
	case "host:setDrawn":
		c.onSetDrawn(msg)
	case "host:resetPartial":
		c.onResetPartial(msg)
	case "host:end":
		c.onEnd(msg)
	case "host:deleteCard":
		c.onHostDeleteCard(msg)
	case "host:toggleNewCards":
		c.onToggleNewCards(msg)
	case "host:updateSettings":
		c.onUpdateSettings(msg)
	case "host:sendMessage":
		c.onSendMessage(msg)
	default:
		logger.Debugf("[Client %s] unknown action: %s", c.socketID, msg.Action)
	}
}

func (c *Client) identity() (Role, string, string) {
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	return c.role, c.code, c.playerID
}

func (c *Client) requireHost(action string) (string, bool) {
	role, code, _ := c.identity()
	if role != RoleHost {
		c.nack(action, ErrNotAuthorized)
		return "", false
	}
	return code, true
}

func (c *Client) requirePlayer(action string) (string, string, bool) {
	role, code, playerID := c.identity()
	if role != RolePlayer {
		c.nack(action, ErrNotAuthorized)
		return "", "", false
	}
	return code, playerID, true
}

func (c *Client) onHostCreate(msg clientMessage) {
	var payload struct {
		HostName string        `json:"hostName"`
		Settings SettingsPatch `json:"settings"`
	}
	_ = json.Unmarshal(msg.Payload, &payload)

	sess := c.hub.store.CreateSession(payload.HostName, payload.Settings, c.socketID)
	c.hub.register(c, RoleHost, sess.Code, "")

	pub, err := c.hub.store.PublicSnapshot(sess.Code)
	if err != nil {
		c.nack(msg.Action, err)
		return
	}
	c.ack(msg.Action, map[string]any{"code": sess.Code, "session": pub})
	c.hub.BroadcastSession(sess.Code)
}

func (c *Client) onSessionJoin(msg clientMessage) {
	var payload struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	_ = json.Unmarshal(msg.Payload, &payload)
	code := strings.ToUpper(strings.TrimSpace(payload.Code))

	player, err := c.hub.store.JoinSession(code, payload.Name, c.socketID)
	if err != nil {
		c.nack(msg.Action, err)
		return
	}
	c.hub.register(c, RolePlayer, code, player.ID)

	pub, err := c.hub.store.PublicSnapshot(code)
	if err != nil {
		c.nack(msg.Action, err)
		return
	}
	c.ack(msg.Action, map[string]any{"playerId": player.ID, "session": pub})
	c.hub.BroadcastSession(code)
}

func (c *Client) onSessionGet(msg clientMessage) {
	var payload struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(msg.Payload, &payload)
	code := strings.ToUpper(strings.TrimSpace(payload.Code))

	pub, err := c.hub.store.PublicSnapshot(code)
	if err != nil {
		c.nack(msg.Action, err)
		return
	}
	c.ack(msg.Action, map[string]any{"session": pub})
}

func (c *Client) onSessionLeave(msg clientMessage) {
	role, code, playerID := c.identity()
	if role != RolePlayer || code == "" {
		c.ack(msg.Action, nil)
		return
	}
	_ = c.hub.store.LeavePlayer(code, playerID)
	c.hub.unregister(c)
	c.ack(msg.Action, nil)
	c.hub.BroadcastSession(code)
}

func (c *Client) onAddCard(msg clientMessage) {
	code, playerID, ok := c.requirePlayer(msg.Action)
	if !ok {
		return
	}
	var payload struct {
		Numbers [][]int `json:"numbers"`
	}
	_ = json.Unmarshal(msg.Payload, &payload)

	cardID, err := c.hub.store.AddCard(code, playerID, payload.Numbers)
	if err != nil {
		c.nack(msg.Action, err)
		return
	}
	c.ack(msg.Action, map[string]any{"cardId": cardID})
	c.hub.BroadcastSession(code)
	c.sendMe(code, playerID)
}

func (c *Client) onAddRandomCard(msg clientMessage) {
	code, playerID, ok := c.requirePlayer(msg.Action)
	if !ok {
		return
	}
	cardID, numbers, err := c.hub.store.AddRandomCard(code, playerID)
	if err != nil {
		c.nack(msg.Action, err)
		return
	}
	c.ack(msg.Action, map[string]any{"cardId": cardID, "numbers": numbers})
	c.hub.BroadcastSession(code)
	c.sendMe(code, playerID)
}

func (c *Client) onPlayerDeleteCard(msg clientMessage) {
	code, playerID, ok := c.requirePlayer(msg.Action)
	if !ok {
		return
	}
	var payload struct {
		CardID string `json:"cardId"`
	}
	_ = json.Unmarshal(msg.Payload, &payload)

	if err := c.hub.store.DeleteCard(code, playerID, payload.CardID, false); err != nil {
		c.nack(msg.Action, err)
		return
	}
	c.ack(msg.Action, nil)
	c.hub.BroadcastSession(code)
	c.sendMe(code, playerID)
}

func (c *Client) onGetMe(msg clientMessage) {
	code, playerID, ok := c.requirePlayer(msg.Action)
	if !ok {
		return
	}
	me, err := c.hub.store.PlayerSnapshot(code, playerID)
	if err != nil {
		c.nack(msg.Action, err)
		return
	}
	c.ack(msg.Action, map[string]any{"me": me})
}

func (c *Client) onMarkNumber(msg clientMessage) {
	code, playerID, ok := c.requirePlayer(msg.Action)
	if !ok {
		return
	}
	var payload struct {
		CardID string `json:"cardId"`
		Number int    `json:"number"`
	}
	_ = json.Unmarshal(msg.Payload, &payload)

	if err := c.hub.store.MarkManual(code, playerID, payload.CardID, payload.Number); err != nil {
		c.nack(msg.Action, err)
		return
	}
	c.ack(msg.Action, nil)
	c.sendMe(code, playerID)
}

func (c *Client) sendMe(code, playerID string) {
	if me, err := c.hub.store.PlayerSnapshot(code, playerID); err == nil {
		c.sendJSON(map[string]any{"type": "player:me", "me": me})
	}
}

func (c *Client) onDraw(msg clientMessage) {
	code, ok := c.requireHost(msg.Action)
	if !ok {
		return
	}
	outcome, err := c.hub.store.Draw(code)
	if err != nil {
		c.nack(msg.Action, err)
		return
	}
	if outcome.Done {
		c.ack(msg.Action, map[string]any{"done": true})
		c.hub.BroadcastSession(code)
		return
	}
	c.hub.EmitToSession(code, map[string]any{"type": "number:drawn", "number": outcome.Number})
	c.hub.BroadcastSession(code)
	for _, ev := range outcome.Events {
		c.hub.EmitToSession(code, map[string]any{"type": "win:event", "event": ev})
	}
	c.ack(msg.Action, map[string]any{"number": outcome.Number, "ended": outcome.Ended})
}

func (c *Client) onDrawSpecific(msg clientMessage) {
	code, ok := c.requireHost(msg.Action)
	if !ok {
		return
	}
	var payload struct {
		Number int `json:"number"`
	}
	_ = json.Unmarshal(msg.Payload, &payload)

	outcome, err := c.hub.store.DrawSpecific(code, payload.Number)
	if err != nil {
		c.nack(msg.Action, err)
		return
	}
	c.hub.EmitToSession(code, map[string]any{"type": "number:drawn", "number": outcome.Number})
	c.hub.BroadcastSession(code)
	for _, ev := range outcome.Events {
		c.hub.EmitToSession(code, map[string]any{"type": "win:event", "event": ev})
	}
	c.ack(msg.Action, map[string]any{"number": outcome.Number, "ended": outcome.Ended})
}

func (c *Client) onSetDrawn(msg clientMessage) {
	code, ok := c.requireHost(msg.Action)
	if !ok {
		return
	}
	var payload struct {
		Numbers []int  `json:"numbers"`
		Text    string `json:"text"`
	}
	_ = json.Unmarshal(msg.Payload, &payload)

	numbers := payload.Numbers
	if numbers == nil {
		numbers = ParseDrawnInput(payload.Text)
	}
	events, err := c.hub.store.SetDrawn(code, numbers)
	if err != nil {
		c.nack(msg.Action, err)
		return
	}
	c.ack(msg.Action, nil)
	c.hub.BroadcastSession(code)
	for _, ev := range events {
		c.hub.EmitToSession(code, map[string]any{"type": "win:event", "event": ev})
	}
}

func (c *Client) onResetPartial(msg clientMessage) {
	code, ok := c.requireHost(msg.Action)
	if !ok {
		return
	}
	if err := c.hub.store.ResetPartial(code); err != nil {
		c.nack(msg.Action, err)
		return
	}
	c.ack(msg.Action, nil)
	c.hub.BroadcastSession(code)
}

func (c *Client) onEnd(msg clientMessage) {
	code, ok := c.requireHost(msg.Action)
	if !ok {
		return
	}
	if err := c.hub.store.EndSession(code); err != nil {
		c.nack(msg.Action, err)
		return
	}
	c.ack(msg.Action, nil)
	c.hub.BroadcastSession(code)
}

func (c *Client) onHostDeleteCard(msg clientMessage) {
	code, ok := c.requireHost(msg.Action)
	if !ok {
		return
	}
	var payload struct {
		PlayerID string `json:"playerId"`
		CardID   string `json:"cardId"`
	}
	_ = json.Unmarshal(msg.Payload, &payload)

	if err := c.hub.store.DeleteCard(code, payload.PlayerID, payload.CardID, true); err != nil {
		c.nack(msg.Action, err)
		return
	}
	c.ack(msg.Action, nil)
	c.hub.BroadcastSession(code)
	if me, err := c.hub.store.PlayerSnapshot(code, payload.PlayerID); err == nil {
		c.hub.EmitToPlayer(code, payload.PlayerID, map[string]any{"type": "player:me", "me": me})
	}
}

func (c *Client) onToggleNewCards(msg clientMessage) {
	code, ok := c.requireHost(msg.Action)
	if !ok {
		return
	}
	var payload struct {
		AllowNewCards *bool `json:"allowNewCards"`
	}
	_ = json.Unmarshal(msg.Payload, &payload)

	allowed, err := c.hub.store.ToggleNewCards(code, payload.AllowNewCards)
	if err != nil {
		c.nack(msg.Action, err)
		return
	}
	c.ack(msg.Action, map[string]any{"allowNewCards": allowed})
	c.hub.BroadcastSession(code)

	message := "The host has closed new card submissions"
	if allowed {
		message = "The host has reopened new card submissions"
	}
	c.hub.EmitToSession(code, map[string]any{"type": "cards:statusChanged", "allowed": allowed, "message": message})
}

func (c *Client) onUpdateSettings(msg clientMessage) {
	code, ok := c.requireHost(msg.Action)
	if !ok {
		return
	}
	var payload struct {
		Settings SettingsPatch `json:"settings"`
	}
	_ = json.Unmarshal(msg.Payload, &payload)

	if err := c.hub.store.UpdateSettings(code, payload.Settings); err != nil {
		c.nack(msg.Action, err)
		return
	}
	c.ack(msg.Action, nil)
	c.hub.BroadcastSession(code)
}

func (c *Client) onSendMessage(msg clientMessage) {
	code, ok := c.requireHost(msg.Action)
	if !ok {
		return
	}
	var payload struct {
		PlayerID string `json:"playerId"`
		Message  string `json:"message"`
	}
	_ = json.Unmarshal(msg.Payload, &payload)
	text := strings.TrimSpace(payload.Message)
	if payload.PlayerID == "" || text == "" {
		c.nack(msg.Action, ErrPlayerNotFound)
		return
	}

	hostView, err := c.hub.store.PublicSnapshot(code)
	if err != nil {
		c.nack(msg.Action, err)
		return
	}
	sent := c.hub.EmitToPlayer(code, payload.PlayerID, map[string]any{
		"type":      "player:message",
		"message":   text,
		"timestamp": time.Now().UTC(),
		"fromHost":  hostView.HostName,
	})
	if !sent {
		c.nack(msg.Action, ErrPlayerNotFound)
		return
	}
	c.ack(msg.Action, nil)
}
