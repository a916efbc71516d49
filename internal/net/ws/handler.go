// Package ws upgrades seat connections and pumps the wire protocol between
// a human player and their session.
package ws

import (
	"encoding/json"
	nethttp "net/http"

	"github.com/gorilla/websocket"

	server "admiral-radar/server"
	"admiral-radar/server/internal/bots"
	"admiral-radar/server/internal/game"
	"admiral-radar/server/internal/grid"
	"admiral-radar/server/internal/net/proto"
	"admiral-radar/server/internal/session"
	"admiral-radar/server/internal/telemetry"
)

// outboundBuffer bounds the per-connection event queue. A client too slow to
// drain it loses events rather than stalling the session dispatcher.
const outboundBuffer = 256

type HandlerConfig struct {
	Logger telemetry.Logger
}

type Handler struct {
	hub      *server.Hub
	logger   telemetry.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *server.Hub, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.NopLogger()
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	return &Handler{
		hub:      hub,
		logger:   logger,
		upgrader: upgrader,
	}
}

// commandSeats maps each inbound command type to the seat role that may
// issue it. Commands missing from the table are handled out of band.
var commandSeats = map[string]bots.Role{
	proto.TypePlace:        bots.RoleCaptain,
	proto.TypeMove:         bots.RoleCaptain,
	proto.TypeSurface:      bots.RoleCaptain,
	proto.TypeDive:         bots.RoleCaptain,
	proto.TypeStealth:      bots.RoleCaptain,
	proto.TypeFireTorpedo:  bots.RoleCaptain,
	proto.TypePlaceMine:    bots.RoleCaptain,
	proto.TypeDetonateMine: bots.RoleCaptain,
	proto.TypeUseSonar:     bots.RoleCaptain,
	proto.TypeRespondSonar: bots.RoleCaptain,
	proto.TypeUseDrone:     bots.RoleCaptain,
	proto.TypeEndTurn:      bots.RoleCaptain,
	proto.TypeEngineerMark: bots.RoleEngineer,
	proto.TypeChargeSystem: bots.RoleFirstMate,
}

// Handle claims a seat for the socket, vacating the bot that held it, and
// runs the read loop until the client goes away. On disconnect the bot takes
// the seat back so the game keeps moving.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	sessionID := r.URL.Query().Get("session")
	team := game.Team(r.URL.Query().Get("team"))
	role := bots.Role(r.URL.Query().Get("role"))
	if sessionID == "" || !team.Valid() || !role.Valid() {
		nethttp.Error(w, "missing or invalid session, team, or role", nethttp.StatusBadRequest)
		return
	}

	s, err := h.hub.Session(sessionID)
	if err != nil {
		nethttp.Error(w, "unknown session", nethttp.StatusNotFound)
		return
	}
	seat := session.Seat{Team: team, Role: role}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed for %s/%s: %v", team, role, err)
		return
	}

	if err := s.AssignHuman(seat); err != nil {
		message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error())
		conn.WriteMessage(websocket.CloseMessage, message)
		conn.Close()
		return
	}

	// The session dispatcher runs listeners under its own lock, so the
	// listener only enqueues; a writer goroutine owns the socket.
	outbound := make(chan []byte, outboundBuffer)
	done := make(chan struct{})
	cancel := s.Subscribe(seat, func(ev game.Event) {
		data, err := proto.EncodeEvent(proto.NewEvent(ev))
		if err != nil {
			h.logger.Printf("failed to encode event %s for %s/%s: %v", ev.Kind, team, role, err)
			return
		}
		select {
		case outbound <- data:
		default:
			h.logger.Printf("dropping event %s for slow client %s/%s", ev.Kind, team, role)
		}
	})

	leave := func() {
		cancel()
		close(done)
		conn.Close()
		if err := s.AssignBot(seat); err != nil && err != session.ErrSessionEnded {
			h.logger.Printf("failed to reseat bot for %s/%s: %v", team, role, err)
		}
	}

	go func() {
		for {
			select {
			case <-done:
				return
			case data := <-outbound:
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					return
				}
			}
		}
	}()

	welcome, err := proto.EncodeWelcome(proto.NewWelcome(team, role, s.ViewFor(team)))
	if err != nil {
		h.logger.Printf("failed to encode welcome for %s/%s: %v", team, role, err)
		leave()
		return
	}
	select {
	case outbound <- welcome:
	default:
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			leave()
			return
		}

		var cmd proto.Command
		if err := json.Unmarshal(payload, &cmd); err != nil {
			h.logger.Printf("discarding malformed message from %s/%s: %v", team, role, err)
			continue
		}

		if !h.dispatch(s, seat, outbound, cmd) {
			leave()
			return
		}
	}
}

// dispatch runs one command and queues the reply. It returns false only when
// the connection should drop.
func (h *Handler) dispatch(s *session.Session, seat session.Seat, outbound chan<- []byte, cmd proto.Command) bool {
	send := func(payload any) {
		data, err := json.Marshal(payload)
		if err != nil {
			h.logger.Printf("failed to marshal reply for %s/%s: %v", seat.Team, seat.Role, err)
			return
		}
		select {
		case outbound <- data:
		default:
		}
	}
	reject := func(code, reason string) {
		if cmd.Seq > 0 {
			send(proto.NewCommandReject(cmd.Seq, code, reason))
		}
	}

	switch cmd.Type {
	case proto.TypeViewRequest:
		send(proto.NewView(s.ViewFor(seat.Team)))
		return true
	case proto.TypeCrewInbox:
		send(proto.NewCrewInbox(s.CrewMessages(seat)))
		return true
	case proto.TypeCrewMessage:
		to := bots.Role(cmd.To)
		if !to.Valid() {
			reject(string(game.CodeInvalidAction), "unknown crew role")
			return true
		}
		if err := s.PostCrewMessage(seat, to, bots.Message{Kind: bots.MsgCommentary, Text: cmd.Text}); err != nil {
			reject(string(game.CodeOf(err)), err.Error())
			return true
		}
		if cmd.Seq > 0 {
			send(proto.NewCommandAck(cmd.Seq, 0))
		}
		return true
	}

	required, ok := commandSeats[cmd.Type]
	if !ok {
		h.logger.Printf("unknown message type %q from %s/%s", cmd.Type, seat.Team, seat.Role)
		return true
	}
	if seat.Role != required {
		reject(string(game.CodeInvalidAction), "command not available to this seat")
		return true
	}

	events, err := h.run(s, seat.Team, cmd)
	if err != nil {
		if err == session.ErrSessionEnded {
			return false
		}
		reject(string(game.CodeOf(err)), err.Error())
		return true
	}
	if cmd.Seq > 0 {
		send(proto.NewCommandAck(cmd.Seq, len(events)))
	}
	return true
}

func (h *Handler) run(s *session.Session, team game.Team, cmd proto.Command) ([]game.Event, error) {
	switch cmd.Type {
	case proto.TypePlace:
		return s.Place(team, grid.Cell{Row: cmd.Row, Col: cmd.Col})
	case proto.TypeMove:
		dir, ok := grid.ParseDirection(cmd.Direction)
		if !ok {
			return nil, &game.RuleError{Code: game.CodeInvalidAction, Reason: "unknown direction"}
		}
		return s.Move(team, dir)
	case proto.TypeSurface:
		return s.Surface(team)
	case proto.TypeDive:
		return s.Dive(team)
	case proto.TypeStealth:
		dir, ok := grid.ParseDirection(cmd.Direction)
		if !ok {
			return nil, &game.RuleError{Code: game.CodeInvalidAction, Reason: "unknown direction"}
		}
		return s.Stealth(team, dir, cmd.Steps)
	case proto.TypeEngineerMark:
		dir, ok := grid.ParseDirection(cmd.Direction)
		if !ok {
			return nil, &game.RuleError{Code: game.CodeInvalidAction, Reason: "unknown direction"}
		}
		return s.EngineerMark(team, dir, cmd.Index)
	case proto.TypeChargeSystem:
		return s.ChargeSystem(team, game.SystemKind(cmd.System))
	case proto.TypeFireTorpedo:
		return s.FireTorpedo(team, grid.Cell{Row: cmd.Row, Col: cmd.Col})
	case proto.TypePlaceMine:
		return s.PlaceMine(team, grid.Cell{Row: cmd.Row, Col: cmd.Col})
	case proto.TypeDetonateMine:
		return s.DetonateMine(team, cmd.Index)
	case proto.TypeUseSonar:
		return s.UseSonar(team)
	case proto.TypeRespondSonar:
		if len(cmd.Facts) != 2 {
			return nil, &game.RuleError{Code: game.CodeInvalidAction, Reason: "sonar response needs exactly two facts"}
		}
		return s.RespondSonar(team, [2]game.SonarFact{cmd.Facts[0], cmd.Facts[1]})
	case proto.TypeUseDrone:
		return s.UseDrone(team, cmd.Sector)
	case proto.TypeEndTurn:
		return s.EndTurn(team)
	}
	return nil, &game.RuleError{Code: game.CodeInvalidAction, Reason: "unknown command"}
}
