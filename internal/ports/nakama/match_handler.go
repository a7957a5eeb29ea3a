package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"carduel/internal/app"
	"carduel/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// duelState is the per-match transport state tracked between callbacks. All
// game state lives in the engine; the handler only knows which presences are
// connected and what it has already announced.
type duelState struct {
	Token     string                      `json:"token"`
	Started   bool                        `json:"started"`  // matchStarted + initial snapshot announced
	Finished  bool                        `json:"finished"` // gameOver delivered, terminate after callback
	Presences map[string]runtime.Presence `json:"-"`
}

type matchHandler struct {
	engine *app.Service
}

func newMatchHandler(engine *app.Service) *matchHandler {
	return &matchHandler{engine: engine}
}

// MatchInit binds the handler to its engine-side duel. The matchmaker mints
// tokens through nk.MatchCreate, so the engine token and the Nakama match id
// are the same value.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	token, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	state := &duelState{
		Token:     token,
		Presences: make(map[string]runtime.Presence),
	}

	labelBytes, err := json.Marshal(matchLabel{Open: true, Game: "carduel", Phase: string(domain.PhaseWaiting)})
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, string(labelBytes)
}

// MatchJoinAttempt admits only the two connections the matchmaker seated.
func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	s, ok := state.(*duelState)
	if !ok {
		return state, false, "state not found"
	}

	view, err := mh.engine.Snapshot(s.Token)
	if err != nil {
		return state, false, "match not found"
	}

	userID := presence.GetUserId()
	if view.Seats[0] != userID && view.Seats[1] != userID {
		return state, false, "not a participant"
	}

	return state, true, ""
}

// MatchJoin announces the duel state to presences as they arrive. Join
// notifications are derived from the engine snapshot here rather than at RPC
// time: a socket can only receive match data after its presence has joined,
// and the creator and joiner connect in no guaranteed order.
func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s, ok := state.(*duelState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		s.Presences[p.GetUserId()] = p
	}

	view, err := mh.engine.Snapshot(s.Token)
	if err != nil {
		// Engine-side teardown already happened (e.g. the creator dropped
		// while this join was in flight). Nothing to announce.
		logger.Debug("MatchJoin: duel %s is gone, terminating", s.Token)
		return nil
	}

	switch view.Phase {
	case domain.PhaseWaiting:
		for _, p := range presences {
			mh.sendTo(dispatcher, logger, OpWaiting, waitingMessage{Message: app.MsgWaiting}, p)
		}

	case domain.PhasePlaying:
		_, aHere := s.Presences[view.Seats[domain.SeatA]]
		_, bHere := s.Presences[view.Seats[domain.SeatB]]
		if !s.Started && aHere && bHere {
			s.Started = true
			mh.sendTo(dispatcher, logger, OpMatchStarted,
				matchStartedMessage{Opponent: view.Names[domain.SeatB]}, s.Presences[view.Seats[domain.SeatA]])
			mh.sendTo(dispatcher, logger, OpMatchStarted,
				matchStartedMessage{Opponent: view.Names[domain.SeatA]}, s.Presences[view.Seats[domain.SeatB]])

			update := stateUpdateMessage{
				Player1HP:   view.HP[domain.SeatA],
				Player2HP:   view.HP[domain.SeatB],
				CurrentTurn: view.TurnConnID(),
			}
			if bytes, err := json.Marshal(update); err == nil {
				dispatcher.BroadcastMessage(OpStateUpdate, bytes, nil, nil, true)
			}
		}
	}

	mh.updateLabel(s, view.Phase, dispatcher, logger)
	return s
}

// MatchLeave forfeits the duel for leaving participants. The engine is
// idempotent here, so a leave racing a finished game stays quiet.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s, ok := state.(*duelState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		delete(s.Presences, userID)

		events := mh.engine.Disconnect(userID)
		mh.dispatchEvents(s, dispatcher, logger, events)
		for _, ev := range events {
			if ev.Kind == app.EventGameOver {
				s.Finished = true
			}
		}
	}

	if s.Finished || len(s.Presences) == 0 {
		logger.Debug("MatchLeave: terminating duel %s", s.Token)
		return nil
	}
	return s
}

// MatchLoop relays playCard actions into the engine and broadcasts the
// resulting events. Rejected actions notify only the offending connection.
func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	s, ok := state.(*duelState)
	if !ok {
		return state
	}

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpPlayCard:
			mh.handlePlayCard(s, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if s.Finished {
		logger.Debug("MatchLoop: duel %s finished, terminating", s.Token)
		return nil
	}
	return s
}

func (mh *matchHandler) handlePlayCard(s *duelState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	var req wireCard
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handlePlayCard: Invalid payload from %s: %v", senderID, err)
		mh.sendError(s, dispatcher, logger, senderID, "Invalid card payload.")
		return
	}

	events, err := mh.engine.PlayCard(senderID, cardFromWire(req))
	if err != nil {
		logger.Debug("handlePlayCard: User %s rejected: %v", senderID, err)
		mh.sendError(s, dispatcher, logger, senderID, errText(err))
		return
	}

	mh.dispatchEvents(s, dispatcher, logger, events)
	for _, ev := range events {
		if ev.Kind == app.EventGameOver {
			s.Finished = true
		}
	}
}

// dispatchEvents converts engine events to wire messages. Targeted events go
// to their connected recipients only; when every intended recipient is gone
// the event is dropped rather than broadcast.
func (mh *matchHandler) dispatchEvents(s *duelState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		opCode, payload, ok := eventMessage(ev)
		if !ok {
			logger.Warn("dispatchEvents: Unknown event kind: %v", ev.Kind)
			continue
		}

		bytes, err := json.Marshal(payload)
		if err != nil {
			logger.Error("dispatchEvents: Failed to marshal %v: %v", ev.Kind, err)
			continue
		}

		var recipients []runtime.Presence
		if len(ev.Recipients) > 0 {
			for _, id := range ev.Recipients {
				if p, ok := s.Presences[id]; ok {
					recipients = append(recipients, p)
				}
			}
			if len(recipients) == 0 {
				continue
			}
		}

		dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
	}
}

func (mh *matchHandler) sendTo(dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, payload any, p runtime.Presence) {
	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("sendTo: Failed to marshal opcode %d: %v", opCode, err)
		return
	}
	dispatcher.BroadcastMessage(opCode, bytes, []runtime.Presence{p}, nil, true)
}

// sendError delivers a duel error to a single connection.
func (mh *matchHandler) sendError(s *duelState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID, message string) {
	p, ok := s.Presences[userID]
	if !ok {
		logger.Warn("sendError: Cannot notify %s: presence not found", userID)
		return
	}
	mh.sendTo(dispatcher, logger, OpDuelError, errorMessage{Message: message}, p)
}

func (mh *matchHandler) updateLabel(s *duelState, phase domain.Phase, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label := matchLabel{
		Open:  phase == domain.PhaseWaiting,
		Game:  "carduel",
		Phase: string(phase),
	}
	labelBytes, err := json.Marshal(label)
	if err != nil {
		logger.Error("updateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("updateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
