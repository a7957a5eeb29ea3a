package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"

	"carduel/internal/app"
)

// FindDuelRequest is the client payload for the find_duel RPC. The display
// name is optional; when absent the session username is used.
type FindDuelRequest struct {
	DisplayName string `json:"display_name"`
}

// FindDuelResponse tells the client which match to join over the realtime
// socket and whether it created the duel or filled an open seat.
type FindDuelResponse struct {
	MatchID string `json:"match_id"`
	Role    string `json:"role"`
}

// RegisterRPCs wires the duel RPC endpoints into the Nakama runtime.
func RegisterRPCs(initializer runtime.Initializer, engine *app.Service) error {
	if err := initializer.RegisterRpc(RpcFindDuel, rpcFindDuel(engine)); err != nil {
		return err
	}
	return nil
}

func rpcFindDuel(engine *app.Service) func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error) {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
		if !ok || userID == "" {
			return "", runtime.NewError("no user session", 16) // UNAUTHENTICATED
		}

		var req FindDuelRequest
		if payload != "" {
			if err := json.Unmarshal([]byte(payload), &req); err != nil {
				return "", runtime.NewError("invalid payload", 3) // INVALID_ARGUMENT
			}
		}
		displayName := req.DisplayName
		if displayName == "" {
			if username, ok := ctx.Value(runtime.RUNTIME_CTX_USERNAME).(string); ok {
				displayName = username
			}
		}

		placement, _, err := engine.Join(userID, displayName)
		if err != nil {
			switch err {
			case app.ErrDuplicateConnection:
				return "", runtime.NewError(errText(err), 9) // FAILED_PRECONDITION
			default:
				logger.Error("find_duel failed for user %s: %v", userID, err)
				return "", runtime.NewError("matchmaking failed", 13) // INTERNAL
			}
		}

		// Join-time announcements are delivered from the match handler once
		// the client's socket presence arrives, so the events returned here
		// are not dispatched over this RPC.

		resp := FindDuelResponse{MatchID: placement.MatchID, Role: string(placement.Role)}
		out, err := json.Marshal(resp)
		if err != nil {
			return "", runtime.NewError("internal error", 13)
		}

		logger.Info("User %s placed in duel %s as %s.", userID, placement.MatchID, placement.Role)
		return string(out), nil
	}
}
