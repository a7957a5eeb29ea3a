package nakama

import (
	"context"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"

	"carduel/internal/app"
)

// Notification codes for duel events delivered outside a live match socket.
const (
	notificationGameOver = 110
)

// RegisterSessionEvents wires session lifecycle hooks into the Nakama
// runtime. A session ending tears down whatever duel state the user still
// holds, covering users who called find_duel but never joined the match
// socket; presences inside a live match are handled by MatchLeave.
func RegisterSessionEvents(initializer runtime.Initializer, engine *app.Service, nk runtime.NakamaModule) error {
	return initializer.RegisterEventSessionEnd(func(ctx context.Context, logger runtime.Logger, evt *api.Event) {
		userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
		if userID == "" {
			userID = evt.Properties["user_id"]
		}
		if userID == "" {
			return
		}

		events := engine.Disconnect(userID)
		if len(events) == 0 {
			return
		}
		logger.Info("Session ended for user %s, duel state torn down.", userID)

		// Any remaining events target the opponent. The match handler sends
		// its own forfeit notice when the presence leaves the socket, so this
		// is a fallback for opponents reachable only through notifications.
		for _, ev := range events {
			if ev.Kind != app.EventGameOver {
				continue
			}
			payload, ok := ev.Payload.(app.GameOverPayload)
			if !ok {
				continue
			}
			content := map[string]interface{}{
				"result":  payload.Result,
				"message": payload.Message,
			}
			for _, recipient := range ev.Recipients {
				if err := nk.NotificationSend(ctx, recipient, "Game over", content, notificationGameOver, "", false); err != nil {
					logger.Warn("Failed to notify user %s of forfeit: %v", recipient, err)
				}
			}
		}
	})
}
