package nakama

const (
	// RpcFindDuel is the Nakama RPC id clients call to register and be paired
	// into a duel (find-or-create).
	RpcFindDuel = "find_duel"

	// MatchNameDuel is the authoritative match handler name registered with Nakama.
	MatchNameDuel = "duel_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpPlayCard int64 = 1

	// Server -> Client events
	OpWaiting      int64 = 101
	OpMatchStarted int64 = 102
	OpStateUpdate  int64 = 103
	OpCardPlayed   int64 = 104
	OpGameOver     int64 = 105
	OpDuelError    int64 = 106
)
