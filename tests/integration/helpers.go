package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/heroiclabs/nakama-common/rtapi"
	"github.com/heroiclabs/nakama-go/v2"
)

const (
	ServerKey = "defaultkey"
	Host      = "127.0.0.1"
	Port      = 7350
)

// Opcodes of the duel match contract.
const (
	OpPlayCard     = 1
	OpWaiting      = 101
	OpMatchStarted = 102
	OpStateUpdate  = 103
	OpCardPlayed   = 104
	OpGameOver     = 105
	OpDuelError    = 106
)

type FindDuelResponse struct {
	MatchID string `json:"match_id"`
	Role    string `json:"role"`
}

type StateUpdate struct {
	Player1HP   int    `json:"player1HP"`
	Player2HP   int    `json:"player2HP"`
	CurrentTurn string `json:"currentTurn"`
}

type GameOver struct {
	Result  string `json:"result"`
	Message string `json:"message"`
}

type TestClient struct {
	Client  *nakama.Client
	Session *nakama.Session
	Socket  *nakama.Socket
	UserID  string
}

func NewTestClient(t *testing.T) *TestClient {
	client := nakama.NewClient(ServerKey, Host, Port, false)

	// Create unique ID
	deviceID := fmt.Sprintf("test_device_%d", time.Now().UnixNano())

	// Authenticate
	session, err := client.AuthenticateDevice(context.Background(), deviceID, true, "")
	if err != nil {
		t.Fatalf("Failed to authenticate: %v", err)
	}

	// Create Socket
	socket := client.NewSocket()
	if err := socket.Connect(context.Background(), session, true); err != nil {
		t.Fatalf("Failed to connect socket: %v", err)
	}

	return &TestClient{
		Client:  client,
		Session: session,
		Socket:  socket,
		UserID:  session.UserId,
	}
}

func (tc *TestClient) Close() {
	if tc.Socket != nil {
		tc.Socket.Close()
	}
}

// FindDuel calls the 'find_duel' RPC and joins the returned match over the
// socket, returning the match ID and the assigned role.
func (tc *TestClient) FindDuel(t *testing.T, displayName string) (string, string) {
	payload := fmt.Sprintf("{\"display_name\": %q}", displayName)
	rpc, err := tc.Client.RpcFunc(context.Background(), tc.Session, "find_duel", payload)
	if err != nil {
		t.Fatalf("RPC find_duel failed: %v", err)
	}

	var resp FindDuelResponse
	if err := json.Unmarshal([]byte(rpc.Payload), &resp); err != nil {
		t.Fatalf("RPC find_duel returned invalid payload %q: %v", rpc.Payload, err)
	}
	if resp.MatchID == "" {
		t.Fatalf("RPC find_duel returned empty match ID")
	}

	// Join Match
	if _, err := tc.Socket.JoinMatch(context.Background(), nil, resp.MatchID, nil); err != nil {
		t.Fatalf("Failed to join match %s: %v", resp.MatchID, err)
	}

	return resp.MatchID, resp.Role
}

// PlayCard sends a playCard message on the match socket.
func (tc *TestClient) PlayCard(t *testing.T, matchID, kind string, magnitude int) {
	payload := fmt.Sprintf("{\"kind\": %q, \"magnitude\": %d}", kind, magnitude)
	if _, err := tc.Socket.SendMatchState(context.Background(), matchID, OpPlayCard, []byte(payload), nil); err != nil {
		t.Fatalf("Failed to send playCard: %v", err)
	}
}

// WaitForMatchState waits for a specific opcode from the socket.
func (tc *TestClient) WaitForMatchState(t *testing.T, opCode int64, timeout time.Duration) *rtapi.MatchData {
	ch := make(chan *rtapi.MatchData)

	originalHandler := tc.Socket.OnMatchData
	tc.Socket.OnMatchData = func(data *rtapi.MatchData) {
		if data.OpCode == opCode {
			ch <- data
		}
		if originalHandler != nil {
			originalHandler(data)
		}
	}

	select {
	case data := <-ch:
		return data
	case <-time.After(timeout):
		t.Fatalf("Timeout waiting for OpCode %d", opCode)
		return nil
	}
}
