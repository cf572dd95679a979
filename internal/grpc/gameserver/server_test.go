package gameserver

import (
	"context"
	"net"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

const bufSize = 1024 * 1024

func newTestManager(t *testing.T, maxGames int) *GameManager {
	t.Helper()
	gm := NewGameManager(ManagerConfig{
		MaxGames:        maxGames,
		CleanupInterval: -1,
		Logger:          zerolog.Nop(),
	})
	t.Cleanup(gm.Close)
	return gm
}

// setupTestServer creates an in-memory gRPC server for testing
func setupTestServer(t *testing.T, maxGames int) GameServiceClient {
	t.Helper()
	lis := bufconn.Listen(bufSize)
	s := grpc.NewServer()
	RegisterGameServiceServer(s, NewServer(newTestManager(t, maxGames), zerolog.Nop()))

	go func() {
		if err := s.Serve(lis); err != nil {
			t.Logf("Server exited with error: %v", err)
		}
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return lis.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		s.Stop()
		lis.Close()
	})

	return NewGameServiceClient(conn)
}

func mustStruct(t *testing.T, m map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

// field walks nested struct fields by name
func field(t *testing.T, s *structpb.Struct, path ...string) *structpb.Value {
	t.Helper()
	var v *structpb.Value
	for i, name := range path {
		var ok bool
		v, ok = s.GetFields()[name]
		require.True(t, ok, "missing field %q", name)
		if i < len(path)-1 {
			s = v.GetStructValue()
			require.NotNil(t, s, "field %q is not an object", name)
		}
	}
	return v
}

func number(t *testing.T, s *structpb.Struct, path ...string) int {
	t.Helper()
	return int(field(t, s, path...).GetNumberValue())
}

func createGame(t *testing.T, client GameServiceClient) string {
	t.Helper()
	resp, err := client.CreateGame(context.Background(), mustStruct(t, nil))
	require.NoError(t, err)
	return field(t, resp, "game_id").GetStringValue()
}

func submit(t *testing.T, client GameServiceClient, gameID string, action map[string]interface{}) (*structpb.Struct, error) {
	t.Helper()
	return client.SubmitAction(context.Background(), mustStruct(t, map[string]interface{}{
		"game_id": gameID,
		"action":  action,
	}))
}

func xy(x, y int) map[string]interface{} {
	return map[string]interface{}{"x": x, "y": y}
}

func TestCreateGame(t *testing.T) {
	client := setupTestServer(t, 10)

	resp, err := client.CreateGame(context.Background(), mustStruct(t, nil))
	require.NoError(t, err)

	gameID := field(t, resp, "game_id").GetStringValue()
	assert.NotEmpty(t, gameID)
	assert.Equal(t, gameID, field(t, resp, "state", "game_id").GetStringValue())
	assert.Equal(t, 16, number(t, resp, "state", "width"))
	assert.Equal(t, 10, number(t, resp, "state", "height"))
	assert.Equal(t, 1, number(t, resp, "state", "turn"))
	assert.Equal(t, "human", field(t, resp, "state", "current").GetStringValue())
	assert.Equal(t, "HumanTurn", field(t, resp, "state", "phase").GetStringValue())
	assert.Equal(t, "none", field(t, resp, "state", "outcome").GetStringValue())
	assert.Equal(t, 10, number(t, resp, "state", "factions", "human", "coins"))
	assert.Equal(t, 3, number(t, resp, "state", "factions", "human", "max_units"))
	ai := field(t, resp, "state", "factions", "ai").GetStructValue().GetFields()
	assert.Equal(t, 0.0, ai["units"].GetNumberValue())
	assert.NotContains(t, ai, "coins")
	assert.NotContains(t, ai, "king_hp", "the AI king starts outside the human's sight")
	assert.NotEmpty(t, field(t, resp, "state", "board").GetStringValue())

	// The AI base at x >= 10 is outside the human's sight radius
	for _, b := range field(t, resp, "state", "buildings").GetListValue().GetValues() {
		assert.Equal(t, "human", b.GetStructValue().GetFields()["owner"].GetStringValue())
	}
	assert.Len(t, field(t, resp, "state", "units").GetListValue().GetValues(), 1)

	second, err := client.CreateGame(context.Background(), mustStruct(t, map[string]interface{}{"width": 20, "height": 12}))
	require.NoError(t, err)
	assert.NotEqual(t, gameID, field(t, second, "game_id").GetStringValue())
	assert.Equal(t, 20, number(t, second, "state", "width"))
	assert.Equal(t, 12, number(t, second, "state", "height"))
}

func TestCreateGame_InvalidArguments(t *testing.T) {
	client := setupTestServer(t, 10)

	tests := []struct {
		name string
		req  map[string]interface{}
	}{
		{"grid too small", map[string]interface{}{"width": 5, "height": 5}},
		{"fractional width", map[string]interface{}{"width": 12.5}},
		{"negative height", map[string]interface{}{"height": -1}},
		{"width as string", map[string]interface{}{"width": "wide"}},
		{"grid too wide", map[string]interface{}{"width": 4000000, "height": 5}},
		{"grid too tall", map[string]interface{}{"height": 65}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.CreateGame(context.Background(), mustStruct(t, tt.req))
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func TestSubmitAction_BuildFlow(t *testing.T) {
	client := setupTestServer(t, 10)
	gameID := createGame(t, client)

	resp, err := submit(t, client, gameID, map[string]interface{}{"type": "select_tile", "at": xy(7, 1)})
	require.NoError(t, err)
	assert.True(t, field(t, resp, "applied").GetBoolValue())
	assert.Equal(t, 7, number(t, resp, "state", "selection", "tile", "x"))

	resp, err = submit(t, client, gameID, map[string]interface{}{"type": "build", "kind": "farm"})
	require.NoError(t, err)
	assert.Equal(t, 4, number(t, resp, "state", "factions", "human", "coins"))
	assert.Equal(t, "build farm", field(t, resp, "action").GetStringValue())

	farms := 0
	for _, b := range field(t, resp, "state", "buildings").GetListValue().GetValues() {
		fields := b.GetStructValue().GetFields()
		if fields["kind"].GetStringValue() == "farm" && fields["owner"].GetStringValue() == "human" {
			farms++
		}
	}
	assert.Equal(t, 2, farms)
}

func TestSubmitAction_SelectUnitListsLegalMoves(t *testing.T) {
	client := setupTestServer(t, 10)
	gameID := createGame(t, client)

	resp, err := submit(t, client, gameID, map[string]interface{}{"type": "select_unit", "at": xy(5, 5)})
	require.NoError(t, err)
	assert.NotEmpty(t, field(t, resp, "state", "selection", "unit_id").GetStringValue())
	assert.Len(t, field(t, resp, "state", "selection", "moves").GetListValue().GetValues(), 22)

	resp, err = submit(t, client, gameID, map[string]interface{}{"type": "move", "to": xy(6, 6)})
	require.NoError(t, err)
	units := field(t, resp, "state", "units").GetListValue().GetValues()
	require.Len(t, units, 1)
	pos := units[0].GetStructValue().GetFields()["pos"].GetStructValue()
	assert.Equal(t, 6, int(pos.GetFields()["x"].GetNumberValue()))
	assert.Equal(t, 6, int(pos.GetFields()["y"].GetNumberValue()))
}

func TestSubmitAction_Errors(t *testing.T) {
	client := setupTestServer(t, 10)
	gameID := createGame(t, client)

	tests := []struct {
		name string
		req  map[string]interface{}
		code codes.Code
	}{
		{"unknown game", map[string]interface{}{"game_id": "nope", "action": map[string]interface{}{"type": "recruit"}}, codes.NotFound},
		{"missing game id", map[string]interface{}{"action": map[string]interface{}{"type": "recruit"}}, codes.InvalidArgument},
		{"missing action", map[string]interface{}{"game_id": gameID}, codes.InvalidArgument},
		{"unknown action type", map[string]interface{}{"game_id": gameID, "action": map[string]interface{}{"type": "fly"}}, codes.InvalidArgument},
		{"unknown building kind", map[string]interface{}{"game_id": gameID, "action": map[string]interface{}{"type": "build", "kind": "castle"}}, codes.InvalidArgument},
		{"missing coordinate", map[string]interface{}{"game_id": gameID, "action": map[string]interface{}{"type": "move"}}, codes.InvalidArgument},
		{"build without selection", map[string]interface{}{"game_id": gameID, "action": map[string]interface{}{"type": "build", "kind": "farm"}}, codes.FailedPrecondition},
		{"move without unit", map[string]interface{}{"game_id": gameID, "action": map[string]interface{}{"type": "move", "to": xy(6, 6)}}, codes.FailedPrecondition},
		{"select off board", map[string]interface{}{"game_id": gameID, "action": map[string]interface{}{"type": "select_tile", "at": xy(-1, 0)}}, codes.FailedPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.SubmitAction(context.Background(), mustStruct(t, tt.req))
			assert.Equal(t, tt.code, status.Code(err), "error: %v", err)
		})
	}

	// Nothing above changed the session
	state, err := client.GetGameState(context.Background(), mustStruct(t, map[string]interface{}{"game_id": gameID}))
	require.NoError(t, err)
	assert.Equal(t, 10, number(t, state, "state", "factions", "human", "coins"))
}

func TestEndTurn(t *testing.T) {
	client := setupTestServer(t, 10)
	gameID := createGame(t, client)

	resp, err := client.EndTurn(context.Background(), mustStruct(t, map[string]interface{}{"game_id": gameID}))
	require.NoError(t, err)
	assert.Equal(t, 1, number(t, resp, "ended_turn"))
	assert.Equal(t, 2, number(t, resp, "state", "turn"))
	assert.Equal(t, "human", field(t, resp, "state", "current").GetStringValue())
	assert.Equal(t, "HumanTurn", field(t, resp, "state", "phase").GetStringValue())
	assert.NotContains(t, field(t, resp, "state", "factions", "ai").GetStructValue().GetFields(), "coins")

	// end_turn is also accepted as a submitted action
	resp, err = submit(t, client, gameID, map[string]interface{}{"type": "end_turn"})
	require.NoError(t, err)
	assert.Equal(t, 3, number(t, resp, "state", "turn"))
}

func TestEndTurn_UntilDefeat(t *testing.T) {
	client := setupTestServer(t, 10)
	gameID := createGame(t, client)
	req := mustStruct(t, map[string]interface{}{"game_id": gameID})

	var last *structpb.Struct
	for i := 0; i < 22; i++ {
		resp, err := client.EndTurn(context.Background(), req)
		require.NoError(t, err, "turn %d", i+1)
		last = resp
	}
	assert.Equal(t, "lose", field(t, last, "state", "outcome").GetStringValue())
	assert.Equal(t, "Ended", field(t, last, "state", "phase").GetStringValue())

	_, err := client.EndTurn(context.Background(), req)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = submit(t, client, gameID, map[string]interface{}{"type": "recruit"})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestDeleteGame(t *testing.T) {
	client := setupTestServer(t, 10)
	gameID := createGame(t, client)
	req := mustStruct(t, map[string]interface{}{"game_id": gameID})

	resp, err := client.DeleteGame(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, field(t, resp, "deleted").GetBoolValue())

	_, err = client.GetGameState(context.Background(), req)
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.DeleteGame(context.Background(), req)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestCreateGame_ResourceExhausted(t *testing.T) {
	client := setupTestServer(t, 1)
	createGame(t, client)

	_, err := client.CreateGame(context.Background(), mustStruct(t, nil))
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
}
