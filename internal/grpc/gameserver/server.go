package gameserver

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	gameengine "github.com/mitchelldurbincs/solarbloom/internal/game"
)

// Server implements the GameService gRPC server
type Server struct {
	UnimplementedGameServiceServer

	// Game manager for handling all sessions
	gameManager *GameManager
	logger      zerolog.Logger
}

// NewServer creates a new game server backed by gm
func NewServer(gm *GameManager, logger zerolog.Logger) *Server {
	return &Server{
		gameManager: gm,
		logger:      logger.With().Str("component", "GameServer").Logger(),
	}
}

// Manager returns the session manager behind the server
func (s *Server) Manager() *GameManager { return s.gameManager }

// lookup resolves the game_id field of req
func (s *Server) lookup(req *structpb.Struct) (*gameInstance, error) {
	gameID, err := stringField(req, "game_id")
	if err != nil {
		return nil, toStatus(err)
	}
	game, exists := s.gameManager.GetGame(gameID)
	if !exists {
		return nil, status.Errorf(codes.NotFound, "game %s not found", gameID)
	}
	return game, nil
}

// respond builds {"game_id", "state", ...extra} from the session engine.
// Caller holds the session lock.
func respond(e *gameengine.Engine, extra map[string]interface{}) (*structpb.Struct, error) {
	m := map[string]interface{}{
		"game_id": e.GameID(),
		"state":   stateMap(e),
	}
	for k, v := range extra {
		m[k] = v
	}
	return newStruct(m)
}

// CreateGame creates a new session. Optional fields: width, height.
func (s *Server) CreateGame(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	width, err := optionalInt(req, "width")
	if err != nil {
		return nil, toStatus(err)
	}
	height, err := optionalInt(req, "height")
	if err != nil {
		return nil, toStatus(err)
	}

	game, err := s.gameManager.CreateGame(ctx, CreateOptions{Width: width, Height: height})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to create game")
		return nil, toStatus(err)
	}

	s.logger.Info().Str("game_id", game.id).Msg("Created game")

	var resp *structpb.Struct
	err = game.withEngine(func(e *gameengine.Engine) error {
		var err error
		resp, err = respond(e, nil)
		return err
	})
	return resp, err
}

// GetGameState returns the human-visible state of a session
func (s *Server) GetGameState(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	game, err := s.lookup(req)
	if err != nil {
		return nil, err
	}

	var resp *structpb.Struct
	err = game.withEngine(func(e *gameengine.Engine) error {
		var err error
		resp, err = respond(e, nil)
		return err
	})
	return resp, err
}

// SubmitAction applies one command. Fields: game_id, action, and an optional
// idempotency_key whose successful response is replayed on retry.
func (s *Server) SubmitAction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	game, err := s.lookup(req)
	if err != nil {
		return nil, err
	}
	key, err := optionalString(req, "idempotency_key")
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Debug().
		Str("game_id", game.id).
		Str("idempotency_key", key).
		Msg("Received action submission")

	actionValue, ok := req.GetFields()["action"]
	if !ok || actionValue.GetStructValue() == nil {
		return nil, toStatus(invalidf("field %q must be an object", "action"))
	}
	action, err := actionFromStruct(actionValue.GetStructValue())
	if err != nil {
		return nil, toStatus(err)
	}

	var resp *structpb.Struct
	err = game.withEngine(func(e *gameengine.Engine) error {
		if cached := game.idempotency.Check(key); cached != nil {
			s.logger.Debug().Str("game_id", game.id).Str("idempotency_key", key).Msg("Returning cached response")
			resp = cached
			return nil
		}

		result, err := game.apply(ctx, action)
		if err != nil {
			return err
		}

		resp, err = respond(e, map[string]interface{}{
			"applied": result.Applied,
			"action":  action.String(),
		})
		if err != nil {
			return err
		}
		game.idempotency.Store(key, resp)
		return nil
	})
	if err != nil {
		s.logger.Debug().Err(err).Str("game_id", game.id).Msg("Action rejected")
		return nil, toStatus(err)
	}
	return resp, nil
}

// EndTurn closes the human turn, runs the opponent and reports the new state
func (s *Server) EndTurn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	game, err := s.lookup(req)
	if err != nil {
		return nil, err
	}

	var resp *structpb.Struct
	err = game.withEngine(func(e *gameengine.Engine) error {
		endedTurn := e.Turn()
		if err := e.EndTurnAndRunAI(ctx); err != nil {
			return fmt.Errorf("game %s: %w", game.id, err)
		}
		s.logger.Debug().
			Str("game_id", game.id).
			Int("ended_turn", endedTurn).
			Str("outcome", e.Outcome().String()).
			Msg("Turn processed")

		var err error
		resp, err = respond(e, map[string]interface{}{"ended_turn": endedTurn})
		return err
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return resp, nil
}

// DeleteGame removes a session
func (s *Server) DeleteGame(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	gameID, err := stringField(req, "game_id")
	if err != nil {
		return nil, toStatus(err)
	}
	if !s.gameManager.DeleteGame(gameID) {
		return nil, toStatus(fmt.Errorf("%w: %s", ErrGameNotFound, gameID))
	}
	return newStruct(map[string]interface{}{"game_id": gameID, "deleted": true})
}
