package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/yourusername/triviago-api/internal/domain/entity"
	"github.com/yourusername/triviago-api/internal/domain/repository"
	apperrors "github.com/yourusername/triviago-api/internal/pkg/errors"
	"github.com/yourusername/triviago-api/internal/service/gamemanager"
)

const (
	minPlayersPerGame = 2
	maxPlayersPerGame = 8
)

// GameService управляет жизненным циклом игровых сессий: создание, состав
// участников, запуск и обработка ходов. Сами ходы делегируются TurnProcessor.
type GameService struct {
	gameRepo      repository.GameRepository
	userRepo      repository.UserRepository
	turnProcessor *gamemanager.TurnProcessor
	config        *gamemanager.Config
	rand          gamemanager.Rand
	events        gamemanager.EventSink

	// Размер комнаты для сессий, созданных без max_players
	defaultMaxPlayers int
}

// NewGameService создает новый сервис игровых сессий
func NewGameService(
	gameRepo repository.GameRepository,
	userRepo repository.UserRepository,
	turnProcessor *gamemanager.TurnProcessor,
	config *gamemanager.Config,
	rand gamemanager.Rand,
	events gamemanager.EventSink,
	defaultMaxPlayers int,
) *GameService {
	if defaultMaxPlayers <= 0 {
		defaultMaxPlayers = entity.DefaultMaxPlayers
	}
	return &GameService{
		gameRepo:          gameRepo,
		userRepo:          userRepo,
		turnProcessor:     turnProcessor,
		config:            config,
		rand:              rand,
		events:            events,
		defaultMaxPlayers: defaultMaxPlayers,
	}
}

// CreateGameInput содержит параметры новой сессии. Нулевые значения
// заменяются значениями по умолчанию.
type CreateGameInput struct {
	MaxPlayers  int
	BoardConfig *entity.BoardConfig
	Filters     entity.QuestionFilters
}

// CreateGame создает новую сессию в статусе waiting. Создатель сразу
// становится первым участником.
func (s *GameService) CreateGame(creatorID uint, input CreateGameInput) (*entity.GameSession, error) {
	creator, err := s.userRepo.GetByID(creatorID)
	if err != nil {
		return nil, err
	}

	maxPlayers := input.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = s.defaultMaxPlayers
	}
	if maxPlayers < minPlayersPerGame || maxPlayers > maxPlayersPerGame {
		return nil, fmt.Errorf("%w: max_players must be between %d and %d", apperrors.ErrValidation, minPlayersPerGame, maxPlayersPerGame)
	}

	board := entity.DefaultBoardConfig()
	if input.BoardConfig != nil {
		board = *input.BoardConfig
	}
	if err := board.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	game := &entity.GameSession{
		GameID:          uuid.NewString(),
		CreatorID:       creatorID,
		Status:          entity.GameStatusWaiting,
		BoardConfig:     board,
		QuestionFilters: input.Filters,
		MaxPlayers:      maxPlayers,
		Players: entity.PlayerList{
			{
				UserID:   creator.ID,
				Username: creator.Username,
				Color:    gamemanager.RandomColor(s.rand),
			},
		},
	}

	if err := s.gameRepo.Create(game); err != nil {
		return nil, err
	}

	log.Printf("[GameService] Пользователь #%d создал игру %s (до %d игроков)", creatorID, game.GameID, maxPlayers)
	return game, nil
}

// JoinGame добавляет пользователя в сессию. Повторное присоединение,
// заполненная комната и уже стартовавшая игра отклоняются как конфликт.
// Добавление выполняется через версионированную запись: при гонке за
// последнее место выигрывает ровно один из конкурентов.
func (s *GameService) JoinGame(gameID string, userID uint) (*entity.GameSession, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < s.config.MaxUpdateAttempts; attempt++ {
		game, err := s.gameRepo.GetByGameID(gameID)
		if err != nil {
			return nil, err
		}

		player := entity.PlayerInGame{
			UserID:   user.ID,
			Username: user.Username,
			Color:    gamemanager.RandomColor(s.rand),
		}
		// Любой отказ состава (дубликат, заполненность, статус) — конфликт
		// состояния комнаты
		if err := game.AddPlayer(player); err != nil {
			return nil, fmt.Errorf("%w: game %s: %v", apperrors.ErrConflict, gameID, err)
		}

		err = s.gameRepo.UpdateWithVersion(game)
		if err == nil {
			log.Printf("[GameService] Пользователь #%d присоединился к игре %s (%d/%d)", userID, gameID, len(game.Players), game.MaxPlayers)
			s.notifyPlayerJoined(game, player)
			return game, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: game %s update contention, retry later", apperrors.ErrConflict, gameID)
}

// notifyPlayerJoined рассылает событие подключения нового игрока подписчикам
// комнаты. Ошибка доставки не влияет на результат присоединения.
func (s *GameService) notifyPlayerJoined(game *entity.GameSession, player entity.PlayerInGame) {
	if s.events == nil {
		return
	}
	err := s.events.BroadcastToGame(game.GameID, "game:player_joined", map[string]interface{}{
		"game_id":      game.GameID,
		"user_id":      player.UserID,
		"username":     player.Username,
		"color":        player.Color,
		"player_count": len(game.Players),
		"max_players":  game.MaxPlayers,
	})
	if err != nil {
		log.Printf("[GameService] Не удалось разослать game:player_joined для игры %s: %v", game.GameID, err)
	}
}

// GetGame возвращает сессию по ее публичному идентификатору
func (s *GameService) GetGame(gameID string) (*entity.GameSession, error) {
	return s.gameRepo.GetByGameID(gameID)
}

// ListOpenGames возвращает сессии, к которым можно присоединиться или
// за которыми можно наблюдать (waiting и active)
func (s *GameService) ListOpenGames() ([]entity.GameSession, error) {
	return s.gameRepo.ListOpen()
}

// StartGame выдает первый вопрос и переводит сессию в active
func (s *GameService) StartGame(ctx context.Context, gameID string, userID uint) (*entity.GameSession, error) {
	return s.turnProcessor.StartGame(ctx, gameID, userID)
}

// PlayTurn обрабатывает ответ игрока на вопрос
func (s *GameService) PlayTurn(ctx context.Context, gameID string, userID uint, questionID uint, answer string) (*gamemanager.TurnResult, error) {
	return s.turnProcessor.ProcessTurn(ctx, gameID, userID, questionID, answer)
}
