package service

import (
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/triviago-api/internal/domain/entity"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepository) ApplyGameResult(userID uint, points int64, won bool) error {
	args := m.Called(userID, points, won)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateFastestAnswer(userID uint, seconds float64) error {
	args := m.Called(userID, seconds)
	return args.Error(0)
}

func (m *MockUserRepository) GetLeaderboard(limit, offset int) ([]entity.User, int64, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.User), args.Get(1).(int64), args.Error(2)
}

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepository) CreateBatch(questions []entity.Question) error {
	args := m.Called(questions)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(id uint) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) Find(categories, difficulties []string) ([]entity.Question, error) {
	args := m.Called(categories, difficulties)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) Create(game *entity.GameSession) error {
	args := m.Called(game)
	return args.Error(0)
}

func (m *MockGameRepository) GetByGameID(gameID string) (*entity.GameSession, error) {
	args := m.Called(gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GameSession), args.Error(1)
}

func (m *MockGameRepository) ListOpen() ([]entity.GameSession, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.GameSession), args.Error(1)
}

func (m *MockGameRepository) ListUnrecordedFinished() ([]entity.GameSession, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.GameSession), args.Error(1)
}

func (m *MockGameRepository) UpdateWithVersion(game *entity.GameSession) error {
	args := m.Called(game)
	return args.Error(0)
}

// seqRand возвращает заранее заданную последовательность значений
type seqRand struct {
	values []int
	pos    int
}

func (r *seqRand) Intn(n int) int {
	if r.pos >= len(r.values) {
		return 0
	}
	v := r.values[r.pos] % n
	r.pos++
	return v
}

type MockEventSink struct {
	mock.Mock
}

func (m *MockEventSink) BroadcastToGame(gameID string, eventType string, data interface{}) error {
	args := m.Called(gameID, eventType, data)
	return args.Error(0)
}
