package gamemanager

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/triviago-api/internal/domain/entity"
)

// ----- Моки репозиториев -----

type MockGameRepo struct {
	mock.Mock
}

func (m *MockGameRepo) Create(game *entity.GameSession) error {
	args := m.Called(game)
	return args.Error(0)
}

func (m *MockGameRepo) GetByGameID(gameID string) (*entity.GameSession, error) {
	args := m.Called(gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GameSession), args.Error(1)
}

func (m *MockGameRepo) ListOpen() ([]entity.GameSession, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.GameSession), args.Error(1)
}

func (m *MockGameRepo) ListUnrecordedFinished() ([]entity.GameSession, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.GameSession), args.Error(1)
}

func (m *MockGameRepo) UpdateWithVersion(game *entity.GameSession) error {
	args := m.Called(game)
	return args.Error(0)
}

type MockQuestionRepo struct {
	mock.Mock
}

func (m *MockQuestionRepo) Create(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepo) CreateBatch(questions []entity.Question) error {
	args := m.Called(questions)
	return args.Error(0)
}

func (m *MockQuestionRepo) GetByID(id uint) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) Find(categories, difficulties []string) ([]entity.Question, error) {
	args := m.Called(categories, difficulties)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) UpdateLastLogin(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepo) ApplyGameResult(userID uint, points int64, won bool) error {
	args := m.Called(userID, points, won)
	return args.Error(0)
}

func (m *MockUserRepo) UpdateFastestAnswer(userID uint, seconds float64) error {
	args := m.Called(userID, seconds)
	return args.Error(0)
}

func (m *MockUserRepo) GetLeaderboard(limit, offset int) ([]entity.User, int64, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.User), args.Get(1).(int64), args.Error(2)
}

type MockCacheRepo struct {
	mock.Mock
}

func (m *MockCacheRepo) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepo) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepo) Increment(key string) (int64, error) {
	args := m.Called(key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheRepo) Exists(key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepo) SetNX(key string, value interface{}, expiration time.Duration) (bool, error) {
	args := m.Called(key, value, expiration)
	return args.Bool(0), args.Error(1)
}

type MockEventSink struct {
	mock.Mock
}

func (m *MockEventSink) BroadcastToGame(gameID string, eventType string, data interface{}) error {
	args := m.Called(gameID, eventType, data)
	return args.Error(0)
}

// fixedRand всегда возвращает одно и то же значение — для детерминизма тестов
type fixedRand struct {
	value int
}

func (r fixedRand) Intn(n int) int {
	if r.value >= n {
		return n - 1
	}
	return r.value
}
