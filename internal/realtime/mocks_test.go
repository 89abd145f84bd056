package realtime_test

import (
	"collabgo/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a mock implementation of the storage.Storage interface.
// It uses testify/mock to allow flexible expectation setting in tests.
type MockStorage struct {
	mock.Mock
}

// User operations
func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) FindUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) FindUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Project operations
func (m *MockStorage) SaveProject(project *models.Project) error {
	args := m.Called(project)
	return args.Error(0)
}

func (m *MockStorage) FindProjectByID(id string) (*models.Project, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockStorage) FindProjectIDsByMember(userID string) ([]string, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// Message operations
func (m *MockStorage) AppendMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) ListRecentMessages(projectID string, limit, offset int) ([]models.Message, error) {
	args := m.Called(projectID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

// Task operations
func (m *MockStorage) SaveTask(task *models.Task) error {
	args := m.Called(task)
	return args.Error(0)
}

func (m *MockStorage) ListTasksByProject(projectID string) ([]models.Task, error) {
	args := m.Called(projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Task), args.Error(1)
}

func (m *MockStorage) UpdateTaskStatus(taskID, status string) (*models.Task, error) {
	args := m.Called(taskID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

// Notification operations
func (m *MockStorage) CreateNotification(n *models.Notification) error {
	args := m.Called(n)
	return args.Error(0)
}

func (m *MockStorage) ListNotificationsForUser(userID string) ([]models.Notification, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockStorage) MarkNotificationRead(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// Presence and relay operations
func (m *MockStorage) AddOnlineUser(projectID, userID string) error {
	args := m.Called(projectID, userID)
	return args.Error(0)
}

func (m *MockStorage) RemoveOnlineUser(projectID, userID string) error {
	args := m.Called(projectID, userID)
	return args.Error(0)
}

func (m *MockStorage) GetOnlineUsers(projectID string) ([]string, error) {
	args := m.Called(projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStorage) PublishMessage(projectID string, payload []byte) error {
	args := m.Called(projectID, payload)
	return args.Error(0)
}
