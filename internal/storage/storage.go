package storage

import (
	"context"
	"errors"
	"log"

	"collabgo/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Storage is the persistence surface the rest of the backend depends on.
// PostgreSQL (via GORM) holds the durable entities; Redis holds the
// ephemeral per-project presence sets and carries the cross-node message
// relay.
type Storage interface {
	SaveUser(user *models.User) error
	FindUserByID(id string) (*models.User, error)
	FindUserByEmail(email string) (*models.User, error)

	SaveProject(project *models.Project) error
	FindProjectByID(id string) (*models.Project, error)
	FindProjectIDsByMember(userID string) ([]string, error)

	AppendMessage(msg *models.Message) error
	ListRecentMessages(projectID string, limit, offset int) ([]models.Message, error)

	SaveTask(task *models.Task) error
	ListTasksByProject(projectID string) ([]models.Task, error)
	UpdateTaskStatus(taskID, status string) (*models.Task, error)

	CreateNotification(n *models.Notification) error
	ListNotificationsForUser(userID string) ([]models.Notification, error)
	MarkNotificationRead(id string) error

	AddOnlineUser(projectID, userID string) error
	RemoveOnlineUser(projectID, userID string) error
	GetOnlineUsers(projectID string) ([]string, error)

	PublishMessage(projectID string, payload []byte) error
}

// ErrNotFound is returned when a looked-up entity does not exist.
var ErrNotFound = errors.New("not found")

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// SaveUser persists the user in PostgreSQL.
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// FindUserByID loads a user by primary key. Returns ErrNotFound if the
// account no longer exists.
func (s *Service) FindUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveProject persists the project in PostgreSQL.
func (s *Service) SaveProject(project *models.Project) error {
	return s.DB.Save(project).Error
}

func (s *Service) FindProjectByID(id string) (*models.Project, error) {
	var project models.Project
	err := s.DB.First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindProjectIDsByMember returns the IDs of every project whose member set
// contains the given user. An empty slice (not an error) means the user
// belongs to no projects.
func (s *Service) FindProjectIDsByMember(userID string) ([]string, error) {
	var ids []string
	if err := s.DB.Model(&models.Project{}).
		Where("? = ANY(members)", userID).
		Pluck("id", &ids).Error; err != nil {
		log.Printf("ERROR: Failed to find projects for member %s: %v", userID, err)
		return nil, err
	}
	return ids, nil
}

// AppendMessage persists a chat message. GORM fills ID (BeforeCreate hook)
// and CreatedAt atomically with the insert; callers must treat both as
// store-assigned.
func (s *Service) AppendMessage(msg *models.Message) error {
	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message for project %s: %v", msg.ProjectID, err)
		return err
	}
	return nil
}

// ListRecentMessages returns one page of a project's history, oldest to
// newest. Offset counts backwards from the newest message, so offset 0 is
// the latest page and growing offsets walk into older history.
func (s *Service) ListRecentMessages(projectID string, limit, offset int) ([]models.Message, error) {
	var msgs []models.Message
	err := s.DB.Model(&models.Message{}).
		Select("messages.*, users.name AS sender_name").
		Joins("LEFT JOIN users ON users.id = messages.sender_id").
		Where("messages.project_id = ?", projectID).
		Order("messages.created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&msgs).Error
	if err != nil {
		log.Printf("ERROR: Failed to get messages for project %s: %v", projectID, err)
		return nil, err
	}
	// Newest-first from the query; the caller wants chronological order.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// SaveTask persists the task in PostgreSQL.
func (s *Service) SaveTask(task *models.Task) error {
	return s.DB.Save(task).Error
}

func (s *Service) ListTasksByProject(projectID string) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.DB.Where("project_id = ?", projectID).
		Order("created_at asc").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateTaskStatus moves a task to another board column and returns the
// updated record. This is the confirming write behind optimistic
// drag-and-drop on the board.
func (s *Service) UpdateTaskStatus(taskID, status string) (*models.Task, error) {
	if !models.IsValidStatus(status) {
		return nil, errors.New("invalid task status: " + status)
	}

	var task models.Task
	err := s.DB.First(&task, "id = ?", taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	task.Status = status
	if err := s.DB.Save(&task).Error; err != nil {
		log.Printf("ERROR: Failed to update status of task %s: %v", taskID, err)
		return nil, err
	}
	return &task, nil
}

func (s *Service) CreateNotification(n *models.Notification) error {
	if err := s.DB.Create(n).Error; err != nil {
		log.Printf("ERROR: Failed to create notification for %s: %v", n.RecipientID, err)
		return err
	}
	return nil
}

func (s *Service) ListNotificationsForUser(userID string) ([]models.Notification, error) {
	var ns []models.Notification
	if err := s.DB.Where("recipient_id = ?", userID).
		Order("created_at desc").
		Find(&ns).Error; err != nil {
		return nil, err
	}
	return ns, nil
}

func (s *Service) MarkNotificationRead(id string) error {
	return s.DB.Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true).Error
}
