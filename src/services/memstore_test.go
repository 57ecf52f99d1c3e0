package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skillhands/skillhands-backend/src/models"
)

// memStore is an in-memory Store for the service tests. It mirrors the
// MongoDB repository's observable behavior, including the upsert semantics
// the rating and notification services rely on.
type memStore struct {
	mu            sync.Mutex
	users         map[primitive.ObjectID]*models.User
	posts         map[primitive.ObjectID]*models.Post
	ratings       map[primitive.ObjectID]*models.Rating
	notifications map[primitive.ObjectID]*models.Notification
	messages      []*models.Message
}

func newMemStore() *memStore {
	return &memStore{
		users:         make(map[primitive.ObjectID]*models.User),
		posts:         make(map[primitive.ObjectID]*models.Post),
		ratings:       make(map[primitive.ObjectID]*models.Rating),
		notifications: make(map[primitive.ObjectID]*models.Notification),
	}
}

var _ Store = (*memStore)(nil)

func (m *memStore) addUser(name string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{
		Id:            primitive.NewObjectID(),
		Name:          name,
		OverallRating: models.ZeroOverallRating(),
	}
	m.users[u.Id] = u
	return u
}

func (m *memStore) addPost(owner primitive.ObjectID, title string) *models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &models.Post{
		Id:     primitive.NewObjectID(),
		Title:  title,
		UserId: owner,
	}
	m.posts[p.Id] = p
	return p
}

func (m *memStore) FindUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memStore) UserDisplay(ctx context.Context, id primitive.ObjectID) (*models.UserDto, error) {
	u, err := m.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := u.Dto()
	return &dto, nil
}

func (m *memStore) AddRequestEdge(ctx context.Context, sender, recipient primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[sender].RequestsSent = addID(m.users[sender].RequestsSent, recipient)
	m.users[recipient].RequestsRecv = addID(m.users[recipient].RequestsRecv, sender)
	return nil
}

func (m *memStore) PullRequestEdge(ctx context.Context, sender, recipient primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[sender].RequestsSent = removeID(m.users[sender].RequestsSent, recipient)
	m.users[recipient].RequestsRecv = removeID(m.users[recipient].RequestsRecv, sender)
	return nil
}

func (m *memStore) AddFollowEdge(ctx context.Context, follower, followed primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[follower].Following = addID(m.users[follower].Following, followed)
	m.users[followed].Followers = addID(m.users[followed].Followers, follower)
	return nil
}

func (m *memStore) RemoveFollowEdge(ctx context.Context, follower, followed primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[follower].Following = removeID(m.users[follower].Following, followed)
	m.users[followed].Followers = removeID(m.users[followed].Followers, follower)
	return nil
}

func (m *memStore) SetOverallRating(ctx context.Context, userID primitive.ObjectID, rating models.OverallRating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.OverallRating = rating
	return nil
}

func (m *memStore) FindPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *memStore) PostPreview(ctx context.Context, id primitive.ObjectID) (*models.PostPreview, error) {
	p, err := m.FindPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.PostPreview{ID: p.Id, Title: p.Title}, nil
}

func (m *memStore) SetAverageRating(ctx context.Context, postID primitive.ObjectID, average float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok {
		return ErrNotFound
	}
	p.AverageRating = average
	return nil
}

func (m *memStore) UpsertRating(ctx context.Context, rating *models.Rating) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, existing := range m.ratings {
		if existing.PostId == rating.PostId && existing.ReviewerId == rating.ReviewerId {
			existing.Value = rating.Value
			existing.Feedback = rating.Feedback
			existing.UpdatedAt = now
			*rating = *existing
			return false, nil
		}
	}
	rating.Id = primitive.NewObjectID()
	rating.CreatedAt = now
	rating.UpdatedAt = now
	stored := *rating
	m.ratings[rating.Id] = &stored
	return true, nil
}

func (m *memStore) PostStats(ctx context.Context, postID primitive.ObjectID) (models.PostRatingStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stats models.PostRatingStats
	sum := 0
	for _, r := range m.ratings {
		if r.PostId == postID {
			stats.Count++
			sum += r.Value
		}
	}
	if stats.Count > 0 {
		stats.Average = float64(sum) / float64(stats.Count)
	}
	return stats, nil
}

func (m *memStore) OwnerStats(ctx context.Context, ownerID primitive.ObjectID) (models.OwnerRatingStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stats models.OwnerRatingStats
	for _, r := range m.ratings {
		if r.OwnerId != ownerID {
			continue
		}
		stats.TotalRatings++
		stats.Sum += r.Value
		if r.Feedback != "" {
			stats.TotalReviews++
		}
		switch r.Value {
		case 1:
			stats.Count1++
		case 2:
			stats.Count2++
		case 3:
			stats.Count3++
		case 4:
			stats.Count4++
		case 5:
			stats.Count5++
		}
	}
	return stats, nil
}

func (m *memStore) DeleteRatingsByPost(ctx context.Context, postID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.ratings {
		if r.PostId == postID {
			delete(m.ratings, id)
		}
	}
	return nil
}

func (m *memStore) InsertNotification(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *n
	m.notifications[n.Id] = &stored
	return nil
}

func (m *memStore) UpsertNotification(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.notifications {
		if existing.RecipientId == n.RecipientId && existing.SenderId == n.SenderId &&
			existing.Type == n.Type && existing.PostId == n.PostId {
			existing.Read = false
			existing.CreatedAt = n.CreatedAt
			existing.UpdatedAt = n.UpdatedAt
			copied := *existing
			return &copied, nil
		}
	}
	n.Id = primitive.NewObjectID()
	stored := *n
	m.notifications[n.Id] = &stored
	return n, nil
}

func (m *memStore) DeleteConnectRequest(ctx context.Context, recipient, sender primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, n := range m.notifications {
		if n.RecipientId == recipient && n.SenderId == sender && n.Type == models.NotificationTypeConnectRequest {
			delete(m.notifications, id)
		}
	}
	return nil
}

func (m *memStore) DeleteNotificationsByPost(ctx context.Context, postID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, n := range m.notifications {
		if n.PostId == postID {
			delete(m.notifications, id)
		}
	}
	return nil
}

func (m *memStore) ListNotifications(ctx context.Context, recipient primitive.ObjectID, limit int64) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Notification{}
	for _, n := range m.notifications {
		if n.RecipientId == recipient {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) MarkNotificationsRead(ctx context.Context, recipient primitive.ObjectID, ids []primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var modified int64
	for _, id := range ids {
		n, ok := m.notifications[id]
		if ok && n.RecipientId == recipient && !n.Read {
			n.Read = true
			modified++
		}
	}
	return modified, nil
}

func (m *memStore) InsertMessage(ctx context.Context, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *msg
	m.messages = append(m.messages, &stored)
	return nil
}

func (m *memStore) Conversation(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Message{}
	for _, msg := range m.messages {
		if (msg.SenderId == a && msg.ReceiverId == b) || (msg.SenderId == b && msg.ReceiverId == a) {
			out = append(out, *msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) MarkMessagesRead(ctx context.Context, reader, from primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.SenderId == from && msg.ReceiverId == reader {
			msg.Read = true
		}
	}
	return nil
}

// countNotifications reports how many stored notifications match the filter.
func (m *memStore) countNotifications(recipient primitive.ObjectID, typ models.NotificationType) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, n := range m.notifications {
		if n.RecipientId == recipient && n.Type == typ {
			count++
		}
	}
	return count
}

func addID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, candidate := range ids {
		if candidate == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}

// recordingHub captures pushes for assertions.
type recordingHub struct {
	mu     sync.Mutex
	pushes []recordedPush
}

type recordedPush struct {
	UserID  primitive.ObjectID
	Event   string
	Payload interface{}
}

func (h *recordingHub) Push(userID primitive.ObjectID, event string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pushes = append(h.pushes, recordedPush{UserID: userID, Event: event, Payload: payload})
}
