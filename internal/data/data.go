package data

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/samber/lo"

	"blouconnect/internal/core"
	"blouconnect/internal/registry"
	"blouconnect/internal/store"
)

const (
	supportDelay = 1000 * time.Millisecond

	// TrendingLikes is the like count a post needs to put its village on the trending list.
	TrendingLikes = 5
)

var mutationsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "blouconnect_data_mutations_total",
	Help: "The total number of persisted data mutations",
}, []string{"operation"})

// Service keeps posts, chats and messages in memory and writes the whole affected
// collection back to the store after every change. New posts and messages are
// created by the backend first and then added to the cache.
type Service struct {
	Logger   *slog.Logger
	Store    core.Store
	Auth     core.Session
	Backend  core.Backend
	Media    core.MediaStore
	Latency  core.Latency
	Migrator core.SchemaMigrator

	// writes serializes mutations, mu guards the cache swap
	writes   sync.Mutex
	mu       sync.RWMutex
	posts    []core.Post
	chats    []core.Chat
	messages map[string][]core.Message

	registry *registry.Registry
}

func (s *Service) Init(ctx context.Context) error {
	s.Logger = s.Logger.With("component", "data.Service")
	s.registry = &registry.Registry{Store: s.Store}

	if s.Migrator != nil {
		if err := s.Migrator.Up(ctx); err != nil {
			return err
		}
	}
	return s.Refresh(ctx)
}

// Refresh reloads the cache from the store, picking up writes made by other services.
func (s *Service) Refresh(ctx context.Context) error {
	s.writes.Lock()
	defer s.writes.Unlock()

	posts, err := store.LoadOr(ctx, s.Store, store.KeyPosts, []core.Post{})
	if err != nil {
		return err
	}
	chats, err := store.LoadOr(ctx, s.Store, store.KeyChats, []core.Chat{})
	if err != nil {
		return err
	}
	messages, err := store.LoadOr(ctx, s.Store, store.KeyMessages, map[string][]core.Message{})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = posts
	s.chats = chats
	s.messages = messages

	s.Logger.Debug("Cache hydrated", "posts", len(posts), "chats", len(chats), "conversations", len(messages))
	return nil
}

func (s *Service) SendSupportMessage(ctx context.Context, text string) error {
	user, err := s.currentUser(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: empty support message", core.ErrInvalidInput)
	}
	if err := s.Latency.Wait(ctx, supportDelay); err != nil {
		return err
	}

	s.Logger.Info("Support message sent", "user", user.ID, "text", text)
	return nil
}

func (s *Service) DarkMode(ctx context.Context) (bool, error) {
	return store.LoadOr(ctx, s.Store, store.KeyDarkMode, false)
}

func (s *Service) SetDarkMode(ctx context.Context, enabled bool) error {
	mutationsCounter.WithLabelValues("set_dark_mode").Inc()
	return store.Save(ctx, s.Store, store.KeyDarkMode, enabled)
}

func (s *Service) SearchUsers(ctx context.Context, query string) ([]core.User, error) {
	user, err := s.Auth.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	exclude := ""
	if user != nil {
		exclude = user.ID
	}
	return s.registry.Search(ctx, query, exclude)
}

func (s *Service) FindUserByPhone(ctx context.Context, phone string) (core.User, error) {
	return s.registry.FindByPhone(ctx, phone)
}

func (s *Service) currentUser(ctx context.Context) (core.User, error) {
	user, err := s.Auth.CurrentUser(ctx)
	if err != nil {
		return core.User{}, err
	}
	if user == nil {
		return core.User{}, core.ErrUnauthenticated
	}
	return *user, nil
}

func (s *Service) upload(ctx context.Context, file *core.Attachment) (string, error) {
	url, err := s.Media.Upload(ctx, file.Data, file.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload attachment: %w", err)
	}
	return url, nil
}

func byRecency[T any](timestamp func(T) int64) func(a, b T) int {
	return func(a, b T) int {
		return cmp.Compare(timestamp(b), timestamp(a))
	}
}

func sortPosts(posts []core.Post) {
	slices.SortStableFunc(posts, byRecency(func(p core.Post) int64 { return p.Timestamp }))
}

func sortChats(chats []core.Chat) {
	slices.SortStableFunc(chats, byRecency(core.Chat.LastActivity))
}

func notDeletedFor(userID string) func(deletedFor []string) bool {
	return func(deletedFor []string) bool {
		return !lo.Contains(deletedFor, userID)
	}
}
