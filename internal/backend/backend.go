package backend

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/samber/lo"

	"blouconnect/internal/core"
	"blouconnect/internal/registry"
	"blouconnect/internal/store"
)

// LocalUserID is the id every registered user gets: the mock backend only knows one device owner.
const LocalUserID = "u1"

const (
	loginDelay       = 1000 * time.Millisecond
	verifyOTPDelay   = 800 * time.Millisecond
	registerDelay    = 1000 * time.Millisecond
	getPostsDelay    = 500 * time.Millisecond
	createPostDelay  = 800 * time.Millisecond
	getChatsDelay    = 300 * time.Millisecond
	sendMessageDelay = 200 * time.Millisecond

	otpLength = 4
)

var callsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "blouconnect_backend_calls_total",
	Help: "The total number of mock backend calls",
}, []string{"operation"})

// Backend simulates the remote server of the app: every call waits a fixed latency
// and then succeeds against the store.
type Backend struct {
	Logger  *slog.Logger
	Store   core.Store
	Latency core.Latency

	// serializes read-modify-write cycles on the stored collections
	mu sync.Mutex

	registry *registry.Registry
}

func (b *Backend) Init(_ context.Context) error {
	b.Logger = b.Logger.With("component", "backend.Backend")
	b.registry = &registry.Registry{Store: b.Store}
	return nil
}

// Login accepts any phone number.
func (b *Backend) Login(ctx context.Context, phone string) (bool, error) {
	if err := b.wait(ctx, "login", loginDelay); err != nil {
		return false, err
	}

	b.Logger.Debug("OTP requested", "phone", phone)
	return true, nil
}

// VerifyOTP reports whether otp has the expected number of characters. The value is not checked.
func (b *Backend) VerifyOTP(ctx context.Context, otp string) (bool, error) {
	if err := b.wait(ctx, "verify_otp", verifyOTPDelay); err != nil {
		return false, err
	}

	return len([]rune(otp)) == otpLength, nil
}

// RegisterUser stores details as the current session under LocalUserID and seeds posts
// and chats for the user's village when the store has none yet.
func (b *Backend) RegisterUser(ctx context.Context, details core.User) (core.User, error) {
	if err := b.wait(ctx, "register_user", registerDelay); err != nil {
		return core.User{}, err
	}
	if !core.IsVillage(details.Village) {
		return core.User{}, fmt.Errorf("%w: %q", core.ErrUnknownVillage, details.Village)
	}

	user := details
	user.ID = LocalUserID
	user.IsOnline = true
	user.LastSeen = core.Millis(time.Now())
	if user.BlockedUsers == nil {
		user.BlockedUsers = []string{}
	}
	if user.ProfileViewers == nil {
		user.ProfileViewers = []core.ProfileViewer{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.saveUser(ctx, user); err != nil {
		return core.User{}, err
	}

	if err := b.seed(ctx, store.KeyPosts, func(now time.Time) any { return seedPosts(user.Village, now) }); err != nil {
		return core.User{}, err
	}
	if err := b.seed(ctx, store.KeyChats, func(now time.Time) any { return seedChats(user, now) }); err != nil {
		return core.User{}, err
	}

	b.Logger.Info("User registered", "name", user.FullName, "village", user.Village)
	return user, nil
}

// UpdateUser persists user as the current session.
func (b *Backend) UpdateUser(ctx context.Context, user core.User) (core.User, error) {
	callsCounter.WithLabelValues("update_user").Inc()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.saveUser(ctx, user); err != nil {
		return core.User{}, err
	}
	return user, nil
}

// CurrentUser returns nil when nobody is registered.
func (b *Backend) CurrentUser(ctx context.Context) (*core.User, error) {
	user, ok, err := store.Load[core.User](ctx, b.Store, store.KeyUser)
	if err != nil || !ok {
		return nil, err
	}
	return &user, nil
}

// GetPosts returns the stored posts, newest first, restricted to village unless it is empty.
func (b *Backend) GetPosts(ctx context.Context, village string) ([]core.Post, error) {
	if err := b.wait(ctx, "get_posts", getPostsDelay); err != nil {
		return nil, err
	}

	posts, err := store.LoadOr(ctx, b.Store, store.KeyPosts, []core.Post{})
	if err != nil {
		return nil, err
	}

	if village != "" {
		posts = lo.Filter(posts, func(p core.Post, _ int) bool { return p.Village == village })
	}

	slices.SortStableFunc(posts, func(a, b core.Post) int {
		return cmp.Compare(b.Timestamp, a.Timestamp)
	})
	return posts, nil
}

// CreatePost publishes draft as author and prepends it to the stored posts.
func (b *Backend) CreatePost(ctx context.Context, author core.User, draft core.PostDraft) (core.Post, error) {
	if err := b.wait(ctx, "create_post", createPostDelay); err != nil {
		return core.Post{}, err
	}

	post, err := NewPost(author, draft, time.Now())
	if err != nil {
		return core.Post{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	posts, err := store.LoadOr(ctx, b.Store, store.KeyPosts, []core.Post{})
	if err != nil {
		return core.Post{}, err
	}

	if err := store.Save(ctx, b.Store, store.KeyPosts, append([]core.Post{post}, posts...)); err != nil {
		return core.Post{}, err
	}
	return post, nil
}

func (b *Backend) GetChats(ctx context.Context) ([]core.Chat, error) {
	if err := b.wait(ctx, "get_chats", getChatsDelay); err != nil {
		return nil, err
	}

	return store.LoadOr(ctx, b.Store, store.KeyChats, []core.Chat{})
}

// GetMessages returns a fixed placeholder history. Messages sent through SendMessage are
// stored but not read back here.
func (b *Backend) GetMessages(_ context.Context, chatID string) ([]core.Message, error) {
	callsCounter.WithLabelValues("get_messages").Inc()

	b.Logger.Debug("Serving placeholder history", "chat", chatID)
	return placeholderMessages(time.Now()), nil
}

// SendMessage appends a message from the current user to the chat, makes it the chat's
// last message, resets its unread count and moves the chat to the front.
func (b *Backend) SendMessage(ctx context.Context, chatID string, content string, kind core.MessageType, duration int) (core.Message, error) {
	if err := b.wait(ctx, "send_message", sendMessageDelay); err != nil {
		return core.Message{}, err
	}
	if !kind.Valid() {
		return core.Message{}, fmt.Errorf("%w: message type %q", core.ErrInvalidInput, kind)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	chats, err := store.LoadOr(ctx, b.Store, store.KeyChats, []core.Chat{})
	if err != nil {
		return core.Message{}, err
	}

	chat, index, found := lo.FindIndexOf(chats, func(c core.Chat) bool { return c.ID == chatID })
	if !found {
		return core.Message{}, fmt.Errorf("%w: %s", core.ErrChatNotFound, chatID)
	}

	senderID := LocalUserID
	if current, _ := b.CurrentUser(ctx); current != nil {
		senderID = current.ID
	}

	msg := core.Message{
		ID:        core.NewID("msg"),
		SenderID:  senderID,
		Content:   content,
		Type:      kind,
		Timestamp: core.Millis(time.Now()),
		Status:    core.StatusSent,
		Duration:  duration,
	}

	messages, err := store.LoadOr(ctx, b.Store, store.KeyMessages, map[string][]core.Message{})
	if err != nil {
		return core.Message{}, err
	}
	messages[chatID] = append(messages[chatID], msg)
	if err := store.Save(ctx, b.Store, store.KeyMessages, messages); err != nil {
		return core.Message{}, err
	}

	chat.LastMessage = &msg
	chat.UnreadCount = 0
	chats = append([]core.Chat{chat}, slices.Delete(chats, index, index+1)...)

	if err := store.Save(ctx, b.Store, store.KeyChats, chats); err != nil {
		return core.Message{}, err
	}
	return msg, nil
}

func (b *Backend) GetTrending(_ context.Context) ([]core.TrendingTopic, error) {
	callsCounter.WithLabelValues("get_trending").Inc()
	return trendingTopics(), nil
}

// NewPost builds a post with fresh id, timestamp and zeroed counters. The village
// defaults to the author's.
func NewPost(author core.User, draft core.PostDraft, now time.Time) (core.Post, error) {
	village := lo.Ternary(draft.Village != "", draft.Village, author.Village)
	if !core.IsVillage(village) {
		return core.Post{}, fmt.Errorf("%w: %q", core.ErrUnknownVillage, village)
	}
	if !draft.Category.Valid() {
		return core.Post{}, fmt.Errorf("%w: category %q", core.ErrInvalidInput, draft.Category)
	}

	return core.Post{
		ID:           core.NewID("post"),
		UserID:       author.ID,
		User:         author,
		Village:      village,
		Content:      draft.Content,
		MediaURL:     draft.MediaURL,
		MediaType:    draft.MediaType,
		Category:     draft.Category,
		CommentsList: []core.Comment{},
		Timestamp:    core.Millis(now),
	}, nil
}

func (b *Backend) saveUser(ctx context.Context, user core.User) error {
	if err := store.Save(ctx, b.Store, store.KeyUser, user); err != nil {
		return err
	}
	return b.registry.Upsert(ctx, user)
}

func (b *Backend) seed(ctx context.Context, key string, generate func(time.Time) any) error {
	exists, err := store.Exists(ctx, b.Store, key)
	if err != nil || exists {
		return err
	}

	b.Logger.Info("Seeding", "key", key)
	return store.Save(ctx, b.Store, key, generate(time.Now()))
}

func (b *Backend) wait(ctx context.Context, operation string, d time.Duration) error {
	callsCounter.WithLabelValues(operation).Inc()
	return b.Latency.Wait(ctx, d)
}
