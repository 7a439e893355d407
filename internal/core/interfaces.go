package core

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// Store is the persistent key-value store every entity collection lives in.
// Get returns nil, nil for a missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// SchemaMigrator upgrades the stored collections to the layout the services expect.
type SchemaMigrator interface {
	Version(ctx context.Context) (int, error)
	Up(ctx context.Context) error
}

type DB interface {
	Model(a any) *gorm.DB
	DB() (*sql.DB, error)
}

type DBMigrator interface {
	Up(ctx context.Context) error
	Down(ctx context.Context) error
}

// MediaStore keeps uploaded media. Upload returns the URL the media is served from and
// Open resolves such a URL back to its content.
type MediaStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
	Open(ref string) (Blob, error)
}

// Latency simulates network round trips.
type Latency interface {
	Wait(ctx context.Context, d time.Duration) error
}

// Backend is the simulated remote backend. Every call takes a fixed round trip and
// writes straight to the store.
type Backend interface {
	Login(ctx context.Context, phone string) (bool, error)
	VerifyOTP(ctx context.Context, otp string) (bool, error)
	RegisterUser(ctx context.Context, details User) (User, error)
	UpdateUser(ctx context.Context, user User) (User, error)
	CurrentUser(ctx context.Context) (*User, error)
	GetPosts(ctx context.Context, village string) ([]Post, error)
	CreatePost(ctx context.Context, author User, draft PostDraft) (Post, error)
	GetChats(ctx context.Context) ([]Chat, error)
	GetMessages(ctx context.Context, chatID string) ([]Message, error)
	SendMessage(ctx context.Context, chatID, content string, kind MessageType, duration int) (Message, error)
	GetTrending(ctx context.Context) ([]TrendingTopic, error)
}

// Session owns the signed-in user.
type Session interface {
	CurrentUser(ctx context.Context) (*User, error)
	Signup(ctx context.Context, details SignupDetails) (User, error)
	Login(ctx context.Context, phone, password string) (User, error)
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, patch ProfilePatch) (User, error)
	BlockUser(ctx context.Context, userID string) (User, error)
	UnblockUser(ctx context.Context, userID string) (User, error)
	RecordProfileView(ctx context.Context, viewedID string) error
	RecentViewers(ctx context.Context) ([]ProfileViewer, error)
}

type Feed interface {
	AddPost(ctx context.Context, draft PostDraft, file *Attachment) (Post, error)
	LikePost(ctx context.Context, postID string) (Post, error)
	ViewPost(ctx context.Context, postID string) (Post, error)
	AddComment(ctx context.Context, postID, text string) (Post, error)
	Post(ctx context.Context, postID string) (Post, error)
	Posts(ctx context.Context, filter PostFilter) ([]Post, error)
	TrendingVillages(ctx context.Context) ([]string, error)
	SearchVillages(ctx context.Context, query string) []string
	ProfileStats(ctx context.Context, userID string) (ProfileStats, error)
}

type Messenger interface {
	Chats(ctx context.Context, userID string) ([]Chat, error)
	Chat(ctx context.Context, chatID string) (Chat, error)
	GetMessages(ctx context.Context, chatID, userID string) ([]Message, error)
	SendMessage(ctx context.Context, chatID, content string, kind MessageType, file *Attachment) (Message, error)
	CreateChat(ctx context.Context, participantID string) (Chat, error)
	JoinCommunity(ctx context.Context, village string) (Chat, error)
	DeleteMessages(ctx context.Context, chatID string, messageIDs []string, forEveryone bool, userID string) error
	ClearChat(ctx context.Context, chatID, userID string, forEveryone bool) error
	DeleteChat(ctx context.Context, chatID, userID string, forEveryone bool) error
	SetChatWallpaper(ctx context.Context, chatID, wallpaper string) (Chat, error)
}

// Data is the cached view of posts, chats and users the API serves from.
type Data interface {
	Feed
	Messenger

	Refresh(ctx context.Context) error
	SearchUsers(ctx context.Context, query string) ([]User, error)
	FindUserByPhone(ctx context.Context, phone string) (User, error)
	DarkMode(ctx context.Context) (bool, error)
	SetDarkMode(ctx context.Context, enabled bool) error
	SendSupportMessage(ctx context.Context, text string) error
}

type APIServer interface{}

type MetricsServer interface{}

type MetricsCollector interface{}
