package core

import "time"

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

type Category string

const (
	CategoryGeneral Category = "general"
	CategorySports  Category = "sports"
	CategoryEvent   Category = "event"
	CategoryFuneral Category = "funeral"
)

func (c Category) Valid() bool {
	switch c {
	case "", CategoryGeneral, CategorySports, CategoryEvent, CategoryFuneral:
		return true
	}
	return false
}

type ChatType string

const (
	ChatPrivate   ChatType = "private"
	ChatCommunity ChatType = "community"
)

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
	MessageVideo MessageType = "video"
	MessageAudio MessageType = "audio"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageImage, MessageVideo, MessageAudio:
		return true
	}
	return false
}

type MessageStatus string

const (
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
)

type ProfileViewer struct {
	UserID    string `json:"userId"`
	Timestamp int64  `json:"timestamp"`
}

// User is both the session record and a registry entry.
type User struct {
	ID             string          `json:"id"`
	PhoneNumber    string          `json:"phoneNumber"`
	FullName       string          `json:"fullName"`
	DateOfBirth    string          `json:"dateOfBirth"`
	Village        string          `json:"village"`
	AvatarURL      string          `json:"avatarUrl"`
	BannerURL      string          `json:"bannerUrl,omitempty"`
	Bio            string          `json:"bio,omitempty"`
	Followers      int             `json:"followers"`
	Following      int             `json:"following"`
	IsOnline       bool            `json:"isOnline"`
	LastSeen       int64           `json:"lastSeen"`
	BlockedUsers   []string        `json:"blockedUsers"`
	ProfileViewers []ProfileViewer `json:"profileViewers"`
}

type Comment struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

type Post struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	User         User      `json:"user"`
	Village      string    `json:"village"`
	Content      string    `json:"content"`
	MediaURL     string    `json:"mediaUrl,omitempty"`
	MediaType    MediaType `json:"mediaType,omitempty"`
	Category     Category  `json:"category,omitempty"`
	Likes        int       `json:"likes"`
	Views        int       `json:"views"`
	Comments     int       `json:"comments"`
	CommentsList []Comment `json:"commentsList"`
	Timestamp    int64     `json:"timestamp"`
}

// PostDraft carries the caller-controlled fields of a new post.
type PostDraft struct {
	Village   string    `json:"village,omitempty"`
	Content   string    `json:"content"`
	MediaURL  string    `json:"mediaUrl,omitempty"`
	MediaType MediaType `json:"mediaType,omitempty"`
	Category  Category  `json:"category,omitempty"`
}

type Message struct {
	ID                 string        `json:"id"`
	SenderID           string        `json:"senderId"`
	Content            string        `json:"content"`
	Type               MessageType   `json:"type"`
	Timestamp          int64         `json:"timestamp"`
	Status             MessageStatus `json:"status,omitempty"`
	Duration           int           `json:"duration,omitempty"`
	DeletedForEveryone bool          `json:"deletedForEveryone,omitempty"`
	DeletedFor         []string      `json:"deletedFor"`
}

type Chat struct {
	ID           string   `json:"id"`
	Type         ChatType `json:"type"`
	Participants []User   `json:"participants"`
	Village      string   `json:"village,omitempty"`
	LastMessage  *Message `json:"lastMessage,omitempty"`
	Name         string   `json:"name,omitempty"`
	AvatarURL    string   `json:"avatarUrl,omitempty"`
	UnreadCount  int      `json:"unreadCount"`
	Wallpaper    string   `json:"wallpaper,omitempty"`
	DeletedFor   []string `json:"deletedFor"`
}

// LastActivity is the timestamp chats are ordered by.
func (c Chat) LastActivity() int64 {
	if c.LastMessage == nil {
		return 0
	}
	return c.LastMessage.Timestamp
}

func (c Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// SignupDetails is what a new account is created from.
type SignupDetails struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Village     string `json:"village"`
	DateOfBirth string `json:"dateOfBirth"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// ProfilePatch holds profile edits. Empty fields are left unchanged.
type ProfilePatch struct {
	FullName    string `json:"fullName,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Village     string `json:"village,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	BannerURL   string `json:"bannerUrl,omitempty"`
	Bio         string `json:"bio,omitempty"`
}

// Attachment is a file sent along with a post or a message.
type Attachment struct {
	Data        []byte
	ContentType string
}

// PostFilter narrows a post listing. Zero fields match everything.
type PostFilter struct {
	Village  string
	Category Category
	UserID   string
}

type Blob struct {
	ContentType string
	Data        []byte
}

type TrendingTopic struct {
	ID      string `json:"id"`
	Topic   string `json:"topic"`
	Village string `json:"village"`
	Count   int    `json:"count"`
}

type ProfileStats struct {
	Posts      int `json:"posts"`
	TotalLikes int `json:"totalLikes"`
	TotalViews int `json:"totalViews"`
}

// Millis converts t to the wire timestamp format.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}
