package data

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/samber/lo"

	"blouconnect/internal/core"
	"blouconnect/internal/store"
)

// chatState is a copy of the chat cache that a mutation works on.
type chatState struct {
	chats    []core.Chat
	messages map[string][]core.Message
}

func (st *chatState) chat(chatID string) (*core.Chat, error) {
	_, index, found := lo.FindIndexOf(st.chats, func(c core.Chat) bool { return c.ID == chatID })
	if !found {
		return nil, fmt.Errorf("%w: %s", core.ErrChatNotFound, chatID)
	}
	return &st.chats[index], nil
}

// Chats returns the chats userID can see, most recent activity first: every community
// chat and the private chats they take part in, minus those they deleted.
func (s *Service) Chats(_ context.Context, userID string) ([]core.Chat, error) {
	s.mu.RLock()
	visible := notDeletedFor(userID)
	chats := lo.Filter(s.chats, func(c core.Chat, _ int) bool {
		if c.Type == core.ChatPrivate && !c.HasParticipant(userID) {
			return false
		}
		return visible(c.DeletedFor)
	})
	s.mu.RUnlock()

	sortChats(chats)
	return chats, nil
}

func (s *Service) Chat(_ context.Context, chatID string) (core.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chat, ok := lo.Find(s.chats, func(c core.Chat) bool { return c.ID == chatID })
	if !ok {
		return core.Chat{}, fmt.Errorf("%w: %s", core.ErrChatNotFound, chatID)
	}
	return chat, nil
}

// GetMessages returns the chat's messages in send order, without those userID deleted for
// themselves. An unknown chat has no messages.
func (s *Service) GetMessages(_ context.Context, chatID, userID string) ([]core.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visible := notDeletedFor(userID)
	return lo.Filter(s.messages[chatID], func(m core.Message, _ int) bool { return visible(m.DeletedFor) }), nil
}

// SendMessage sends a message from the current user through the backend. For non-text
// messages an attached file is uploaded and its URL becomes the content.
func (s *Service) SendMessage(ctx context.Context, chatID, content string, kind core.MessageType, file *core.Attachment) (core.Message, error) {
	if _, err := s.currentUser(ctx); err != nil {
		return core.Message{}, err
	}
	if !kind.Valid() {
		return core.Message{}, fmt.Errorf("%w: message type %q", core.ErrInvalidInput, kind)
	}
	if _, err := s.Chat(ctx, chatID); err != nil {
		return core.Message{}, err
	}

	if file != nil && kind != core.MessageText {
		url, err := s.upload(ctx, file)
		if err != nil {
			return core.Message{}, err
		}
		content = url
	}

	var msg core.Message
	err := s.updateChats(ctx, "send_message", func(st *chatState) error {
		chat, err := st.chat(chatID)
		if err != nil {
			return err
		}

		msg, err = s.Backend.SendMessage(ctx, chatID, content, kind, 0)
		if err != nil {
			return err
		}

		chat.LastMessage = &msg
		chat.UnreadCount = 0
		// a new message brings the chat back for everyone who deleted it
		chat.DeletedFor = nil
		st.messages[chatID] = append(slices.Clip(st.messages[chatID]), msg)

		moveToFront(st.chats, chatID)
		sortChats(st.chats)
		return nil
	})
	if err != nil {
		return core.Message{}, err
	}
	return msg, nil
}

// CreateChat returns the private chat between the current user and participantID,
// creating it when there is none.
func (s *Service) CreateChat(ctx context.Context, participantID string) (core.Chat, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return core.Chat{}, err
	}
	if participantID == user.ID {
		return core.Chat{}, fmt.Errorf("%w: cannot chat with yourself", core.ErrInvalidInput)
	}

	participant, err := s.registry.FindByID(ctx, participantID)
	if err != nil {
		return core.Chat{}, err
	}

	var result core.Chat
	err = s.updateChats(ctx, "create_chat", func(st *chatState) error {
		_, index, found := lo.FindIndexOf(st.chats, func(c core.Chat) bool {
			return c.Type == core.ChatPrivate && c.HasParticipant(user.ID) && c.HasParticipant(participantID)
		})
		if found {
			st.chats[index].DeletedFor = lo.Without(st.chats[index].DeletedFor, user.ID)
			result = st.chats[index]
			return nil
		}

		result = core.Chat{
			ID:           core.NewID("chat"),
			Type:         core.ChatPrivate,
			Participants: []core.User{user, participant},
			Name:         participant.FullName,
			AvatarURL:    participant.AvatarURL,
		}
		st.chats = append([]core.Chat{result}, st.chats...)
		return nil
	})
	return result, err
}

// JoinCommunity adds the current user to the village's community chat, creating the chat
// on first use.
func (s *Service) JoinCommunity(ctx context.Context, village string) (core.Chat, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return core.Chat{}, err
	}
	if !core.IsVillage(village) {
		return core.Chat{}, fmt.Errorf("%w: %q", core.ErrUnknownVillage, village)
	}

	var result core.Chat
	err = s.updateChats(ctx, "join_community", func(st *chatState) error {
		_, index, found := lo.FindIndexOf(st.chats, func(c core.Chat) bool {
			return c.Type == core.ChatCommunity && c.Village == village
		})
		if !found {
			st.chats = append([]core.Chat{{
				ID:      core.NewID("chat"),
				Type:    core.ChatCommunity,
				Village: village,
				Name:    village + " General",
			}}, st.chats...)
			index = 0
		}

		chat := &st.chats[index]
		if !chat.HasParticipant(user.ID) {
			chat.Participants = append(slices.Clip(chat.Participants), user)
		}
		chat.DeletedFor = lo.Without(chat.DeletedFor, user.ID)
		result = *chat
		return nil
	})
	return result, err
}

// DeleteMessages deletes the messages either for everyone, which only their sender may
// do and which leaves a tombstone, or "for me", which drops them from the history.
// There is no per-user history, so a message deleted for one user is gone for all.
func (s *Service) DeleteMessages(ctx context.Context, chatID string, messageIDs []string, forEveryone bool, userID string) error {
	if _, err := s.currentUser(ctx); err != nil {
		return err
	}

	return s.updateChats(ctx, "delete_messages", func(st *chatState) error {
		chat, err := st.chat(chatID)
		if err != nil {
			return err
		}

		selected := func(m core.Message) bool { return lo.Contains(messageIDs, m.ID) }

		if !forEveryone {
			st.messages[chatID] = lo.Reject(st.messages[chatID], func(m core.Message, _ int) bool { return selected(m) })
			return nil
		}

		messages := slices.Clone(st.messages[chatID])
		if lo.ContainsBy(messages, func(m core.Message) bool { return selected(m) && m.SenderID != userID }) {
			return core.ErrNotSender
		}

		for i := range messages {
			if selected(messages[i]) {
				markDeletedForEveryone(&messages[i])
			}
		}

		if chat.LastMessage != nil && lo.Contains(messageIDs, chat.LastMessage.ID) {
			last := *chat.LastMessage
			markDeletedForEveryone(&last)
			chat.LastMessage = &last
		}

		st.messages[chatID] = messages
		return nil
	})
}

// ClearChat empties the chat's history. Clearing for everyone also drops the chat's
// last message preview.
func (s *Service) ClearChat(ctx context.Context, chatID, _ string, forEveryone bool) error {
	if _, err := s.currentUser(ctx); err != nil {
		return err
	}

	return s.updateChats(ctx, "clear_chat", func(st *chatState) error {
		chat, err := st.chat(chatID)
		if err != nil {
			return err
		}

		st.messages[chatID] = []core.Message{}
		if forEveryone {
			chat.LastMessage = nil
		}
		return nil
	})
}

// DeleteChat removes the chat and its history for everyone, or hides it from userID.
func (s *Service) DeleteChat(ctx context.Context, chatID, userID string, forEveryone bool) error {
	if _, err := s.currentUser(ctx); err != nil {
		return err
	}

	return s.updateChats(ctx, "delete_chat", func(st *chatState) error {
		chat, err := st.chat(chatID)
		if err != nil {
			return err
		}

		if forEveryone {
			st.chats = lo.Reject(st.chats, func(c core.Chat, _ int) bool { return c.ID == chatID })
			delete(st.messages, chatID)
			return nil
		}

		chat.DeletedFor = lo.Uniq(append(slices.Clip(chat.DeletedFor), userID))
		return nil
	})
}

// SetChatWallpaper stores a hex colour or an image URL as the chat's background.
func (s *Service) SetChatWallpaper(ctx context.Context, chatID, wallpaper string) (core.Chat, error) {
	if _, err := s.currentUser(ctx); err != nil {
		return core.Chat{}, err
	}

	var result core.Chat
	err := s.updateChats(ctx, "set_wallpaper", func(st *chatState) error {
		chat, err := st.chat(chatID)
		if err != nil {
			return err
		}
		chat.Wallpaper = wallpaper
		result = *chat
		return nil
	})
	return result, err
}

// updateChats applies update to a copy of the cached chats and messages, persists both
// and only then replaces the cache.
func (s *Service) updateChats(ctx context.Context, operation string, update func(*chatState) error) error {
	s.writes.Lock()
	defer s.writes.Unlock()

	st := &chatState{
		chats:    slices.Clone(s.chats),
		messages: maps.Clone(s.messages),
	}
	if st.messages == nil {
		st.messages = map[string][]core.Message{}
	}

	if err := update(st); err != nil {
		return err
	}

	if err := store.Save(ctx, s.Store, store.KeyChats, st.chats); err != nil {
		return err
	}
	if err := store.Save(ctx, s.Store, store.KeyMessages, st.messages); err != nil {
		return err
	}

	s.mu.Lock()
	s.chats = st.chats
	s.messages = st.messages
	s.mu.Unlock()
	mutationsCounter.WithLabelValues(operation).Inc()
	return nil
}

func markDeletedForEveryone(m *core.Message) {
	m.DeletedForEveryone = true
	m.Content = ""
}

func moveToFront(chats []core.Chat, chatID string) {
	_, index, found := lo.FindIndexOf(chats, func(c core.Chat) bool { return c.ID == chatID })
	if !found || index == 0 {
		return
	}

	chat := chats[index]
	copy(chats[1:index+1], chats[:index])
	chats[0] = chat
}
