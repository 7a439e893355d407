package backend

import (
	"time"

	"blouconnect/internal/core"
	"blouconnect/internal/registry"
)

func seedPosts(village string, now time.Time) []core.Post {
	thabo := author("u2", village)
	sarah := author("u3", "")
	david := author("u4", village)

	return []core.Post{
		{
			ID:           "p1",
			UserID:       thabo.ID,
			User:         thabo,
			Village:      village,
			Content:      "Community meeting at the " + village + " hall this Saturday at 10 AM. Please attend!",
			Likes:        12,
			Comments:     4,
			CommentsList: []core.Comment{},
			Timestamp:    core.Millis(now.Add(-time.Hour)),
		},
		{
			ID:           "p2",
			UserID:       sarah.ID,
			User:         sarah,
			Village:      "Senwabarwana",
			Content:      "Look at the beautiful sunset today!",
			MediaURL:     "https://picsum.photos/id/1015/600/400",
			MediaType:    core.MediaImage,
			Likes:        45,
			Comments:     10,
			CommentsList: []core.Comment{},
			Timestamp:    core.Millis(now.Add(-2 * time.Hour)),
		},
		{
			ID:           "p3",
			UserID:       david.ID,
			User:         david,
			Village:      village,
			Content:      "Does anyone know if the clinic is open tomorrow?",
			Likes:        2,
			Comments:     8,
			CommentsList: []core.Comment{},
			Timestamp:    core.Millis(now.Add(-24 * time.Hour)),
		},
	}
}

func seedChats(owner core.User, now time.Time) []core.Chat {
	thabo := author("u2", "")
	sarah := author("u3", "")

	return []core.Chat{
		{
			ID:           "c1",
			Type:         core.ChatCommunity,
			Participants: []core.User{owner, thabo, sarah},
			Name:         owner.Village + " General",
			Village:      owner.Village,
			UnreadCount:  3,
			LastMessage: &core.Message{
				ID:        "m1",
				SenderID:  thabo.ID,
				Content:   "See you all there!",
				Type:      core.MessageText,
				Timestamp: core.Millis(now.Add(-2 * time.Minute)),
			},
		},
		{
			ID:           "c2",
			Type:         core.ChatPrivate,
			Participants: []core.User{owner, sarah},
			Name:         sarah.FullName,
			AvatarURL:    sarah.AvatarURL,
			LastMessage: &core.Message{
				ID:        "m2",
				SenderID:  owner.ID,
				Content:   "Thanks for the info.",
				Type:      core.MessageText,
				Timestamp: core.Millis(now.Add(-time.Hour)),
			},
		},
	}
}

func placeholderMessages(now time.Time) []core.Message {
	return []core.Message{
		{ID: "msg1", SenderID: "u2", Content: "Hello!", Type: core.MessageText, Timestamp: core.Millis(now.Add(-1000 * time.Second))},
		{ID: "msg2", SenderID: LocalUserID, Content: "Hi there, how are you?", Type: core.MessageText, Timestamp: core.Millis(now.Add(-900 * time.Second))},
	}
}

func trendingTopics() []core.TrendingTopic {
	return []core.TrendingTopic{
		{ID: "t1", Topic: "Water Supply", Village: "Senwabarwana", Count: 124},
		{ID: "t2", Topic: "Soccer Match", Village: "Bochum", Count: 89},
		{ID: "t3", Topic: "School Bus", Village: "Indermark", Count: 56},
		{ID: "t4", Topic: "New Road", Village: "Blouberg", Count: 42},
	}
}

// author returns the mock user snapshot with its village overridden when village is set.
func author(id, village string) core.User {
	user, _ := registry.MockUser(id)
	if village != "" {
		user.Village = village
	}
	return user
}
