package registry

import "blouconnect/internal/core"

var mockAvatars = []string{
	"https://picsum.photos/id/64/200/200",
	"https://picsum.photos/id/65/200/200",
	"https://picsum.photos/id/91/200/200",
	"https://picsum.photos/id/177/200/200",
}

// MockUsers are the authors of the seeded posts and chats.
func MockUsers() []core.User {
	return []core.User{
		mockUser("u2", "Thabo Mokoena", "+27710000002", "Bochum", mockAvatars[0]),
		mockUser("u3", "Sarah Nkosi", "+27710000003", "Senwabarwana", mockAvatars[1]),
		mockUser("u4", "David Lee", "+27710000004", "Bochum", mockAvatars[2]),
	}
}

// MockUser returns the mock user with the given id, ok is false when there is none.
func MockUser(id string) (core.User, bool) {
	for _, u := range MockUsers() {
		if u.ID == id {
			return u, true
		}
	}
	return core.User{}, false
}

func mockUser(id, name, phone, village, avatar string) core.User {
	return core.User{
		ID:             id,
		PhoneNumber:    phone,
		FullName:       name,
		DateOfBirth:    "1990-01-01",
		Village:        village,
		AvatarURL:      avatar,
		Bio:            "Hey there! I am using " + core.AppName + ".",
		BlockedUsers:   []string{},
		ProfileViewers: []core.ProfileViewer{},
	}
}
