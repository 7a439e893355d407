package api_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"

	"blouconnect/internal/api"
	"blouconnect/internal/core"
)

func TestServer_Session(t *testing.T) {
	t.Parallel()

	server := newServer(t)

	var errBody api.ErrorResponse
	require.Equal(t, http.StatusUnauthorized, do(t, server, http.MethodGet, "/v1/me", nil, &errBody))
	require.NotEmpty(t, errBody.Message)

	var user core.User
	require.Equal(t, http.StatusCreated, do(t, server, http.MethodPost, "/v1/auth/signup", core.SignupDetails{
		FullName:    "Lerato Maponya",
		PhoneNumber: "+27711234567",
		Village:     "Bochum",
	}, &user))

	var me core.User
	require.Equal(t, http.StatusOK, do(t, server, http.MethodGet, "/v1/me", nil, &me))
	require.Equal(t, user.ID, me.ID)

	require.Equal(t, http.StatusOK, do(t, server, http.MethodPatch, "/v1/me", core.ProfilePatch{Bio: "Nurse at the Bochum clinic"}, &me))
	require.Equal(t, "Nurse at the Bochum clinic", me.Bio)

	require.Equal(t, http.StatusNoContent, do(t, server, http.MethodPost, "/v1/auth/logout", nil, nil))
	require.Equal(t, http.StatusUnauthorized, do(t, server, http.MethodGet, "/v1/me", nil, nil))

	require.Equal(t, http.StatusOK, do(t, server, http.MethodPost, "/v1/auth/login", api.LoginRequest{PhoneNumber: "+27711234567"}, &me))
	require.Equal(t, user.ID, me.ID)
	require.Equal(t, "Nurse at the Bochum clinic", me.Bio)
}

func TestServer_OTPAndRegistration(t *testing.T) {
	t.Parallel()

	server := newServer(t)

	var ok api.OKResponse
	require.Equal(t, http.StatusOK, do(t, server, http.MethodPost, "/v1/otp", api.OTPRequest{PhoneNumber: "+27711234567"}, &ok))
	require.True(t, ok.OK)

	require.Equal(t, http.StatusBadRequest, do(t, server, http.MethodPost, "/v1/otp/verify", api.VerifyOTPRequest{OTP: "12"}, nil))
	require.Equal(t, http.StatusOK, do(t, server, http.MethodPost, "/v1/otp/verify", api.VerifyOTPRequest{OTP: "1234"}, &ok))

	var user core.User
	require.Equal(t, http.StatusCreated, do(t, server, http.MethodPost, "/v1/register", core.User{FullName: "Thabo", Village: "Bochum"}, &user))
	require.Equal(t, "u1", user.ID)

	var feed []core.Post
	require.Equal(t, http.StatusOK, do(t, server, http.MethodGet, "/v1/feed?village=Bochum", nil, &feed))
	require.Len(t, feed, 2)

	// the data cache picked up the seeded chats
	var chats []core.Chat
	require.Equal(t, http.StatusOK, do(t, server, http.MethodGet, "/v1/chats", nil, &chats))
	require.Len(t, chats, 2)
	require.Equal(t, "c1", chats[0].ID)

	var inbox []core.Chat
	require.Equal(t, http.StatusOK, do(t, server, http.MethodGet, "/v1/inbox", nil, &inbox))
	require.Len(t, inbox, 2)
	require.Equal(t, "c1", inbox[0].ID)

	var history []core.Message
	require.Equal(t, http.StatusOK, do(t, server, http.MethodGet, "/v1/inbox/c2", nil, &history))
	require.NotEmpty(t, history)

	var topics []core.TrendingTopic
	require.Equal(t, http.StatusOK, do(t, server, http.MethodGet, "/v1/trending", nil, &topics))
	require.Len(t, topics, 4)

	require.Equal(t, http.StatusBadRequest, do(t, server, http.MethodPost, "/v1/register", core.User{FullName: "X", Village: "Atlantis"}, nil))
}

func TestServer_Posts(t *testing.T) {
	t.Parallel()

	server := newServer(t)
	require.Equal(t, http.StatusUnauthorized, do(t, server, http.MethodPost, "/v1/posts", core.PostDraft{Content: "x"}, nil))

	require.Equal(t, http.StatusCreated, do(t, server, http.MethodPost, "/v1/auth/signup", core.SignupDetails{
		FullName: "Lerato Maponya", PhoneNumber: "+27711234567", Village: "Bochum",
	}, nil))

	var post core.Post
	require.Equal(t, http.StatusCreated, do(t, server, http.MethodPost, "/v1/posts", core.PostDraft{Content: "Soccer", Category: core.CategorySports}, &post))
	require.Equal(t, "Bochum", post.Village)

	require.Equal(t, http.StatusOK, do(t, server, http.MethodPost, "/v1/posts/"+post.ID+"/like", nil, &post))
	require.Equal(t, 1, post.Likes)

	require.Equal(t, http.StatusCreated, do(t, server, http.MethodPost, "/v1/posts/"+post.ID+"/comments", api.TextRequest{Text: "Go team"}, &post))
	require.Equal(t, 1, post.Comments)

	var posts []core.Post
	require.Equal(t, http.StatusOK, do(t, server, http.MethodGet, "/v1/posts?category=sports", nil, &posts))
	require.Len(t, posts, 1)

	require.Equal(t, http.StatusNotFound, do(t, server, http.MethodPost, "/v1/posts/missing/like", nil, nil))
	require.Equal(t, http.StatusBadRequest, do(t, server, http.MethodPost, "/v1/posts", core.PostDraft{Content: "x", Village: "Atlantis"}, nil))
	require.Equal(t, http.StatusBadRequest, do(t, server, http.MethodGet, "/v1/posts?village=Atlantis", nil, nil))
}

func TestServer_UploadedMedia(t *testing.T) {
	t.Parallel()

	server := newServer(t)
	require.Equal(t, http.StatusCreated, do(t, server, http.MethodPost, "/v1/auth/signup", core.SignupDetails{
		FullName: "Lerato Maponya", PhoneNumber: "+27711234567", Village: "Bochum",
	}, nil))

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	require.NoError(t, form.WriteField("content", "Sunset"))

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="sunset.png"`)
	header.Set("Content-Type", "image/png")
	part, err := form.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("not really a png"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, server.URL+"/v1/posts", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", form.FormDataContentType())

	var post core.Post
	require.Equal(t, http.StatusCreated, send(t, req, &post))
	require.Equal(t, "Sunset", post.Content)
	require.Equal(t, core.MediaImage, post.MediaType)

	res, err := http.Get(server.URL + post.MediaURL)
	require.NoError(t, err)
	defer res.Body.Close()

	content, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "image/png", res.Header.Get("Content-Type"))
	require.Equal(t, "not really a png", string(content))

	require.Equal(t, http.StatusNotFound, do(t, server, http.MethodGet, "/blobs/unknown", nil, nil))
}

func TestServer_Chats(t *testing.T) {
	t.Parallel()

	server := newServer(t)
	require.Equal(t, http.StatusCreated, do(t, server, http.MethodPost, "/v1/auth/signup", core.SignupDetails{
		FullName: "Lerato Maponya", PhoneNumber: "+27711234567", Village: "Bochum",
	}, nil))

	var chat core.Chat
	require.Equal(t, http.StatusOK, do(t, server, http.MethodPost, "/v1/chats", api.CreateChatRequest{ParticipantID: "u3"}, &chat))

	var msg core.Message
	require.Equal(t, http.StatusCreated, do(t, server, http.MethodPost, "/v1/chats/"+chat.ID+"/messages", api.SendMessageRequest{Content: "hi"}, &msg))
	require.Equal(t, core.MessageText, msg.Type)

	var messages []core.Message
	require.Equal(t, http.StatusOK, do(t, server, http.MethodGet, "/v1/chats/"+chat.ID+"/messages", nil, &messages))
	require.Len(t, messages, 1)

	require.Equal(t, http.StatusNoContent, do(t, server, http.MethodPost, "/v1/chats/"+chat.ID+"/messages/delete",
		api.DeleteMessagesRequest{IDs: []string{msg.ID}}, nil))
	require.Equal(t, http.StatusOK, do(t, server, http.MethodGet, "/v1/chats/"+chat.ID+"/messages", nil, &messages))
	require.Empty(t, messages)

	require.Equal(t, http.StatusOK, do(t, server, http.MethodPut, "/v1/chats/"+chat.ID+"/wallpaper", api.WallpaperRequest{Wallpaper: "#123456"}, &chat))
	require.Equal(t, "#123456", chat.Wallpaper)

	require.Equal(t, http.StatusBadRequest, do(t, server, http.MethodDelete, "/v1/chats/"+chat.ID+"?forEveryone=maybe", nil, nil))
	require.Equal(t, http.StatusNoContent, do(t, server, http.MethodDelete, "/v1/chats/"+chat.ID+"?forEveryone=true", nil, nil))
	require.Equal(t, http.StatusNotFound, do(t, server, http.MethodGet, "/v1/chats/"+chat.ID, nil, nil))
	require.Equal(t, http.StatusNotFound, do(t, server, http.MethodPost, "/v1/chats/"+chat.ID+"/messages", api.SendMessageRequest{Content: "hi"}, nil))

	require.Equal(t, http.StatusOK, do(t, server, http.MethodPost, "/v1/communities/Bochum/join", nil, &chat))
	require.Equal(t, "Bochum General", chat.Name)
}

func TestServer_NotSender(t *testing.T) {
	t.Parallel()

	server := newServer(t)
	require.Equal(t, http.StatusCreated, do(t, server, http.MethodPost, "/v1/auth/signup", core.SignupDetails{
		FullName: "Lerato Maponya", PhoneNumber: "+27711234567", Village: "Bochum",
	}, nil))

	var chat core.Chat
	require.Equal(t, http.StatusOK, do(t, server, http.MethodPost, "/v1/chats", api.CreateChatRequest{ParticipantID: "u3"}, &chat))

	var msg core.Message
	require.Equal(t, http.StatusCreated, do(t, server, http.MethodPost, "/v1/chats/"+chat.ID+"/messages", api.SendMessageRequest{Content: "hi"}, &msg))

	// sign in as the other participant
	require.Equal(t, http.StatusOK, do(t, server, http.MethodPost, "/v1/auth/login", api.LoginRequest{PhoneNumber: "+27710000003"}, nil))

	require.Equal(t, http.StatusForbidden, do(t, server, http.MethodPost, "/v1/chats/"+chat.ID+"/messages/delete",
		api.DeleteMessagesRequest{IDs: []string{msg.ID}, ForEveryone: true}, nil))
}

func TestServer_Discovery(t *testing.T) {
	t.Parallel()

	server := newServer(t)

	var villages []string
	require.Equal(t, http.StatusOK, do(t, server, http.MethodGet, "/v1/villages?q=bochum", nil, &villages))
	require.Equal(t, []string{"Bochum"}, villages)

	var users []core.User
	require.Equal(t, http.StatusOK, do(t, server, http.MethodGet, "/v1/users?q=sarah", nil, &users))
	require.Len(t, users, 1)

	var user core.User
	require.Equal(t, http.StatusOK, do(t, server, http.MethodGet, "/v1/users/by-phone/+27710000002", nil, &user))
	require.Equal(t, "u2", user.ID)
	require.Equal(t, http.StatusNotFound, do(t, server, http.MethodGet, "/v1/users/by-phone/123", nil, nil))

	var dark api.DarkModeRequest
	require.Equal(t, http.StatusOK, do(t, server, http.MethodPut, "/v1/settings/dark-mode", api.DarkModeRequest{Enabled: true}, &dark))
	require.Equal(t, http.StatusOK, do(t, server, http.MethodGet, "/v1/settings/dark-mode", nil, &dark))
	require.True(t, dark.Enabled)
}

func TestServer_MalformedBody(t *testing.T) {
	t.Parallel()

	server := newServer(t)

	req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, server.URL+"/v1/auth/login", bytes.NewBufferString("{"))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, send(t, req, nil))
}
