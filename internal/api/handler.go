package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"blouconnect/internal/core"
	"blouconnect/internal/media"
)

const blobsPattern = media.PathPrefix + "{blobID}"

// Handler translates HTTP requests into service calls.
type Handler struct {
	Logger  *slog.Logger
	Backend core.Backend
	Data    core.Data
	Auth    core.Session
	Media   core.MediaStore
}

func (h *Handler) Init(context.Context) error {
	h.Logger = h.Logger.With("component", "api.Handler")
	return nil
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/otp", h.requestOTP)
	r.Post("/otp/verify", h.verifyOTP)
	r.Post("/register", h.register)
	r.Get("/feed", h.feed)
	r.Get("/inbox", h.inbox)
	r.Get("/inbox/{chatID}", h.history)
	r.Get("/trending", h.trending)

	r.Post("/auth/signup", h.signup)
	r.Post("/auth/login", h.login)
	r.Post("/auth/logout", h.logout)

	r.Route("/me", func(r chi.Router) {
		r.Get("/", h.me)
		r.Patch("/", h.updateProfile)
		r.Get("/viewers", h.recentViewers)
		r.Post("/blocked/{userID}", h.blockUser)
		r.Delete("/blocked/{userID}", h.unblockUser)
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", h.listPosts)
		r.Post("/", h.addPost)
		r.Get("/{postID}", h.getPost)
		r.Post("/{postID}/like", h.likePost)
		r.Post("/{postID}/view", h.viewPost)
		r.Post("/{postID}/comments", h.addComment)
	})

	r.Route("/chats", func(r chi.Router) {
		r.Get("/", h.listChats)
		r.Post("/", h.createChat)
		r.Get("/{chatID}", h.getChat)
		r.Delete("/{chatID}", h.deleteChat)
		r.Post("/{chatID}/clear", h.clearChat)
		r.Put("/{chatID}/wallpaper", h.setWallpaper)
		r.Get("/{chatID}/messages", h.getMessages)
		r.Post("/{chatID}/messages", h.sendMessage)
		r.Post("/{chatID}/messages/delete", h.deleteMessages)
	})
	r.Post("/communities/{village}/join", h.joinCommunity)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.searchUsers)
		r.Get("/by-phone/{phone}", h.findUserByPhone)
		r.Get("/{userID}/stats", h.profileStats)
		r.Post("/{userID}/views", h.recordProfileView)
	})

	r.Get("/villages", h.searchVillages)
	r.Get("/villages/trending", h.trendingVillages)

	r.Get("/settings/dark-mode", h.darkMode)
	r.Put("/settings/dark-mode", h.setDarkMode)
	r.Post("/support", h.support)
	r.Post("/refresh", h.refresh)
}

func (h *Handler) getBlob(w http.ResponseWriter, r *http.Request) {
	blob, err := h.Media.Open(chi.URLParam(r, "blobID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", blob.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(blob.Data) //nolint:errcheck
}

func (h *Handler) currentUser(r *http.Request) (core.User, error) {
	user, err := h.Auth.CurrentUser(r.Context())
	if err != nil {
		return core.User{}, err
	}
	if user == nil {
		return core.User{}, core.ErrUnauthenticated
	}
	return *user, nil
}

// readAttachment returns the "file" part of a multipart request, nil when there is none.
func readAttachment(r *http.Request) (*core.Attachment, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, nil
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &core.Attachment{Data: content, ContentType: partContentType(header)}, nil
}

func partContentType(header *multipart.FileHeader) string {
	return header.Header.Get("Content-Type")
}
