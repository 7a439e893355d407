package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blouconnect/internal/core"
)

type CreateChatRequest struct {
	ParticipantID string `json:"participantId"`
}

type SendMessageRequest struct {
	Content string           `json:"content"`
	Type    core.MessageType `json:"type"`
}

type DeleteMessagesRequest struct {
	IDs         []string `json:"ids"`
	ForEveryone bool     `json:"forEveryone"`
}

type WallpaperRequest struct {
	Wallpaper string `json:"wallpaper"`
}

func (h *Handler) listChats(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	chats, err := h.Data.Chats(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, chats)
}

func (h *Handler) createChat(w http.ResponseWriter, r *http.Request) {
	var req CreateChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	chat, err := h.Data.CreateChat(r.Context(), req.ParticipantID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, chat)
}

func (h *Handler) joinCommunity(w http.ResponseWriter, r *http.Request) {
	chat, err := h.Data.JoinCommunity(r.Context(), chi.URLParam(r, "village"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, chat)
}

func (h *Handler) getChat(w http.ResponseWriter, r *http.Request) {
	chat, err := h.Data.Chat(r.Context(), chi.URLParam(r, "chatID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, chat)
}

func (h *Handler) deleteChat(w http.ResponseWriter, r *http.Request) {
	h.chatAction(w, r, func(chatID string, user core.User, forEveryone bool) error {
		return h.Data.DeleteChat(r.Context(), chatID, user.ID, forEveryone)
	})
}

func (h *Handler) clearChat(w http.ResponseWriter, r *http.Request) {
	h.chatAction(w, r, func(chatID string, user core.User, forEveryone bool) error {
		return h.Data.ClearChat(r.Context(), chatID, user.ID, forEveryone)
	})
}

func (h *Handler) setWallpaper(w http.ResponseWriter, r *http.Request) {
	var req WallpaperRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	chat, err := h.Data.SetChatWallpaper(r.Context(), chi.URLParam(r, "chatID"), req.Wallpaper)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, chat)
}

func (h *Handler) getMessages(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	messages, err := h.Data.GetMessages(r.Context(), chi.URLParam(r, "chatID"), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, messages)
}

// sendMessage accepts either a JSON body or a multipart form with "type" and a "file" part.
func (h *Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest

	file, err := readAttachment(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if file != nil || r.MultipartForm != nil {
		req = SendMessageRequest{Content: r.FormValue("content"), Type: core.MessageType(r.FormValue("type"))}
	} else if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Type == "" {
		req.Type = core.MessageText
	}

	msg, err := h.Data.SendMessage(r.Context(), chi.URLParam(r, "chatID"), req.Content, req.Type, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, msg)
}

func (h *Handler) deleteMessages(w http.ResponseWriter, r *http.Request) {
	var req DeleteMessagesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Data.DeleteMessages(r.Context(), chi.URLParam(r, "chatID"), req.IDs, req.ForEveryone, user.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// chatAction runs a per-user chat operation whose scope comes from the forEveryone query parameter.
func (h *Handler) chatAction(w http.ResponseWriter, r *http.Request, action func(chatID string, user core.User, forEveryone bool) error) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	forEveryone, err := boolQuery(r, "forEveryone")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := action(chi.URLParam(r, "chatID"), user, forEveryone); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
