package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blouconnect/internal/core"
)

type TextRequest struct {
	Text string `json:"text"`
}

type DarkModeRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	posts, err := h.Data.Posts(r.Context(), core.PostFilter{
		Village:  q.Get("village"),
		Category: core.Category(q.Get("category")),
		UserID:   q.Get("userId"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, posts)
}

// addPost accepts either a JSON draft or a multipart form with the draft fields and an
// optional "file" part.
func (h *Handler) addPost(w http.ResponseWriter, r *http.Request) {
	var draft core.PostDraft

	file, err := readAttachment(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if file != nil || r.MultipartForm != nil {
		draft = core.PostDraft{
			Village:   r.FormValue("village"),
			Content:   r.FormValue("content"),
			MediaURL:  r.FormValue("mediaUrl"),
			MediaType: core.MediaType(r.FormValue("mediaType")),
			Category:  core.Category(r.FormValue("category")),
		}
	} else if err := decodeJSON(r, &draft); err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.Data.AddPost(r.Context(), draft, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, post)
}

func (h *Handler) getPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.Data.Post(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, post)
}

func (h *Handler) likePost(w http.ResponseWriter, r *http.Request) {
	post, err := h.Data.LikePost(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, post)
}

func (h *Handler) viewPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.Data.ViewPost(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, post)
}

func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.Data.AddComment(r.Context(), chi.URLParam(r, "postID"), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, post)
}

func (h *Handler) searchUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Data.SearchUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, users)
}

func (h *Handler) findUserByPhone(w http.ResponseWriter, r *http.Request) {
	user, err := h.Data.FindUserByPhone(r.Context(), chi.URLParam(r, "phone"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

func (h *Handler) profileStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Data.ProfileStats(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func (h *Handler) searchVillages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.Data.SearchVillages(r.Context(), r.URL.Query().Get("q")))
}

func (h *Handler) trendingVillages(w http.ResponseWriter, r *http.Request) {
	villages, err := h.Data.TrendingVillages(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, villages)
}

func (h *Handler) darkMode(w http.ResponseWriter, r *http.Request) {
	enabled, err := h.Data.DarkMode(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, DarkModeRequest{Enabled: enabled})
}

func (h *Handler) setDarkMode(w http.ResponseWriter, r *http.Request) {
	var req DarkModeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Data.SetDarkMode(r.Context(), req.Enabled); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, req)
}

func (h *Handler) support(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Data.SendSupportMessage(r.Context(), req.Text); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.Data.Refresh(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
