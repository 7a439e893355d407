package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blouconnect/internal/core"
)

type OTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type VerifyOTPRequest struct {
	OTP string `json:"otp"`
}

type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

func (h *Handler) requestOTP(w http.ResponseWriter, r *http.Request) {
	var req OTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ok, err := h.Backend.Login(r.Context(), req.PhoneNumber)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, OKResponse{OK: ok})
}

func (h *Handler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ok, err := h.Backend.VerifyOTP(r.Context(), req.OTP)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeError(w, r, core.ErrInvalidOTP)
		return
	}
	writeJSON(w, r, http.StatusOK, OKResponse{OK: true})
}

// register goes through the mock backend, which seeds the store, so the data cache is
// reloaded afterwards.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var details core.User
	if err := decodeJSON(r, &details); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.Backend.RegisterUser(r.Context(), details)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Data.Refresh(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, user)
}

func (h *Handler) feed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Backend.GetPosts(r.Context(), r.URL.Query().Get("village"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, posts)
}

// inbox serves the backend's stored chat list, independent of the data cache.
func (h *Handler) inbox(w http.ResponseWriter, r *http.Request) {
	chats, err := h.Backend.GetChats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, chats)
}

// history serves the backend's placeholder conversation for a chat.
func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	messages, err := h.Backend.GetMessages(r.Context(), chi.URLParam(r, "chatID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, messages)
}

func (h *Handler) trending(w http.ResponseWriter, r *http.Request) {
	topics, err := h.Backend.GetTrending(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, topics)
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var details core.SignupDetails
	if err := decodeJSON(r, &details); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.Auth.Signup(r.Context(), details)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, user)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.Auth.Login(r.Context(), req.PhoneNumber, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var patch core.ProfilePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.Auth.UpdateProfile(r.Context(), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

func (h *Handler) recentViewers(w http.ResponseWriter, r *http.Request) {
	viewers, err := h.Auth.RecentViewers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewers)
}

func (h *Handler) blockUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Auth.BlockUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

func (h *Handler) unblockUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Auth.UnblockUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

func (h *Handler) recordProfileView(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.RecordProfileView(r.Context(), chi.URLParam(r, "userID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
