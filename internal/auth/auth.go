package auth

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/samber/lo"

	"blouconnect/internal/config"
	"blouconnect/internal/core"
	"blouconnect/internal/registry"
	"blouconnect/internal/store"
)

const (
	authDelay = 800 * time.Millisecond

	defaultAvatar       = "https://picsum.photos/200"
	defaultViewerWindow = 24 * time.Hour
)

var sessionsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "blouconnect_auth_sessions_total",
	Help: "The total number of sessions started, by how they were started",
}, []string{"method"})

// Auth owns the current-user session. The session lives in the store, so every read
// sees writes made by other services sharing it. Profile edits go through the backend.
type Auth struct {
	Logger  *slog.Logger
	Config  *config.Config
	Store   core.Store
	Latency core.Latency
	Backend core.Backend

	mu       sync.Mutex
	registry *registry.Registry
}

func (a *Auth) Init(_ context.Context) error {
	a.Logger = a.Logger.With("component", "auth.Auth")
	a.registry = &registry.Registry{Store: a.Store}
	return nil
}

// CurrentUser returns nil when nobody is signed in.
func (a *Auth) CurrentUser(ctx context.Context) (*core.User, error) {
	user, ok, err := store.Load[core.User](ctx, a.Store, store.KeyUser)
	if err != nil || !ok {
		return nil, err
	}
	return &user, nil
}

func (a *Auth) Signup(ctx context.Context, details core.SignupDetails) (core.User, error) {
	if err := a.Latency.Wait(ctx, authDelay); err != nil {
		return core.User{}, err
	}
	if details.FullName == "" || details.PhoneNumber == "" {
		return core.User{}, fmt.Errorf("%w: full name and phone number are required", core.ErrInvalidInput)
	}
	if !core.IsVillage(details.Village) {
		return core.User{}, fmt.Errorf("%w: %q", core.ErrUnknownVillage, details.Village)
	}

	user := core.User{
		ID:             core.NewID("user"),
		FullName:       details.FullName,
		PhoneNumber:    details.PhoneNumber,
		Village:        details.Village,
		DateOfBirth:    details.DateOfBirth,
		AvatarURL:      lo.Ternary(details.AvatarURL != "", details.AvatarURL, defaultAvatar),
		IsOnline:       true,
		LastSeen:       core.Millis(time.Now()),
		Bio:            "Hey there! I am using " + core.AppName + ".",
		BlockedUsers:   []string{},
		ProfileViewers: []core.ProfileViewer{},
	}

	if err := a.startSession(ctx, user, "signup"); err != nil {
		return core.User{}, err
	}
	return user, nil
}

// Login signs in the registered user with the phone number. An unknown number gets a
// fresh throwaway account. The password is not checked.
func (a *Auth) Login(ctx context.Context, phone, _ string) (core.User, error) {
	if err := a.Latency.Wait(ctx, authDelay); err != nil {
		return core.User{}, err
	}
	if phone == "" {
		return core.User{}, fmt.Errorf("%w: phone number is required", core.ErrInvalidInput)
	}

	user, err := a.registry.FindByPhone(ctx, phone)
	method := "login"
	switch {
	case errors.Is(err, core.ErrUserNotFound):
		user = throwawayUser(phone)
		method = "login_new"
		a.Logger.Info("Unknown phone number, creating account", "name", user.FullName)
	case err != nil:
		return core.User{}, err
	}

	if err := a.startSession(ctx, user, method); err != nil {
		return core.User{}, err
	}
	return user, nil
}

func throwawayUser(phone string) core.User {
	return core.User{
		ID:             core.NewID("user"),
		FullName:       "User " + lastDigits(phone, 4),
		PhoneNumber:    phone,
		Village:        core.DefaultVillage,
		DateOfBirth:    "2000-01-01",
		AvatarURL:      "https://picsum.photos/seed/" + url.PathEscape(phone) + "/200",
		IsOnline:       true,
		LastSeen:       core.Millis(time.Now()),
		Bio:            "New Account",
		BlockedUsers:   []string{},
		ProfileViewers: []core.ProfileViewer{},
	}
}

// Logout ends the session. The registry keeps the user.
func (a *Auth) Logout(ctx context.Context) error {
	return a.Store.Delete(ctx, store.KeyUser)
}

func (a *Auth) UpdateProfile(ctx context.Context, patch core.ProfilePatch) (core.User, error) {
	if patch.Village != "" && !core.IsVillage(patch.Village) {
		return core.User{}, fmt.Errorf("%w: %q", core.ErrUnknownVillage, patch.Village)
	}

	return a.updateCurrent(ctx, func(user *core.User) error {
		merge(&user.FullName, patch.FullName)
		merge(&user.DateOfBirth, patch.DateOfBirth)
		merge(&user.Village, patch.Village)
		merge(&user.AvatarURL, patch.AvatarURL)
		merge(&user.BannerURL, patch.BannerURL)
		merge(&user.Bio, patch.Bio)
		return nil
	})
}

func (a *Auth) BlockUser(ctx context.Context, userID string) (core.User, error) {
	return a.updateCurrent(ctx, func(user *core.User) error {
		if userID == "" || userID == user.ID {
			return fmt.Errorf("%w: cannot block %q", core.ErrInvalidInput, userID)
		}
		user.BlockedUsers = lo.Uniq(append(user.BlockedUsers, userID))
		return nil
	})
}

func (a *Auth) UnblockUser(ctx context.Context, userID string) (core.User, error) {
	return a.updateCurrent(ctx, func(user *core.User) error {
		user.BlockedUsers = lo.Without(user.BlockedUsers, userID)
		return nil
	})
}

// RecordProfileView logs that the current user looked at viewedID's profile. Self-views
// are ignored.
func (a *Auth) RecordProfileView(ctx context.Context, viewedID string) error {
	viewer, err := a.requireUser(ctx)
	if err != nil {
		return err
	}
	if viewer.ID == viewedID {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	viewed, err := a.registry.FindByID(ctx, viewedID)
	if err != nil {
		return err
	}

	viewed.ProfileViewers = append(viewed.ProfileViewers, core.ProfileViewer{
		UserID:    viewer.ID,
		Timestamp: core.Millis(time.Now()),
	})
	return a.registry.Upsert(ctx, viewed)
}

// RecentViewers lists who viewed the current user's profile within the viewer window,
// newest first.
func (a *Auth) RecentViewers(ctx context.Context) ([]core.ProfileViewer, error) {
	current, err := a.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	// views land on the registry entry, the session copy may be older
	user, err := a.registry.FindByID(ctx, current.ID)
	if err != nil {
		user = *current
	}

	since := core.Millis(time.Now().Add(-a.viewerWindow()))
	viewers := lo.Filter(user.ProfileViewers, func(v core.ProfileViewer, _ int) bool {
		return v.Timestamp >= since
	})
	slices.SortStableFunc(viewers, func(x, y core.ProfileViewer) int {
		return cmp.Compare(y.Timestamp, x.Timestamp)
	})
	return viewers, nil
}

func (a *Auth) updateCurrent(ctx context.Context, update func(*core.User) error) (core.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	current, err := a.requireUser(ctx)
	if err != nil {
		return core.User{}, err
	}

	user := *current
	if latest, err := a.registry.FindByID(ctx, user.ID); err == nil {
		user.ProfileViewers = latest.ProfileViewers
	}

	if err := update(&user); err != nil {
		return core.User{}, err
	}
	return a.Backend.UpdateUser(ctx, user)
}

func (a *Auth) requireUser(ctx context.Context) (*core.User, error) {
	user, err := a.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, core.ErrUnauthenticated
	}
	return user, nil
}

func (a *Auth) startSession(ctx context.Context, user core.User, method string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.saveSession(ctx, user); err != nil {
		return err
	}

	sessionsCounter.WithLabelValues(method).Inc()
	a.Logger.Info("Session started", "user", user.ID, "method", method)
	return nil
}

func (a *Auth) saveSession(ctx context.Context, user core.User) error {
	if err := store.Save(ctx, a.Store, store.KeyUser, user); err != nil {
		return err
	}
	return a.registry.Upsert(ctx, user)
}

func (a *Auth) viewerWindow() time.Duration {
	if a.Config == nil || a.Config.ViewerWindow <= 0 {
		return defaultViewerWindow
	}
	return a.Config.ViewerWindow
}

func merge(field *string, value string) {
	if value != "" {
		*field = value
	}
}

func lastDigits(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
