package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"blouconnect/internal/core"
	"blouconnect/internal/store"
)

// Registry is the list of every known profile: the static mock users merged with the
// persisted users registry. Later entries win on id collisions.
type Registry struct {
	Store core.Store
}

func (r *Registry) All(ctx context.Context) ([]core.User, error) {
	persisted, err := store.LoadOr(ctx, r.Store, store.KeyUsersRegistry, []core.User{})
	if err != nil {
		return nil, err
	}

	merged := append(MockUsers(), persisted...)

	order := lo.Uniq(lo.Map(merged, func(u core.User, _ int) string { return u.ID }))
	byID := lo.KeyBy(merged, func(u core.User) string { return u.ID })

	return lo.Map(order, func(id string, _ int) core.User { return byID[id] }), nil
}

// Upsert replaces the registry entry with the same id or appends a new one.
func (r *Registry) Upsert(ctx context.Context, user core.User) error {
	users, err := store.LoadOr(ctx, r.Store, store.KeyUsersRegistry, []core.User{})
	if err != nil {
		return err
	}

	_, index, found := lo.FindIndexOf(users, func(u core.User) bool { return u.ID == user.ID })
	if found {
		users[index] = user
	} else {
		users = append(users, user)
	}

	return store.Save(ctx, r.Store, store.KeyUsersRegistry, users)
}

func (r *Registry) FindByID(ctx context.Context, id string) (core.User, error) {
	return r.find(ctx, func(u core.User) bool { return u.ID == id }, id)
}

func (r *Registry) FindByPhone(ctx context.Context, phone string) (core.User, error) {
	return r.find(ctx, func(u core.User) bool { return u.PhoneNumber == phone }, phone)
}

// Search matches full names by case-insensitive substring. An empty query matches nothing.
func (r *Registry) Search(ctx context.Context, query string, excludeID string) ([]core.User, error) {
	if query == "" {
		return []core.User{}, nil
	}

	users, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	return lo.Filter(users, func(u core.User, _ int) bool {
		return u.ID != excludeID && strings.Contains(strings.ToLower(u.FullName), query)
	}), nil
}

func (r *Registry) find(ctx context.Context, match func(core.User) bool, ref string) (core.User, error) {
	users, err := r.All(ctx)
	if err != nil {
		return core.User{}, err
	}

	user, ok := lo.Find(users, match)
	if !ok {
		return core.User{}, fmt.Errorf("%w: %s", core.ErrUserNotFound, ref)
	}
	return user, nil
}
