package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jeffail/gabs/v2"

	"blouconnect/internal/core"
)

// SchemaVersion is the layout the services read and write.
// Version 0 is the layout of the first mock backend: posts carry flattened author fields
// (authorId, authorName, authorVillage, authorAvatar) and chats list participant ids.
const SchemaVersion = 1

type migration func(ctx context.Context, s core.Store) error

var migrations = map[int]migration{
	1: upgradeAuthorSnapshots,
}

// Migrator upgrades persisted blobs to SchemaVersion.
type Migrator struct {
	Logger *slog.Logger
	Store  core.Store
}

func (m *Migrator) Init(_ context.Context) error {
	m.Logger = m.Logger.With("component", "store.Migrator")
	return nil
}

// Version returns the stored schema version, 0 when none was ever written.
func (m *Migrator) Version(ctx context.Context) (int, error) {
	return LoadOr(ctx, m.Store, KeySchemaVersion, 0)
}

func (m *Migrator) Up(ctx context.Context) error {
	version, err := m.Version(ctx)
	if err != nil {
		return err
	}

	for version < SchemaVersion {
		next := version + 1
		m.Logger.Info("Migrating store", "from", version, "to", next)

		if err := migrations[next](ctx, m.Store); err != nil {
			return fmt.Errorf("migration to version %d failed: %w", next, err)
		}
		if err := Save(ctx, m.Store, KeySchemaVersion, next); err != nil {
			return err
		}
		version = next
	}

	m.Logger.Debug("Store schema is up to date", "version", version)
	return nil
}

func upgradeAuthorSnapshots(ctx context.Context, s core.Store) error {
	if err := rewrite(ctx, s, KeyPosts, upgradePost); err != nil {
		return err
	}
	return rewrite(ctx, s, KeyChats, upgradeChat)
}

func rewrite(ctx context.Context, s core.Store, key string, upgrade func(*gabs.Container) error) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	container, err := gabs.ParseJSON(raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedValue, key, err)
	}

	for _, item := range container.Children() {
		if err := upgrade(item); err != nil {
			return err
		}
	}

	return s.Set(ctx, key, container.Bytes())
}

func upgradePost(post *gabs.Container) error {
	if post.Exists("userId") || !post.Exists("authorId") {
		return nil
	}

	author := map[string]any{
		"id":             post.S("authorId").Data(),
		"fullName":       stringOr(post, "authorName"),
		"village":        stringOr(post, "authorVillage"),
		"avatarUrl":      stringOr(post, "authorAvatar"),
		"blockedUsers":   []any{},
		"profileViewers": []any{},
	}

	if _, err := post.Set(post.S("authorId").Data(), "userId"); err != nil {
		return err
	}
	if _, err := post.Set(author, "user"); err != nil {
		return err
	}
	for _, field := range []string{"authorId", "authorName", "authorVillage", "authorAvatar"} {
		_ = post.Delete(field)
	}

	if !post.Exists("views") {
		if _, err := post.Set(0, "views"); err != nil {
			return err
		}
	}
	if !post.Exists("commentsList") {
		if _, err := post.Set([]any{}, "commentsList"); err != nil {
			return err
		}
	}
	return nil
}

func upgradeChat(chat *gabs.Container) error {
	if chat.Exists("avatar") {
		if !chat.Exists("avatarUrl") {
			if _, err := chat.Set(chat.S("avatar").Data(), "avatarUrl"); err != nil {
				return err
			}
		}
		_ = chat.Delete("avatar")
	}
	_ = chat.Delete("isOnline")

	participants := chat.S("participants")
	for i, p := range participants.Children() {
		id, ok := p.Data().(string)
		if !ok {
			continue
		}
		if _, err := participants.SetIndex(map[string]any{"id": id}, i); err != nil {
			return err
		}
	}
	return nil
}

func stringOr(c *gabs.Container, field string) string {
	s, _ := c.S(field).Data().(string)
	return s
}

// MigrationRunner upgrades the store and exits.
type MigrationRunner struct {
	Migrator core.SchemaMigrator
}

func (r *MigrationRunner) Run(ctx context.Context) error {
	return r.Migrator.Up(ctx)
}
