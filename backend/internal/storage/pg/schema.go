package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nforum-dev/nforum/shared/logger"
)

// Relationships (category -> forum -> topic -> reply, forum -> sub-forum,
// topic -> latest reply) are not foreign keys: deleting a
// category or forum removes that row only and leaves its children orphaned,
// and a topic's latest_reply_id must never block deleting that reply.
var schema = []struct {
	entity  string
	columns string
	indexes map[string]string // index suffix -> column
}{
	{
		entity: categoryMapping.entity,
		columns: `
			id          UUID PRIMARY KEY,
			name        TEXT NOT NULL,
			sort_order  INTEGER NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT ''`,
	},
	{
		entity: forumMapping.entity,
		columns: `
			id              UUID PRIMARY KEY,
			name            TEXT NOT NULL,
			sort_order      INTEGER NOT NULL DEFAULT 0,
			description     TEXT NOT NULL DEFAULT '',
			category_id     UUID NOT NULL,
			parent_forum_id UUID NULL,
			level           INTEGER NOT NULL DEFAULT 0 CHECK (level >= 0)`,
		indexes: map[string]string{"category_idx": "category_id", "parent_idx": "parent_forum_id"},
	},
	{
		entity: topicMapping.entity,
		columns: `
			id              UUID PRIMARY KEY,
			subject         TEXT NOT NULL,
			state           SMALLINT NOT NULL DEFAULT 0,
			type            SMALLINT NOT NULL DEFAULT 0,
			custom_data     TEXT NOT NULL DEFAULT '',
			forum_id        UUID NOT NULL,
			message_id      UUID NOT NULL,
			latest_reply_id UUID NULL,
			created_at      TIMESTAMPTZ NOT NULL`,
		indexes: map[string]string{"forum_idx": "forum_id"},
	},
	{
		entity: replyMapping.entity,
		columns: `
			id          UUID PRIMARY KEY,
			topic_id    UUID NOT NULL,
			message_id  UUID NOT NULL,
			state       SMALLINT NOT NULL DEFAULT 0,
			custom_data TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL`,
		indexes: map[string]string{"topic_idx": "topic_id"},
	},
	{
		entity: userMapping.entity,
		columns: `
			id            UUID PRIMARY KEY,
			external_id   TEXT NOT NULL,
			username      TEXT NOT NULL,
			fullname      TEXT NOT NULL DEFAULT '',
			email_address TEXT NOT NULL DEFAULT '',
			use_fullname  BOOLEAN NOT NULL DEFAULT FALSE,
			culture       TEXT NOT NULL DEFAULT '',
			time_zone     TEXT NOT NULL DEFAULT '',
			deleted       BOOLEAN NOT NULL DEFAULT FALSE`,
	},
}

// Migrate creates the five entity tables (and their lookup indexes) if they
// do not exist yet, using the configured table name prefix/postfix.
func (s *Storage) Migrate(ctx context.Context) error {
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, table := range schema {
			name := s.tables.Name(table.entity)
			if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s\n)", name, table.columns)); err != nil {
				return fmt.Errorf("failed to create table %s: %w", name, err)
			}
			for suffix, column := range table.indexes {
				index := s.tables.Name(table.entity + "_" + suffix)
				query := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", index, name, column)
				if _, err := tx.ExecContext(ctx, query); err != nil {
					return fmt.Errorf("failed to create index %s: %w", index, err)
				}
			}
			logger.Log.Debug("table ready", "table", name)
		}
		return nil
	})
}
