package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the tables and indexes if they do not exist yet.
// Per-owner deduplication rests on the (owner_id, external_id) unique
// constraints; channel deletion cascades to videos at the database level.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS channels (
			id               UUID PRIMARY KEY,
			external_id      TEXT NOT NULL,
			owner_id         TEXT NOT NULL,
			title            TEXT NOT NULL DEFAULT '',
			description      TEXT,
			thumbnail_url    TEXT,
			subscriber_count BIGINT NOT NULL DEFAULT 0,
			view_count       BIGINT NOT NULL DEFAULT 0,
			video_count      BIGINT NOT NULL DEFAULT 0,
			published_at     TIMESTAMPTZ,
			country          TEXT,
			language         TEXT,
			last_sync_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (owner_id, external_id)
		);

		CREATE TABLE IF NOT EXISTS videos (
			id             UUID PRIMARY KEY,
			external_id    TEXT NOT NULL,
			owner_id       TEXT NOT NULL,
			channel_id     UUID NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
			title          TEXT NOT NULL DEFAULT '',
			description    TEXT,
			thumbnail_url  TEXT,
			published_at   TIMESTAMPTZ,
			duration       TEXT,
			tags           TEXT[] NOT NULL DEFAULT '{}',
			view_count     BIGINT NOT NULL DEFAULT 0,
			like_count     BIGINT NOT NULL DEFAULT 0,
			comment_count  BIGINT NOT NULL DEFAULT 0,
			privacy_status TEXT,
			upload_status  TEXT,
			last_sync_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (owner_id, external_id)
		);

		CREATE INDEX IF NOT EXISTS idx_channels_owner ON channels(owner_id, last_sync_at DESC);
		CREATE INDEX IF NOT EXISTS idx_videos_owner ON videos(owner_id, last_sync_at DESC);
		CREATE INDEX IF NOT EXISTS idx_videos_channel ON videos(channel_id, published_at DESC);
	`

	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
