package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/do0han/tubespyv1/internal/model"
)

const channelColumns = `id, external_id, owner_id, title, description, thumbnail_url,
	subscriber_count, view_count, video_count, published_at, country, language, last_sync_at`

type ChannelRepo struct {
	pool *pgxpool.Pool
}

func NewChannelRepo(pool *pgxpool.Pool) *ChannelRepo {
	return &ChannelRepo{pool: pool}
}

// Upsert creates or overwrites the channel row keyed by (owner, externalID).
// Every mutable attribute is replaced and last_sync_at refreshed; the
// internal id survives re-syncs.
func (r *ChannelRepo) Upsert(ctx context.Context, ownerID, externalID string, attrs model.ChannelAttrs) (*model.Channel, error) {
	query := `
		INSERT INTO channels (id, external_id, owner_id, title, description, thumbnail_url,
			subscriber_count, view_count, video_count, published_at, country, language, last_sync_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		ON CONFLICT (owner_id, external_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			thumbnail_url = EXCLUDED.thumbnail_url,
			subscriber_count = EXCLUDED.subscriber_count,
			view_count = EXCLUDED.view_count,
			video_count = EXCLUDED.video_count,
			published_at = COALESCE(EXCLUDED.published_at, channels.published_at),
			country = EXCLUDED.country,
			language = EXCLUDED.language,
			last_sync_at = NOW()
		RETURNING ` + channelColumns

	row := r.pool.QueryRow(ctx, query,
		uuid.NewString(), externalID, ownerID,
		attrs.Title, attrs.Description, attrs.ThumbnailURL,
		attrs.SubscriberCount, attrs.ViewCount, attrs.VideoCount,
		attrs.PublishedAt, attrs.Country, attrs.Language,
	)
	ch, err := scanChannel(row)
	if err != nil {
		return nil, mapError("upsert channel", "channel", externalID, err)
	}
	return ch, nil
}

// UpsertStub creates or refreshes a minimal channel row from the attributes
// a video item carries about its channel (title, subscriber and video counts
// when present). On conflict it only touches those fields, so a stub sync
// never erases data a full channel sync already stored.
func (r *ChannelRepo) UpsertStub(ctx context.Context, ownerID, externalID string, attrs model.ChannelAttrs) (*model.Channel, error) {
	query := `
		INSERT INTO channels (id, external_id, owner_id, title, subscriber_count, video_count, last_sync_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (owner_id, external_id) DO UPDATE SET
			title = EXCLUDED.title,
			subscriber_count = EXCLUDED.subscriber_count,
			video_count = EXCLUDED.video_count,
			last_sync_at = NOW()
		RETURNING ` + channelColumns

	row := r.pool.QueryRow(ctx, query,
		uuid.NewString(), externalID, ownerID,
		attrs.Title, attrs.SubscriberCount, attrs.VideoCount,
	)
	ch, err := scanChannel(row)
	if err != nil {
		return nil, mapError("upsert channel stub", "channel", externalID, err)
	}
	return ch, nil
}

// FindByID returns a channel by internal id within the owner's scope.
func (r *ChannelRepo) FindByID(ctx context.Context, ownerID, id string) (*model.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels WHERE id = $1 AND owner_id = $2`
	ch, err := scanChannel(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &model.NotFoundError{Kind: "channel", ID: id}
		}
		return nil, mapError("find channel", "channel", id, err)
	}
	return ch, nil
}

// ListByOwner returns all of the owner's channels, most recently synced first.
func (r *ChannelRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels WHERE owner_id = $1 ORDER BY last_sync_at DESC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, mapError("list channels", "channel", ownerID, err)
	}
	defer rows.Close()

	var channels []model.Channel
	for rows.Next() {
		ch, err := scanChannel(rows)
		if err != nil {
			return nil, mapError("scan channel", "channel", ownerID, err)
		}
		channels = append(channels, *ch)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list channels", "channel", ownerID, err)
	}
	return channels, nil
}

// DeleteByID removes a channel after verifying ownership. Videos go with it
// via the ON DELETE CASCADE constraint. Returns how many videos were removed.
func (r *ChannelRepo) DeleteByID(ctx context.Context, ownerID, id string) (int64, error) {
	var rowOwner string
	err := r.pool.QueryRow(ctx, `SELECT owner_id FROM channels WHERE id = $1`, id).Scan(&rowOwner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &model.NotFoundError{Kind: "channel", ID: id}
		}
		return 0, mapError("delete channel", "channel", id, err)
	}
	if rowOwner != ownerID {
		return 0, &model.AuthorizationError{Kind: "channel", ID: id}
	}

	var videoCount int64
	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM videos WHERE channel_id = $1`, id).Scan(&videoCount)
	if err != nil {
		return 0, mapError("delete channel", "channel", id, err)
	}

	if _, err := r.pool.Exec(ctx, `DELETE FROM channels WHERE id = $1 AND owner_id = $2`, id, ownerID); err != nil {
		return 0, mapError("delete channel", "channel", id, err)
	}
	return videoCount, nil
}

// BulkDelete removes a set of channels atomically. Ownership of every id is
// validated inside the transaction before anything is deleted; one foreign
// id rejects the whole request.
func (r *ChannelRepo) BulkDelete(ctx context.Context, ownerID string, ids []string) (channels, videos int64, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, 0, mapError("bulk delete channels", "channel", ownerID, err)
	}
	defer tx.Rollback(ctx)

	var owned int64
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM channels WHERE id = ANY($1) AND owner_id = $2`,
		ids, ownerID).Scan(&owned)
	if err != nil {
		return 0, 0, mapError("bulk delete channels", "channel", ownerID, err)
	}
	if owned != int64(len(ids)) {
		return 0, 0, &model.AuthorizationError{Kind: "channels", ID: "bulk"}
	}

	videoTag, err := tx.Exec(ctx, `DELETE FROM videos WHERE channel_id = ANY($1)`, ids)
	if err != nil {
		return 0, 0, mapError("bulk delete channels", "channel", ownerID, err)
	}
	channelTag, err := tx.Exec(ctx,
		`DELETE FROM channels WHERE id = ANY($1) AND owner_id = $2`, ids, ownerID)
	if err != nil {
		return 0, 0, mapError("bulk delete channels", "channel", ownerID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, mapError("bulk delete channels", "channel", ownerID, err)
	}
	return channelTag.RowsAffected(), videoTag.RowsAffected(), nil
}

func scanChannel(row pgx.Row) (*model.Channel, error) {
	var ch model.Channel
	err := row.Scan(
		&ch.ID, &ch.ExternalID, &ch.OwnerID, &ch.Title, &ch.Description, &ch.ThumbnailURL,
		&ch.SubscriberCount, &ch.ViewCount, &ch.VideoCount,
		&ch.PublishedAt, &ch.Country, &ch.Language, &ch.LastSyncAt,
	)
	if err != nil {
		return nil, err
	}
	return &ch, nil
}
