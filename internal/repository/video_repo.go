package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/do0han/tubespyv1/internal/model"
)

const videoColumns = `v.id, v.external_id, v.owner_id, v.channel_id, v.title, v.description,
	v.thumbnail_url, v.published_at, v.duration, v.tags, v.view_count, v.like_count,
	v.comment_count, v.privacy_status, v.upload_status, v.last_sync_at`

// VideoWithChannel joins a video row with the channel fields the reporter
// needs for derived metrics (contribution and subscriber ratio).
type VideoWithChannel struct {
	Video              model.Video
	ChannelExternalID  string
	ChannelTitle       string
	ChannelSubscribers int64
	ChannelViews       int64
}

// sortColumns whitelists the stored fields a videos query may sort on.
// Derived metric fields are absent on purpose: those sorts happen in memory
// after computation.
var sortColumns = map[string]string{
	"publishedAt":  "v.published_at",
	"viewCount":    "v.view_count",
	"likeCount":    "v.like_count",
	"commentCount": "v.comment_count",
	"lastSyncAt":   "v.last_sync_at",
	"title":        "v.title",
}

// SortColumn reports whether field is a stored column the database can
// order by, and its SQL name.
func SortColumn(field string) (string, bool) {
	col, ok := sortColumns[field]
	return col, ok
}

type VideoRepo struct {
	pool *pgxpool.Pool
}

func NewVideoRepo(pool *pgxpool.Pool) *VideoRepo {
	return &VideoRepo{pool: pool}
}

// Upsert creates or overwrites the video row keyed by (owner, externalID).
// channelID must reference an existing channel for the same owner; the
// channel assignment is refreshed on update as well, so a video that moved
// channels upstream follows it here.
func (r *VideoRepo) Upsert(ctx context.Context, ownerID, externalID, channelID string, attrs model.VideoAttrs) (*model.Video, error) {
	if attrs.Tags == nil {
		attrs.Tags = []string{}
	}
	query := `
		INSERT INTO videos (id, external_id, owner_id, channel_id, title, description,
			thumbnail_url, published_at, duration, tags, view_count, like_count,
			comment_count, privacy_status, upload_status, last_sync_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
		ON CONFLICT (owner_id, external_id) DO UPDATE SET
			channel_id = EXCLUDED.channel_id,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			thumbnail_url = EXCLUDED.thumbnail_url,
			published_at = COALESCE(EXCLUDED.published_at, videos.published_at),
			duration = EXCLUDED.duration,
			tags = EXCLUDED.tags,
			view_count = EXCLUDED.view_count,
			like_count = EXCLUDED.like_count,
			comment_count = EXCLUDED.comment_count,
			privacy_status = EXCLUDED.privacy_status,
			upload_status = EXCLUDED.upload_status,
			last_sync_at = NOW()
		RETURNING id, external_id, owner_id, channel_id, title, description,
			thumbnail_url, published_at, duration, tags, view_count, like_count,
			comment_count, privacy_status, upload_status, last_sync_at`

	row := r.pool.QueryRow(ctx, query,
		uuid.NewString(), externalID, ownerID, channelID,
		attrs.Title, attrs.Description, attrs.ThumbnailURL,
		attrs.PublishedAt, attrs.Duration, attrs.Tags,
		attrs.ViewCount, attrs.LikeCount, attrs.CommentCount,
		attrs.PrivacyStatus, attrs.UploadStatus,
	)
	v, err := scanVideo(row)
	if err != nil {
		return nil, mapError("upsert video", "video", externalID, err)
	}
	return v, nil
}

// FindByID returns a video by internal id within the owner's scope.
func (r *VideoRepo) FindByID(ctx context.Context, ownerID, id string) (*model.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos v WHERE v.id = $1 AND v.owner_id = $2`
	v, err := scanVideo(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &model.NotFoundError{Kind: "video", ID: id}
		}
		return nil, mapError("find video", "video", id, err)
	}
	return v, nil
}

// ListByOwner returns the owner's videos joined with their channel counters,
// optionally filtered to one channel. orderBy must come from SortColumn;
// pass "" to keep the default last-sync ordering. limit <= 0 means no limit.
func (r *VideoRepo) ListByOwner(ctx context.Context, ownerID, channelID, orderBy string, descending bool, limit int) ([]VideoWithChannel, error) {
	query := `
		SELECT ` + videoColumns + `,
			c.external_id, c.title, c.subscriber_count, c.view_count
		FROM videos v
		JOIN channels c ON c.id = v.channel_id
		WHERE v.owner_id = $1`
	args := []any{ownerID}

	if channelID != "" {
		query += ` AND v.channel_id = $2`
		args = append(args, channelID)
	}

	if orderBy == "" {
		orderBy = "v.last_sync_at"
		descending = true
	}
	dir := "ASC"
	if descending {
		dir = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s NULLS LAST", orderBy, dir)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list videos", "video", ownerID, err)
	}
	defer rows.Close()

	var out []VideoWithChannel
	for rows.Next() {
		var vc VideoWithChannel
		if err := scanVideoWithChannel(rows, &vc); err != nil {
			return nil, mapError("scan video", "video", ownerID, err)
		}
		out = append(out, vc)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list videos", "video", ownerID, err)
	}
	return out, nil
}

// ListRecentByChannel returns a channel's newest videos, bounded by limit.
func (r *VideoRepo) ListRecentByChannel(ctx context.Context, channelID string, limit int) ([]model.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos v
		WHERE v.channel_id = $1
		ORDER BY v.published_at DESC NULLS LAST
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, channelID, limit)
	if err != nil {
		return nil, mapError("list channel videos", "video", channelID, err)
	}
	defer rows.Close()

	var videos []model.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, mapError("scan video", "video", channelID, err)
		}
		videos = append(videos, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list channel videos", "video", channelID, err)
	}
	return videos, nil
}

// DeleteByID removes a single video after verifying ownership. The owning
// channel is left untouched.
func (r *VideoRepo) DeleteByID(ctx context.Context, ownerID, id string) error {
	var rowOwner string
	err := r.pool.QueryRow(ctx, `SELECT owner_id FROM videos WHERE id = $1`, id).Scan(&rowOwner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &model.NotFoundError{Kind: "video", ID: id}
		}
		return mapError("delete video", "video", id, err)
	}
	if rowOwner != ownerID {
		return &model.AuthorizationError{Kind: "video", ID: id}
	}

	if _, err := r.pool.Exec(ctx, `DELETE FROM videos WHERE id = $1 AND owner_id = $2`, id, ownerID); err != nil {
		return mapError("delete video", "video", id, err)
	}
	return nil
}

// BulkDelete removes a set of videos atomically, validating ownership of
// every id before deleting any.
func (r *VideoRepo) BulkDelete(ctx context.Context, ownerID string, ids []string) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, mapError("bulk delete videos", "video", ownerID, err)
	}
	defer tx.Rollback(ctx)

	var owned int64
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM videos WHERE id = ANY($1) AND owner_id = $2`,
		ids, ownerID).Scan(&owned)
	if err != nil {
		return 0, mapError("bulk delete videos", "video", ownerID, err)
	}
	if owned != int64(len(ids)) {
		return 0, &model.AuthorizationError{Kind: "videos", ID: "bulk"}
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM videos WHERE id = ANY($1) AND owner_id = $2`, ids, ownerID)
	if err != nil {
		return 0, mapError("bulk delete videos", "video", ownerID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, mapError("bulk delete videos", "video", ownerID, err)
	}
	return tag.RowsAffected(), nil
}

func scanVideo(row pgx.Row) (*model.Video, error) {
	var v model.Video
	err := row.Scan(
		&v.ID, &v.ExternalID, &v.OwnerID, &v.ChannelID, &v.Title, &v.Description,
		&v.ThumbnailURL, &v.PublishedAt, &v.Duration, &v.Tags,
		&v.ViewCount, &v.LikeCount, &v.CommentCount,
		&v.PrivacyStatus, &v.UploadStatus, &v.LastSyncAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func scanVideoWithChannel(row pgx.Row, vc *VideoWithChannel) error {
	return row.Scan(
		&vc.Video.ID, &vc.Video.ExternalID, &vc.Video.OwnerID, &vc.Video.ChannelID,
		&vc.Video.Title, &vc.Video.Description, &vc.Video.ThumbnailURL,
		&vc.Video.PublishedAt, &vc.Video.Duration, &vc.Video.Tags,
		&vc.Video.ViewCount, &vc.Video.LikeCount, &vc.Video.CommentCount,
		&vc.Video.PrivacyStatus, &vc.Video.UploadStatus, &vc.Video.LastSyncAt,
		&vc.ChannelExternalID, &vc.ChannelTitle, &vc.ChannelSubscribers, &vc.ChannelViews,
	)
}
