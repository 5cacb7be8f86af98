package service

import (
	"context"
	"errors"
	"testing"

	"github.com/do0han/tubespyv1/internal/model"
)

type fakeChannelAdmin struct {
	deleted    []string
	cascaded   int64
	bulkErr    error
	bulkCalled bool
	deleteErr  error
	bulkCh     int64
	bulkVid    int64
}

func (f *fakeChannelAdmin) DeleteByID(_ context.Context, _, id string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return f.cascaded, nil
}

func (f *fakeChannelAdmin) BulkDelete(_ context.Context, _ string, ids []string) (int64, int64, error) {
	f.bulkCalled = true
	if f.bulkErr != nil {
		return 0, 0, f.bulkErr
	}
	return f.bulkCh, f.bulkVid, nil
}

type fakeVideoAdmin struct {
	deleted   []string
	deleteErr error
	bulkN     int64
	bulkErr   error
}

func (f *fakeVideoAdmin) DeleteByID(_ context.Context, _, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeVideoAdmin) BulkDelete(_ context.Context, _ string, ids []string) (int64, error) {
	if f.bulkErr != nil {
		return 0, f.bulkErr
	}
	return f.bulkN, nil
}

func TestDeleteChannelCascades(t *testing.T) {
	channels := &fakeChannelAdmin{cascaded: 7}
	svc := NewAdminService(channels, &fakeVideoAdmin{}, nil)

	result, err := svc.DeleteByID(context.Background(), "owner-1", KindChannel, "ch-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DeletedChannels != 1 || result.DeletedVideos != 7 {
		t.Fatalf("cascade counts wrong: %+v", result)
	}
}

func TestDeleteVideoLeavesChannel(t *testing.T) {
	channels := &fakeChannelAdmin{}
	videos := &fakeVideoAdmin{}
	svc := NewAdminService(channels, videos, nil)

	result, err := svc.DeleteByID(context.Background(), "owner-1", KindVideo, "v-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DeletedChannels != 0 || result.DeletedVideos != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if len(channels.deleted) != 0 {
		t.Fatal("video delete must not touch channels")
	}
}

func TestDeleteRejectsUnknownKind(t *testing.T) {
	svc := NewAdminService(&fakeChannelAdmin{}, &fakeVideoAdmin{}, nil)

	_, err := svc.DeleteByID(context.Background(), "owner-1", "playlist", "x")
	var validation *model.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestDeletePropagatesNotFound(t *testing.T) {
	videos := &fakeVideoAdmin{deleteErr: &model.NotFoundError{Kind: "video", ID: "v-404"}}
	svc := NewAdminService(&fakeChannelAdmin{}, videos, nil)

	_, err := svc.DeleteByID(context.Background(), "owner-1", KindVideo, "v-404")
	var notFound *model.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestBulkDeleteRejectsEmptyIDs(t *testing.T) {
	svc := NewAdminService(&fakeChannelAdmin{}, &fakeVideoAdmin{}, nil)

	_, err := svc.BulkDelete(context.Background(), "owner-1", KindVideo, nil)
	var validation *model.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestBulkDeleteAllOrNothing(t *testing.T) {
	channels := &fakeChannelAdmin{bulkErr: &model.AuthorizationError{Kind: "channels", ID: "bulk"}}
	svc := NewAdminService(channels, &fakeVideoAdmin{}, nil)

	_, err := svc.BulkDelete(context.Background(), "owner-1", KindChannel, []string{"a", "b"})
	var authz *model.AuthorizationError
	if !errors.As(err, &authz) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
}

func TestBulkDeleteChannels(t *testing.T) {
	channels := &fakeChannelAdmin{bulkCh: 2, bulkVid: 9}
	svc := NewAdminService(channels, &fakeVideoAdmin{}, nil)

	result, err := svc.BulkDelete(context.Background(), "owner-1", KindChannel, []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DeletedChannels != 2 || result.DeletedVideos != 9 {
		t.Fatalf("unexpected counts: %+v", result)
	}
}
