package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/krishimitra/farmer-portal-backend/internal/auditlog"
	"github.com/krishimitra/farmer-portal-backend/internal/notification"
	"github.com/krishimitra/farmer-portal-backend/internal/scheme"
	"github.com/krishimitra/farmer-portal-backend/internal/testutil"
)

type recordingNotifier struct {
	delivered []*notification.Notification
}

func (r *recordingNotifier) Deliver(_ context.Context, n *notification.Notification) {
	r.delivered = append(r.delivered, n)
}

type recordingPublisher struct {
	events []Event
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, e Event) error {
	r.events = append(r.events, e)
	return r.err
}

type fixture struct {
	db       *gorm.DB
	svc      Service
	notifier *recordingNotifier
	events   *recordingPublisher
	schemeID uint
}

const testFarmerID uint = 7

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t, &scheme.Scheme{}, &Application{}, &Bookmark{},
		&notification.Notification{}, &auditlog.AuditLog{})

	schemes := scheme.NewRepository(db)
	sch := &scheme.Scheme{Name: "PM-KISAN", SchemeType: scheme.TypeCentral, IsActive: true}
	require.NoError(t, schemes.Create(context.Background(), sch))

	f := &fixture{db: db, notifier: &recordingNotifier{}, events: &recordingPublisher{}, schemeID: sch.ID}
	f.svc = NewService(NewRepository(db), schemes, f.notifier, f.events,
		auditlog.NewService(auditlog.NewRepository(db), zap.NewNop()), zap.NewNop())
	return f
}

func (f *fixture) count(t *testing.T, model interface{}, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Where(where, args...).Count(&n).Error)
	return n
}

func TestBookmarkAddThenRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddBookmark(ctx, testFarmerID, f.schemeID)
	require.NoError(t, err)

	ok, err := f.svc.IsBookmarked(ctx, testFarmerID, f.schemeID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, f.svc.RemoveBookmark(ctx, testFarmerID, f.schemeID))

	assert.Zero(t, f.count(t, &Bookmark{}, "farmer_id = ? AND scheme_id = ?", testFarmerID, f.schemeID))
	ok, err = f.svc.IsBookmarked(ctx, testFarmerID, f.schemeID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddBookmark(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("repeat add returns the same bookmark", func(t *testing.T) {
		first, err := f.svc.AddBookmark(ctx, testFarmerID, f.schemeID)
		require.NoError(t, err)
		second, err := f.svc.AddBookmark(ctx, testFarmerID, f.schemeID)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, int64(1), f.count(t, &Bookmark{}, "farmer_id = ?", testFarmerID))
	})

	t.Run("unknown scheme", func(t *testing.T) {
		_, err := f.svc.AddBookmark(ctx, testFarmerID, 999)
		assert.ErrorIs(t, err, scheme.ErrSchemeNotFound)
	})

	t.Run("listed with scheme and reported as engagement", func(t *testing.T) {
		list, err := f.svc.ListBookmarks(ctx, testFarmerID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.NotNil(t, list[0].Scheme)
		assert.Equal(t, "PM-KISAN", list[0].Scheme.Name)

		ids, err := f.svc.BookmarkedSchemeIDs(ctx, testFarmerID)
		require.NoError(t, err)
		assert.Equal(t, map[uint]bool{f.schemeID: true}, ids)
	})
}

func TestRemoveBookmark_NothingToRemove(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.svc.RemoveBookmark(context.Background(), testFarmerID, f.schemeID))
}

func TestSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	app, err := f.svc.Submit(ctx, testFarmerID, SubmitRequest{
		SchemeID:        f.schemeID,
		ApplicationData: datatypes.JSON(`{"bankAccount":"1234"}`),
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, app.Status)
	assert.False(t, app.SubmittedAt.IsZero())
	require.NotNil(t, app.Scheme)

	var notes []notification.Notification
	require.NoError(t, f.db.Where("farmer_id = ?", testFarmerID).Find(&notes).Error)
	require.Len(t, notes, 1)
	assert.Equal(t, "Application Submitted", notes[0].Title)
	assert.Equal(t, "Your application for PM-KISAN has been submitted successfully.", notes[0].Message)
	assert.Equal(t, notification.TypeSuccess, notes[0].Type)
	assert.Equal(t, "/applications", notes[0].ActionURL)

	require.Len(t, f.notifier.delivered, 1)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, EventApplicationSubmitted, f.events.events[0].Type)
	assert.Equal(t, app.ID, f.events.events[0].ApplicationID)
}

func TestSubmit_UnknownSchemeCreatesNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), testFarmerID, SubmitRequest{SchemeID: 404})
	assert.ErrorIs(t, err, scheme.ErrSchemeNotFound)
	assert.Zero(t, f.count(t, &Application{}, "1 = 1"))
	assert.Zero(t, f.count(t, &notification.Notification{}, "1 = 1"))
}

func TestSubmit_PublishFailureIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.events.err = errors.New("broker down")

	_, err := f.svc.Submit(context.Background(), testFarmerID, SubmitRequest{SchemeID: f.schemeID})
	assert.NoError(t, err)
}

func TestListAndLatestStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, testFarmerID, SubmitRequest{SchemeID: f.schemeID})
	require.NoError(t, err)
	_, err = f.svc.Review(ctx, first.ID, ReviewRequest{Status: StatusRejected})
	require.NoError(t, err)
	second, err := f.svc.Submit(ctx, testFarmerID, SubmitRequest{SchemeID: f.schemeID})
	require.NoError(t, err)

	apps, err := f.svc.List(ctx, testFarmerID)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, second.ID, apps[0].ID)

	statuses, err := f.svc.LatestApplicationStatuses(ctx, testFarmerID)
	require.NoError(t, err)
	assert.Equal(t, map[uint]string{f.schemeID: StatusPending}, statuses)

	_, err = f.svc.Get(ctx, testFarmerID+1, first.ID)
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestReview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	app, err := f.svc.Submit(ctx, testFarmerID, SubmitRequest{SchemeID: f.schemeID})
	require.NoError(t, err)

	t.Run("unknown status is a validation error", func(t *testing.T) {
		_, err := f.svc.Review(ctx, app.ID, ReviewRequest{Status: "approve"})
		assert.ErrorIs(t, err, ErrValidation)
		assert.NotErrorIs(t, err, ErrInvalidTransition)

		stored, err := f.svc.Get(ctx, testFarmerID, app.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, stored.Status)
	})

	t.Run("pending cannot jump to completed", func(t *testing.T) {
		_, err := f.svc.Review(ctx, app.ID, ReviewRequest{Status: StatusCompleted})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("approve", func(t *testing.T) {
		got, err := f.svc.Review(ctx, app.ID, ReviewRequest{Status: StatusApproved, Notes: "documents verified"})
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, got.Status)
		require.NotNil(t, got.ReviewedAt)
		assert.Equal(t, "documents verified", got.ReviewNotes)
	})

	t.Run("approved cannot be rejected", func(t *testing.T) {
		_, err := f.svc.Review(ctx, app.ID, ReviewRequest{Status: StatusRejected})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("complete with benefit", func(t *testing.T) {
		amount := 6000.0
		got, err := f.svc.Review(ctx, app.ID, ReviewRequest{Status: StatusCompleted, BenefitReceived: &amount})
		require.NoError(t, err)
		require.NotNil(t, got.BenefitReceived)
		assert.Equal(t, 6000.0, *got.BenefitReceived)
		assert.NotNil(t, got.ReceivedAt)

		stored, err := f.svc.Get(ctx, testFarmerID, app.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, stored.Status)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		_, err := f.svc.Review(ctx, app.ID, ReviewRequest{Status: StatusApproved})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("unknown application", func(t *testing.T) {
		_, err := f.svc.Review(ctx, 12345, ReviewRequest{Status: StatusApproved})
		assert.ErrorIs(t, err, ErrApplicationNotFound)
	})

	// submitted + approved + completed
	assert.Equal(t, int64(3), f.count(t, &notification.Notification{}, "farmer_id = ?", testFarmerID))
}

func TestReview_RejectionNotification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	app, err := f.svc.Submit(ctx, testFarmerID, SubmitRequest{SchemeID: f.schemeID})
	require.NoError(t, err)
	_, err = f.svc.Review(ctx, app.ID, ReviewRequest{Status: StatusRejected, Notes: "land records missing"})
	require.NoError(t, err)

	last := f.notifier.delivered[len(f.notifier.delivered)-1]
	assert.Equal(t, notification.TypeWarning, last.Type)
	assert.Equal(t, "Application Rejected", last.Title)
	assert.Contains(t, last.Message, "land records missing")
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusApproved, StatusCompleted, true},
		{StatusPending, StatusCompleted, false},
		{StatusRejected, StatusApproved, false},
		{StatusCompleted, StatusPending, false},
		{StatusPending, "archived", false},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestReviewFixedClock(t *testing.T) {
	f := newFixture(t)
	fixed := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	f.svc.(*service).now = func() time.Time { return fixed }
	ctx := context.Background()

	app, err := f.svc.Submit(ctx, testFarmerID, SubmitRequest{SchemeID: f.schemeID})
	require.NoError(t, err)
	got, err := f.svc.Review(ctx, app.ID, ReviewRequest{Status: StatusApproved})
	require.NoError(t, err)

	assert.True(t, app.SubmittedAt.Equal(fixed))
	assert.True(t, got.ReviewedAt.Equal(fixed))
}
