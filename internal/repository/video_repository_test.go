package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipstack/video-service/internal/db"
	"github.com/clipstack/video-service/internal/db/testutil"
	"github.com/clipstack/video-service/internal/models"
)

func seedUser(t *testing.T, repo UserRepository, username string) *models.User {
	t.Helper()

	user := &models.User{
		ID:        uuid.New(),
		Username:  username,
		AvatarURL: "https://cdn.example.com/" + username + ".png",
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func seedVideo(t *testing.T, repo VideoRepository, owner uuid.UUID, title string, published bool) *models.Video {
	t.Helper()

	video := models.NewVideo(owner, title, "description of "+title, 42.5,
		models.MediaRef{URL: "http://store/videos/" + title + ".mp4", StorageID: "videos/" + title + ".mp4"},
		models.MediaRef{URL: "http://store/thumbnails/" + title + ".png", StorageID: "thumbnails/" + title + ".png"},
	)
	video.IsPublished = published
	require.NoError(t, repo.Create(context.Background(), video))
	return video
}

func TestVideoRepository_CreateAndGet(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	videoRepo := NewVideoRepository(td.Pool)
	userRepo := NewUserRepository(td.Pool)
	ctx := context.Background()

	t.Run("round trips a video", func(t *testing.T) {
		td.TruncateTables(t)

		owner := seedUser(t, userRepo, "alice")
		video := seedVideo(t, videoRepo, owner.ID, "first", false)

		got, err := videoRepo.GetByID(ctx, video.ID)
		require.NoError(t, err)
		assert.Equal(t, video.ID, got.ID)
		assert.Equal(t, owner.ID, got.OwnerID)
		assert.Equal(t, "first", got.Title)
		assert.Equal(t, 42.5, got.Duration)
		assert.Equal(t, video.File, got.File)
		assert.Equal(t, video.Thumbnail, got.Thumbnail)
		assert.False(t, got.IsPublished)
		assert.Zero(t, got.Views)
	})

	t.Run("missing video maps to not found", func(t *testing.T) {
		_, err := videoRepo.GetByID(ctx, uuid.New())
		require.Error(t, err)
		assert.True(t, db.IsNotFound(err))
	})

	t.Run("unknown owner violates foreign key", func(t *testing.T) {
		td.TruncateTables(t)

		video := models.NewVideo(uuid.New(), "orphan", "no owner", 1,
			models.MediaRef{URL: "u", StorageID: "s"},
			models.MediaRef{URL: "u2", StorageID: "s2"},
		)
		err := videoRepo.Create(ctx, video)
		require.Error(t, err)
		assert.True(t, db.IsForeignKeyViolation(err))
	})
}

func TestVideoRepository_List(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	videoRepo := NewVideoRepository(td.Pool)
	userRepo := NewUserRepository(td.Pool)
	ctx := context.Background()

	t.Run("returns only published videos", func(t *testing.T) {
		td.TruncateTables(t)

		owner := seedUser(t, userRepo, "alice")
		seedVideo(t, videoRepo, owner.ID, "published", true)
		seedVideo(t, videoRepo, owner.ID, "draft", false)

		page, err := videoRepo.List(ctx, ListOptions{})
		require.NoError(t, err)
		require.Len(t, page.Videos, 1)
		assert.Equal(t, "published", page.Videos[0].Title)
		assert.Equal(t, int64(1), page.TotalItems)
		assert.Equal(t, "alice", page.Videos[0].Owner.Username)
	})

	t.Run("empty page is an empty slice", func(t *testing.T) {
		td.TruncateTables(t)

		page, err := videoRepo.List(ctx, ListOptions{})
		require.NoError(t, err)
		require.NotNil(t, page.Videos)
		assert.Len(t, page.Videos, 0)
		assert.Equal(t, int64(0), page.TotalItems)
		assert.Equal(t, 0, page.TotalPages)
	})

	t.Run("paginates with totals", func(t *testing.T) {
		td.TruncateTables(t)

		owner := seedUser(t, userRepo, "bob")
		for i := 0; i < 7; i++ {
			seedVideo(t, videoRepo, owner.ID, fmt.Sprintf("clip-%d", i), true)
		}

		page, err := videoRepo.List(ctx, ListOptions{Page: 2, Limit: 3})
		require.NoError(t, err)
		assert.Len(t, page.Videos, 3)
		assert.Equal(t, int64(7), page.TotalItems)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 2, page.Page)
	})

	t.Run("filters by owner", func(t *testing.T) {
		td.TruncateTables(t)

		alice := seedUser(t, userRepo, "alice")
		bob := seedUser(t, userRepo, "bob")
		seedVideo(t, videoRepo, alice.ID, "from-alice", true)
		seedVideo(t, videoRepo, bob.ID, "from-bob", true)

		page, err := videoRepo.List(ctx, ListOptions{OwnerID: &alice.ID})
		require.NoError(t, err)
		require.Len(t, page.Videos, 1)
		assert.Equal(t, "from-alice", page.Videos[0].Title)
	})

	t.Run("full text search matches title and description", func(t *testing.T) {
		td.TruncateTables(t)

		owner := seedUser(t, userRepo, "carol")
		match := models.NewVideo(owner.ID, "Baking sourdough bread", "a slow fermentation guide", 10,
			models.MediaRef{URL: "u1", StorageID: "s1"}, models.MediaRef{URL: "t1", StorageID: "st1"})
		match.IsPublished = true
		require.NoError(t, videoRepo.Create(ctx, match))

		miss := models.NewVideo(owner.ID, "Car maintenance basics", "oil and filters", 10,
			models.MediaRef{URL: "u2", StorageID: "s2"}, models.MediaRef{URL: "t2", StorageID: "st2"})
		miss.IsPublished = true
		require.NoError(t, videoRepo.Create(ctx, miss))

		page, err := videoRepo.List(ctx, ListOptions{Query: "sourdough"})
		require.NoError(t, err)
		require.Len(t, page.Videos, 1)
		assert.Equal(t, match.ID, page.Videos[0].ID)

		page, err = videoRepo.List(ctx, ListOptions{Query: "fermentation"})
		require.NoError(t, err)
		require.Len(t, page.Videos, 1)
		assert.Equal(t, match.ID, page.Videos[0].ID)
	})

	t.Run("sorts by views ascending", func(t *testing.T) {
		td.TruncateTables(t)

		owner := seedUser(t, userRepo, "dave")
		low := seedVideo(t, videoRepo, owner.ID, "low", true)
		high := seedVideo(t, videoRepo, owner.ID, "high", true)
		for i := 0; i < 5; i++ {
			require.NoError(t, videoRepo.IncrementViews(ctx, high.ID))
		}

		page, err := videoRepo.List(ctx, ListOptions{SortBy: "views", SortDir: "asc"})
		require.NoError(t, err)
		require.Len(t, page.Videos, 2)
		assert.Equal(t, low.ID, page.Videos[0].ID)
		assert.Equal(t, high.ID, page.Videos[1].ID)
	})

	t.Run("unknown sort falls back to newest first", func(t *testing.T) {
		td.TruncateTables(t)

		owner := seedUser(t, userRepo, "erin")
		older := seedVideo(t, videoRepo, owner.ID, "older", true)
		older.CreatedAt = older.CreatedAt.Add(-time.Hour)
		_, err := td.Pool.Exec(ctx, `UPDATE videos SET created_at = $2 WHERE id = $1`, older.ID, older.CreatedAt)
		require.NoError(t, err)
		newer := seedVideo(t, videoRepo, owner.ID, "newer", true)

		page, err := videoRepo.List(ctx, ListOptions{SortBy: "evil; DROP TABLE videos"})
		require.NoError(t, err)
		require.Len(t, page.Videos, 2)
		assert.Equal(t, newer.ID, page.Videos[0].ID)
		assert.Equal(t, older.ID, page.Videos[1].ID)
	})
}

func TestVideoRepository_GetDetail(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	videoRepo := NewVideoRepository(td.Pool)
	userRepo := NewUserRepository(td.Pool)
	likeRepo := NewLikeRepository(td.Pool)
	subRepo := NewSubscriptionRepository(td.Pool)
	ctx := context.Background()

	t.Run("aggregates likes and subscriptions relative to the viewer", func(t *testing.T) {
		td.TruncateTables(t)

		owner := seedUser(t, userRepo, "creator")
		viewer := seedUser(t, userRepo, "viewer")
		other := seedUser(t, userRepo, "other")
		video := seedVideo(t, videoRepo, owner.ID, "popular", true)

		require.NoError(t, likeRepo.Add(ctx, video.ID, viewer.ID))
		require.NoError(t, likeRepo.Add(ctx, video.ID, other.ID))
		require.NoError(t, subRepo.Subscribe(ctx, owner.ID, viewer.ID))

		detail, err := videoRepo.GetDetail(ctx, video.ID, viewer.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), detail.LikesCount)
		assert.True(t, detail.IsLiked)
		assert.Equal(t, "creator", detail.Owner.Username)
		assert.Equal(t, int64(1), detail.Owner.SubscribersCount)
		assert.True(t, detail.Owner.IsSubscribed)

		// Same video, a viewer with no engagement.
		detail, err = videoRepo.GetDetail(ctx, video.ID, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, int64(2), detail.LikesCount)
		assert.False(t, detail.IsLiked)
		assert.False(t, detail.Owner.IsSubscribed)
	})

	t.Run("missing video maps to not found", func(t *testing.T) {
		_, err := videoRepo.GetDetail(ctx, uuid.New(), uuid.New())
		require.Error(t, err)
		assert.True(t, db.IsNotFound(err))
	})
}

func TestVideoRepository_Update(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	videoRepo := NewVideoRepository(td.Pool)
	userRepo := NewUserRepository(td.Pool)
	ctx := context.Background()

	t.Run("replaces metadata and thumbnail", func(t *testing.T) {
		td.TruncateTables(t)

		owner := seedUser(t, userRepo, "alice")
		video := seedVideo(t, videoRepo, owner.ID, "before", true)

		newThumb := models.MediaRef{URL: "http://store/thumbnails/after.png", StorageID: "thumbnails/after.png"}
		updated, err := videoRepo.Update(ctx, video.ID, "after", "new description", newThumb)
		require.NoError(t, err)
		assert.Equal(t, "after", updated.Title)
		assert.Equal(t, "new description", updated.Description)
		assert.Equal(t, newThumb, updated.Thumbnail)
		// The video file is untouched by updates.
		assert.Equal(t, video.File, updated.File)
		assert.True(t, updated.UpdatedAt.After(video.UpdatedAt))
	})

	t.Run("missing video maps to not found", func(t *testing.T) {
		_, err := videoRepo.Update(ctx, uuid.New(), "t", "d", models.MediaRef{})
		require.Error(t, err)
		assert.True(t, db.IsNotFound(err))
	})
}

func TestVideoRepository_DeleteAndToggle(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	videoRepo := NewVideoRepository(td.Pool)
	userRepo := NewUserRepository(td.Pool)
	ctx := context.Background()

	t.Run("delete removes the row", func(t *testing.T) {
		td.TruncateTables(t)

		owner := seedUser(t, userRepo, "alice")
		video := seedVideo(t, videoRepo, owner.ID, "doomed", true)

		require.NoError(t, videoRepo.Delete(ctx, video.ID))

		_, err := videoRepo.GetByID(ctx, video.ID)
		assert.True(t, db.IsNotFound(err))

		err = videoRepo.Delete(ctx, video.ID)
		assert.True(t, db.IsNotFound(err))
	})

	t.Run("toggle pair restores the original state", func(t *testing.T) {
		td.TruncateTables(t)

		owner := seedUser(t, userRepo, "alice")
		video := seedVideo(t, videoRepo, owner.ID, "flappy", true)

		published, err := videoRepo.TogglePublish(ctx, video.ID)
		require.NoError(t, err)
		assert.False(t, published)

		published, err = videoRepo.TogglePublish(ctx, video.ID)
		require.NoError(t, err)
		assert.True(t, published)
	})

	t.Run("toggle missing video maps to not found", func(t *testing.T) {
		_, err := videoRepo.TogglePublish(ctx, uuid.New())
		assert.True(t, db.IsNotFound(err))
	})
}

func TestVideoRepository_IncrementViews(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	videoRepo := NewVideoRepository(td.Pool)
	userRepo := NewUserRepository(td.Pool)
	ctx := context.Background()

	td.TruncateTables(t)
	owner := seedUser(t, userRepo, "alice")
	video := seedVideo(t, videoRepo, owner.ID, "counted", true)

	for i := 0; i < 3; i++ {
		require.NoError(t, videoRepo.IncrementViews(ctx, video.ID))
	}

	got, err := videoRepo.GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Views)

	err = videoRepo.IncrementViews(ctx, uuid.New())
	assert.True(t, db.IsNotFound(err))
}
