// Package models contains the data models and DTOs for the video hosting service.
package models

import (
	"time"

	"github.com/google/uuid"
)

// MediaRef is an uploaded asset: a public URL plus the opaque storage
// identifier used to delete the asset later.
type MediaRef struct {
	URL       string `json:"url"`
	StorageID string `json:"storageId"`
}

// Video represents a hosted video record.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Video struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	File        MediaRef  `json:"videoFile"`
	Thumbnail   MediaRef  `json:"thumbnail"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewVideo creates an unpublished video owned by ownerID.
func NewVideo(ownerID uuid.UUID, title, description string, duration float64, file, thumbnail MediaRef) *Video {
	now := time.Now()
	return &Video{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Duration:    duration,
		File:        file,
		Thumbnail:   thumbnail,
		Views:       0,
		IsPublished: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// User represents a platform account.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// Like is a (video, user) pair; a user likes a video at most once.
type Like struct {
	VideoID   uuid.UUID `json:"videoId"`
	UserID    uuid.UUID `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is a user comment attached to a video.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Comment struct {
	ID        uuid.UUID `json:"id"`
	VideoID   uuid.UUID `json:"videoId"`
	AuthorID  uuid.UUID `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// Subscription records that subscriber follows channel (a user).
type Subscription struct {
	ChannelID    uuid.UUID `json:"channelId"`
	SubscriberID uuid.UUID `json:"subscriberId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Owner is the denormalized owner projection joined into video results.
type Owner struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatarUrl"`
}

// VideoSummary is one row of a video listing: the record plus its owner.
type VideoSummary struct {
	Video
	Owner Owner `json:"owner"`
}

// DetailOwner extends Owner with the viewer-relative subscription fields.
type DetailOwner struct {
	Owner
	SubscribersCount int64 `json:"subscribersCount"`
	IsSubscribed     bool  `json:"isSubscribed"`
}

// VideoDetail is the aggregated single-video view.
type VideoDetail struct {
	Video
	Owner      DetailOwner `json:"owner"`
	LikesCount int64       `json:"likesCount"`
	IsLiked    bool        `json:"isLiked"`
}

// VideoPage is a paginated listing result.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type VideoPage struct {
	Videos     []*VideoSummary `json:"videos"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalItems int64           `json:"totalItems"`
	TotalPages int             `json:"totalPages"`
}

// APIResponse is the uniform success envelope.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type APIResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// APIError is the uniform error envelope.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type APIError struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}
