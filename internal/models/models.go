// Package models contains the request and response DTOs of the HTTP API.
package models

import (
	"net/http"
	"time"
)

// ErrorResponse represents an error response.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

// NewErrorResponse builds an ErrorResponse stamped with the current time.
func NewErrorResponse(status int, message, path string) ErrorResponse {
	return ErrorResponse{
		Timestamp: time.Now(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      path,
	}
}

// PageQuery is the pagination part of a listing query string. Absent values
// fall back to defaults; an explicit page or limit must be at least 1.
type PageQuery struct {
	Page  *int `form:"page" binding:"omitempty,min=1"`
	Limit *int `form:"limit" binding:"omitempty,min=1"`
}

// Values returns page and limit with absent values as zero.
func (q PageQuery) Values() (page, limit int) {
	if q.Page != nil {
		page = *q.Page
	}
	if q.Limit != nil {
		limit = *q.Limit
	}
	return page, limit
}

// ListVideosQuery is the query string of the video listing.
type ListVideosQuery struct {
	PageQuery
	Query    string `form:"query" binding:"max=200"`
	UserID   string `form:"userId"`
	SortBy   string `form:"sortBy"`
	SortType string `form:"sortType"`
}

// PublishVideoForm holds the text fields of a video upload.
type PublishVideoForm struct {
	Title       string  `form:"title" binding:"required"`
	Description string  `form:"description" binding:"required"`
	Duration    float64 `form:"duration" binding:"min=0"`
}

// UpdateVideoForm holds the text fields of a video edit. The thumbnail
// file part is optional.
type UpdateVideoForm struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description" binding:"required"`
}

// RegisterForm holds the text fields of a registration.
type RegisterForm struct {
	Username string `form:"username" binding:"required"`
	Email    string `form:"email" binding:"required"`
	FullName string `form:"fullName" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// LikeStatusDTO is returned by the like toggle.
type LikeStatusDTO struct {
	IsLiked bool `json:"isLiked"`
}

// SubscriptionStatusDTO is returned by the subscription toggle.
type SubscriptionStatusDTO struct {
	Subscribed bool `json:"subscribed"`
}
