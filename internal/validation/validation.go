// Package validation checks caller input before any store access.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-z0-9_.-]{3,30}$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// VideoSortFields lists the fields a video listing may be sorted by.
var VideoSortFields = []string{"created_at", "createdAt", "views", "duration", "title"}

const (
	maxTitleLength       = 200
	maxDescriptionLength = 5000
)

// Page is a validated page request. Page numbers start at 1.
type Page struct {
	Page  int
	Limit int
}

// Offset returns the number of rows to skip. It saturates at math.MaxInt so
// a page far past the end still yields an empty result.
func (p Page) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// TotalPages returns how many pages total rows fill.
func (p Page) TotalPages(total int) int {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}

// Sort is a validated sort request. An empty Field means the default order.
type Sort struct {
	Field     string
	Direction string
}

type Validator struct {
	defaultPageSize int
	maxPageSize     int
}

func New(defaultPageSize, maxPageSize int) *Validator {
	return &Validator{
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// ParseID parses a resource identifier. field names the input in the error.
func ParseID(field, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%s is required", field)
	}
	// uuid.Parse also accepts braced and urn forms; only the canonical one is valid here.
	if len(raw) != 36 {
		return uuid.Nil, fmt.Errorf("invalid %s: %s", field, raw)
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %s", field, raw)
	}
	return id, nil
}

// Page validates pagination. Zero values select the first page and the
// default size; limits above the maximum are clamped.
func (v *Validator) Page(page, limit int) (Page, error) {
	if page < 0 {
		return Page{}, fmt.Errorf("page must be a positive integer")
	}
	if limit < 0 {
		return Page{}, fmt.Errorf("limit must be a positive integer")
	}
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = v.defaultPageSize
	}
	if limit > v.maxPageSize {
		limit = v.maxPageSize
	}
	return Page{Page: page, Limit: limit}, nil
}

// VideoSort validates a sort request. The request applies only when both the
// field and the direction are given.
func (v *Validator) VideoSort(field, direction string) (Sort, error) {
	field = strings.TrimSpace(field)
	direction = strings.ToLower(strings.TrimSpace(direction))
	if field == "" || direction == "" {
		return Sort{}, nil
	}

	known := false
	for _, f := range VideoSortFields {
		if f == field {
			known = true
			break
		}
	}
	if !known {
		return Sort{}, fmt.Errorf("unsupported sort field: %s", field)
	}
	if direction != "asc" && direction != "desc" {
		return Sort{}, fmt.Errorf("sort direction must be asc or desc")
	}
	return Sort{Field: field, Direction: direction}, nil
}

// VideoMetadata validates the editable text of a video.
func (v *Validator) VideoMetadata(title, description string) error {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return fmt.Errorf("title and description are required")
	}
	if len(title) > maxTitleLength {
		return fmt.Errorf("title exceeds %d characters", maxTitleLength)
	}
	if len(description) > maxDescriptionLength {
		return fmt.Errorf("description exceeds %d characters", maxDescriptionLength)
	}
	return nil
}

// Registration validates account fields. username is checked in its
// normalized lowercase form.
func (v *Validator) Registration(username, email, fullName, password string) error {
	if strings.TrimSpace(fullName) == "" || strings.TrimSpace(email) == "" ||
		strings.TrimSpace(username) == "" || password == "" {
		return fmt.Errorf("all fields are required")
	}
	if !usernameRegex.MatchString(strings.ToLower(strings.TrimSpace(username))) {
		return fmt.Errorf("invalid username format: %s", username)
	}
	if !emailRegex.MatchString(strings.TrimSpace(email)) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}
