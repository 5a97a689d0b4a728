package domain

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// Column widths of the bounded text fields, in characters.
const (
	MaxUsernameLen    = 80
	MaxEmailLen       = 120
	MaxLocationLen    = 100
	MaxTitleLen       = 100
	MaxCategoryLen    = 50
	MaxListingTypeLen = 20
	MaxTagsLen        = 200
)

type Admin struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Location     *string
	CreatedAt    time.Time
}

// Listing is something a user offers or requests.
// OwnerUsername is filled on reads and ignored on writes.
type Listing struct {
	ID            int64
	Title         string
	Category      string
	ListingType   string
	Description   string
	Location      *string
	Tags          *string
	OwnerUserID   int64
	OwnerUsername string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ListingInput carries the editable listing fields.
type ListingInput struct {
	Title       string
	Category    string
	ListingType string
	Description string
	Location    *string
	Tags        *string
}

// Normalize trims the fields and turns blank optional values into nil.
func (in ListingInput) Normalize() ListingInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	in.ListingType = strings.TrimSpace(in.ListingType)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = OptionalText(in.Location)
	in.Tags = OptionalText(in.Tags)
	return in
}

// Missing returns the names of the required fields that are empty.
func (in ListingInput) Missing() []string {
	var missing []string
	if in.Title == "" {
		missing = append(missing, "title")
	}
	if in.Category == "" {
		missing = append(missing, "category")
	}
	if in.ListingType == "" {
		missing = append(missing, "listing_type")
	}
	if in.Description == "" {
		missing = append(missing, "description")
	}
	return missing
}

// TooLong returns the names of the fields longer than their column allows.
func (in ListingInput) TooLong() []string {
	var long []string
	if ExceedsLen(in.Title, MaxTitleLen) {
		long = append(long, "title")
	}
	if ExceedsLen(in.Category, MaxCategoryLen) {
		long = append(long, "category")
	}
	if ExceedsLen(in.ListingType, MaxListingTypeLen) {
		long = append(long, "listing_type")
	}
	if in.Location != nil && ExceedsLen(*in.Location, MaxLocationLen) {
		long = append(long, "location")
	}
	if in.Tags != nil && ExceedsLen(*in.Tags, MaxTagsLen) {
		long = append(long, "tags")
	}
	return long
}

// ExceedsLen reports whether s has more than max characters.
func ExceedsLen(s string, max int) bool {
	return utf8.RuneCountInString(s) > max
}

type Feedback struct {
	ID               int64
	Rating           int
	Comment          *string
	ReviewerUserID   int64
	ReviewerUsername string
	ListingID        int64
	CreatedAt        time.Time
}

const (
	MinRating = 1
	MaxRating = 5
)

// ValidRating reports whether r is within [MinRating, MaxRating].
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

type Interest struct {
	ID                 int64
	Message            *string
	InterestedUserID   int64
	InterestedUsername string
	ListingID          int64
	ListingTitle       string
	CreatedAt          time.Time
}

// NotificationType classifies a notification.
type NotificationType string

const (
	NotificationInterest NotificationType = "interest"
	NotificationFeedback NotificationType = "feedback"
	NotificationMessage  NotificationType = "message"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationInterest, NotificationFeedback, NotificationMessage:
		return true
	}
	return false
}

type Notification struct {
	ID               int64
	Message          string
	Type             NotificationType
	IsRead           bool
	RecipientUserID  int64
	SenderUserID     *int64
	SenderUsername   string
	RelatedListingID *int64
	CreatedAt        time.Time
}

// RatingSummary is the aggregated feedback of a listing or of all listings of a user.
type RatingSummary struct {
	Average *float64
	Count   int64
}

// RoundRating rounds an average rating to one decimal.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

// ListingDetail is a listing with everything its detail page shows.
type ListingDetail struct {
	Listing             Listing
	Feedback            []Feedback
	AverageRating       *float64
	FeedbackCount       int64
	InterestCount       int64
	HasFeedback         bool
	CanEdit             bool
	ViewerHasReviewed   bool
	ViewerShownInterest bool
	ViewerIsOwner       bool
}

// UserProfile is the public profile of a user.
type UserProfile struct {
	User          User
	AverageRating *float64
	TotalFeedback int64
	Listings      []Listing
}

// CurrentActor describes the logged-in principal for the client.
type CurrentActor struct {
	Principal   Principal
	UnreadCount int64
}

// Dashboard is everything the admin overview shows.
type Dashboard struct {
	Users               []User
	Listings            []Listing
	Admins              []Admin
	Feedback            []Feedback
	RecentInterests     []Interest
	RecentNotifications []Notification
}

// ListingFilter narrows a listing search. Empty fields do not filter.
type ListingFilter struct {
	Category    string
	ListingType string
	Search      string
	// CaseInsensitive makes Search ignore case.
	CaseInsensitive bool
}

// OptionalText trims s and returns nil when nothing is left.
func OptionalText(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
