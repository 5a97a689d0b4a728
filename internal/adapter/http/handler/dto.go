package handler

import (
	"time"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
)

// Requests

type registerRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Location *string `json:"location"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type listingRequest struct {
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	ListingType string  `json:"listing_type"`
	Description string  `json:"description"`
	Location    *string `json:"location"`
	Tags        *string `json:"tags"`
}

func (req listingRequest) toInput() domain.ListingInput {
	return domain.ListingInput{
		Title:       req.Title,
		Category:    req.Category,
		ListingType: req.ListingType,
		Description: req.Description,
		Location:    req.Location,
		Tags:        req.Tags,
	}
}

type interestRequest struct {
	Message *string `json:"message"`
}

type feedbackRequest struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

// Responses

type principalResponse struct {
	Kind     domain.PrincipalKind `json:"kind"`
	ID       int64                `json:"id"`
	Username string               `json:"username"`
}

func toPrincipalResponse(p domain.Principal) principalResponse {
	return principalResponse{Kind: p.Kind, ID: p.ID, Username: p.Username}
}

type loginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	Principal principalResponse `json:"principal"`
}

type meResponse struct {
	Principal   principalResponse `json:"principal"`
	UnreadCount int64             `json:"unread_count"`
}

// userResponse omits the e-mail unless withEmail is set.
type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Location  *string   `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u domain.User, withEmail bool) userResponse {
	resp := userResponse{ID: u.ID, Username: u.Username, Location: u.Location, CreatedAt: u.CreatedAt}
	if withEmail {
		resp.Email = u.Email
	}
	return resp
}

func toUserResponses(users []domain.User, withEmail bool) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u, withEmail))
	}
	return out
}

type adminResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func toAdminResponses(admins []domain.Admin) []adminResponse {
	out := make([]adminResponse, 0, len(admins))
	for _, a := range admins {
		out = append(out, adminResponse{ID: a.ID, Username: a.Username, CreatedAt: a.CreatedAt})
	}
	return out
}

type listingResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	ListingType   string    `json:"listing_type"`
	Description   string    `json:"description"`
	Location      *string   `json:"location"`
	Tags          *string   `json:"tags"`
	OwnerUserID   int64     `json:"owner_user_id"`
	OwnerUsername string    `json:"owner_username,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toListingResponse(l domain.Listing) listingResponse {
	return listingResponse{
		ID:            l.ID,
		Title:         l.Title,
		Category:      l.Category,
		ListingType:   l.ListingType,
		Description:   l.Description,
		Location:      l.Location,
		Tags:          l.Tags,
		OwnerUserID:   l.OwnerUserID,
		OwnerUsername: l.OwnerUsername,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func toListingResponses(listings []domain.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l))
	}
	return out
}

type feedbackResponse struct {
	ID               int64     `json:"id"`
	Rating           int       `json:"rating"`
	Comment          *string   `json:"comment"`
	ReviewerUserID   int64     `json:"reviewer_user_id"`
	ReviewerUsername string    `json:"reviewer_username,omitempty"`
	ListingID        int64     `json:"listing_id"`
	CreatedAt        time.Time `json:"created_at"`
}

func toFeedbackResponse(f domain.Feedback) feedbackResponse {
	return feedbackResponse{
		ID:               f.ID,
		Rating:           f.Rating,
		Comment:          f.Comment,
		ReviewerUserID:   f.ReviewerUserID,
		ReviewerUsername: f.ReviewerUsername,
		ListingID:        f.ListingID,
		CreatedAt:        f.CreatedAt,
	}
}

func toFeedbackResponses(feedback []domain.Feedback) []feedbackResponse {
	out := make([]feedbackResponse, 0, len(feedback))
	for _, f := range feedback {
		out = append(out, toFeedbackResponse(f))
	}
	return out
}

type interestResponse struct {
	ID                 int64     `json:"id"`
	Message            *string   `json:"message"`
	InterestedUserID   int64     `json:"interested_user_id"`
	InterestedUsername string    `json:"interested_username,omitempty"`
	ListingID          int64     `json:"listing_id"`
	ListingTitle       string    `json:"listing_title,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

func toInterestResponse(i domain.Interest) interestResponse {
	return interestResponse{
		ID:                 i.ID,
		Message:            i.Message,
		InterestedUserID:   i.InterestedUserID,
		InterestedUsername: i.InterestedUsername,
		ListingID:          i.ListingID,
		ListingTitle:       i.ListingTitle,
		CreatedAt:          i.CreatedAt,
	}
}

func toInterestResponses(interests []domain.Interest) []interestResponse {
	out := make([]interestResponse, 0, len(interests))
	for _, i := range interests {
		out = append(out, toInterestResponse(i))
	}
	return out
}

type notificationResponse struct {
	ID               int64                   `json:"id"`
	Message          string                  `json:"message"`
	Type             domain.NotificationType `json:"type"`
	IsRead           bool                    `json:"is_read"`
	RecipientUserID  int64                   `json:"recipient_user_id"`
	SenderUserID     *int64                  `json:"sender_user_id"`
	SenderUsername   string                  `json:"sender_username,omitempty"`
	RelatedListingID *int64                  `json:"related_listing_id"`
	CreatedAt        time.Time               `json:"created_at"`
}

func toNotificationResponse(n domain.Notification) notificationResponse {
	return notificationResponse{
		ID:               n.ID,
		Message:          n.Message,
		Type:             n.Type,
		IsRead:           n.IsRead,
		RecipientUserID:  n.RecipientUserID,
		SenderUserID:     n.SenderUserID,
		SenderUsername:   n.SenderUsername,
		RelatedListingID: n.RelatedListingID,
		CreatedAt:        n.CreatedAt,
	}
}

func toNotificationResponses(notifications []domain.Notification) []notificationResponse {
	out := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, toNotificationResponse(n))
	}
	return out
}

type listingDetailResponse struct {
	Listing             listingResponse    `json:"listing"`
	Feedback            []feedbackResponse `json:"feedback"`
	AverageRating       *float64           `json:"average_rating"`
	FeedbackCount       int64              `json:"feedback_count"`
	InterestCount       int64              `json:"interest_count"`
	HasFeedback         bool               `json:"has_feedback"`
	CanEdit             bool               `json:"can_edit"`
	ViewerHasReviewed   bool               `json:"viewer_has_reviewed"`
	ViewerShownInterest bool               `json:"viewer_shown_interest"`
	ViewerIsOwner       bool               `json:"viewer_is_owner"`
}

func toListingDetailResponse(d *domain.ListingDetail) listingDetailResponse {
	return listingDetailResponse{
		Listing:             toListingResponse(d.Listing),
		Feedback:            toFeedbackResponses(d.Feedback),
		AverageRating:       d.AverageRating,
		FeedbackCount:       d.FeedbackCount,
		InterestCount:       d.InterestCount,
		HasFeedback:         d.HasFeedback,
		CanEdit:             d.CanEdit,
		ViewerHasReviewed:   d.ViewerHasReviewed,
		ViewerShownInterest: d.ViewerShownInterest,
		ViewerIsOwner:       d.ViewerIsOwner,
	}
}

type profileResponse struct {
	User          userResponse      `json:"user"`
	AverageRating *float64          `json:"average_rating"`
	TotalFeedback int64             `json:"total_feedback"`
	Listings      []listingResponse `json:"listings"`
}

type dashboardResponse struct {
	Users               []userResponse         `json:"users"`
	Listings            []listingResponse      `json:"listings"`
	Admins              []adminResponse        `json:"admins"`
	Feedback            []feedbackResponse     `json:"feedback"`
	RecentInterests     []interestResponse     `json:"recent_interests"`
	RecentNotifications []notificationResponse `json:"recent_notifications"`
}

type countResponse struct {
	Count int64 `json:"count"`
}
