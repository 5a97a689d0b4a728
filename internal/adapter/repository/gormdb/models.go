package gormdb

import (
	"time"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
)

type adminModel struct {
	ID           int64  `gorm:"primaryKey"`
	Username     string `gorm:"size:80;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	CreatedAt    time.Time
}

func (adminModel) TableName() string { return "admins" }

type userModel struct {
	ID           int64   `gorm:"primaryKey"`
	Username     string  `gorm:"size:80;uniqueIndex;not null"`
	Email        string  `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string  `gorm:"size:255;not null"`
	Location     *string `gorm:"size:100"`
	CreatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

type listingModel struct {
	ID          int64     `gorm:"primaryKey"`
	Title       string    `gorm:"size:100;not null"`
	Category    string    `gorm:"size:50;not null;index"`
	ListingType string    `gorm:"size:20;not null;index"`
	Description string    `gorm:"type:text;not null"`
	Location    *string   `gorm:"size:100"`
	Tags        *string   `gorm:"size:200"`
	OwnerUserID int64     `gorm:"not null;index"`
	Owner       userModel `gorm:"foreignKey:OwnerUserID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

func (listingModel) TableName() string { return "listings" }

type feedbackModel struct {
	ID             int64        `gorm:"primaryKey"`
	Rating         int          `gorm:"not null;check:chk_feedbacks_rating,rating >= 1 AND rating <= 5"`
	Comment        *string      `gorm:"type:text"`
	ReviewerUserID int64        `gorm:"not null;uniqueIndex:idx_feedbacks_reviewer_listing"`
	Reviewer       userModel    `gorm:"foreignKey:ReviewerUserID;constraint:OnDelete:CASCADE"`
	ListingID      int64        `gorm:"not null;uniqueIndex:idx_feedbacks_reviewer_listing;index"`
	Listing        listingModel `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time    `gorm:"index"`
}

func (feedbackModel) TableName() string { return "feedbacks" }

type interestModel struct {
	ID               int64        `gorm:"primaryKey"`
	Message          *string      `gorm:"type:text"`
	InterestedUserID int64        `gorm:"not null;uniqueIndex:idx_interests_user_listing"`
	InterestedUser   userModel    `gorm:"foreignKey:InterestedUserID;constraint:OnDelete:CASCADE"`
	ListingID        int64        `gorm:"not null;uniqueIndex:idx_interests_user_listing;index"`
	Listing          listingModel `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time    `gorm:"index"`
}

func (interestModel) TableName() string { return "interests" }

type notificationModel struct {
	ID               int64         `gorm:"primaryKey"`
	Message          string        `gorm:"type:text;not null"`
	NotificationType string        `gorm:"size:20;not null;check:chk_notifications_type,notification_type IN ('interest','feedback','message')"`
	IsRead           bool          `gorm:"not null;default:false;index"`
	RecipientUserID  int64         `gorm:"not null;index"`
	Recipient        userModel     `gorm:"foreignKey:RecipientUserID;constraint:OnDelete:CASCADE"`
	SenderUserID     *int64        `gorm:"index"`
	Sender           *userModel    `gorm:"foreignKey:SenderUserID;constraint:OnDelete:SET NULL"`
	RelatedListingID *int64        `gorm:"index"`
	RelatedListing   *listingModel `gorm:"foreignKey:RelatedListingID;constraint:OnDelete:SET NULL"`
	CreatedAt        time.Time     `gorm:"index"`
}

func (notificationModel) TableName() string { return "notifications" }

// allModels lists the tables in dependency order for migration.
func allModels() []interface{} {
	return []interface{}{
		&adminModel{},
		&userModel{},
		&listingModel{},
		&feedbackModel{},
		&interestModel{},
		&notificationModel{},
	}
}

func (m *adminModel) toDomain() domain.Admin {
	return domain.Admin{ID: m.ID, Username: m.Username, PasswordHash: m.PasswordHash, CreatedAt: m.CreatedAt}
}

func (m *userModel) toDomain() domain.User {
	return domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Location:     m.Location,
		CreatedAt:    m.CreatedAt,
	}
}

func userFromDomain(u *domain.User) *userModel {
	return &userModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Location:     u.Location,
		CreatedAt:    u.CreatedAt,
	}
}

func (m *listingModel) toDomain() domain.Listing {
	return domain.Listing{
		ID:            m.ID,
		Title:         m.Title,
		Category:      m.Category,
		ListingType:   m.ListingType,
		Description:   m.Description,
		Location:      m.Location,
		Tags:          m.Tags,
		OwnerUserID:   m.OwnerUserID,
		OwnerUsername: m.Owner.Username,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func listingFromDomain(l *domain.Listing) *listingModel {
	return &listingModel{
		ID:          l.ID,
		Title:       l.Title,
		Category:    l.Category,
		ListingType: l.ListingType,
		Description: l.Description,
		Location:    l.Location,
		Tags:        l.Tags,
		OwnerUserID: l.OwnerUserID,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func (m *feedbackModel) toDomain() domain.Feedback {
	return domain.Feedback{
		ID:               m.ID,
		Rating:           m.Rating,
		Comment:          m.Comment,
		ReviewerUserID:   m.ReviewerUserID,
		ReviewerUsername: m.Reviewer.Username,
		ListingID:        m.ListingID,
		CreatedAt:        m.CreatedAt,
	}
}

func (m *interestModel) toDomain() domain.Interest {
	return domain.Interest{
		ID:                 m.ID,
		Message:            m.Message,
		InterestedUserID:   m.InterestedUserID,
		InterestedUsername: m.InterestedUser.Username,
		ListingID:          m.ListingID,
		ListingTitle:       m.Listing.Title,
		CreatedAt:          m.CreatedAt,
	}
}

func (m *notificationModel) toDomain() domain.Notification {
	n := domain.Notification{
		ID:               m.ID,
		Message:          m.Message,
		Type:             domain.NotificationType(m.NotificationType),
		IsRead:           m.IsRead,
		RecipientUserID:  m.RecipientUserID,
		SenderUserID:     m.SenderUserID,
		RelatedListingID: m.RelatedListingID,
		CreatedAt:        m.CreatedAt,
	}
	if m.Sender != nil {
		n.SenderUsername = m.Sender.Username
	}
	return n
}
