package domain

import "context"

// Repository implementations translate storage errors: a missing row is
// ErrNotFound and a unique-constraint violation is ErrDuplicate.

type AdminRepository interface {
	Create(ctx context.Context, admin *Admin) error
	GetByID(ctx context.Context, id int64) (*Admin, error)
	GetByUsername(ctx context.Context, username string) (*Admin, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]Admin, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, id int64) error
}

// ListingRepository returns listings newest first unless stated otherwise.
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	GetByID(ctx context.Context, id int64) (*Listing, error)
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, filter ListingFilter) ([]Listing, error)
	Recent(ctx context.Context, limit int) ([]Listing, error)
	ListByOwner(ctx context.Context, ownerUserID int64) ([]Listing, error)
	ListAll(ctx context.Context) ([]Listing, error)
	DeleteByOwner(ctx context.Context, ownerUserID int64) error
}

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *Feedback) error
	GetByID(ctx context.Context, id int64) (*Feedback, error)
	Delete(ctx context.Context, id int64) error
	ListByListing(ctx context.Context, listingID int64) ([]Feedback, error)
	ListAll(ctx context.Context) ([]Feedback, error)
	ExistsForReviewer(ctx context.Context, reviewerUserID, listingID int64) (bool, error)
	SummaryForListing(ctx context.Context, listingID int64) (RatingSummary, error)
	// SummaryForOwner aggregates feedback over every listing owned by the user.
	SummaryForOwner(ctx context.Context, ownerUserID int64) (RatingSummary, error)
	DeleteByListing(ctx context.Context, listingID int64) error
	DeleteByReviewer(ctx context.Context, reviewerUserID int64) error
	DeleteByListingOwner(ctx context.Context, ownerUserID int64) error
}

type InterestRepository interface {
	Create(ctx context.Context, interest *Interest) error
	GetByID(ctx context.Context, id int64) (*Interest, error)
	Delete(ctx context.Context, id int64) error
	ListByListing(ctx context.Context, listingID int64) ([]Interest, error)
	Exists(ctx context.Context, userID, listingID int64) (bool, error)
	CountByListing(ctx context.Context, listingID int64) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]Interest, error)
	DeleteByListing(ctx context.Context, listingID int64) error
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteByListingOwner(ctx context.Context, ownerUserID int64) error
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	GetByID(ctx context.Context, id int64) (*Notification, error)
	ListByRecipient(ctx context.Context, recipientUserID int64) ([]Notification, error)
	CountUnread(ctx context.Context, recipientUserID int64) (int64, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context, recipientUserID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteByRecipient(ctx context.Context, recipientUserID int64) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]Notification, error)
	DeleteByListing(ctx context.Context, listingID int64) error
	// DeleteByUser removes notifications the user received or sent.
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteByListingOwner(ctx context.Context, ownerUserID int64) error
}

// Repositories is the set of repositories bound to one transaction.
type Repositories struct {
	Admins        AdminRepository
	Users         UserRepository
	Listings      ListingRepository
	Feedback      FeedbackRepository
	Interests     InterestRepository
	Notifications NotificationRepository
}

// Transactor runs fn in a single transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
