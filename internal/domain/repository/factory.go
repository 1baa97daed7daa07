package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Products() ProductRepository
	Sells() SellRepository
	Ownership() OwnershipRepository
	WebhookEvents() WebhookEventRepository
	Claims() ClaimRepository
}
