package repository

import "context"

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access used to resolve call webhooks to leads.
type LeadReader interface {
	GetByID(ctx context.Context, id string) (Lead, error)
	GetByExactPhone(ctx context.Context, phone string) (Lead, error)
	ListByPhoneSuffix(ctx context.Context, suffix string, limit int) ([]Lead, error)
	ListRecent(ctx context.Context, limit int) ([]Lead, error)
	ListByNameLike(ctx context.Context, pattern string, limit int) ([]Lead, error)
}

// LeadWriter provides partial updates of call outcome fields.
type LeadWriter interface {
	Update(ctx context.Context, id string, params UpdateLeadParams) ([]Lead, error)
}

// LeadStore is the full read/update contract.
type LeadStore interface {
	LeadReader
	LeadWriter
}

var _ LeadStore = (*Repository)(nil)
