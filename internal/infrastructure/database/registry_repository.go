package database

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dyleth/fraudshield/internal/domain/errors"
	"github.com/dyleth/fraudshield/internal/domain/fraud"
)

// RegistryRepository implements the read and write sides of the authoritative
// fraud registry on PostgreSQL. A miss returns (nil, nil) so callers can fall
// through to the classifier without error handling gymnastics.
type RegistryRepository struct {
	db *pgxpool.Pool
}

// NewRegistryRepository creates a new PostgreSQL registry repository
func NewRegistryRepository(db *pgxpool.Pool) *RegistryRepository {
	return &RegistryRepository{db: db}
}

// FindNumber looks up a phone number in the registry
func (r *RegistryRepository) FindNumber(ctx context.Context, phone string) (*fraud.FraudulentNumber, error) {
	query := `
		SELECT phone_number, country_code, fraud_type, confidence_score,
		       report_count, verified, first_reported, last_reported,
		       metadata, source
		FROM fraudulent_numbers
		WHERE phone_number = $1
	`

	var entry fraud.FraudulentNumber
	var metadataJSON []byte
	err := r.db.QueryRow(ctx, query, phone).Scan(
		&entry.PhoneNumber,
		&entry.CountryCode,
		&entry.FraudType,
		&entry.ConfidenceScore,
		&entry.ReportCount,
		&entry.Verified,
		&entry.FirstReported,
		&entry.LastReported,
		&metadataJSON,
		&entry.Source,
	)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.NewInternalError("failed to query fraudulent number").WithCause(err)
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal metadata").WithCause(err)
		}
	}

	return &entry, nil
}

// InsertNumber adds a new registry entry for a phone number
func (r *RegistryRepository) InsertNumber(ctx context.Context, entry *fraud.FraudulentNumber) error {
	query := `
		INSERT INTO fraudulent_numbers (
			phone_number, country_code, fraud_type, confidence_score,
			report_count, verified, first_reported, last_reported,
			metadata, source
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (phone_number) DO UPDATE SET
			report_count = fraudulent_numbers.report_count + 1,
			confidence_score = GREATEST(fraudulent_numbers.confidence_score, EXCLUDED.confidence_score),
			last_reported = EXCLUDED.last_reported
	`

	metadataJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return errors.NewInternalError("failed to marshal metadata").WithCause(err)
	}

	_, err = r.db.Exec(ctx, query,
		entry.PhoneNumber,
		entry.CountryCode,
		entry.FraudType,
		entry.ConfidenceScore,
		entry.ReportCount,
		entry.Verified,
		entry.FirstReported,
		entry.LastReported,
		metadataJSON,
		entry.Source,
	)
	if err != nil {
		return errors.NewInternalError("failed to insert fraudulent number").WithCause(err)
	}

	return nil
}

// IncrementNumberReports bumps the report counter for an existing entry.
// The increment happens in SQL so concurrent reports never lose updates.
func (r *RegistryRepository) IncrementNumberReports(ctx context.Context, phone string) error {
	query := `
		UPDATE fraudulent_numbers
		SET report_count = report_count + 1,
		    confidence_score = LEAST(confidence_score + 0.02, 0.99),
		    last_reported = NOW()
		WHERE phone_number = $1
	`

	tag, err := r.db.Exec(ctx, query, phone)
	if err != nil {
		return errors.NewInternalError("failed to increment report count").WithCause(err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewNotFoundError("fraudulent number")
	}

	return nil
}

// RemoveNumber deletes a registry entry.
func (r *RegistryRepository) RemoveNumber(ctx context.Context, phone string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM fraudulent_numbers WHERE phone_number = $1`, phone)
	if err != nil {
		return errors.NewInternalError("failed to delete fraudulent number").WithCause(err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewNotFoundError("fraudulent number")
	}

	return nil
}

// FindDomain looks up an email domain in the registry
func (r *RegistryRepository) FindDomain(ctx context.Context, domain string) (*fraud.FraudulentDomain, error) {
	query := `
		SELECT domain, phishing_type, first_seen, blocked_count,
		       spf_valid, dkim_valid, COALESCE(dmarc_policy, ''), reputation_score
		FROM fraudulent_domains
		WHERE domain = $1
	`

	var entry fraud.FraudulentDomain
	err := r.db.QueryRow(ctx, query, domain).Scan(
		&entry.Domain,
		&entry.PhishingType,
		&entry.FirstSeen,
		&entry.BlockedCount,
		&entry.SPFValid,
		&entry.DKIMValid,
		&entry.DMARCPolicy,
		&entry.ReputationScore,
	)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.NewInternalError("failed to query fraudulent domain").WithCause(err)
	}

	return &entry, nil
}

// InsertDomain adds a new registry entry for a domain
func (r *RegistryRepository) InsertDomain(ctx context.Context, entry *fraud.FraudulentDomain) error {
	query := `
		INSERT INTO fraudulent_domains (
			domain, phishing_type, first_seen, blocked_count,
			spf_valid, dkim_valid, dmarc_policy, reputation_score
		) VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
		ON CONFLICT (domain) DO UPDATE SET
			blocked_count = fraudulent_domains.blocked_count + 1,
			reputation_score = GREATEST(fraudulent_domains.reputation_score, EXCLUDED.reputation_score)
	`

	_, err := r.db.Exec(ctx, query,
		entry.Domain,
		entry.PhishingType,
		entry.FirstSeen,
		entry.BlockedCount,
		entry.SPFValid,
		entry.DKIMValid,
		entry.DMARCPolicy,
		entry.ReputationScore,
	)
	if err != nil {
		return errors.NewInternalError("failed to insert fraudulent domain").WithCause(err)
	}

	return nil
}

// IncrementDomainBlocked bumps the blocked counter for an existing domain.
func (r *RegistryRepository) IncrementDomainBlocked(ctx context.Context, domain string) error {
	query := `
		UPDATE fraudulent_domains
		SET blocked_count = blocked_count + 1,
		    reputation_score = LEAST(reputation_score + 0.03, 0.99)
		WHERE domain = $1
	`

	tag, err := r.db.Exec(ctx, query, domain)
	if err != nil {
		return errors.NewInternalError("failed to increment blocked count").WithCause(err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewNotFoundError("fraudulent domain")
	}

	return nil
}
