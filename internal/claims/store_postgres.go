package claims

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vitacare/pkg/domain"
	"vitacare/pkg/platform/sentinel"
)

// PostgresStore persists claims in PostgreSQL. Claim identifiers come from a
// dedicated sequence that starts at zero so they stay dense across restarts.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Schema is the DDL the store expects. Applied by the operator or by the
// integration test harness, not at runtime.
const Schema = `
CREATE SEQUENCE IF NOT EXISTS claims_id_seq MINVALUE 0 START WITH 0;

CREATE TABLE IF NOT EXISTS claims (
    id           BIGINT PRIMARY KEY DEFAULT nextval('claims_id_seq'),
    patient      TEXT        NOT NULL,
    service_id   TEXT        NOT NULL,
    cost         BIGINT      NOT NULL CHECK (cost > 0),
    status       TEXT        NOT NULL,
    insurer      TEXT        NOT NULL DEFAULT '',
    submitted_at TIMESTAMPTZ NOT NULL,
    processed_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS claims_patient_idx ON claims (patient);
`

func (s *PostgresStore) Create(ctx context.Context, claim Claim) (Claim, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO claims (patient, service_id, cost, status, insurer, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		claim.Patient.String(), claim.ServiceID, claim.Cost, string(claim.Status), claim.Insurer.String(), claim.SubmittedAt,
	)
	if err := row.Scan(&claim.ID); err != nil {
		return Claim{}, fmt.Errorf("insert claim: %w", err)
	}
	return claim, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.ClaimID) (Claim, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, patient, service_id, cost, status, insurer, submitted_at, processed_at
		FROM claims WHERE id = $1`, id,
	)
	claim, err := scanClaim(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Claim{}, sentinel.ErrNotFound
		}
		return Claim{}, fmt.Errorf("find claim: %w", err)
	}
	return claim, nil
}

func (s *PostgresStore) ListByPatient(ctx context.Context, patient domain.Principal) ([]Claim, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, patient, service_id, cost, status, insurer, submitted_at, processed_at
		FROM claims WHERE patient = $1 ORDER BY id`, patient.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	defer rows.Close()

	var out []Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		out = append(out, claim)
	}
	return out, rows.Err()
}

// Execute locks the claim row, runs validate, applies mutate and writes the
// result inside one transaction.
func (s *PostgresStore) Execute(ctx context.Context, id domain.ClaimID, validate func(Claim) error, mutate func(*Claim)) (Claim, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Claim{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		SELECT id, patient, service_id, cost, status, insurer, submitted_at, processed_at
		FROM claims WHERE id = $1 FOR UPDATE`, id,
	)
	claim, err := scanClaim(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Claim{}, sentinel.ErrNotFound
		}
		return Claim{}, fmt.Errorf("lock claim: %w", err)
	}

	if err := validate(claim); err != nil {
		return Claim{}, err
	}
	mutate(&claim)

	if _, err := tx.Exec(ctx, `
		UPDATE claims SET status = $2, insurer = $3, processed_at = $4 WHERE id = $1`,
		claim.ID, string(claim.Status), claim.Insurer.String(), claim.ProcessedAt,
	); err != nil {
		return Claim{}, fmt.Errorf("update claim: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Claim{}, fmt.Errorf("commit tx: %w", err)
	}
	return claim, nil
}

func scanClaim(row pgx.Row) (Claim, error) {
	var (
		claim   Claim
		patient string
		status  string
		insurer string
	)
	if err := row.Scan(&claim.ID, &patient, &claim.ServiceID, &claim.Cost, &status, &insurer, &claim.SubmittedAt, &claim.ProcessedAt); err != nil {
		return Claim{}, err
	}
	claim.Patient = domain.Principal(patient)
	claim.Status = ClaimStatus(status)
	claim.Insurer = domain.Principal(insurer)
	return claim, nil
}
