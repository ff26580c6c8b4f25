package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/khatahub/khata/internal/domain"
	"github.com/khatahub/khata/internal/usecase"
)

// CustomerRepository implements usecase.CustomerRepository and
// usecase.SummaryRepository on PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

const customerColumns = `id, owner_id, name, mobile, address, balance, version, created_at, updated_at`

// Create inserts a new customer.
func (r *CustomerRepository) Create(ctx context.Context, tx usecase.Transaction, customer *domain.Customer) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO customers (id, owner_id, name, mobile, address, balance, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		customer.ID,
		customer.OwnerID,
		customer.Name,
		customer.Mobile,
		customer.Address,
		decimalToNumeric(customer.Balance),
		customer.Version,
		customer.CreatedAt,
		customer.UpdatedAt,
	)

	return err
}

// GetByID retrieves one of the owner's customers.
func (r *CustomerRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Customer, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE owner_id = $1 AND id = $2`,
		ownerID, id,
	)

	return scanCustomer(row)
}

// GetByIDForUpdate retrieves a customer with a FOR UPDATE row lock.
func (r *CustomerRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, ownerID, id string) (*domain.Customer, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE owner_id = $1 AND id = $2
		FOR UPDATE`,
		ownerID, id,
	)

	return scanCustomer(row)
}

// UpdateContact updates a customer's contact metadata.
func (r *CustomerRepository) UpdateContact(ctx context.Context, tx usecase.Transaction, customer *domain.Customer) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE customers
		SET name = $2, mobile = $3, address = $4, updated_at = $5
		WHERE id = $1`,
		customer.ID,
		customer.Name,
		customer.Mobile,
		customer.Address,
		customer.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}

	return nil
}

// UpdateBalance writes a customer's new balance, guarded by the version
// the caller read. Zero rows affected means the row moved underneath us.
func (r *CustomerRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, expectedVersion int64, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE customers
		SET balance = $2, version = version + 1, updated_at = $3
		WHERE id = $1 AND version = $4`,
		id,
		decimalToNumeric(balance),
		updatedAt,
		expectedVersion,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrStaleWrite
	}

	return nil
}

// Delete removes a customer row.
func (r *CustomerRepository) Delete(ctx context.Context, tx usecase.Transaction, ownerID, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		DELETE FROM customers
		WHERE owner_id = $1 AND id = $2`,
		ownerID, id,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}

	return nil
}

// ListByOwner lists an owner's customers, most recently touched first.
func (r *CustomerRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Customer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE owner_id = $1
		ORDER BY updated_at DESC, id
		LIMIT $2 OFFSET $3`,
		ownerID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*domain.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}

	return customers, rows.Err()
}

// Totals returns the owner's receivable sum, payable sum (as a positive
// magnitude), and customer count.
func (r *CustomerRepository) Totals(ctx context.Context, ownerID string) (decimal.Decimal, decimal.Decimal, int64, error) {
	var (
		receivable pgtype.Numeric
		payable    pgtype.Numeric
		customers  int64
	)

	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN balance > 0 THEN balance ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN balance < 0 THEN -balance ELSE 0 END), 0),
			COUNT(*)
		FROM customers
		WHERE owner_id = $1`,
		ownerID,
	).Scan(&receivable, &payable, &customers)
	if err != nil {
		return decimal.Zero, decimal.Zero, 0, err
	}

	return numericToDecimal(receivable), numericToDecimal(payable), customers, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var (
		customer domain.Customer
		balance  pgtype.Numeric
	)

	err := row.Scan(
		&customer.ID,
		&customer.OwnerID,
		&customer.Name,
		&customer.Mobile,
		&customer.Address,
		&balance,
		&customer.Version,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}

		return nil, err
	}

	customer.Balance = numericToDecimal(balance)

	return &customer, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}
