package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/laneticket/atari-server/internal/domain"
	"github.com/laneticket/atari-server/internal/id"
)

// ticketColumns is the ordered list of columns selected in ticket queries.
// Must match the scan order in scanTicket.
const ticketColumns = `id, import_id, lane_text, expiration, created_at`

// Tickets list in import order, then file order within an import.
const ticketOrder = ` ORDER BY created_at ASC, seq ASC`

func scanTicket(scanner interface{ Scan(dest ...any) error }) (domain.StoredTicket, error) {
	var (
		t          domain.StoredTicket
		expiration sql.NullString
		createdAt  string
	)
	if err := scanner.Scan(&t.ID, &t.ImportID, &t.LaneText, &expiration, &createdAt); err != nil {
		return t, err
	}
	t.Expiration = expiration.String

	var err error
	t.CreatedAt, err = parseTime(createdAt)
	return t, err
}

// ImportTickets stores tickets as one import batch in a single transaction.
// ImportReplace deletes every existing ticket first; ImportAppend keeps them.
func (s *Store) ImportTickets(ctx context.Context, mode domain.ImportMode, tickets []domain.Ticket) (domain.ImportBatch, error) {
	batch := domain.ImportBatch{
		ID:          id.NewBatchID(),
		Mode:        mode,
		TicketCount: len(tickets),
		CreatedAt:   time.Now().UTC(),
	}
	createdAt := formatTime(batch.CreatedAt)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return batch, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if mode == domain.ImportReplace {
		if err := deleteAll(ctx, tx); err != nil {
			return batch, err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO ticket_imports (id, mode, ticket_count, created_at)
		VALUES (?, ?, ?, ?)`,
		batch.ID, string(mode), batch.TicketCount, createdAt,
	); err != nil {
		return batch, fmt.Errorf("insert import: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tickets (id, seq, lane_text, expiration, import_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return batch, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range tickets {
		ticketID, err := id.Generate(id.PrefixTicket)
		if err != nil {
			return batch, err
		}
		if _, err := stmt.ExecContext(ctx, ticketID, i, t.LaneText, nullString(t.Expiration), batch.ID, createdAt); err != nil {
			return batch, fmt.Errorf("insert ticket %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return batch, fmt.Errorf("commit import: %w", err)
	}

	s.logger.Info("tickets imported", "import_id", batch.ID, "mode", mode, "count", batch.TicketCount)
	return batch, nil
}

// ListTickets returns one page of tickets in list order.
func (s *Store) ListTickets(ctx context.Context, limit, offset int) ([]domain.StoredTicket, error) {
	return s.queryTickets(ctx,
		`SELECT `+ticketColumns+` FROM tickets`+ticketOrder+` LIMIT ? OFFSET ?`, limit, offset)
}

// ListAllTickets returns every ticket in list order.
func (s *Store) ListAllTickets(ctx context.Context) ([]domain.StoredTicket, error) {
	return s.queryTickets(ctx, `SELECT `+ticketColumns+` FROM tickets`+ticketOrder)
}

// CountTickets returns the number of stored tickets.
func (s *Store) CountTickets(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&n)
	return n, err
}

// DeleteAllTickets clears the ticket list and its import history.
// It returns the number of tickets removed.
func (s *Store) DeleteAllTickets(ctx context.Context) (int, error) {
	n, err := s.CountTickets(ctx)
	if err != nil {
		return 0, err
	}
	if err := deleteAll(ctx, s.db); err != nil {
		return 0, err
	}
	return n, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func deleteAll(ctx context.Context, db execer) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM tickets`); err != nil {
		return fmt.Errorf("delete tickets: %w", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM ticket_imports`); err != nil {
		return fmt.Errorf("delete imports: %w", err)
	}
	return nil
}

// ListImports returns import batches, newest first.
func (s *Store) ListImports(ctx context.Context) ([]domain.ImportBatch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, ticket_count, created_at FROM ticket_imports ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	batches := []domain.ImportBatch{}
	for rows.Next() {
		var (
			b         domain.ImportBatch
			createdAt string
		)
		if err := rows.Scan(&b.ID, &b.Mode, &b.TicketCount, &createdAt); err != nil {
			return nil, err
		}
		if b.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

func (s *Store) queryTickets(ctx context.Context, query string, args ...any) ([]domain.StoredTicket, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []domain.StoredTicket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}
