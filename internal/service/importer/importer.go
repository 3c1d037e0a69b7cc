// internal/service/importer/importer.go
package importer

import (
	"context"
	"fmt"
	"io"
	"sync"

	"leaddesk-service/internal/domain/customer"
	"leaddesk-service/internal/domain/user"
	xerrors "leaddesk-service/internal/pkg/errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBatchSize = 1000
	maxParallel      = 4
)

// BatchStore writes imported customers.
type BatchStore interface {
	CopyInsert(ctx context.Context, batch []customer.Customer) (int64, error)
	Count(ctx context.Context) (int64, error)
	ExistingAgentIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
}

// Sealer encrypts identity numbers before they are stored.
type Sealer interface {
	Encrypt(plaintext string) (string, error)
}

// CompletionNotifier is told when an import finishes.
type CompletionNotifier interface {
	ImportCompleted(userID int64, result *customer.ImportResult)
}

type Importer struct {
	store     BatchStore
	sealer    Sealer
	notifier  CompletionNotifier
	batchSize int
	logger    *zap.Logger
}

func NewImporter(store BatchStore, sealer Sealer, notifier CompletionNotifier, batchSize int, logger *zap.Logger) *Importer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Importer{
		store:     store,
		sealer:    sealer,
		notifier:  notifier,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Import loads a CSV or XLSX file of leads. Bad rows are skipped, bad optional
// values are dropped, and every batch is awaited before the result is returned.
func (im *Importer) Import(ctx context.Context, actor *user.Actor, name string, r io.Reader) (*customer.ImportResult, error) {
	if !actor.IsAdmin() {
		return nil, xerrors.ErrForbidden
	}
	if !SupportedExt(name) {
		return nil, xerrors.NewValidationError("file", ErrUnsupportedFormat.Error())
	}

	rows, err := ReadRows(name, r)
	if err != nil {
		return nil, xerrors.NewValidationError("file", err.Error())
	}

	firstDataRow := 1
	if len(rows) > 0 && IsHeader(rows[0]) {
		rows = rows[1:]
		firstDataRow = 2
	}

	result := &customer.ImportResult{TotalRows: len(rows)}
	parsed := make([]ParsedRow, 0, len(rows))
	rowNums := make([]int, 0, len(rows))

	for i, row := range rows {
		rowNum := i + firstDataRow
		p, ok := ParseRow(row)
		if !ok {
			result.Skipped++
			im.logger.Debug("import row skipped", zap.Int("row", rowNum))
			continue
		}
		for _, issue := range p.Issues {
			im.logger.Warn("import value dropped",
				zap.Int("row", rowNum),
				zap.String("field", issue.Field),
				zap.String("value", issue.Value),
			)
		}
		parsed = append(parsed, p)
		rowNums = append(rowNums, rowNum)
	}

	if err := im.dropUnknownAgents(ctx, parsed, rowNums); err != nil {
		return nil, err
	}

	valid := make([]customer.Customer, 0, len(parsed))
	for _, p := range parsed {
		c := p.Customer
		if c.AadhaarNumber, err = im.seal(p.Aadhaar); err != nil {
			return nil, err
		}
		if c.PanNumber, err = im.seal(p.Pan); err != nil {
			return nil, err
		}
		valid = append(valid, c)
	}

	inserted, failed := im.insertBatches(ctx, valid)
	result.Inserted = inserted
	result.Failed = failed

	total, err := im.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	result.TotalCustomers = total

	im.logger.Info("customer import finished",
		zap.String("file", name),
		zap.Int64("imported_by", actor.ID),
		zap.Int("total_rows", result.TotalRows),
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)

	if im.notifier != nil {
		im.notifier.ImportCompleted(actor.ID, result)
	}
	return result, nil
}

// insertBatches copies rows in batches, a few at a time, and waits for all of them.
// A failed batch counts its rows as failed and does not stop the others.
func (im *Importer) insertBatches(ctx context.Context, rows []customer.Customer) (int, int) {
	var (
		mu       sync.Mutex
		inserted int
		failed   int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for start := 0; start < len(rows); start += im.batchSize {
		end := start + im.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		g.Go(func() error {
			n, err := im.store.CopyInsert(gctx, batch)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed += len(batch)
				im.logger.Error("import batch failed",
					zap.Int("offset", start),
					zap.Int("size", len(batch)),
					zap.Error(err),
				)
				return nil
			}
			inserted += int(n)
			failed += len(batch) - int(n)
			return nil
		})
	}

	_ = g.Wait()
	return inserted, failed
}

// dropUnknownAgents clears assignments to ids that are not agents.
func (im *Importer) dropUnknownAgents(ctx context.Context, parsed []ParsedRow, rowNums []int) error {
	seen := map[int64]bool{}
	ids := []int64{}
	for _, p := range parsed {
		if id := p.Customer.AssignedAgentID; id != nil && !seen[*id] {
			seen[*id] = true
			ids = append(ids, *id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	known, err := im.store.ExistingAgentIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to validate agent references: %w", err)
	}

	for i := range parsed {
		id := parsed[i].Customer.AssignedAgentID
		if id != nil && !known[*id] {
			im.logger.Warn("import value dropped",
				zap.Int("row", rowNums[i]),
				zap.String("field", "assignedAgentId"),
				zap.Int64("value", *id),
			)
			parsed[i].Customer.AssignedAgentID = nil
		}
	}
	return nil
}

func (im *Importer) seal(plain string) (*string, error) {
	if plain == "" {
		return nil, nil
	}
	sealed, err := im.sealer.Encrypt(plain)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt identity number: %w", err)
	}
	return &sealed, nil
}
