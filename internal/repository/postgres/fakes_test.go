package postgres

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"versekeep/internal/domain/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// queryResponse scripts one Query call on a fakeTx.
type queryResponse struct {
	rows pgx.Rows
	err  error
}

// fakeTx satisfies pgx.Tx so it can be planted in the context via
// repositories.SetTx and picked up by GetExecutor. Query and QueryRow
// consume scripted responses in order and record the SQL they saw.
type fakeTx struct {
	queries    []string
	queryResps []queryResponse
	rows       []pgx.Row
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	t.queries = append(t.queries, sql)
	resp := t.queryResps[0]
	t.queryResps = t.queryResps[1:]
	return resp.rows, resp.err
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	t.queries = append(t.queries, sql)
	row := t.rows[0]
	t.rows = t.rows[1:]
	return row
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *fakeTx) Commit(ctx context.Context) error          { return nil }
func (t *fakeTx) Rollback(ctx context.Context) error        { return nil }

func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }

func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (t *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	t.queries = append(t.queries, sql)
	return pgconn.CommandTag{}, nil
}

func (t *fakeTx) Conn() *pgx.Conn { return nil }

// fakeRow scripts a single QueryRow result.
type fakeRow struct {
	scanFn func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scanFn(dest...) }

// fakeEntryRows plays back entries through the pgx.Rows interface in the
// column order of entryColumns.
type fakeEntryRows struct {
	entries []models.Entry
	idx     int
}

func (r *fakeEntryRows) Next() bool {
	r.idx++
	return r.idx <= len(r.entries)
}

func (r *fakeEntryRows) Scan(dest ...any) error {
	e := r.entries[r.idx-1]
	*dest[0].(*string) = e.ID
	*dest[1].(*string) = e.UserID
	*dest[2].(*models.EntryType) = e.Type
	*dest[3].(*string) = e.Title
	*dest[4].(*string) = e.Content
	*dest[5].(*string) = e.Description
	*dest[6].(*string) = e.Category
	*dest[7].(*[]string) = e.BibleVerses
	*dest[8].(*[]string) = e.RelatedVerses
	*dest[9].(*[]string) = e.AudioURLs
	*dest[10].(*string) = e.ImageURL
	*dest[11].(*[]models.AIConversation) = e.AIConversations
	*dest[12].(*[]models.ChatMessage) = e.Messages
	*dest[13].(*map[string]any) = e.AudioSegments
	*dest[14].(*models.PointChats) = e.PointChats
	*dest[15].(*time.Time) = e.CreatedAt
	*dest[16].(*time.Time) = e.UpdatedAt
	return nil
}

func (r *fakeEntryRows) Close()                                       {}
func (r *fakeEntryRows) Err() error                                   { return nil }
func (r *fakeEntryRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeEntryRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeEntryRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeEntryRows) RawValues() [][]byte                          { return nil }
func (r *fakeEntryRows) Conn() *pgx.Conn                              { return nil }
