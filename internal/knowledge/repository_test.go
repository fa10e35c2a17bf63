package knowledge_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"regexp"
	"testing"

	"github.com/JaimeStill/lading/internal/dcsa"
	"github.com/JaimeStill/lading/internal/knowledge"
)

// recorder is a database/sql connector that records query text and
// answers every query with an empty result set.
type recorder struct {
	queries []string
}

func (r *recorder) Connect(context.Context) (driver.Conn, error) { return &recordConn{r}, nil }
func (r *recorder) Driver() driver.Driver                        { return recordDriver{r} }

type recordDriver struct{ r *recorder }

func (d recordDriver) Open(string) (driver.Conn, error) { return &recordConn{d.r}, nil }

type recordConn struct{ r *recorder }

func (c *recordConn) Prepare(query string) (driver.Stmt, error) {
	c.r.queries = append(c.r.queries, query)
	return recordStmt{}, nil
}
func (c *recordConn) Close() error              { return nil }
func (c *recordConn) Begin() (driver.Tx, error) { return nil, errors.New("transactions not supported") }

type recordStmt struct{}

func (recordStmt) Close() error                               { return nil }
func (recordStmt) NumInput() int                              { return -1 }
func (recordStmt) Exec([]driver.Value) (driver.Result, error) { return driver.RowsAffected(0), nil }
func (recordStmt) Query([]driver.Value) (driver.Rows, error)  { return emptyRows{}, nil }

type emptyRows struct{}

func (emptyRows) Columns() []string         { return nil }
func (emptyRows) Close() error              { return nil }
func (emptyRows) Next([]driver.Value) error { return io.EOF }

func TestPostgresFewShotOrdering(t *testing.T) {
	rec := &recorder{}
	db := sql.OpenDB(rec)
	defer db.Close()

	store := knowledge.NewPostgresStore(db)
	got, err := store.FewShot(context.Background(), knowledge.Criteria{
		DocumentType: dcsa.TypeBillOfLading,
		Carrier:      "maersk",
		Limit:        3,
	})
	if err != nil {
		t.Fatalf("FewShot error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("examples = %d, want 0", len(got))
	}

	if len(rec.queries) != 1 {
		t.Fatalf("queries = %d, want 1", len(rec.queries))
	}

	order := regexp.MustCompile(`confidence_score DESC,\s+\w+\.validated_date DESC,\s+\w+\.id\s+LIMIT \$4`)
	if !order.MatchString(rec.queries[0]) {
		t.Errorf("query lacks a deterministic id tie-break:\n%s", rec.queries[0])
	}
}
