package fluentsql

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/biyonik/go-fluent-sqlite/internal/validation"
)

// -----------------------------------------------------------------------------
//  Transaction Yapısı
//
//  Açık bir BEGIN ... COMMIT bloğu. Bu transaction'dan başlatılan Builder'lar
//  ve Query / Exec / Insert / Raw çağrıları aynı *sql.Tx üzerinde çalışır;
//  bağlantı tek olduğu için transaction açıkken DB üzerinden ifade
//  çalıştırmayın.
//
//  Savepoint / RollbackTo / ReleaseSavepoint ile kısmi geri dönüş yapılabilir.
//
//  -- @author   Ahmet ALTUN
//  -- @github   github.com/biyonik
//  -- @linkedin linkedin.com/in/biyonik
//  -- @email    ahmet.altun60@gmail.com
// -----------------------------------------------------------------------------

// Transaction bir SQL transaction'ı temsil eder. Thread-safe değildir; her
// goroutine kendi Transaction nesnesini kullanmalıdır.
type Transaction struct {
	tx *sql.Tx
	db *DB

	mu     sync.Mutex
	closed bool
}

// Builder, bu transaction'a bağlı boş bir Builder döndürür.
func (t *Transaction) Builder() *Builder {
	return t.db.newBuilder(t)
}

// Select starts a SELECT bound to t.
func (t *Transaction) Select(columns ...any) *Builder {
	return t.Builder().Select(columns...)
}

// From starts "SELECT * FROM table" bound to t.
func (t *Transaction) From(table any) *Builder {
	return t.Builder().Select().From(table)
}

// Update starts an UPDATE bound to t.
func (t *Transaction) Update(table string, fields []string, values []any, opts ...UpdateOption) *Builder {
	return t.Builder().Update(table, fields, values, opts...)
}

// Delete starts a DELETE bound to t.
func (t *Transaction) Delete(table string) *Builder {
	return t.Builder().Delete(table)
}

// Commit metodu, yapılan tüm işlemleri kalıcı hale getirir. Tekrar
// çağrılırsa ErrTxAlreadyClosed döner.
func (t *Transaction) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTxAlreadyClosed
	}

	t.closed = true
	if err := t.tx.Commit(); err != nil {
		return WrapError("commit transaction", err)
	}
	return nil
}

// Rollback tüm değişiklikleri geri alır. İdempotenttir.
func (t *Transaction) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}

	t.closed = true
	if err := t.tx.Rollback(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return nil
		}
		return WrapError("rollback transaction", err)
	}
	return nil
}

// IsClosed transaction'ın commit ya da rollback sonrası kapanıp kapanmadığını bildirir.
func (t *Transaction) IsClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *Transaction) checkOpen() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTxAlreadyClosed
	}
	return nil
}

// ExecContext implements QueryExecutor.
func (t *Transaction) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}
	return t.tx.ExecContext(ctx, query, args...)
}

// QueryContext implements QueryExecutor.
func (t *Transaction) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}
	return t.tx.QueryContext(ctx, query, args...)
}

// QueryRowContext implements QueryExecutor. On a closed transaction the
// returned row reports sql.ErrTxDone.
func (t *Transaction) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return t.tx.QueryRowContext(ctx, query, args...)
}

// Query runs a SELECT on the transaction.
func (t *Transaction) Query(ctx context.Context, b *Builder) ([]Record, error) {
	return t.db.queryBuilder(ctx, t, b)
}

// First runs b with LIMIT 1 on the transaction.
func (t *Transaction) First(ctx context.Context, b *Builder) (Record, error) {
	return t.db.firstOn(ctx, t, b)
}

// Get scans the result of b into dest.
func (t *Transaction) Get(ctx context.Context, b *Builder, dest any) error {
	return t.db.getOn(ctx, t, b, dest)
}

// Exec runs an UPDATE or DELETE on the transaction.
func (t *Transaction) Exec(ctx context.Context, b *Builder) (*QueryResult, error) {
	query, args, err := t.db.compileWrite("exec", b, KindUpdate, KindDelete)
	if err != nil {
		return nil, err
	}
	res, err := t.db.execOn(ctx, t, b.kind, query, args)
	if err != nil {
		return nil, err
	}
	return NewQueryResult(res), nil
}

// Insert adds one row and returns its generated id.
func (t *Transaction) Insert(ctx context.Context, table string, fields []string, values []any) (string, error) {
	return t.InsertBuilder(ctx, t.Builder().Insert(table, fields, values))
}

// InsertBuilder runs an INSERT builder on the transaction, type checking it
// first when enabled, and returns the generated id.
func (t *Transaction) InsertBuilder(ctx context.Context, b *Builder) (string, error) {
	query, args, err := t.db.compileWrite("insert", b, KindInsert)
	if err != nil {
		return "", err
	}
	if t.db.typeCheck {
		if err := t.db.checkInsert(ctx, t, b.insert); err != nil {
			return "", err
		}
	}
	if _, err := t.db.execOn(ctx, t, KindInsert, query, args); err != nil {
		return "", err
	}
	id, _ := b.insert.Values[0].(string)
	return id, nil
}

// Raw runs any statement on the transaction and returns the rows it
// produced, if any.
func (t *Transaction) Raw(ctx context.Context, query string, args ...any) ([]Record, error) {
	return t.db.queryOn(ctx, t, statementKind(query), query, args)
}

// Savepoint → transaction içinde geri dönülebilecek bir nokta oluşturur.
func (t *Transaction) Savepoint(name string) error {
	return t.savepointCmd("create savepoint", "SAVEPOINT ", name)
}

// RollbackTo → transaction'ı yalnızca verilen savepoint'e kadar geri alır.
func (t *Transaction) RollbackTo(name string) error {
	return t.savepointCmd("rollback to savepoint", "ROLLBACK TO SAVEPOINT ", name)
}

// ReleaseSavepoint → savepoint'i serbest bırakır; transaction sürer.
func (t *Transaction) ReleaseSavepoint(name string) error {
	return t.savepointCmd("release savepoint", "RELEASE SAVEPOINT ", name)
}

func (t *Transaction) savepointCmd(op, prefix, name string) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	if err := validation.ValidateIdentifier(name); err != nil {
		return validationErr(name, "savepoint", err)
	}
	if _, err := t.tx.Exec(prefix + name); err != nil {
		return WrapError(op, err)
	}
	return nil
}

// Tx → alttaki *sql.Tx referansına doğrudan erişim sağlar.
func (t *Transaction) Tx() *sql.Tx {
	return t.tx
}
