// Package fluentsql provides a fluent SQL statement builder for SQLite.
//
// go-fluent-sqlite builds CREATE TABLE, SELECT, INSERT, UPDATE and DELETE
// statements through chained calls, always with "?" placeholders, and runs
// them on an embedded SQLite database (modernc.org/sqlite, pure Go).
//
// # Quick Start
//
//	db, err := fluentsql.Open("app.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
// # Tables
//
// Every table gets an "id varchar(255)" primary key and "created_at" /
// "modified_at" columns:
//
//	err := db.CreateTable(ctx, "users", []schema.Column{
//	    schema.Varchar("name", 100),
//	    schema.Integer("age").Nullable(),
//	    schema.ForeignKey("team_id", "teams", "id"),
//	}, true)
//
// # Select Queries
//
//	records, err := db.Select("id", "name").
//	    From("users").
//	    Where("age", ">=", 18).
//	    OrderByDesc("created_at").
//	    Limit(10).
//	    Query(ctx)
//
// created_at and modified_at come back as "2006-01-02T15:04:05Z" strings and
// COUNT(...) columns under the key "count".
//
// # Where Clauses
//
//	qb.Where("age", ">", 18)
//	qb.OrWhere("role", "=", "admin")
//	qb.WhereIn("status", []string{"active", "pending"})
//	qb.WhereNull("deleted_at")
//	qb.Where("team_id", "IN", fluentsql.Subquery().Select("id").From("teams").Where("active", "=", true))
//
// # Insert, Update, Delete
//
//	id, err := db.Insert(ctx, "users", []string{"name", "age"}, []any{"Ada", 36})
//
//	_, err = db.Update("users", []string{"age"}, []any{37}).
//	    Where("id", "=", id).
//	    Exec(ctx)
//
//	_, err = db.Delete("users").Where("id", "=", id).Exec(ctx)
//
// Writes run inside BEGIN / COMMIT and are rolled back on error.
//
// # Statement Kinds
//
// The first of Select, Insert, Update or Delete locks a builder to that
// kind; calls belonging to another kind fail with ErrInvalidTransactionState,
// as does Where on a builder with no kind yet. Select, Limit and OrderBy
// apply once; later calls are ignored. Errors accumulate: after the first
// failure every call is a no-op and ToSQL returns the error. Reset clears
// the builder completely, including its kind.
//
// # Transactions
//
//	err := db.Transaction(ctx, func(tx *fluentsql.Transaction) error {
//	    if _, err := tx.Insert(ctx, "accounts", []string{"owner"}, []any{"ada"}); err != nil {
//	        return err
//	    }
//	    _, err := tx.Update("accounts", []string{"balance"}, []any{10}).Where("owner", "=", "ada").Exec(ctx)
//	    return err
//	})
//
// # Security
//
// Values are always bound as parameters. Table and column names are checked
// against an identifier pattern and operators against a whitelist.
//
// # Thread Safety
//
// Builder instances are NOT thread-safe. Create a new instance for each
// statement. The DB holds a single connection; do not use it while one of
// its transactions is open.
package fluentsql
