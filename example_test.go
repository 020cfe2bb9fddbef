package fluentsql_test

import (
	"context"
	"fmt"
	"log"

	fluentsql "github.com/biyonik/go-fluent-sqlite"
	"github.com/biyonik/go-fluent-sqlite/schema"
)

func ExampleBuilder_ToSQL() {
	sql, args, err := fluentsql.New().
		Select("id", fluentsql.As("name", "n")).
		From("users").
		Where("age", ">=", 18).
		WhereIn("role", []string{"admin", "editor"}).
		OrderByDesc("id").
		Limit(10).
		ToSQL()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(sql)
	fmt.Println(args)
	// Output:
	// SELECT id, name as n FROM users WHERE age >= ? AND role IN (?, ?) ORDER BY id DESC LIMIT 10;
	// [18 admin editor]
}

func ExampleCreateTable() {
	sql, err := fluentsql.CreateTable("posts", []schema.Column{
		schema.ForeignKey("user_id", "users", "id"),
		schema.Text("body").Nullable(),
	}, true)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(sql)
	// Output:
	// CREATE TABLE IF NOT EXISTS posts(id varchar(255) PRIMARY KEY NOT NULL, user_id varchar(255) NOT NULL, body text, created_at datetime NOT NULL, modified_at datetime NOT NULL, FOREIGN KEY(user_id) REFERENCES users(id));
}

func ExampleOpen() {
	ctx := context.Background()

	db, err := fluentsql.Open(":memory:", fluentsql.WithTypeCheck(true))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.CreateTable(ctx, "users", []schema.Column{
		schema.Varchar("name", 100),
		schema.Integer("age"),
	}, true); err != nil {
		log.Fatal(err)
	}

	if _, err := db.Insert(ctx, "users", []string{"name", "age"}, []any{"Ann", 30}); err != nil {
		log.Fatal(err)
	}

	rec, err := db.Select(fluentsql.Count("*")).From("users").First(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(rec["count"])
	// Output: 1
}
