// Package schema describes table columns for CREATE TABLE statements and
// classifies declared SQL types into the Go value classes used by the
// optional insert type checking.
//
// A Column renders its own fragment:
//
//	schema.Varchar("email", 255).Unique().Render()
//	// email varchar(255) UNIQUE NOT NULL
//
// Foreign keys carry an extra table constraint that the table renderer
// appends after every column:
//
//	schema.ForeignKey("owner_id", "users", "id").Constraint()
//	// FOREIGN KEY(owner_id) REFERENCES users(id)
package schema
