package fluentsql

import (
	"strings"

	"github.com/fatih/color"
)

var keywordColor = color.New(color.FgYellow, color.Bold)

var sqlKeywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "AND": true, "OR": true,
	"ORDER": true, "BY": true, "ASC": true, "DESC": true, "LIMIT": true,
	"OFFSET": true, "INSERT": true, "INTO": true, "VALUES": true, "UPDATE": true,
	"SET": true, "DELETE": true, "IN": true, "NOT": true, "IS": true,
	"NULL": true, "LIKE": true, "CREATE": true, "TABLE": true, "IF": true,
	"EXISTS": true, "PRIMARY": true, "KEY": true, "FOREIGN": true,
	"REFERENCES": true, "AUTOINCREMENT": true, "UNIQUE": true,
}

// ToSQLColor renders the statement for a terminal: one clause per line with
// keywords highlighted. It is for display only; use ToSQL to execute.
func (b *Builder) ToSQLColor() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	if b.kind != KindSelect && b.kind != KindUnset {
		sql, _, err := b.ToSQL()
		if err != nil {
			return "", err
		}
		return Colorize(sql), nil
	}

	if b.kind == KindUnset && len(b.tables) == 0 {
		_, _, err := b.ToSQL()
		return "", err
	}

	fragments, _, err := b.grammar.SelectFragments(b)
	if err != nil {
		return "", err
	}
	lines := make([]string, len(fragments))
	for i, f := range fragments {
		lines[i] = Colorize(f.Text())
	}
	return strings.Join(lines, "\n") + ";", nil
}

// Colorize highlights SQL keywords in sql. Color output follows
// color.NoColor, which is set when stdout is not a terminal.
func Colorize(sql string) string {
	words := strings.Split(sql, " ")
	for i, w := range words {
		if sqlKeywords[w] {
			words[i] = keywordColor.Sprint(w)
		}
	}
	return strings.Join(words, " ")
}
