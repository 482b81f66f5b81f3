package faqsource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/advisor-assistant/internal/domain/faq"
)

const defaultTable = "faq_entries"

// PostgresSource reads the corpus from a table with question, answer and
// tags columns, ordered by id.
type PostgresSource struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresSource constructs the source. An empty table name uses
// faq_entries; schema-qualified names ("advising.faq") are allowed.
func NewPostgresSource(pool *pgxpool.Pool, table string) *PostgresSource {
	table = strings.TrimSpace(table)
	if table == "" {
		table = defaultTable
	}
	return &PostgresSource{pool: pool, table: table}
}

// Name implements faq.Source.
func (s *PostgresSource) Name() string {
	return "postgres:" + s.table
}

// Load implements faq.Source.
func (s *PostgresSource) Load(ctx context.Context) (faq.Table, error) {
	rows, err := s.pool.Query(ctx, selectCorpusSQL(s.table))
	if err != nil {
		return faq.Table{}, err
	}
	defer rows.Close()

	table := faq.Table{Header: []string{"question", "answer", "tags"}}
	for rows.Next() {
		var (
			question, answer string
			tags             sql.NullString
		)
		if err := rows.Scan(&question, &answer, &tags); err != nil {
			return faq.Table{}, fmt.Errorf("scan faq row: %w", err)
		}
		row := []string{question, answer, ""}
		if tags.Valid {
			row[2] = tags.String
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return faq.Table{}, err
	}
	return table, nil
}

func selectCorpusSQL(table string) string {
	ident := pgx.Identifier(strings.Split(table, ".")).Sanitize()
	return fmt.Sprintf(`
		SELECT question, answer, tags
		FROM %s
		ORDER BY id
	`, ident)
}

var _ faq.Source = (*PostgresSource)(nil)
