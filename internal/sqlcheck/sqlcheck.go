// Package sqlcheck parses generated DDL before it is shown as a preview.
package sqlcheck

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	pgparser "github.com/auxten/postgresql-parser/pkg/sql/parser"
	pgtree "github.com/auxten/postgresql-parser/pkg/sql/sem/tree"
	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"
)

type Family string

const (
	FamilyPostgres Family = "postgres"
	FamilyMySQL    Family = "mysql"
	FamilyOther    Family = "other"
)

var ErrEmptyScript = errors.New("script is empty")

// FamilyOf maps a dialect name to the parser that understands it.
func FamilyOf(dialect string) Family {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql", "pg", "cockroachdb":
		return FamilyPostgres
	case "mysql", "mariadb", "tidb":
		return FamilyMySQL
	}
	return FamilyOther
}

// Result describes a script that passed the check.
type Result struct {
	Family     Family   `json:"family"`
	SQL        string   `json:"sql"`
	Checked    bool     `json:"checked"`
	Statements int      `json:"statements"`
	Tables     []string `json:"tables"`
}

// StripFences unwraps a Markdown code block such as ```sql ... ```.
func StripFences(script string) string {
	s := strings.TrimSpace(script)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Checker is safe for concurrent use.
type Checker struct {
	mu    sync.Mutex
	mysql *parser.Parser
}

// NewChecker creates a new Checker
func NewChecker() *Checker {
	return &Checker{mysql: parser.New()}
}

// Check unwraps script and parses it for dialect. Dialects without a parser
// pass with Checked false.
func (c *Checker) Check(dialect, script string) (Result, error) {
	sql := StripFences(script)
	res := Result{Family: FamilyOf(dialect), SQL: sql, Tables: []string{}}
	if sql == "" {
		return res, ErrEmptyScript
	}

	var err error
	switch res.Family {
	case FamilyPostgres:
		err = c.checkPostgres(&res)
	case FamilyMySQL:
		err = c.checkMySQL(&res)
	default:
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("error in script: %w", err)
	}
	res.Checked = true
	return res, nil
}

func (c *Checker) checkPostgres(res *Result) error {
	stmts, err := pgparser.Parse(res.SQL)
	if err != nil {
		return err
	}
	res.Statements = len(stmts)
	for _, stmt := range stmts {
		if ct, ok := stmt.AST.(*pgtree.CreateTable); ok {
			res.Tables = append(res.Tables, ct.Table.Table())
		}
	}
	return nil
}

func (c *Checker) checkMySQL(res *Result) error {
	c.mu.Lock()
	stmts, _, err := c.mysql.Parse(res.SQL, "", "")
	c.mu.Unlock()
	if err != nil {
		return err
	}
	res.Statements = len(stmts)
	for _, stmt := range stmts {
		if ct, ok := stmt.(*ast.CreateTableStmt); ok {
			res.Tables = append(res.Tables, ct.Table.Name.O)
		}
	}
	return nil
}
