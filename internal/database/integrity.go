package database

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// ConstraintCheck is the outcome of looking for one required constraint in the live schema.
type ConstraintCheck struct {
	Name   string
	Table  string
	OK     bool
	Detail string
}

// constraintRequirement describes a constraint the toggle and delete paths depend on.
// A primary key requirement lists its columns in order; a cascade requirement names
// the referencing column and the referenced table.
type constraintRequirement struct {
	name       string
	table      string
	primaryKey []string
	column     string
	references string
}

// boardConstraints are enforced by the store, not the application. The composite key
// is what makes concurrent toggles converge on at most one row per (user, entry), and
// the cascades are what keep counts and comment lists consistent after a delete.
var boardConstraints = []constraintRequirement{
	{name: "upvotes_primary_key", table: "upvotes", primaryKey: []string{"user_id", "entry_id"}},
	{name: "upvotes_entry_cascade", table: "upvotes", column: "entry_id", references: "entries"},
	{name: "comments_entry_cascade", table: "comments", column: "entry_id", references: "entries"},
}

// foreignKey is one referencing column as reported by the catalog.
type foreignKey struct {
	Column   string `gorm:"column:column_name"`
	RefTable string `gorm:"column:ref_table"`
	OnDelete string `gorm:"column:on_delete"`
}

// catalog reads constraint metadata for a single dialect.
type catalog interface {
	primaryKey(ctx context.Context, table string) ([]string, error)
	foreignKeys(ctx context.Context, table string) ([]foreignKey, error)
}

func catalogFor(db *gorm.DB) (catalog, error) {
	switch name := db.Dialector.Name(); name {
	case "postgres":
		return postgresCatalog{db: db}, nil
	case "sqlite":
		return sqliteCatalog{db: db}, nil
	default:
		return nil, fmt.Errorf("schema integrity checks are not supported for dialect %q", name)
	}
}

// VerifyIntegrity checks every board constraint against the live schema.
// A missing table shows up as failed checks, not as an error.
func VerifyIntegrity(ctx context.Context, db *gorm.DB) ([]ConstraintCheck, error) {
	cat, err := catalogFor(db)
	if err != nil {
		return nil, err
	}

	checks := make([]ConstraintCheck, 0, len(boardConstraints))
	for _, req := range boardConstraints {
		check := ConstraintCheck{Name: req.name, Table: req.table}

		if len(req.primaryKey) > 0 {
			cols, err := cat.primaryKey(ctx, req.table)
			if err != nil {
				return nil, fmt.Errorf("read primary key of %s: %w", req.table, err)
			}
			check.OK = slices.Equal(cols, req.primaryKey)
			check.Detail = fmt.Sprintf("want (%s), found (%s)", strings.Join(req.primaryKey, ", "), strings.Join(cols, ", "))
		} else {
			fks, err := cat.foreignKeys(ctx, req.table)
			if err != nil {
				return nil, fmt.Errorf("read foreign keys of %s: %w", req.table, err)
			}
			check.OK, check.Detail = matchCascade(fks, req)
		}

		checks = append(checks, check)
	}
	return checks, nil
}

func matchCascade(fks []foreignKey, req constraintRequirement) (bool, string) {
	for _, fk := range fks {
		if !strings.EqualFold(fk.Column, req.column) || !strings.EqualFold(fk.RefTable, req.references) {
			continue
		}
		if strings.EqualFold(fk.OnDelete, "CASCADE") {
			return true, fmt.Sprintf("%s.%s -> %s ON DELETE CASCADE", req.table, req.column, req.references)
		}
		return false, fmt.Sprintf("%s.%s -> %s has ON DELETE %s", req.table, req.column, req.references, strings.ToUpper(fk.OnDelete))
	}
	return false, fmt.Sprintf("no foreign key from %s.%s to %s", req.table, req.column, req.references)
}

type postgresCatalog struct {
	db *gorm.DB
}

const pgPrimaryKeySQL = `
SELECT kcu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
	ON kcu.constraint_name = tc.constraint_name AND kcu.table_schema = tc.table_schema
WHERE tc.table_schema = current_schema()
	AND tc.table_name = ?
	AND tc.constraint_type = 'PRIMARY KEY'
ORDER BY kcu.ordinal_position`

const pgForeignKeysSQL = `
SELECT kcu.column_name, ccu.table_name AS ref_table, rc.delete_rule AS on_delete
FROM information_schema.referential_constraints rc
JOIN information_schema.key_column_usage kcu
	ON kcu.constraint_name = rc.constraint_name AND kcu.constraint_schema = rc.constraint_schema
JOIN information_schema.constraint_column_usage ccu
	ON ccu.constraint_name = rc.unique_constraint_name AND ccu.constraint_schema = rc.unique_constraint_schema
WHERE kcu.table_schema = current_schema()
	AND kcu.table_name = ?`

func (c postgresCatalog) primaryKey(ctx context.Context, table string) ([]string, error) {
	var cols []string
	err := c.db.WithContext(ctx).Raw(pgPrimaryKeySQL, table).Scan(&cols).Error
	return cols, err
}

func (c postgresCatalog) foreignKeys(ctx context.Context, table string) ([]foreignKey, error) {
	var fks []foreignKey
	err := c.db.WithContext(ctx).Raw(pgForeignKeysSQL, table).Scan(&fks).Error
	return fks, err
}

// sqliteCatalog reads PRAGMA output. PRAGMA arguments cannot be bound, so table
// names only ever come from boardConstraints.
type sqliteCatalog struct {
	db *gorm.DB
}

type sqliteColumn struct {
	Name string `gorm:"column:name"`
	PK   int    `gorm:"column:pk"`
}

type sqliteForeignKey struct {
	Table    string `gorm:"column:table"`
	From     string `gorm:"column:from"`
	OnDelete string `gorm:"column:on_delete"`
}

func (c sqliteCatalog) primaryKey(ctx context.Context, table string) ([]string, error) {
	var cols []sqliteColumn
	if err := c.db.WithContext(ctx).Raw(fmt.Sprintf("PRAGMA table_info(%q)", table)).Scan(&cols).Error; err != nil {
		return nil, err
	}

	keyed := cols[:0]
	for _, col := range cols {
		if col.PK > 0 {
			keyed = append(keyed, col)
		}
	}
	sort.Slice(keyed, func(i, j int) bool { return keyed[i].PK < keyed[j].PK })

	names := make([]string, 0, len(keyed))
	for _, col := range keyed {
		names = append(names, col.Name)
	}
	return names, nil
}

func (c sqliteCatalog) foreignKeys(ctx context.Context, table string) ([]foreignKey, error) {
	var rows []sqliteForeignKey
	if err := c.db.WithContext(ctx).Raw(fmt.Sprintf("PRAGMA foreign_key_list(%q)", table)).Scan(&rows).Error; err != nil {
		return nil, err
	}

	fks := make([]foreignKey, 0, len(rows))
	for _, r := range rows {
		fks = append(fks, foreignKey{Column: r.From, RefTable: r.Table, OnDelete: r.OnDelete})
	}
	return fks, nil
}
