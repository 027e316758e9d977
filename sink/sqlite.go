package sink

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/CaliLuke/go-umlsem/convert"
)

// TermRow is one conversion event stored in table terms.
type TermRow struct {
	ID       uint   `gorm:"primaryKey"`
	Diagram  string `gorm:"not null;index"`
	Event    string `gorm:"not null"`
	Key      string `gorm:"not null;index"`
	Path     string `gorm:"not null"`
	IRI      string `gorm:"not null;index"`
	Scope    string
	Ontology string `gorm:"not null"`
	Kind     string
	Domain   string
	Range    string
	Class    string
	Lower    *string
	Upper    *string
	Facts    []FactRow `gorm:"foreignKey:TermID;constraint:OnDelete:CASCADE"`
	Links    []LinkRow `gorm:"foreignKey:TermID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table of TermRow.
func (TermRow) TableName() string { return "terms" }

// FactRow is one literal of a term.
type FactRow struct {
	ID        uint   `gorm:"primaryKey"`
	TermID    uint   `gorm:"not null;index"`
	Predicate string `gorm:"not null"`
	Value     string `gorm:"not null"`
	Language  string
}

// TableName returns the table of FactRow.
func (FactRow) TableName() string { return "term_facts" }

// LinkRow relates a term to another IRI: "parent" for superclasses and
// super-properties, "instance" for enumeration values.
type LinkRow struct {
	ID       uint   `gorm:"primaryKey"`
	TermID   uint   `gorm:"not null;index"`
	Relation string `gorm:"not null"`
	IRI      string `gorm:"not null"`
}

// TableName returns the table of LinkRow.
func (LinkRow) TableName() string { return "term_links" }

// OpenSQLite opens the database at path with the pure Go SQLite driver.
func OpenSQLite(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
}

// Migrate creates or updates the term tables.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&TermRow{}, &FactRow{}, &LinkRow{}); err != nil {
		return fmt.Errorf("migrate term tables: %w", err)
	}
	return nil
}

// SQLite stores the events of one diagram as rows.
type SQLite struct {
	ctx     context.Context
	db      *gorm.DB
	diagram string
}

// NewSQLite returns a handler storing rows for diagram. The tables must exist;
// see Migrate.
func NewSQLite(ctx context.Context, db *gorm.DB, diagram string) *SQLite {
	return &SQLite{ctx: ctx, db: db, diagram: diagram}
}

// Clear deletes the rows previously stored for the diagram.
func (s *SQLite) Clear() error {
	return s.db.WithContext(s.ctx).Transaction(func(tx *gorm.DB) error {
		ids := tx.Model(&TermRow{}).Select("id").Where("diagram = ?", s.diagram)
		if err := tx.Where("term_id IN (?)", ids).Delete(&FactRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("term_id IN (?)", ids).Delete(&LinkRow{}).Error; err != nil {
			return err
		}
		return tx.Where("diagram = ?", s.diagram).Delete(&TermRow{}).Error
	})
}

func (s *SQLite) insert(rec Record) error {
	row := TermRow{
		Diagram:  s.diagram,
		Event:    rec.Event,
		Key:      rec.Key,
		Path:     rec.Path,
		IRI:      rec.IRI,
		Scope:    rec.Scope,
		Ontology: rec.Ontology,
		Kind:     rec.Kind,
		Domain:   rec.Domain,
		Range:    rec.Range,
		Class:    rec.Class,
		Lower:    rec.Lower,
		Upper:    rec.Upper,
	}
	for _, f := range rec.Facts {
		row.Facts = append(row.Facts, FactRow{Predicate: f.Predicate, Value: f.Value, Language: f.Language})
	}
	for _, p := range rec.Parents {
		row.Links = append(row.Links, LinkRow{Relation: "parent", IRI: p})
	}
	for _, i := range rec.Instances {
		row.Links = append(row.Links, LinkRow{Relation: "instance", IRI: i})
	}
	if err := s.db.WithContext(s.ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("store %s %s: %w", rec.Event, rec.Path, err)
	}
	return nil
}

// OnOntology stores ev.
func (s *SQLite) OnOntology(ev convert.OntologyEvent) error { return s.insert(FromOntology(ev)) }

// OnClass stores ev.
func (s *SQLite) OnClass(ev convert.ClassEvent) error { return s.insert(FromClass(ev)) }

// OnProperty stores ev.
func (s *SQLite) OnProperty(ev convert.PropertyEvent) error { return s.insert(FromProperty(ev)) }

// OnInstance stores ev.
func (s *SQLite) OnInstance(ev convert.InstanceEvent) error { return s.insert(FromInstance(ev)) }

// Terms loads the stored rows of diagram with their facts and links, in
// insertion order.
func Terms(ctx context.Context, db *gorm.DB, diagram string) ([]TermRow, error) {
	rows := make([]TermRow, 0)
	err := db.WithContext(ctx).
		Preload("Facts", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		Preload("Links", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		Where("diagram = ?", diagram).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load terms of %s: %w", diagram, err)
	}
	return rows, nil
}
