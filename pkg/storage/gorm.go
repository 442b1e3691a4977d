package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jdziat/simple-eca/pkg/rule"
	"github.com/jdziat/simple-eca/pkg/security"
)

// GormStore stores rules using GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed rule store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB returns the underlying database handle.
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

// IsSQLite reports whether the store is backed by SQLite.
func (s *GormStore) IsSQLite() bool {
	return s.db.Dialector.Name() == "sqlite"
}

// Migrate creates the necessary tables.
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&RuleRecord{})
}

// Save inserts the rule or updates the stored rule with the same name.
// The stored ID is kept on update; a new rule without an ID gets one.
// It returns the rule as stored.
func (s *GormStore) Save(ctx context.Context, r rule.Rule) (rule.Rule, error) {
	if err := security.ValidateKey(r.Name); err != nil {
		return rule.Rule{}, fmt.Errorf("rule name: %w", err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return save(tx, &r)
	})
	if err != nil {
		return rule.Rule{}, err
	}
	return r, nil
}

// SaveAll saves every rule in one transaction.
func (s *GormStore) SaveAll(ctx context.Context, rules []rule.Rule) error {
	for _, r := range rules {
		if err := security.ValidateKey(r.Name); err != nil {
			return fmt.Errorf("rule name %q: %w", r.Name, err)
		}
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rules {
			if err := save(tx, &rules[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func save(tx *gorm.DB, r *rule.Rule) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	rec, err := toRecord(*r)
	if err != nil {
		return err
	}

	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"event", "priority", "disabled", "conditions", "actions", "updated_at"}),
	}).Create(rec).Error
	if err != nil {
		return err
	}

	// On update the stored ID wins.
	var stored RuleRecord
	if err := tx.Select("id").Where("name = ?", r.Name).First(&stored).Error; err != nil {
		return err
	}
	r.ID = stored.ID
	return nil
}

// Get retrieves a rule by name. It returns nil if no such rule exists.
func (s *GormStore) Get(ctx context.Context, name string) (*rule.Rule, error) {
	var rec RuleRecord
	err := s.db.WithContext(ctx).First(&rec, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r, err := rec.Rule()
	if err != nil {
		return nil, fmt.Errorf("decode rule %q: %w", name, err)
	}
	return &r, nil
}

// List returns every stored rule ordered by event, priority and name.
func (s *GormStore) List(ctx context.Context) ([]rule.Rule, error) {
	return s.find(s.db.WithContext(ctx))
}

// ListByEvent returns the rules bound to event in evaluation order.
func (s *GormStore) ListByEvent(ctx context.Context, event string) ([]rule.Rule, error) {
	return s.find(s.db.WithContext(ctx).Where("event = ?", event))
}

func (s *GormStore) find(q *gorm.DB) ([]rule.Rule, error) {
	var recs []RuleRecord
	if err := q.Order("event ASC, priority DESC, name ASC").Find(&recs).Error; err != nil {
		return nil, err
	}

	rules := make([]rule.Rule, 0, len(recs))
	for i := range recs {
		r, err := recs[i].Rule()
		if err != nil {
			return nil, fmt.Errorf("decode rule %q: %w", recs[i].Name, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// Delete removes a rule by name and reports whether it existed.
func (s *GormStore) Delete(ctx context.Context, name string) (bool, error) {
	result := s.db.WithContext(ctx).Where("name = ?", name).Delete(&RuleRecord{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// LoadInto replaces the engine's rules with the stored set.
func (s *GormStore) LoadInto(ctx context.Context, e *rule.Engine) error {
	rules, err := s.List(ctx)
	if err != nil {
		return err
	}
	return e.Replace(rules)
}
