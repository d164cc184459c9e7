package model

import (
	"testing"

	"gorm.io/gorm/schema"

	"shopdesk/internal/config"
)

func TestGormConfigTranslatesDriverErrors(t *testing.T) {
	cfg := gormConfig(nil)

	if !cfg.TranslateError {
		t.Fatal("driver errors must be translated so duplicate-key conflicts map to gorm.ErrDuplicatedKey")
	}
	naming, ok := cfg.NamingStrategy.(schema.NamingStrategy)
	if !ok || !naming.SingularTable {
		t.Fatal("expected singular table naming")
	}
}

func TestCreateRepositoryRejectsUnknownDriver(t *testing.T) {
	factory := NewRepositoryFactory()

	if _, err := factory.CreateRepository(&config.Config{DBType: "oracle"}); err == nil {
		t.Fatal("expected error for unsupported database type")
	}
}
