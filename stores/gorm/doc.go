// Package gorm provides a GORM-based implementation of the userhub
// UserStore. It supports any database that GORM supports (PostgreSQL,
// MySQL, SQLite, etc.) and is the store to use for deployments backed
// by a relational database.
//
// # Database Schema
//
// The package auto-migrates a single table:
//   - users: account records, unique-indexed on email
//
// # Usage
//
//	db, _ := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
//	gormstore.AutoMigrate(db)
//	store := gormstore.NewUserStore(db)
//
// TranslateError must be enabled so duplicate-key violations surface as
// gorm.ErrDuplicatedKey and can be mapped to userhub.ErrEmailTaken.
package gorm
