// Package repository implements the service store interfaces on gorm.
package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"ideahub/internal/utils"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// invalidTextRepresentation is raised by postgres for malformed uuid ids.
const invalidTextRepresentation = "22P02"

// translate maps gorm errors onto the application error codes.
func translate(err error, resource string) error {
	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.NewNotFoundError(resource)
	case errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation:
		return utils.NewNotFoundError(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return utils.NewAppError(utils.ErrConflict, resource+" already exists", err)
	}
	return fmt.Errorf("%s query: %w", strings.ToLower(resource), err)
}

// mustAffect turns an update that matched no row into NOT_FOUND.
func mustAffect(res *gorm.DB, resource string) error {
	if res.Error != nil {
		return translate(res.Error, resource)
	}
	if res.RowsAffected == 0 {
		return utils.NewNotFoundError(resource)
	}
	return nil
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func paginate(page, limit int) (offset, size int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = utils.DefaultPageSize
	}
	return (page - 1) * limit, limit
}
