package postgres

import (
	"database/sql/driver"
	"net"
	"strings"

	domainerrors "crm/internal/domain/errors"
	"crm/internal/domain/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes the repositories react to.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgNotNullViolation     = "23502"
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgQueryCanceled        = "57014"
	pgAdminShutdown        = "57P01"
	pgCrashShutdown        = "57P02"
	pgCannotConnectNow     = "57P03"
	pgTooManyConnections   = "53300"

	pgConnectionExceptionClass = "08"
)

// Unique index names declared on the models.
const (
	idxUsersUsername      = "idx_users_username"
	idxAgentsCompanyName  = "idx_agents_company_name"
	idxCustomersName      = "idx_customers_name"
	idxProductsModelPkg   = "idx_products_model_package"
	idxInventoryOperation = "idx_inventory_records_operation_id"
	chkProductsStock      = "chk_products_stock"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}

	return ""
}

func isUniqueConstraintViolation(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, gorm.ErrDuplicatedKey) || pgErrorCode(err) == pgUniqueViolation
}

func isForeignKeyConstraintViolation(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, gorm.ErrForeignKeyViolated) || pgErrorCode(err) == pgForeignKeyViolation
}

func isNotNullConstraintViolation(err error) bool {
	return err != nil && pgErrorCode(err) == pgNotNullViolation
}

func isCheckConstraintViolation(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, gorm.ErrCheckConstraintViolated) || pgErrorCode(err) == pgCheckViolation
}

// isTransientError reports failures where rerunning the whole transaction may succeed.
func isTransientError(err error) bool {
	if err == nil {
		return false
	}

	switch code := pgErrorCode(err); {
	case strings.HasPrefix(code, pgConnectionExceptionClass):
		return true
	case code == pgSerializationFailure, code == pgDeadlockDetected, code == pgQueryCanceled,
		code == pgAdminShutdown, code == pgCrashShutdown, code == pgCannotConnectNow,
		code == pgTooManyConnections:
		return true
	case code != "":
		return false
	}

	if errors.Is(err, driver.ErrBadConn) || pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var connectErr *pgconn.ConnectError
	return errors.As(err, &connectErr)
}

// wrapDBError converts a driver error into a DatabaseExecuteError, tagging it when a retry may help.
func wrapDBError(err error, details string) error {
	if err == nil {
		return nil
	}

	wrapped := domainerrors.NewDatabaseExecuteError(err, details)
	if isTransientError(err) {
		return repository.MarkTransient(wrapped)
	}

	return wrapped
}
