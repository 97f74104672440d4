package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
	repo "github.com/mesobgames/crash-backend/internal/repository"
)

type Repositories struct {
	Accounts  repo.Accounts
	Ledger    repo.Ledger
	AuditLogs repo.AuditLogs
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Accounts:  &accountsRepo{pool},
		Ledger:    &ledgerRepo{pool},
		AuditLogs: &auditLogsRepo{pool},
	}
}
