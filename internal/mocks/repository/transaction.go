package repository

import (
	"context"

	"adaptiv/internal/domain/repository"
)

// RepositoryFactory is a mock implementation of repository.RepositoryFactory.
// Tests preassign the repository mocks they need.
type RepositoryFactory struct {
	AccountRepository    *AccountRepository
	CredentialRepository *CredentialRepository
	VitalRepository      *VitalRepository
	AlertRepository      *AlertRepository
}

func (f *RepositoryFactory) AccountRepo() repository.AccountRepository {
	return f.AccountRepository
}

func (f *RepositoryFactory) CredentialRepo() repository.CredentialRepository {
	return f.CredentialRepository
}

func (f *RepositoryFactory) VitalRepo() repository.VitalRepository {
	return f.VitalRepository
}

func (f *RepositoryFactory) AlertRepo() repository.AlertRepository {
	return f.AlertRepository
}

// TransactionManager is a fake implementation of repository.TransactionManager.
// Execute runs the callback against the configured factory, so use case
// tests exercise the real orchestration code inside the transaction closure.
// Set BeginErr to simulate a transaction that cannot start.
type TransactionManager struct {
	Factory  *RepositoryFactory
	BeginErr error
}

func (m *TransactionManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	if m.BeginErr != nil {
		return m.BeginErr
	}

	return fn(m.Factory)
}
