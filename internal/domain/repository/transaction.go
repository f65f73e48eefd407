package repository

import "context"

// TransactionManager defines the interface for managing database transactions.
// This allows the use case layer to handle transactions without depending on
// a specific DB driver like GORM.
type TransactionManager interface {
	// Execute runs a function within a database transaction. If the
	// function returns an error, the transaction is rolled back; otherwise
	// it is committed. All repository operations obtained from the factory
	// share the same transaction.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances bound to one transaction.
type RepositoryFactory interface {
	// AccountRepo returns an AccountRepository bound to the current transaction.
	AccountRepo() AccountRepository

	// CredentialRepo returns a CredentialRepository bound to the current transaction.
	CredentialRepo() CredentialRepository

	// VitalRepo returns a VitalRepository bound to the current transaction.
	VitalRepo() VitalRepository

	// AlertRepo returns an AlertRepository bound to the current transaction.
	AlertRepo() AlertRepository
}
