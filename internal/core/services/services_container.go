package services

import (
	"github.com/ledgerforge/ledger_engine/internal/core/domain"
	portsrepo "github.com/ledgerforge/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/ledgerforge/ledger_engine/internal/core/ports/services"
	"github.com/ledgerforge/ledger_engine/internal/platform/config"
)

// ContainerOption configures optional container dependencies.
type ContainerOption func(*containerDeps)

type containerDeps struct {
	inventory portssvc.InventorySyncer
}

// WithInventory plugs in the external inventory integration. Without it the
// journal lifecycle simply skips inventory side effects.
func WithInventory(syncer portssvc.InventorySyncer) ContainerOption {
	return func(d *containerDeps) {
		d.inventory = syncer
	}
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, options ...ContainerOption) *portssvc.ServiceContainer {
	deps := &containerDeps{}
	for _, option := range options {
		option(deps)
	}

	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.Resolver = NewResolverService(repos.AccountRepo)

	threshold := domain.MoneyFromDecimal(cfg.LargeAmountThreshold)
	validationOpts := []ValidationOption{WithLargeAmountThreshold(threshold)}
	if cfg.ComplianceCutoffDate != nil {
		validationOpts = append(validationOpts, WithComplianceCutoff(*cfg.ComplianceCutoffDate))
	}
	container.Validation = NewValidationService(repos.AccountRepo, validationOpts...)

	journalOpts := []JournalOption{}
	if deps.inventory != nil {
		journalOpts = append(journalOpts, WithInventorySyncer(deps.inventory))
	}
	container.Journal = NewJournalService(repos.EntryRepo, container.Resolver, container.Validation, journalOpts...)

	container.Balance = NewBalanceService(repos.EntryRepo, repos.AccountRepo)
	container.Anomaly = NewAnomalyService(repos.EntryRepo,
		WithAnomalyThreshold(threshold),
		WithAnomalyWindow(cfg.AnomalyWindowDays),
	)
	container.ServiceToken = NewServiceTokenService(repos.ServiceTokenRepo)

	return container
}
