package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ledgerforge/ledger_engine/internal/core/domain"
	portsrepo "github.com/ledgerforge/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/ledgerforge/ledger_engine/internal/core/ports/services"
)

// balanceService aggregates posted activity into per-account period balances.
type balanceService struct {
	BaseService
	entryRepo   portsrepo.EntryReader
	accountRepo portsrepo.AccountReader
}

// NewBalanceService creates a new BalanceSvc.
func NewBalanceService(entryRepo portsrepo.EntryReader, accountRepo portsrepo.AccountReader) portssvc.BalanceSvc {
	return &balanceService{
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
	}
}

// Ensure balanceService implements the portssvc.BalanceSvc interface
var _ portssvc.BalanceSvc = (*balanceService)(nil)

// accountActivity accumulates one account's posted lines while scanning.
type accountActivity struct {
	debit    domain.Money
	credit   domain.Money
	lastDate time.Time
}

// LedgerBalances folds every posted line in [from, to] into one row per
// account. Accounts with no posted activity in the window are omitted.
func (s *balanceService) LedgerBalances(ctx context.Context, tenantID string, companyID *string, from, to time.Time, callerID string) ([]domain.LedgerBalance, error) {
	logger := s.GetLogger(ctx)

	entries, err := s.entryRepo.ListPostedEntries(ctx, tenantID, companyID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to list posted entries for balances",
			slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list posted entries: %w", err)
	}

	activity := make(map[string]*accountActivity)
	for _, entry := range entries {
		for _, line := range entry.Lines {
			acc, ok := activity[line.AccountID]
			if !ok {
				acc = &accountActivity{debit: domain.ZeroMoney(), credit: domain.ZeroMoney()}
				activity[line.AccountID] = acc
			}
			acc.debit = acc.debit.Add(line.Debit)
			acc.credit = acc.credit.Add(line.Credit)
			if entry.EntryDate.After(acc.lastDate) {
				acc.lastDate = entry.EntryDate
			}
		}
	}

	if len(activity) == 0 {
		logger.Debug("No posted activity in period",
			slog.String("tenant_id", tenantID),
			slog.Time("from", from),
			slog.Time("to", to))
		return []domain.LedgerBalance{}, nil
	}

	accountIDs := make([]string, 0, len(activity))
	for accountID := range activity {
		accountIDs = append(accountIDs, accountID)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for balances",
			slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to load accounts for balances: %w", err)
	}

	balances := make([]domain.LedgerBalance, 0, len(activity))
	for accountID, acc := range activity {
		balance := domain.LedgerBalance{
			AccountID:      accountID,
			OpeningBalance: domain.ZeroMoney(),
			PeriodDebit:    acc.debit,
			PeriodCredit:   acc.credit,
		}
		balance.NetChange = acc.debit.Sub(acc.credit)
		balance.ClosingBalance = balance.OpeningBalance.Add(balance.NetChange)
		if !acc.lastDate.IsZero() {
			lastDate := acc.lastDate
			balance.LastTransactionDate = &lastDate
		}
		if account, ok := accounts[accountID]; ok {
			balance.AccountCode = account.Code
			balance.AccountName = account.Name
			balance.AccountType = account.AccountType
		}
		balances = append(balances, balance)
	}

	sort.Slice(balances, func(i, j int) bool {
		return balances[i].AccountCode < balances[j].AccountCode
	})

	logger.Debug("Ledger balances computed",
		slog.String("tenant_id", tenantID),
		slog.Int("account_count", len(balances)),
		slog.Int("entry_count", len(entries)))
	return balances, nil
}
