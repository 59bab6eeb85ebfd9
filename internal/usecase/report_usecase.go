package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contasapp/contas/internal/domain"
)

// ReportUseCase answers the read-side queries: open accounts, received
// payments by month and the receivables forecast. It never writes
// financial data; results are cached briefly.
type ReportUseCase struct {
	entryRepo        EntryRepository
	subscriptionRepo SubscriptionRepository
	paymentRepo      SubscriptionPaymentRepository
	cache            Cache
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(
	entryRepo EntryRepository,
	subscriptionRepo SubscriptionRepository,
	paymentRepo SubscriptionPaymentRepository,
	cache Cache,
) *ReportUseCase {
	return &ReportUseCase{
		entryRepo:        entryRepo,
		subscriptionRepo: subscriptionRepo,
		paymentRepo:      paymentRepo,
		cache:            cache,
	}
}

// OpenAccount is one receivable line: the entry plus its due
// classification.
type OpenAccount struct {
	Entry *domain.Entry   `json:"entry"`
	Class domain.DueClass `json:"class"`
}

// OpenAccounts lists everything still to be collected as of now.
func (uc *ReportUseCase) OpenAccounts(ctx context.Context) ([]OpenAccount, error) {
	return uc.OpenAccountsAsOf(ctx, time.Now().UTC())
}

// OpenAccountsAsOf lists open income entries plus the current month's
// period of every active subscription, sorted by due date with undated
// entries last. Entries referenced by a subscription payment record are
// excluded so a materialized period is never counted twice.
func (uc *ReportUseCase) OpenAccountsAsOf(ctx context.Context, today time.Time) ([]OpenAccount, error) {
	open, err := uc.entryRepo.ListOpenIncome(ctx)
	if err != nil {
		return nil, err
	}
	refs, err := uc.paymentRepo.ListEntryRefs(ctx)
	if err != nil {
		return nil, err
	}

	var items []OpenAccount
	for _, e := range open {
		if refs[e.ID] || e.SubscriptionID != nil {
			continue
		}
		items = append(items, OpenAccount{Entry: e, Class: e.ClassifyDue(today)})
	}

	subs, err := uc.subscriptionRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		if !sub.ActiveIn(today.Year(), today.Month()) {
			continue
		}
		key := domain.PeriodKey{SubscriptionID: sub.ID, Year: today.Year(), Month: int(today.Month())}
		payment, err := uc.paymentRepo.GetByPeriod(ctx, key)
		if err != nil && !errors.Is(err, domain.ErrPeriodNotFound) {
			return nil, err
		}
		if payment != nil && (payment.Skipped || payment.Status == domain.StatusPaid) {
			continue
		}
		entry := sub.PeriodEntry(key.Year, time.Month(key.Month), payment)
		items = append(items, OpenAccount{Entry: entry, Class: entry.ClassifyDue(today)})
	}

	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i].Entry.DueDate, items[j].Entry.DueDate
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.Before(*dj)
		}
	})

	return items, nil
}

// MonthTotal is the received total of one calendar month.
type MonthTotal struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// ReceivedByMonth groups the year's settled income entries by the month
// the payment landed, newest month first.
func (uc *ReportUseCase) ReceivedByMonth(ctx context.Context, year int) ([]MonthTotal, error) {
	cacheKey := "report:received:" + strconv.Itoa(year)
	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, cacheKey); err == nil {
			var cached []MonthTotal
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	entries, err := uc.entryRepo.ListPaidIncomeByYear(ctx, year)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[int]*MonthTotal)
	for _, e := range entries {
		if e.PaidAt == nil {
			continue
		}
		m := int(e.PaidAt.UTC().Month())
		bucket, ok := byMonth[m]
		if !ok {
			bucket = &MonthTotal{Year: year, Month: m, Total: decimal.Zero}
			byMonth[m] = bucket
		}
		bucket.Total = bucket.Total.Add(e.Amount)
		bucket.Count++
	}

	totals := make([]MonthTotal, 0, len(byMonth))
	for _, t := range byMonth {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Month > totals[j].Month })

	if uc.cache != nil {
		if raw, err := json.Marshal(totals); err == nil {
			_ = uc.cache.Set(ctx, cacheKey, raw, ReportCacheTTL)
		}
	}

	return totals, nil
}

// ForecastBucket is the expected inflow of one future month, regardless
// of payment status.
type ForecastBucket struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// Forecast buckets the next twelve months of expected inflows.
func (uc *ReportUseCase) Forecast(ctx context.Context) ([]ForecastBucket, error) {
	return uc.ForecastAsOf(ctx, time.Now().UTC())
}

// ForecastAsOf sums every income entry and every derived subscription
// period by due month over a twelve-month window starting at today's
// month. Paid and pending amounts both count: the forecast shows expected
// volume, not outstanding balance.
func (uc *ReportUseCase) ForecastAsOf(ctx context.Context, today time.Time) ([]ForecastBucket, error) {
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, domain.LookAheadMonths, 0)

	buckets := make([]ForecastBucket, domain.LookAheadMonths)
	for i := range buckets {
		cursor := start.AddDate(0, i, 0)
		buckets[i] = ForecastBucket{Year: cursor.Year(), Month: int(cursor.Month()), Total: decimal.Zero}
	}
	idx := func(t time.Time) int {
		return (t.Year()-start.Year())*12 + int(t.Month()) - int(start.Month())
	}

	entries, err := uc.entryRepo.ListDueBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	refs, err := uc.paymentRepo.ListEntryRefs(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Type != domain.EntryTypeIncome || e.DueDate == nil {
			continue
		}
		// Subscription amounts come from period derivation below.
		if refs[e.ID] || e.SubscriptionID != nil {
			continue
		}
		if i := idx(e.DueDate.UTC()); i >= 0 && i < len(buckets) {
			buckets[i].Total = buckets[i].Total.Add(e.Amount)
		}
	}

	subs, err := uc.subscriptionRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		payments, err := uc.paymentRepo.ListBySubscription(ctx, sub.ID)
		if err != nil {
			return nil, err
		}
		byKey := make(map[domain.PeriodKey]*domain.SubscriptionPayment, len(payments))
		for _, p := range payments {
			byKey[p.Key()] = p
		}

		for _, key := range sub.Periods(start, domain.LookAheadMonths) {
			payment := byKey[key]
			if payment != nil && payment.Skipped {
				continue
			}
			entry := sub.PeriodEntry(key.Year, time.Month(key.Month), payment)
			if i := idx(*entry.DueDate); i >= 0 && i < len(buckets) {
				buckets[i].Total = buckets[i].Total.Add(entry.Amount)
			}
		}
	}

	return buckets, nil
}
