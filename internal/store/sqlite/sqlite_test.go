package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/iwvelando/loan-amortizer/pkg/loans"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleScenario() *Scenario {
	return &Scenario{
		Name: "House",
		Loan: loans.LoanConfig{
			Principal:         250000,
			AnnualRatePercent: 6.5,
			TotalPeriods:      360,
			Frequency:         loans.Monthly,
		},
		Insurance:    loans.InsuranceConfig{Enabled: true, FixedAmountPerPeriod: 12.5},
		Strategy:     loans.ReduceTerm,
		FirstPayment: &loans.FirstPaymentOverride{Principal: 200, Interest: 1354.17},
		ExtraPayments: []loans.ExtraPayment{
			{Period: 12, Amount: 5000},
			{Period: 60, Amount: 0.1},
		},
	}
}

func TestCreateAndGetScenario(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	sc := sampleScenario()
	require.NoError(t, store.CreateScenario(ctx, sc))
	require.NotEmpty(t, sc.ID)
	require.Len(t, sc.ExtraPayments, 2)
	assert.NotEmpty(t, sc.ExtraPayments[0].ID)
	assert.False(t, sc.CreatedAt.IsZero())

	got, err := store.GetScenario(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, "House", got.Name)
	assert.Equal(t, sc.Loan, got.Loan)
	assert.Equal(t, sc.Insurance, got.Insurance)
	assert.Equal(t, loans.ReduceTerm, got.Strategy)
	require.NotNil(t, got.FirstPayment)
	assert.Equal(t, *sc.FirstPayment, *got.FirstPayment)
	assert.Equal(t, sc.ExtraPayments, got.ExtraPayments)
	assert.True(t, sc.CreatedAt.Equal(got.CreatedAt))
}

func TestCreateScenarioDefaults(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	sc := &Scenario{Loan: loans.LoanConfig{Principal: 1000, AnnualRatePercent: 5, TotalPeriods: 12}}
	require.NoError(t, store.CreateScenario(ctx, sc))

	got, err := store.GetScenario(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, loans.Monthly, got.Loan.Frequency)
	assert.Equal(t, loans.Auto, got.Strategy)
	assert.Nil(t, got.FirstPayment)
	assert.Empty(t, got.ExtraPayments)
	assert.NotEmpty(t, got.Name)
}

func TestCreateScenarioRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	invalidLoan := sampleScenario()
	invalidLoan.Loan.Principal = 0
	err := store.CreateScenario(ctx, invalidLoan)
	assert.True(t, loans.IsInvalidConfiguration(err), "got %v", err)

	invalidExtra := sampleScenario()
	invalidExtra.ExtraPayments = []loans.ExtraPayment{{Period: 361, Amount: 10}}
	err = store.CreateScenario(ctx, invalidExtra)
	assert.True(t, loans.IsInvalidExtraPayment(err), "got %v", err)

	scenarios, err := store.ListScenarios(ctx)
	require.NoError(t, err)
	assert.Empty(t, scenarios)
}

func TestCreateScenarioHonoursMaxPeriods(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	store.SetMaxPeriods(120)
	err := store.CreateScenario(ctx, sampleScenario())
	assert.True(t, loans.IsInvalidConfiguration(err), "got %v", err)

	scenarios, err := store.ListScenarios(ctx)
	require.NoError(t, err)
	assert.Empty(t, scenarios)

	long := sampleScenario()
	long.Loan.TotalPeriods = 3000
	long.Loan.Frequency = loans.Weekly
	store.SetMaxPeriods(0)
	err = store.CreateScenario(ctx, long)
	assert.True(t, loans.IsInvalidConfiguration(err), "default limit should reject 3000 periods, got %v", err)

	store.SetMaxPeriods(3000)
	require.NoError(t, store.CreateScenario(ctx, long))
}

func TestGetScenarioRejectsCorruptTimestamps(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	sc := sampleScenario()
	require.NoError(t, store.CreateScenario(ctx, sc))

	_, err := store.db.ExecContext(ctx, "UPDATE scenarios SET updated_at = ? WHERE id = ?", "yesterday", sc.ID)
	require.NoError(t, err)

	_, err = store.GetScenario(ctx, sc.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid updated_at")
}

func TestGetScenarioNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetScenario(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrScenarioNotFound))
}

func TestListAndDeleteScenarios(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first := sampleScenario()
	second := sampleScenario()
	second.Name = "Car"
	second.ExtraPayments = nil
	require.NoError(t, store.CreateScenario(ctx, first))
	require.NoError(t, store.CreateScenario(ctx, second))

	scenarios, err := store.ListScenarios(ctx)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)

	byID := map[string]Scenario{}
	for _, sc := range scenarios {
		byID[sc.ID] = sc
	}
	assert.Len(t, byID[first.ID].ExtraPayments, 2)
	assert.Empty(t, byID[second.ID].ExtraPayments)

	require.NoError(t, store.DeleteScenario(ctx, first.ID))
	assert.ErrorIs(t, store.DeleteScenario(ctx, first.ID), ErrScenarioNotFound)

	scenarios, err = store.ListScenarios(ctx)
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, "Car", scenarios[0].Name)
}

func TestUpdateExtraPayments(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	sc := sampleScenario()
	require.NoError(t, store.CreateScenario(ctx, sc))
	firstID := sc.ExtraPayments[0].ID
	secondID := sc.ExtraPayments[1].ID

	var added loans.ExtraPayment
	updated, err := store.UpdateExtraPayments(ctx, sc.ID, func(set *loans.ExtraPaymentSet) error {
		var err error
		added, err = set.Add(24, 1234.56)
		if err != nil {
			return err
		}
		if _, err := set.Update(firstID, 13, 6000); err != nil {
			return err
		}
		set.Remove(secondID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []loans.ExtraPayment{
		{ID: firstID, Period: 13, Amount: 6000},
		{ID: added.ID, Period: 24, Amount: 1234.56},
	}, updated.ExtraPayments)

	got, err := store.GetScenario(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.ExtraPayments, got.ExtraPayments)
}

func TestUpdateExtraPaymentsRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	sc := sampleScenario()
	require.NoError(t, store.CreateScenario(ctx, sc))

	_, err := store.UpdateExtraPayments(ctx, sc.ID, func(set *loans.ExtraPaymentSet) error {
		set.Remove(sc.ExtraPayments[0].ID)
		_, err := set.Add(0, 100)
		return err
	})
	assert.True(t, loans.IsInvalidExtraPayment(err), "got %v", err)

	got, err := store.GetScenario(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, sc.ExtraPayments, got.ExtraPayments)

	_, err = store.UpdateExtraPayments(ctx, "missing", func(*loans.ExtraPaymentSet) error { return nil })
	assert.ErrorIs(t, err, ErrScenarioNotFound)
}

func TestScenarioScheduleRequest(t *testing.T) {
	sc := sampleScenario()
	req := sc.ScheduleRequest()

	assert.Equal(t, sc.Loan, req.Loan)
	assert.Equal(t, []loans.PeriodPayment{{Period: 12, Amount: 5000}, {Period: 60, Amount: 0.1}}, req.ExtraPayments)

	schedule, err := loans.NewAmortizationScheduleGenerator(nil).GenerateSchedule(req)
	require.NoError(t, err)
	assert.True(t, schedule.PaidOff())
}

func TestStorePersistsToFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "loans.db")

	store, err := New(path)
	require.NoError(t, err)
	sc := sampleScenario()
	require.NoError(t, store.CreateScenario(ctx, sc))
	require.NoError(t, store.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.GetScenario(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, sc.ExtraPayments, got.ExtraPayments)
}
