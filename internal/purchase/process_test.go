package purchase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlabs/purchase-engine/internal/biller"
	"github.com/meridianlabs/purchase-engine/internal/values"
)

func newMainItem() *InitializedItem {
	return NewInitializedItem(ItemData{})
}

func newCrossSaleItem() *InitializedItem {
	return NewInitializedItem(ItemData{IsCrossSale: true})
}

func newTestProcess(t *testing.T, cascade *Cascade) *PurchaseProcess {
	t.Helper()
	p, err := Create(CreateData{
		PaymentInfo: NewCardPaymentInfo("visa"),
		Items:       []*InitializedItem{newMainItem()},
		Cascade:     cascade,
	})
	require.NoError(t, err)
	return p
}

func singleSubmitCascade(t *testing.T, names ...string) *Cascade {
	t.Helper()
	billers := make([]biller.Biller, 0, len(names))
	for _, name := range names {
		billers = append(billers, testBiller{name: name, maxSubmits: 1})
	}
	cascade, err := NewCascade(billers)
	require.NoError(t, err)
	return cascade
}

func recordMainTransaction(t *testing.T, p *PurchaseProcess, state TransactionState, nsf bool) {
	t.Helper()
	tx, err := NewTransaction(TransactionData{
		State:      state,
		BillerName: p.Cascade().CurrentBiller().Name(),
		IsNsf:      nsf,
	})
	require.NoError(t, err)
	p.MainItem().AddTransaction(tx)
}

func TestCreateStartsInCreatedState(t *testing.T) {
	p := newTestProcess(t, singleSubmitCascade(t, biller.RocketgateName))

	assert.Equal(t, StateCreated, p.State())
	assert.False(t, p.SessionID().IsZero())
	assert.False(t, p.HasMemberID())
	assert.False(t, p.HasPurchaseID())
}

func TestCreateRequiresExactlyOneMainItem(t *testing.T) {
	_, err := Create(CreateData{
		PaymentInfo: NewCardPaymentInfo("visa"),
		Items:       []*InitializedItem{newCrossSaleItem()},
	})
	assert.ErrorIs(t, err, ErrMainItemMissing)

	_, err = Create(CreateData{
		PaymentInfo: NewCardPaymentInfo("visa"),
		Items:       []*InitializedItem{newMainItem(), newMainItem()},
	})
	assert.ErrorIs(t, err, ErrMainItemDuplicated)

	_, err = Create(CreateData{
		PaymentInfo: NewCardPaymentInfo("visa"),
		Items:       []*InitializedItem{newMainItem(), newCrossSaleItem(), newCrossSaleItem()},
	})
	assert.NoError(t, err)
}

func TestProcessRequiresValidatedCaptcha(t *testing.T) {
	p := newTestProcess(t, singleSubmitCascade(t, biller.RocketgateName))
	require.NoError(t, p.Validate())

	p.FraudAdvice().AdviseInitCaptcha()

	err := p.Process()
	assert.ErrorIs(t, err, ErrCaptchaNotValidated)
	assert.Equal(t, StateValid, p.State(), "a refused process call must not change state")

	require.NoError(t, p.ValidateInitCaptcha())
	require.NoError(t, p.Process())
	assert.Equal(t, StateProcessing, p.State())
}

func TestPostProcessingCascadeScenario(t *testing.T) {
	// Two billers with one submit each: the first decline re-validates for
	// the untried biller, the second decline ends the session.
	cascade := singleSubmitCascade(t, biller.RocketgateName, biller.NetbillingName)
	p := newTestProcess(t, cascade)

	require.NoError(t, p.Validate())
	require.NoError(t, p.Process())

	b, err := cascade.NextBiller()
	require.NoError(t, err)
	assert.Equal(t, biller.RocketgateName, b.Name())
	recordMainTransaction(t, p, TransactionDeclined, false)

	require.NoError(t, p.PostProcessing())
	assert.Equal(t, StateValid, p.State(), "netbilling is untried, session must be valid again")

	require.NoError(t, p.Process())
	b, err = cascade.NextBiller()
	require.NoError(t, err)
	assert.Equal(t, biller.NetbillingName, b.Name())
	recordMainTransaction(t, p, TransactionDeclined, false)

	require.NoError(t, p.PostProcessing())
	assert.Equal(t, StateProcessed, p.State(), "cascade exhausted, session must be processed")
}

func TestPostProcessingPendingMainTransaction(t *testing.T) {
	p := newTestProcess(t, singleSubmitCascade(t, biller.EpochName))
	require.NoError(t, p.Validate())
	require.NoError(t, p.Process())

	_, err := p.Cascade().NextBiller()
	require.NoError(t, err)
	recordMainTransaction(t, p, TransactionPending, false)

	require.NoError(t, p.PostProcessing())
	assert.Equal(t, StatePending, p.State())
}

func TestPostProcessingNsfDeclineStopsCascade(t *testing.T) {
	// NSF declines never retry, even with an untried biller in the cascade.
	cascade := singleSubmitCascade(t, biller.RocketgateName, biller.NetbillingName)
	p := newTestProcess(t, cascade)
	require.NoError(t, p.Validate())
	require.NoError(t, p.Process())

	_, err := cascade.NextBiller()
	require.NoError(t, err)
	recordMainTransaction(t, p, TransactionDeclined, true)

	require.NoError(t, p.PostProcessing())
	assert.Equal(t, StateProcessed, p.State())
	assert.True(t, cascade.HasSubmitsLeft(), "the untried biller stays untried")
}

func TestPostProcessingSuccessfulMainItem(t *testing.T) {
	cascade := singleSubmitCascade(t, biller.RocketgateName, biller.NetbillingName)
	p := newTestProcess(t, cascade)
	require.NoError(t, p.Validate())
	require.NoError(t, p.Process())

	_, err := cascade.NextBiller()
	require.NoError(t, err)
	recordMainTransaction(t, p, TransactionApproved, false)

	require.NoError(t, p.PostProcessing())
	assert.Equal(t, StateProcessed, p.State())
	assert.True(t, p.WasMainItemPurchaseSuccessful())
}

func TestIncrementGatewaySubmitNumber(t *testing.T) {
	t.Run("counts while active", func(t *testing.T) {
		p := newTestProcess(t, singleSubmitCascade(t, biller.RocketgateName, biller.NetbillingName))
		require.NoError(t, p.Validate())

		require.NoError(t, p.IncrementGatewaySubmitNumber())
		assert.Equal(t, 1, p.GatewaySubmitNumber())
		assert.Equal(t, StateValid, p.State())
	})

	t.Run("auto finishes on exhausted cascade", func(t *testing.T) {
		cascade := singleSubmitCascade(t, biller.RocketgateName)
		p := newTestProcess(t, cascade)
		require.NoError(t, p.Validate())

		_, err := cascade.NextBiller()
		require.NoError(t, err)
		require.False(t, cascade.HasSubmitsLeft())

		require.NoError(t, p.IncrementGatewaySubmitNumber())
		assert.Equal(t, StateProcessed, p.State())
	})

	t.Run("noop once pending", func(t *testing.T) {
		p := newTestProcess(t, singleSubmitCascade(t, biller.EpochName))
		require.NoError(t, p.Validate())
		require.NoError(t, p.Process())
		require.NoError(t, p.StartPending())

		require.NoError(t, p.IncrementGatewaySubmitNumber())
		assert.Equal(t, 0, p.GatewaySubmitNumber())
		assert.Equal(t, StatePending, p.State())
	})

	t.Run("noop once blocked", func(t *testing.T) {
		p := newTestProcess(t, singleSubmitCascade(t, biller.RocketgateName))
		require.NoError(t, p.BlockDueToFraudAdvice())

		require.NoError(t, p.IncrementGatewaySubmitNumber())
		assert.Equal(t, 0, p.GatewaySubmitNumber())
	})
}

func TestCaptchaValidationUnblocksSession(t *testing.T) {
	t.Run("unblocks when not blacklisted", func(t *testing.T) {
		p := newTestProcess(t, singleSubmitCascade(t, biller.RocketgateName))
		p.FraudAdvice().AdviseInitCaptcha()
		require.NoError(t, p.BlockDueToFraudAdvice())

		require.NoError(t, p.ValidateInitCaptcha())
		assert.Equal(t, StateValid, p.State())
	})

	t.Run("stays blocked when blacklisted", func(t *testing.T) {
		p := newTestProcess(t, singleSubmitCascade(t, biller.RocketgateName))
		p.FraudAdvice().AdviseInitCaptcha()
		p.FraudAdvice().MarkBlacklistedOnInit()
		require.NoError(t, p.BlockDueToFraudAdvice())

		require.NoError(t, p.ValidateInitCaptcha())
		assert.Equal(t, StateBlockedDueToFraud, p.State())
	})

	t.Run("resets a generated member id", func(t *testing.T) {
		p := newTestProcess(t, singleSubmitCascade(t, biller.RocketgateName))
		p.FraudAdvice().AdviseInitCaptcha()

		generated := p.MemberID()
		require.NotEmpty(t, generated)

		require.NoError(t, p.ValidateInitCaptcha())
		assert.False(t, p.HasMemberID(), "generated member id must be discarded")
		assert.NotEqual(t, generated, p.MemberID(), "a fresh id is issued on next use")
	})

	t.Run("keeps a caller supplied member id", func(t *testing.T) {
		p, err := Create(CreateData{
			PaymentInfo: NewCardPaymentInfo("visa"),
			Items:       []*InitializedItem{newMainItem()},
			MemberID:    "member-42",
		})
		require.NoError(t, err)
		p.FraudAdvice().AdviseInitCaptcha()

		require.NoError(t, p.ValidateInitCaptcha())
		assert.Equal(t, "member-42", p.MemberID())
	})

	t.Run("resets a generated member id after a persistence round trip", func(t *testing.T) {
		p := newTestProcess(t, singleSubmitCascade(t, biller.RocketgateName))
		p.FraudAdvice().AdviseInitCaptcha()

		generated := p.MemberID()
		require.NotEmpty(t, generated)

		restored, err := Restore(p.ToPayload())
		require.NoError(t, err)

		require.NoError(t, restored.ValidateInitCaptcha())
		assert.False(t, restored.HasMemberID(), "generated member id must be discarded after restore")
		assert.NotEqual(t, generated, restored.MemberID())
	})

	t.Run("keeps a caller supplied member id after a persistence round trip", func(t *testing.T) {
		p, err := Create(CreateData{
			PaymentInfo: NewCardPaymentInfo("visa"),
			Items:       []*InitializedItem{newMainItem()},
			MemberID:    "member-42",
		})
		require.NoError(t, err)
		p.FraudAdvice().AdviseInitCaptcha()

		restored, err := Restore(p.ToPayload())
		require.NoError(t, err)

		require.NoError(t, restored.ValidateInitCaptcha())
		assert.Equal(t, "member-42", restored.MemberID())
	})
}

func TestLazyIDsAreMemoized(t *testing.T) {
	p := newTestProcess(t, singleSubmitCascade(t, biller.RocketgateName))

	member := p.MemberID()
	purchaseID := p.PurchaseID()
	assert.Equal(t, member, p.MemberID())
	assert.Equal(t, purchaseID, p.PurchaseID())

	sub := p.MainItem().SubscriptionID()
	assert.Equal(t, sub, p.MainItem().SubscriptionID())
}

func TestFilterBillersForForcedThreeD(t *testing.T) {
	cascade, err := NewCascade([]biller.Biller{
		testBiller{name: biller.NetbillingName, maxSubmits: 1},
		testBiller{name: biller.RocketgateName, maxSubmits: 1, threeDSupport: true},
	})
	require.NoError(t, err)
	p := newTestProcess(t, cascade)

	// Without forced 3DS nothing happens.
	require.NoError(t, p.FilterBillersForForcedThreeD())
	assert.Len(t, cascade.Billers(), 2)

	p.FraudAdvice().ForceThreeDOnInit()
	require.NoError(t, p.FilterBillersForForcedThreeD())
	assert.Equal(t, []string{biller.RocketgateName}, cascade.BillerNames())
}

func TestNoMoreBillersAvailableFinishes(t *testing.T) {
	p := newTestProcess(t, singleSubmitCascade(t, biller.RocketgateName))
	require.NoError(t, p.Validate())

	require.NoError(t, p.NoMoreBillersAvailable())
	assert.True(t, p.IsProcessed())
}

func TestRecordTransactionByItemID(t *testing.T) {
	main := newMainItem()
	cross := newCrossSaleItem()
	p, err := Create(CreateData{
		PaymentInfo: NewCardPaymentInfo("visa"),
		Items:       []*InitializedItem{main, cross},
	})
	require.NoError(t, err)

	tx, err := NewTransaction(TransactionData{State: TransactionApproved, BillerName: biller.RocketgateName})
	require.NoError(t, err)

	require.NoError(t, p.RecordTransaction(cross.ItemID(), tx))
	assert.Equal(t, 1, cross.Transactions().Count())
	assert.Equal(t, 0, main.Transactions().Count())

	err = p.RecordTransaction(values.NewItemID(), tx)
	assert.Error(t, err)
}
