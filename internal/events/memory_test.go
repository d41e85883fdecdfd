package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPublisherRecordsInOrder(t *testing.T) {
	pub := NewMemoryPublisher()
	ctx := context.Background()

	require.NoError(t, pub.Publish(ctx, TypePurchasePending, PurchasePending{
		SessionID:  "s-1",
		BillerName: "epoch",
		OccurredAt: time.Now(),
	}))
	require.NoError(t, pub.Publish(ctx, TypePurchaseProcessed, PurchaseProcessed{
		SessionID: "s-1",
		Success:   true,
	}))

	events := pub.Events()
	require.Len(t, events, 2)
	assert.Equal(t, TypePurchasePending, events[0].EventType)
	assert.Equal(t, TypePurchaseProcessed, events[1].EventType)

	processed := pub.ByType(TypePurchaseProcessed)
	require.Len(t, processed, 1)
	assert.True(t, processed[0].Event.(PurchaseProcessed).Success)

	assert.Empty(t, pub.ByType(TypeThreeDLookup))
}

func TestMemoryPublisherEventsReturnsCopy(t *testing.T) {
	pub := NewMemoryPublisher()
	require.NoError(t, pub.Publish(context.Background(), TypeThreeDLookup, ThreeDLookup{SessionID: "s-1"}))

	events := pub.Events()
	events[0].EventType = "tampered"

	assert.Equal(t, TypeThreeDLookup, pub.Events()[0].EventType)
}

func TestMemoryPublisherConcurrentPublish(t *testing.T) {
	pub := NewMemoryPublisher()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = pub.Publish(context.Background(), TypeFraudCaptchaValidated, CaptchaValidated{SessionID: "s-1", Step: "init"})
		}()
	}
	wg.Wait()

	assert.Len(t, pub.Events(), 20)
}
