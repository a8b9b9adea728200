package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"swiftlogistics/internal/core/domain/model/kernel"
)

func mustNewOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder(kernel.NewUUID(), "SL-2024-0001", "221B Baker Street, London", "J. Watson", "+44 20 7946 0000")
	assert.NoError(t, err)
	return o
}

func Test_NewOrder_StartsSubmitted(t *testing.T) {
	o := mustNewOrder(t)

	assert.NoError(t, o.Validate())
	assert.Equal(t, Submitted, o.Status())
	assert.Equal(t, "SL-2024-0001", o.OrderNumber())
	assert.Equal(t, "221B Baker Street, London", o.DeliveryAddress())
	assert.Equal(t, "J. Watson", o.RecipientName())
	assert.Equal(t, "+44 20 7946 0000", o.RecipientPhone())
	assert.Nil(t, o.DeliveredAt())
	assert.False(t, o.CreatedAt().IsZero())
}

func Test_NewOrder_RejectsMissingRequiredFields(t *testing.T) {
	_, err := NewOrder(kernel.NewUUID(), "", "221B Baker Street", "J. Watson", "")
	assert.ErrorIs(t, err, ErrOrderNumberIsRequired)

	_, err = NewOrder(kernel.NewUUID(), "SL-2024-0001", "", "J. Watson", "")
	assert.ErrorIs(t, err, ErrDeliveryAddressIsRequired)

	_, err = NewOrder(kernel.NewUUID(), "SL-2024-0001", "221B Baker Street", "", "")
	assert.ErrorIs(t, err, ErrRecipientNameIsRequired)
}

func Test_NewOrder_RejectsInvalidID(t *testing.T) {
	_, err := NewOrder(kernel.UUID{}, "SL-2024-0001", "221B Baker Street", "J. Watson", "")
	assert.Error(t, err)
}

func Test_NewOrder_PhoneIsOptional(t *testing.T) {
	o, err := NewOrder(kernel.NewUUID(), "SL-2024-0001", "221B Baker Street", "J. Watson", "")
	assert.NoError(t, err)
	assert.Empty(t, o.RecipientPhone())
}

func Test_Order_Validate_RejectsDefaultConstructed(t *testing.T) {
	var o Order
	assert.ErrorIs(t, o.Validate(), ErrOrderIsNotConstructed)
}

func Test_RestoreOrder_KeepsPersistedState(t *testing.T) {
	id := kernel.NewUUID()
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(2 * time.Hour)
	delivered := created.Add(3 * time.Hour)

	o, err := RestoreOrder(id, "SL-2024-0002", "742 Evergreen Terrace", "H. Simpson", "", Delivered, created, updated, &delivered)
	assert.NoError(t, err)

	assert.True(t, o.ID().IsEqual(id))
	assert.Equal(t, Delivered, o.Status())
	assert.Equal(t, created, o.CreatedAt())
	assert.Equal(t, updated, o.UpdatedAt())
	assert.Equal(t, delivered, *o.DeliveredAt())
}

func Test_RestoreOrder_RejectsInvalidStatus(t *testing.T) {
	var bad Status
	_, err := RestoreOrder(kernel.NewUUID(), "SL-2024-0003", "Some street 1", "A. Nyman", "", bad, time.Now(), time.Now(), nil)
	assert.Error(t, err)
}

func Test_Order_MarkMethods_AdvanceLifecycle(t *testing.T) {
	o := mustNewOrder(t)

	assert.NoError(t, o.MarkProcessing())
	assert.Equal(t, Processing, o.Status())

	assert.NoError(t, o.MarkInWarehouse())
	assert.Equal(t, InWarehouse, o.Status())

	assert.NoError(t, o.MarkRoutePlanned())
	assert.Equal(t, RoutePlanned, o.Status())

	assert.NoError(t, o.MarkOutForDelivery())
	assert.Equal(t, OutForDelivery, o.Status())

	deliveredAt := time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC)
	assert.NoError(t, o.MarkDelivered(deliveredAt))
	assert.Equal(t, Delivered, o.Status())
	assert.Equal(t, deliveredAt, *o.DeliveredAt())
}

func Test_Order_MarkDelivered_RejectedBeforeOutForDelivery(t *testing.T) {
	o := mustNewOrder(t)

	err := o.MarkDelivered(time.Now())
	assert.Error(t, err)
	assert.Equal(t, Submitted, o.Status())
	assert.Nil(t, o.DeliveredAt())
}

func Test_Order_MarkFailed_FromAnyNonTerminal(t *testing.T) {
	o := mustNewOrder(t)
	assert.NoError(t, o.MarkProcessing())

	assert.NoError(t, o.MarkFailed())
	assert.Equal(t, Failed, o.Status())

	assert.Error(t, o.MarkProcessing())
}

func Test_Order_IsEqual_ComparesByID(t *testing.T) {
	id := kernel.NewUUID()
	a, err := NewOrder(id, "SL-1", "Street 1", "A", "")
	assert.NoError(t, err)
	b, err := NewOrder(id, "SL-2", "Street 2", "B", "")
	assert.NoError(t, err)

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(mustNewOrder(t)))
}
