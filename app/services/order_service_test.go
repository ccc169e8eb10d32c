package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomcart/bloomcart/app/models"
	"github.com/bloomcart/bloomcart/app/services"
	"github.com/bloomcart/bloomcart/pkg/event"
)

func validOrder(flowers map[string]models.Flower) services.PlaceOrderInput {
	return services.PlaceOrderInput{
		Recipient: "Alice",
		Address:   "1 Garden Lane",
		Message:   "Happy birthday!",
		Items: []services.ItemInput{
			{FlowerID: flowers["Rose"].ID, Quantity: 2},
			{FlowerID: flowers["Lily"].ID, Quantity: 1},
		},
	}
}

func TestPlaceOrder(t *testing.T) {
	setupDB(t)
	flowers := seedCatalog(t)
	user := registerUser(t, "alice", "alice@example.com")

	order, err := services.NewOrderService().Place(user.ID, validOrder(flowers))
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.Equal(t, user.ID, order.UserID)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Rose", order.Items[0].FlowerName)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "Rose (2 pcs), Lily (1 pcs)", order.Selection())
}

func TestPlaceFiresOrderPlacedEvent(t *testing.T) {
	setupDB(t)
	flowers := seedCatalog(t)
	user := registerUser(t, "alice", "alice@example.com")

	event.Flush()
	t.Cleanup(event.Flush)

	var got []models.Order
	event.Listen(services.EventOrderPlaced, func(payload interface{}) {
		if order, ok := payload.(models.Order); ok {
			got = append(got, order)
		}
	})

	order, err := services.NewOrderService().Place(user.ID, validOrder(flowers))
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, order.ID, got[0].ID)
}

func TestPlaceRejectsAnonymousCaller(t *testing.T) {
	setupDB(t)
	flowers := seedCatalog(t)

	_, err := services.NewOrderService().Place(0, validOrder(flowers))
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestPlaceRequiresAtLeastOneItem(t *testing.T) {
	setupDB(t)
	flowers := seedCatalog(t)
	user := registerUser(t, "alice", "alice@example.com")

	in := validOrder(flowers)
	in.Items = nil

	_, err := services.NewOrderService().Place(user.ID, in)
	ve, ok := services.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "items")
}

func TestPlaceRejectsZeroQuantity(t *testing.T) {
	setupDB(t)
	flowers := seedCatalog(t)
	user := registerUser(t, "alice", "alice@example.com")

	in := validOrder(flowers)
	in.Items[1].Quantity = 0

	_, err := services.NewOrderService().Place(user.ID, in)
	ve, ok := services.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "items")

	// Nothing may be written when any item is invalid.
	var count int64
	require.NoError(t, orderCount(&count))
	assert.Zero(t, count)
}

func TestPlaceRejectsUnknownFlower(t *testing.T) {
	setupDB(t)
	flowers := seedCatalog(t)
	user := registerUser(t, "alice", "alice@example.com")

	in := validOrder(flowers)
	in.Items[0].FlowerID = 9999

	_, err := services.NewOrderService().Place(user.ID, in)
	ve, ok := services.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "items")
}

func TestPlaceRequiresRecipientAndAddress(t *testing.T) {
	setupDB(t)
	flowers := seedCatalog(t)
	user := registerUser(t, "alice", "alice@example.com")

	in := validOrder(flowers)
	in.Recipient = ""
	in.Address = ""

	_, err := services.NewOrderService().Place(user.ID, in)
	ve, ok := services.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "recipient")
	assert.Contains(t, ve.Fields, "address")
}

func TestListByOwnerNumbersOrders(t *testing.T) {
	setupDB(t)
	flowers := seedCatalog(t)
	alice := registerUser(t, "alice", "alice@example.com")
	bob := registerUser(t, "bob", "bob@example.com")
	svc := services.NewOrderService()

	// Interleave placements so each owner's numbering stays dense.
	_, err := svc.Place(alice.ID, validOrder(flowers))
	require.NoError(t, err)
	_, err = svc.Place(bob.ID, validOrder(flowers))
	require.NoError(t, err)
	_, err = svc.Place(alice.ID, validOrder(flowers))
	require.NoError(t, err)

	owned, err := svc.ListByOwner(alice.ID)
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, 1, owned[0].Number)
	assert.Equal(t, 2, owned[1].Number)
	assert.Less(t, owned[0].Order.ID, owned[1].Order.ID)

	owned, err = svc.ListByOwner(bob.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, 1, owned[0].Number)
}

func TestDocumentEnforcesOwnership(t *testing.T) {
	setupDB(t)
	flowers := seedCatalog(t)
	alice := registerUser(t, "alice", "alice@example.com")
	bob := registerUser(t, "bob", "bob@example.com")
	svc := services.NewOrderService()

	order, err := svc.Place(alice.ID, validOrder(flowers))
	require.NoError(t, err)

	doc, err := svc.Document(order.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Number)
	assert.Equal(t, order.ID, doc.OrderID)
	assert.Equal(t, "Alice", doc.Recipient)
	assert.Equal(t, "Rose (2 pcs), Lily (1 pcs)", doc.Selection)

	_, err = svc.Document(order.ID, bob.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = svc.Document(9999, alice.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
