package records

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sparshnfc/storefront/internal/docstore"
)

func TestAddStampsTimestamps(t *testing.T) {
	mem, svc := newMemService()

	created := svc.Add(context.Background(), Products, docstore.Document{"name": "card"})
	require.True(t, created.Success)
	require.NotEmpty(t, created.ID)

	snap, err := mem.Get(context.Background(), "products", created.ID)
	require.NoError(t, err)

	stamp := testNow.Format(time.RFC3339)
	require.Equal(t, stamp, snap.Data["createdAt"])
	require.Equal(t, stamp, snap.Data["updatedAt"])
	require.Equal(t, "card", snap.Data["name"])
}

func TestAddDoesNotMutateInput(t *testing.T) {
	_, svc := newMemService()

	in := docstore.Document{"name": "card"}
	svc.Add(context.Background(), Products, in)

	require.NotContains(t, in, "createdAt")
}

func TestUpdateStampsUpdatedAt(t *testing.T) {
	mem, svc := newMemService()

	created := svc.Add(context.Background(), Products, docstore.Document{"name": "card", "price": 999.0})
	require.True(t, created.Success)

	later := testNow.Add(time.Hour)
	svc.Now = func() time.Time { return later }

	st := svc.Update(context.Background(), Products, created.ID, docstore.Document{"price": 899.0})
	require.True(t, st.Success)

	snap, err := mem.Get(context.Background(), "products", created.ID)
	require.NoError(t, err)
	require.Equal(t, 899.0, snap.Data["price"])
	require.Equal(t, "card", snap.Data["name"])
	require.Equal(t, later.Format(time.RFC3339), snap.Data["updatedAt"])
	require.Equal(t, testNow.Format(time.RFC3339), snap.Data["createdAt"])
}

func TestUpdateNotFound(t *testing.T) {
	_, svc := newMemService()

	st := svc.Update(context.Background(), Orders, "missing", docstore.Document{"status": "shipped"})
	require.False(t, st.Success)
	require.Equal(t, "order not found", st.Error)
}

func TestDelete(t *testing.T) {
	_, svc := newMemService()

	created := svc.Add(context.Background(), Products, docstore.Document{"name": "card"})
	require.True(t, created.Success)

	require.True(t, svc.Delete(context.Background(), Products, created.ID).Success)

	st := svc.Delete(context.Background(), Products, created.ID)
	require.False(t, st.Success)
	require.Equal(t, "product not found", st.Error)
}

func TestSaveOrder(t *testing.T) {
	mem, svc := newMemService()

	created := svc.SaveOrder(context.Background(), "user-1", docstore.Document{"total": 1180.0})
	require.True(t, created.Success)

	snap, err := mem.Get(context.Background(), "orders", created.ID)
	require.NoError(t, err)
	require.Equal(t, "user-1", snap.Data["userId"])
	require.Equal(t, "pending", snap.Data["status"])
	require.Equal(t, created.ID, snap.Data["orderId"])
	require.Equal(t, testNow.Format(time.RFC3339), snap.Data["createdAt"])
}
