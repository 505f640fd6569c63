package consumer

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"medifinder/internal/entity"
	"medifinder/internal/repository"
	"medifinder/internal/service"
	"medifinder/migrations"
)

func newConsumerFixture(t *testing.T) (*Consumer, *service.NotificationService) {
	t.Helper()
	t.Setenv("ENV", "test")

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.AutoMigrate("sqlite", 1, db))

	svc := service.NewNotificationService(*repository.NewNotificationRepository(db))
	return NewConsumer(svc), svc
}

func eventPayload(t *testing.T, order entity.Order) []byte {
	t.Helper()
	payload, err := json.Marshal(order)
	require.NoError(t, err)
	return payload
}

func TestProcessCreatedEvent(t *testing.T) {
	c, svc := newConsumerFixture(t)
	ctx := context.Background()

	order := entity.Order{ID: "ORD-1", PharmacyID: "ph-001", CustomerName: "Alice"}
	c.processMessage(ctx, []byte("order.created.ORD-1"), eventPayload(t, order))

	notifications, err := svc.List(ctx, "ph-001")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, "ORD-1", notifications[0].OrderID)
	require.Contains(t, notifications[0].Message, "Alice")
}

func TestProcessStatusEvent(t *testing.T) {
	c, svc := newConsumerFixture(t)
	ctx := context.Background()

	order := entity.Order{ID: "ORD-2", PharmacyID: "ph-001", Status: "completed"}
	c.processMessage(ctx, []byte("order.status.ORD-2"), eventPayload(t, order))

	notifications, err := svc.List(ctx, "ph-001")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Contains(t, notifications[0].Message, "completed")
}

func TestProcessIgnoresBadMessages(t *testing.T) {
	c, svc := newConsumerFixture(t)
	ctx := context.Background()

	c.processMessage(ctx, []byte("order.created.ORD-1"), []byte("{not json"))
	c.processMessage(ctx, []byte("garbage-key"), eventPayload(t, entity.Order{ID: "ORD-1", PharmacyID: "ph-001"}))
	c.processMessage(ctx, []byte("order.unknown.ORD-1"), eventPayload(t, entity.Order{ID: "ORD-1", PharmacyID: "ph-001"}))

	notifications, err := svc.List(ctx, "ph-001")
	require.NoError(t, err)
	require.Empty(t, notifications)
}
