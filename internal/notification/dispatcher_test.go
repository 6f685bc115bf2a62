package notification_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/TonyS-dev/nexus-hr/internal/core/events"
	"github.com/TonyS-dev/nexus-hr/internal/notification"
)

func TestNotification(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Suite")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ = Describe("Dispatcher", func() {
	var (
		ctx        context.Context
		store      *notification.MemoryStore
		bus        *events.EventBus
		dispatcher *notification.Dispatcher
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = notification.NewMemoryStore()
		bus = events.NewEventBus(discardLogger())
		dispatcher = notification.NewDispatcher(store, discardLogger())
		dispatcher.RegisterEventHandlers(bus)
	})

	publish := func(eventType, kind string, requestID, recipientID int64, message string) {
		event := events.NewRequestTransitionEvent(eventType, requestID, 2, recipientID, kind, message)
		Expect(bus.PublishSync(ctx, event)).To(Succeed())
	}

	It("stores a notification for each transition event", func() {
		publish(events.EventTypeRequestSubmitted, events.KindSubmitted, 10, 1, "vacation request #10 submitted")
		publish(events.EventTypeRequestApproved, events.KindApproved, 10, 2, "vacation request #10 approved")

		managerFeed, err := store.ListForRecipient(ctx, 1, 20, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(managerFeed).To(HaveLen(1))
		Expect(managerFeed[0].Kind).To(Equal(events.KindSubmitted))

		employeeFeed, err := store.ListForRecipient(ctx, 2, 20, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(employeeFeed).To(HaveLen(1))
		Expect(employeeFeed[0].Message).To(ContainSubstring("approved"))
	})

	It("drops redelivered events for the same request and kind", func() {
		publish(events.EventTypeRequestSubmitted, events.KindSubmitted, 10, 1, "vacation request #10 submitted")
		publish(events.EventTypeRequestSubmitted, events.KindSubmitted, 10, 1, "vacation request #10 submitted")

		feed, err := store.ListForRecipient(ctx, 1, 20, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(feed).To(HaveLen(1))
	})

	It("keeps distinct kinds for the same request", func() {
		publish(events.EventTypeRequestSubmitted, events.KindSubmitted, 10, 2, "submitted")
		publish(events.EventTypeRequestRejected, events.KindRejected, 10, 2, "rejected: dates overlap")

		feed, err := store.ListForRecipient(ctx, 2, 20, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(feed).To(HaveLen(2))
	})

	It("rejects events of an unexpected concrete type", func() {
		err := dispatcher.HandleRequestTransition(ctx, events.BaseEvent{
			ID:   "bogus",
			Type: events.EventTypeRequestSubmitted,
		})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Notification Service", func() {
	var (
		ctx     context.Context
		store   *notification.MemoryStore
		service *notification.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = notification.NewMemoryStore()
		service = notification.NewService(store, discardLogger())

		Expect(store.Record(ctx, &notification.Notification{
			RequestID: 10, RecipientID: 1, Kind: events.KindSubmitted, Message: "submitted",
		})).To(Succeed())
		Expect(store.Record(ctx, &notification.Notification{
			RequestID: 11, RecipientID: 1, Kind: events.KindSubmitted, Message: "submitted",
		})).To(Succeed())
	})

	It("lists notifications newest first", func() {
		feed, err := service.ListForEmployee(ctx, 1, 20, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(feed).To(HaveLen(2))
		Expect(feed[0].RequestID).To(Equal(int64(11)))
	})

	It("marks own notifications read", func() {
		feed, err := service.ListForEmployee(ctx, 1, 20, 0)
		Expect(err).NotTo(HaveOccurred())

		Expect(service.MarkRead(ctx, feed[0].ID, 1)).To(Succeed())

		feed, err = service.ListForEmployee(ctx, 1, 20, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(feed[0].Read).To(BeTrue())
	})

	It("refuses to mark another employee's notification", func() {
		feed, err := service.ListForEmployee(ctx, 1, 20, 0)
		Expect(err).NotTo(HaveOccurred())

		err = service.MarkRead(ctx, feed[0].ID, 2)
		Expect(err).To(MatchError(notification.ErrNotificationNotFound))
	})
})
