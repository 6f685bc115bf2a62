package postgres

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	notificationDatamodel "github.com/TonyS-dev/nexus-hr/internal/core/datamodel/notification"
	"github.com/TonyS-dev/nexus-hr/internal/notification"
)

func TestNotificationStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "NotificationStore Suite")
}

var _ = Describe("NotificationStore", func() {
	var (
		ctx   context.Context
		db    *gorm.DB
		store notification.Store
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&notificationDatamodel.NotificationEvent{})
		Expect(err).NotTo(HaveOccurred())

		store = NewNotificationStore(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("Record", func() {
		It("stores a notification", func() {
			err := store.Record(ctx, &notification.Notification{
				RequestID: 10, RecipientID: 1, Kind: "submitted", Message: "vacation request #10 submitted",
			})
			Expect(err).NotTo(HaveOccurred())

			feed, err := store.ListForRecipient(ctx, 1, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(feed).To(HaveLen(1))
			Expect(feed[0].Message).To(ContainSubstring("submitted"))
			Expect(feed[0].Read).To(BeFalse())
		})

		It("silently drops a duplicate (request, kind) pair", func() {
			n := &notification.Notification{
				RequestID: 10, RecipientID: 1, Kind: "submitted", Message: "first delivery",
			}
			Expect(store.Record(ctx, n)).To(Succeed())
			Expect(store.Record(ctx, &notification.Notification{
				RequestID: 10, RecipientID: 1, Kind: "submitted", Message: "redelivery",
			})).To(Succeed())

			feed, err := store.ListForRecipient(ctx, 1, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(feed).To(HaveLen(1))
			Expect(feed[0].Message).To(Equal("first delivery"))
		})

		It("keeps different kinds for the same request", func() {
			Expect(store.Record(ctx, &notification.Notification{
				RequestID: 10, RecipientID: 1, Kind: "submitted", Message: "submitted",
			})).To(Succeed())
			Expect(store.Record(ctx, &notification.Notification{
				RequestID: 10, RecipientID: 2, Kind: "approved", Message: "approved",
			})).To(Succeed())

			var count int64
			Expect(db.Model(&notificationDatamodel.NotificationEvent{}).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(2)))
		})
	})

	Describe("ListForRecipient", func() {
		It("returns only the recipient's feed", func() {
			Expect(store.Record(ctx, &notification.Notification{
				RequestID: 10, RecipientID: 1, Kind: "submitted", Message: "for manager",
			})).To(Succeed())
			Expect(store.Record(ctx, &notification.Notification{
				RequestID: 10, RecipientID: 2, Kind: "approved", Message: "for employee",
			})).To(Succeed())

			feed, err := store.ListForRecipient(ctx, 2, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(feed).To(HaveLen(1))
			Expect(feed[0].Message).To(Equal("for employee"))
		})
	})

	Describe("MarkRead", func() {
		It("flips the read flag for the owner", func() {
			Expect(store.Record(ctx, &notification.Notification{
				RequestID: 10, RecipientID: 1, Kind: "submitted", Message: "submitted",
			})).To(Succeed())

			feed, err := store.ListForRecipient(ctx, 1, 20, 0)
			Expect(err).NotTo(HaveOccurred())

			Expect(store.MarkRead(ctx, feed[0].ID, 1)).To(Succeed())

			feed, err = store.ListForRecipient(ctx, 1, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(feed[0].Read).To(BeTrue())
		})

		It("refuses another recipient's notification", func() {
			Expect(store.Record(ctx, &notification.Notification{
				RequestID: 10, RecipientID: 1, Kind: "submitted", Message: "submitted",
			})).To(Succeed())

			feed, err := store.ListForRecipient(ctx, 1, 20, 0)
			Expect(err).NotTo(HaveOccurred())

			err = store.MarkRead(ctx, feed[0].ID, 2)
			Expect(err).To(MatchError(notification.ErrNotificationNotFound))
		})
	})
})
