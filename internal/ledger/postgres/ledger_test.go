package postgres

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	balanceDatamodel "github.com/TonyS-dev/nexus-hr/internal/core/datamodel/balance"
	"github.com/TonyS-dev/nexus-hr/internal/ledger"
)

func TestLedgerStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "LedgerStore Suite")
}

var _ = Describe("LedgerStore", func() {
	var (
		ctx   context.Context
		db    *gorm.DB
		store ledger.Store
	)

	const (
		employeeID = int64(2)
		year       = 2026
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&balanceDatamodel.VacationBalance{}, &balanceDatamodel.Reservation{})
		Expect(err).NotTo(HaveOccurred())

		store = NewLedgerStore(db)
		Expect(store.EnsureBalance(ctx, employeeID, year, 10)).To(Succeed())
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("EnsureBalance", func() {
		It("is a no-op when the row already exists", func() {
			Expect(store.EnsureBalance(ctx, employeeID, year, 30)).To(Succeed())

			bal, err := store.GetBalance(ctx, employeeID, year)
			Expect(err).NotTo(HaveOccurred())
			Expect(bal.AvailableDays).To(Equal(10))
		})
	})

	Describe("Reserve", func() {
		It("holds days and records the reservation", func() {
			id, err := store.Reserve(ctx, employeeID, year, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).NotTo(BeEmpty())

			bal, err := store.GetBalance(ctx, employeeID, year)
			Expect(err).NotTo(HaveOccurred())
			Expect(bal.DaysReserved).To(Equal(4))
			Expect(bal.Remaining()).To(Equal(6))
		})

		It("refuses to exceed the remaining balance", func() {
			_, err := store.Reserve(ctx, employeeID, year, 8)
			Expect(err).NotTo(HaveOccurred())

			_, err = store.Reserve(ctx, employeeID, year, 3)
			Expect(err).To(MatchError(ledger.ErrInsufficientBalance))

			bal, err := store.GetBalance(ctx, employeeID, year)
			Expect(err).NotTo(HaveOccurred())
			Expect(bal.DaysReserved).To(Equal(8))
		})

		It("accounts taken days when checking availability", func() {
			id, err := store.Reserve(ctx, employeeID, year, 8)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Commit(ctx, id)).To(Succeed())

			_, err = store.Reserve(ctx, employeeID, year, 3)
			Expect(err).To(MatchError(ledger.ErrInsufficientBalance))
		})

		It("fails for an unprovisioned balance", func() {
			_, err := store.Reserve(ctx, int64(99), year, 1)
			Expect(err).To(MatchError(ledger.ErrBalanceNotFound))
		})
	})

	Describe("Commit", func() {
		var reservationID string

		BeforeEach(func() {
			var err error
			reservationID, err = store.Reserve(ctx, employeeID, year, 4)
			Expect(err).NotTo(HaveOccurred())
		})

		It("moves days from reserved to taken", func() {
			Expect(store.Commit(ctx, reservationID)).To(Succeed())

			bal, err := store.GetBalance(ctx, employeeID, year)
			Expect(err).NotTo(HaveOccurred())
			Expect(bal.DaysTaken).To(Equal(4))
			Expect(bal.DaysReserved).To(Equal(0))
		})

		It("is idempotent", func() {
			Expect(store.Commit(ctx, reservationID)).To(Succeed())
			Expect(store.Commit(ctx, reservationID)).To(Succeed())

			bal, err := store.GetBalance(ctx, employeeID, year)
			Expect(err).NotTo(HaveOccurred())
			Expect(bal.DaysTaken).To(Equal(4))
			Expect(bal.DaysReserved).To(Equal(0))
		})

		It("refuses to commit a released reservation", func() {
			Expect(store.Release(ctx, reservationID)).To(Succeed())
			Expect(store.Commit(ctx, reservationID)).To(MatchError(ledger.ErrReservationSettled))
		})

		It("fails for unknown reservations", func() {
			Expect(store.Commit(ctx, "11111111-1111-1111-1111-111111111111")).To(MatchError(ledger.ErrReservationNotFound))
		})
	})

	Describe("Release", func() {
		var reservationID string

		BeforeEach(func() {
			var err error
			reservationID, err = store.Reserve(ctx, employeeID, year, 4)
			Expect(err).NotTo(HaveOccurred())
		})

		It("frees the held days", func() {
			Expect(store.Release(ctx, reservationID)).To(Succeed())

			bal, err := store.GetBalance(ctx, employeeID, year)
			Expect(err).NotTo(HaveOccurred())
			Expect(bal.DaysReserved).To(Equal(0))
			Expect(bal.Remaining()).To(Equal(10))
		})

		It("is idempotent", func() {
			Expect(store.Release(ctx, reservationID)).To(Succeed())
			Expect(store.Release(ctx, reservationID)).To(Succeed())

			bal, err := store.GetBalance(ctx, employeeID, year)
			Expect(err).NotTo(HaveOccurred())
			Expect(bal.Remaining()).To(Equal(10))
		})

		It("refuses to release a committed reservation", func() {
			Expect(store.Commit(ctx, reservationID)).To(Succeed())
			Expect(store.Release(ctx, reservationID)).To(MatchError(ledger.ErrReservationSettled))
		})
	})

	Describe("GetBalance", func() {
		It("reports missing rows", func() {
			_, err := store.GetBalance(ctx, int64(99), year)
			Expect(err).To(MatchError(ledger.ErrBalanceNotFound))
		})
	})
})
