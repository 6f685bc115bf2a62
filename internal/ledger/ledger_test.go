package ledger_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/TonyS-dev/nexus-hr/internal/ledger"
)

func TestLedger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ledger Suite")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ = Describe("MemoryStore", func() {
	var (
		ctx   context.Context
		store *ledger.MemoryStore
	)

	const (
		employeeID = int64(1)
		year       = 2026
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = ledger.NewMemoryStore()
		Expect(store.EnsureBalance(ctx, employeeID, year, 10)).To(Succeed())
	})

	Describe("Reserve", func() {
		It("moves days into the reserved bucket", func() {
			id, err := store.Reserve(ctx, employeeID, year, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).NotTo(BeEmpty())

			bal, err := store.GetBalance(ctx, employeeID, year)
			Expect(err).NotTo(HaveOccurred())
			Expect(bal.DaysReserved).To(Equal(4))
			Expect(bal.Remaining()).To(Equal(6))
		})

		It("refuses to exceed the remaining balance", func() {
			_, err := store.Reserve(ctx, employeeID, year, 7)
			Expect(err).NotTo(HaveOccurred())

			_, err = store.Reserve(ctx, employeeID, year, 4)
			Expect(err).To(MatchError(ledger.ErrInsufficientBalance))
		})

		It("fails for an unknown balance", func() {
			_, err := store.Reserve(ctx, int64(99), year, 1)
			Expect(err).To(MatchError(ledger.ErrBalanceNotFound))
		})

		It("never overdraws under concurrent reservations", func() {
			const workers = 20

			var wg sync.WaitGroup
			var succeeded int32
			var mu sync.Mutex

			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := store.Reserve(ctx, employeeID, year, 3); err == nil {
						mu.Lock()
						succeeded++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			// 10 available, 3 per reservation: at most 3 can win.
			Expect(succeeded).To(Equal(int32(3)))

			bal, err := store.GetBalance(ctx, employeeID, year)
			Expect(err).NotTo(HaveOccurred())
			Expect(bal.DaysReserved).To(Equal(9))
			Expect(bal.Remaining()).To(Equal(1))
		})
	})

	Describe("Commit", func() {
		var reservationID string

		BeforeEach(func() {
			var err error
			reservationID, err = store.Reserve(ctx, employeeID, year, 4)
			Expect(err).NotTo(HaveOccurred())
		})

		It("converts reserved days into taken days", func() {
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
		})

		It("refuses to commit a released reservation", func() {
			Expect(store.Release(ctx, reservationID)).To(Succeed())
			Expect(store.Commit(ctx, reservationID)).To(MatchError(ledger.ErrReservationSettled))
		})

		It("fails for unknown reservations", func() {
			Expect(store.Commit(ctx, "no-such-id")).To(MatchError(ledger.ErrReservationNotFound))
		})
	})

	Describe("Release", func() {
		var reservationID string

		BeforeEach(func() {
			var err error
			reservationID, err = store.Reserve(ctx, employeeID, year, 4)
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns reserved days to the available pool", func() {
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

	Describe("EnsureBalance", func() {
		It("does not reset an existing balance", func() {
			_, err := store.Reserve(ctx, employeeID, year, 4)
			Expect(err).NotTo(HaveOccurred())

			Expect(store.EnsureBalance(ctx, employeeID, year, 30)).To(Succeed())

			bal, err := store.GetBalance(ctx, employeeID, year)
			Expect(err).NotTo(HaveOccurred())
			Expect(bal.AvailableDays).To(Equal(10))
			Expect(bal.DaysReserved).To(Equal(4))
		})
	})
})

var _ = Describe("Ledger Service", func() {
	var (
		ctx     context.Context
		store   *ledger.MemoryStore
		service *ledger.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = ledger.NewMemoryStore()
		service = ledger.NewService(store, 22, discardLogger())
	})

	It("provisions the default allowance on first reservation", func() {
		id, err := service.Reserve(ctx, 7, 2026, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(id).NotTo(BeEmpty())

		bal, err := service.GetBalance(ctx, 7, 2026)
		Expect(err).NotTo(HaveOccurred())
		Expect(bal.AvailableDays).To(Equal(22))
		Expect(bal.DaysReserved).To(Equal(5))
	})

	It("synthesizes a default balance on read without writing", func() {
		bal, err := service.GetBalance(ctx, 7, 2026)
		Expect(err).NotTo(HaveOccurred())
		Expect(bal.AvailableDays).To(Equal(22))

		// The read must not have provisioned a row.
		_, err = store.GetBalance(ctx, 7, 2026)
		Expect(err).To(MatchError(ledger.ErrBalanceNotFound))
	})
})
