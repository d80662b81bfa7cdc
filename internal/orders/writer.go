// Package orders is the resilience write-path: a mandatory primary
// write paired with a best-effort activity signal. A failed primary
// write always surfaces to the caller; a failed signal is only an
// observability gap.
package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vietddude/storecore/internal/core/apperr"
	"github.com/vietddude/storecore/internal/core/domain"
	"github.com/vietddude/storecore/internal/core/worker"
	"github.com/vietddude/storecore/internal/infra/store"
	"github.com/vietddude/storecore/internal/metrics"
)

// Writer performs order writes against the primary store.
type Writer struct {
	orders   store.OrderRepository
	signals  store.SignalRepository
	queue    *worker.Queue
	reporter *apperr.Reporter
	log      *slog.Logger
	clock    func() time.Time
}

// NewWriter creates a Writer. queue may be nil, in which case signal
// writes happen synchronously (still best-effort).
func NewWriter(
	ordersRepo store.OrderRepository,
	signalsRepo store.SignalRepository,
	queue *worker.Queue,
	reporter *apperr.Reporter,
) *Writer {
	return &Writer{
		orders:   ordersRepo,
		signals:  signalsRepo,
		queue:    queue,
		reporter: reporter,
		log:      reporter.Logger(),
		clock:    time.Now,
	}
}

// SafeStoreOrder writes the order to the primary store and then
// emits an order-placed activity signal best-effort.
//
// Primary-write failure: classified database, reported, and returned
// to the caller. Signal-write failure: logged only, never propagated,
// never retried.
func (w *Writer) SafeStoreOrder(ctx context.Context, order *domain.Order) error {
	if order.Origin == "" {
		return apperr.New(
			apperr.KindValidation,
			"order write without an origin marker",
			apperr.SeverityLow,
			apperr.WithUserMessage("The order could not be placed."),
		)
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	order.CreatedAt = w.clock().UTC()
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}

	if err := w.orders.Insert(ctx, order); err != nil {
		appErr := apperr.New(
			apperr.KindDatabase,
			fmt.Sprintf("primary order write failed: %v", err),
			apperr.SeverityHigh,
			apperr.WithCause(err),
			apperr.WithMeta(map[string]any{"order_id": order.ID, "origin": order.Origin}),
			apperr.WithUserMessage("The order could not be placed. Please try again."),
		)
		w.reporter.Report(ctx, appErr)
		return appErr
	}

	w.emitSignal(ctx, &domain.ActivitySignal{
		ID:      uuid.NewString(),
		Kind:    domain.SignalOrderPlaced,
		Subject: order.ID,
		Meta: map[string]any{
			"origin":      order.Origin,
			"total_cents": order.TotalCents,
			"items":       len(order.Items),
		},
		CreatedAt: w.clock().UTC(),
	})

	return nil
}

func (w *Writer) emitSignal(ctx context.Context, signal *domain.ActivitySignal) {
	write := func(ctx context.Context) error {
		if err := w.signals.Append(ctx, signal); err != nil {
			metrics.SignalFailures.Inc()
			w.log.Warn("activity signal write failed",
				"kind", string(signal.Kind), "subject", signal.Subject, "error", err)
		}
		return nil
	}

	if w.queue != nil {
		w.queue.Submit(worker.Task{Name: "activity-signal", Run: write})
		return
	}
	_ = write(ctx)
}

// SetClock overrides the time source. Test hook.
func (w *Writer) SetClock(clock func() time.Time) { w.clock = clock }
