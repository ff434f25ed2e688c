package order

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/petalmart/storefront/internal/log"
	"github.com/petalmart/storefront/internal/notify"
)

// Progressor drives auto-progression: one recurring timer per enabled
// order, advancing it once per tick until it reaches a terminal status.
// Disable takes effect before the next tick can advance, and Shutdown
// leaves no timer behind.
type Progressor struct {
	ledger   *Ledger
	notifier notify.Notifier
	interval time.Duration

	mu     sync.Mutex
	timers map[string]chan struct{}
	wg     sync.WaitGroup
}

func NewProgressor(ledger *Ledger, notifier notify.Notifier, interval time.Duration) *Progressor {
	return &Progressor{
		ledger:   ledger,
		notifier: notifier,
		interval: interval,
		timers:   map[string]chan struct{}{},
	}
}

func timerKey(scope string, orderID string) string {
	return scope + "/" + orderID
}

// Enable arms a fresh timer for the order, replacing any previous one.
// Returns false when the order does not exist or is already terminal.
func (p *Progressor) Enable(c context.Context, scope string, orderID string) bool {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Progressor Enable").
		Str(log.KeyScope, scope).
		Str(log.KeyOrderID, orderID).
		Logger()

	order, ok := p.ledger.Order(c, scope, orderID)
	if !ok {
		logger.Warn().Msg("order not found, auto-progress not enabled")
		return false
	}
	if order.Status.IsTerminal() {
		logger.Info().
			Str(log.KeyOrderStatus, order.Status.String()).
			Msg("order already terminal, auto-progress not enabled")
		return false
	}

	key := timerKey(scope, orderID)
	stop := make(chan struct{})

	p.mu.Lock()
	if previous, ok := p.timers[key]; ok {
		close(previous)
	}
	p.timers[key] = stop
	p.mu.Unlock()

	// The timer outlives the enabling request.
	c = context.WithoutCancel(c)
	p.wg.Add(1)
	go p.run(c, scope, orderID, stop)

	logger.Info().Msg("enabled auto-progress")
	return true
}

// Disable cancels the order's timer. The close happens synchronously, so
// no advance can fire after Disable returns.
func (p *Progressor) Disable(c context.Context, scope string, orderID string) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Progressor Disable").
		Str(log.KeyScope, scope).
		Str(log.KeyOrderID, orderID).
		Logger()

	key := timerKey(scope, orderID)
	p.mu.Lock()
	stop, ok := p.timers[key]
	if ok {
		close(stop)
		delete(p.timers, key)
	}
	p.mu.Unlock()

	if ok {
		logger.Info().Msg("disabled auto-progress")
	}
}

func (p *Progressor) Enabled(scope string, orderID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.timers[timerKey(scope, orderID)]
	return ok
}

// Shutdown cancels every timer and waits for the goroutines to drain.
func (p *Progressor) Shutdown() {
	p.mu.Lock()
	for key, stop := range p.timers {
		close(stop)
		delete(p.timers, key)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Progressor) run(c context.Context, scope string, orderID string, stop chan struct{}) {
	defer p.wg.Done()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Progressor run").
		Str(log.KeyScope, scope).
		Str(log.KeyOrderID, orderID).
		Logger()
	c = logger.WithContext(c)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// A close racing the tick must win, otherwise a stale
			// timer could advance once more after Disable.
			select {
			case <-stop:
				return
			default:
			}

			updated := p.ledger.Advance(c, scope, orderID)
			if updated == nil {
				logger.Warn().Msg("order disappeared, stopping auto-progress")
				p.remove(scope, orderID, stop)
				return
			}
			if updated.Status.IsTerminal() {
				logger.Info().
					Str(log.KeyOrderStatus, updated.Status.String()).
					Msg("order reached terminal status, stopping auto-progress")
				kind := notify.KindSuccess
				if updated.Status != StatusDelivered {
					kind = notify.KindInfo
				}
				p.notifier.Notify(
					c,
					fmt.Sprintf("order %s is %s", orderID, updated.Status),
					kind,
				)
				p.remove(scope, orderID, stop)
				return
			}
		}
	}
}

// remove clears the timer entry only if it still belongs to this run;
// Enable may have replaced it with a fresh one in the meantime.
func (p *Progressor) remove(scope string, orderID string, stop chan struct{}) {
	key := timerKey(scope, orderID)
	p.mu.Lock()
	if current, ok := p.timers[key]; ok && current == stop {
		delete(p.timers, key)
	}
	p.mu.Unlock()
}
