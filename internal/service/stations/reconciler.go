package stations

import (
	"context"
	"time"
)

// Reconciler периодически пересчитывает кеш доступности всех станций.
// Запускается фоновой горутиной из main и останавливается по контексту
type Reconciler struct {
	service  *Service
	interval time.Duration
	logger   Logger
}

// NewReconciler создает новый фоновый реконсилятор
func NewReconciler(service *Service, interval time.Duration, logger Logger) *Reconciler {
	return &Reconciler{
		service:  service,
		interval: interval,
		logger:   logger,
	}
}

// Run запускает цикл пересчета. Блокирует до отмены контекста
func (r *Reconciler) Run(ctx context.Context) {
	r.logger.Info("reconciler: started with interval %s", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler: stopped")
			return
		case <-ticker.C:
			if err := r.service.ReconcileAll(ctx); err != nil {
				r.logger.Error("reconciler: sweep failed: %v", err)
			}
		}
	}
}
