// File: services/lifecycle/sweeper.go
package lifecycle

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/NavaUDP/Agenda-Revitek/models"
	"github.com/NavaUDP/Agenda-Revitek/utils"
)

// SweepExpired cancels WAITING_CLIENT reservations whose confirmation token
// expired, releasing their slots. Safe to run concurrently: Cancel's
// conditional update means only one sweeper wins per reservation.
func (s *DefaultLifecycleService) SweepExpired(ctx context.Context) (int, error) {
	logger := utils.GetLogger()
	expired, err := s.Reservations.ListWaitingExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, res := range expired {
		if err := s.Cancel(ctx, res.ID, models.CancelledBySystem); err != nil {
			logger.Warn("sweeper: cancel failed",
				zap.String("reservationId", res.ID),
				zap.Error(err))
			continue
		}
		swept++
	}
	if swept > 0 {
		logger.Info("sweeper: expired reservations cancelled", zap.Int("count", swept))
	}
	return swept, nil
}
