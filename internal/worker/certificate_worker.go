package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lenteraedu/lentera-backend/internal/config"
	"github.com/lenteraedu/lentera-backend/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	CertificatePollTimeout = 1 * time.Second
	// CertificateRetryDelay throttles requeues so a broken issuance does not
	// spin the loop.
	CertificateRetryDelay = 5 * time.Second
)

// CertificateWorker drains the issuance outbox queue: every passed final quiz
// submit whose inline issuance failed lands here and is retried until the
// certificate row exists.
type CertificateWorker struct {
	rdb     *redis.Client
	certSvc *service.CertificateService
	log     zerolog.Logger
}

func NewCertificateWorker(rdb *redis.Client, certSvc *service.CertificateService, log zerolog.Logger) *CertificateWorker {
	return &CertificateWorker{
		rdb:     rdb,
		certSvc: certSvc,
		log:     log.With().Str("component", "certificate_worker").Logger(),
	}
}

func (w *CertificateWorker) Start(ctx context.Context) {
	w.log.Info().Msg("CertificateWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. CertificateWorker stopping...")
			return

		default:
			item, err := w.rdb.BLPop(ctx, CertificatePollTimeout, config.WorkerKey.IssueCertificatesQueue).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var p service.IssueCertificatePayload
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload, dropping")
				continue
			}

			w.issue(ctx, item[1], p)
		}
	}
}

func (w *CertificateWorker) issue(ctx context.Context, raw string, p service.IssueCertificatePayload) {
	attemptID, err := uuid.Parse(p.AttemptID)
	if err != nil {
		w.log.Error().Err(err).Str("attempt_id", p.AttemptID).Msg("Invalid attempt ID, dropping")
		return
	}

	cert, err := w.certSvc.Generate(ctx, attemptID)
	if err != nil {
		// Ineligible attempts are permanent failures; everything else is
		// transient and goes back on the queue.
		if errors.Is(err, service.ErrAttemptNotEligible) {
			w.log.Warn().Str("attempt_id", p.AttemptID).Msg("Attempt not eligible for certificate, dropping")
			return
		}
		w.log.Error().Err(err).Str("attempt_id", p.AttemptID).Msg("Issuance failed, requeueing")
		w.rdb.RPush(ctx, config.WorkerKey.IssueCertificatesQueue, raw)

		select {
		case <-ctx.Done():
		case <-time.After(CertificateRetryDelay):
		}
		return
	}

	w.log.Info().
		Str("attempt_id", p.AttemptID).
		Str("serial_number", cert.SerialNumber).
		Msg("Certificate issued")
}
