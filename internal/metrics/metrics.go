package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	triggersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvrd_triggers_total",
		Help: "Total number of fired jobs by kind and outcome",
	}, []string{"kind", "outcome"})

	capturesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvrd_captures_total",
		Help: "Total number of finished captures by result",
	}, []string{"result"})

	capturesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tvrd_captures_active",
		Help: "Number of captures currently holding a tuner",
	})

	guideRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvrd_guide_refresh_total",
		Help: "Total number of guide refresh attempts by result",
	}, []string{"result"})

	guideEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tvrd_guide_entries",
		Help: "Number of entries in the guide cache",
	})

	duplicatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvrd_duplicate_jobs_total",
		Help: "Total number of rejected duplicate jobs by kind",
	}, []string{"kind"})
)

// outcome は fired / busy / error のいずれか
func IncTrigger(kind, outcome string) {
	triggersTotal.WithLabelValues(kind, outcome).Inc()
}

func IncCapture(result string) {
	capturesTotal.WithLabelValues(result).Inc()
}

func SetCapturesActive(n int) {
	capturesActive.Set(float64(n))
}

func ObserveGuideRefresh(ok bool, entries int) {
	if !ok {
		guideRefreshTotal.WithLabelValues("failure").Inc()
		return
	}
	guideRefreshTotal.WithLabelValues("success").Inc()
	guideEntries.Set(float64(entries))
}

func IncDuplicate(kind string) {
	duplicatesTotal.WithLabelValues(kind).Inc()
}

// addr が空なら何もしない
// ctx が終わるとサーバーも止まる
func Serve(ctx context.Context, addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		log.Ctx(ctx).Info().Msgf("metrics listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Ctx(ctx).Error().Msgf("%+v", err)
		}
	}()
}
