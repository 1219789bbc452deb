package app

import (
	"time"

	"github.com/coderhuBypassion/BriefBank/internal/middleware"
	"github.com/coderhuBypassion/BriefBank/internal/modules/auth/account"
	"github.com/coderhuBypassion/BriefBank/internal/modules/billing/entitlement"
	"github.com/coderhuBypassion/BriefBank/internal/modules/billing/payment"
	"github.com/coderhuBypassion/BriefBank/internal/modules/catalog/deck"
	"github.com/coderhuBypassion/BriefBank/internal/modules/catalog/library"
	"github.com/coderhuBypassion/BriefBank/internal/modules/processing/extract"
	"github.com/coderhuBypassion/BriefBank/internal/modules/processing/summary"
	"github.com/coderhuBypassion/BriefBank/internal/modules/system/health"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const listingCacheTTL = 15 * time.Second

func (a *App) registerRoutes() {
	r := a.router
	r.NoRoute(response.NotFound)
	r.NoMethod(response.MethodNotAllowed)

	r.GET("/", func(c *gin.Context) {
		response.OK(c, gin.H{
			"name":   "briefbank",
			"env":    a.cfg.Env,
			"uptime": time.Since(a.started).Truncate(time.Second).String(),
		})
	})
	r.GET("/metrics", gin.WrapH(a.metrics.Handler()))

	api := r.Group("/api")
	api.Use(middleware.OptionalAuth(a.verifier))
	var checkoutMW, listingMW []gin.HandlerFunc
	var cache health.Pinger
	if a.rc != nil {
		api.Use(middleware.RateLimit(a.rc.Raw(), a.logger))
		checkoutMW = append(checkoutMW, middleware.Idempotence(a.rc.Raw()))
		listingMW = append(listingMW, middleware.HTTPCache(a.rc.Raw(), listingCacheTTL))
		cache = a.rc
	}
	authMW := middleware.Auth(a.verifier)

	users := account.NewService(a.db)
	resolver := deck.NewResolver(a.db)
	librarySvc := library.NewService(a.db, resolver)
	deckSvc := deck.NewService(a.db, resolver, a.presigner)
	pipeline, _ := summaryTimings(a.cfg)
	summarySvc := summary.NewService(summary.Deps{
		DB:         a.db,
		Resolver:   resolver,
		Users:      users,
		Gate:       entitlement.NewGate(),
		Locker:     a.locker,
		Extractor:  extract.NewClient(a.cfg.Extraction, a.presigner, a.logger.Named("Extract")),
		Summarizer: a.ai,
		Metrics:    a.metrics,
		Log:        a.logger.Named("Summary"),
		Timeout:    pipeline,
	})
	paymentSvc := payment.NewService(
		a.db, users, payment.NewRazorpay(a.cfg.Payment), a.cfg.Payment, a.metrics, a.logger.Named("Payment"),
	)

	health.RegisterRoutes(api, a.db, cache, a.started)
	account.NewHandler(users).RegisterRoutes(api, authMW)
	deck.NewHandler(deckSvc, users, librarySvc, a.logger.Named("Deck"), listingMW...).RegisterRoutes(api, authMW)
	library.NewHandler(librarySvc, users).RegisterRoutes(api, authMW)
	summary.NewHandler(summarySvc).RegisterRoutes(api, authMW)
	payment.NewHandler(paymentSvc, checkoutMW...).RegisterRoutes(api, authMW)
}
