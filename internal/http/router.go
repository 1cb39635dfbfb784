// Package http assembles the request pipeline and mounts every route. The
// middleware order is load-bearing: the error boundary wraps everything
// downstream, guards run before authentication, and rate limiting runs after
// identity resolution so authenticated ceilings key by user.
package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/casafolio/go-property-backend/internal/auth"
	"github.com/casafolio/go-property-backend/internal/config"
	"github.com/casafolio/go-property-backend/internal/domain"
	"github.com/casafolio/go-property-backend/internal/faults"
	"github.com/casafolio/go-property-backend/internal/http/crud"
	"github.com/casafolio/go-property-backend/internal/http/handlers"
	"github.com/casafolio/go-property-backend/internal/http/middleware"
	"github.com/casafolio/go-property-backend/internal/http/validate"
	"github.com/casafolio/go-property-backend/internal/ratelimit"
	"github.com/casafolio/go-property-backend/internal/services"
)

// RegisterRoutes wires the full pipeline and all resources onto r.
//
// Engine-wide order: tracing, request id, logger, recovery, compression,
// CORS, security headers, cache headers, timeout, metrics. CORS sits at the
// engine level because preflight OPTIONS requests match no route and would
// never reach group middleware.
//
// The /api group adds the request guards, authentication, and the general
// rate-limit class; /health and /metrics stay outside it and are never
// counted. Authentication endpoints swap the general class for the stricter
// per-address auth class.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, store ratelimit.Store, cfg *config.Config) {
	r.HandleMethodNotAllowed = true

	responder := handlers.Responder{Development: cfg.Development()}
	limiter := middleware.NewRateLimiter(store)
	verifier := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	issuer := auth.NewIssuer([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)

	if cfg.OTEL.Enabled {
		r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	}
	r.Use(
		middleware.RequestID(),
		middleware.Logger(middleware.LoggerOptions{MaskHeaders: []string{"Cookie", "X-Api-Key"}}),
		middleware.Recovery(),
		gzip.Gzip(gzip.DefaultCompression),
		cors.New(corsConfig(cfg)),
		middleware.SecurityHeaders(middleware.SecurityOptions{
			EnableHSTS: cfg.Security.EnableHSTS,
			HSTSMaxAge: cfg.Security.HSTSMaxAge,
		}),
		middleware.CacheHeaders(cfg.CacheMaxAge),
		middleware.Timeout(cfg.RequestTimeout),
		middleware.Metrics(),
		// Engine level, not group level: /api/v9 matches no route, so a
		// group-mounted guard would never see it.
		middleware.VersionAllowList(cfg.SupportedVersions),
	)

	r.NoRoute(func(c *gin.Context) {
		responder.Respond(c, faults.NotFound("route not found"))
	})
	r.NoMethod(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, handlers.ErrorResponse{
			Error: handlers.ErrorDetail{
				Code:      handlers.CodeMethodNotAllowed,
				Message:   "method not allowed",
				Timestamp: time.Now().UTC().Format(time.RFC3339),
				RequestID: middleware.RequestIDFrom(c),
			},
		})
	})

	// Unversioned surface: liveness and scrape endpoints, uncounted.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Capability listing for API discovery.
	r.GET("/api", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"versions":  cfg.SupportedVersions,
			"base_path": cfg.APIBasePath,
			"resources": []string{
				"properties", "units", "renters", "leases", "maintenance-requests",
			},
			"limits": gin.H{
				"general_per_15m": ratelimit.General.Authed,
				"write_per_1m":    ratelimit.Write.Authed,
				"auth_per_15m":    ratelimit.Auth.Anon,
				"upload_per_1h":   ratelimit.Upload.Authed,
				"max_body_bytes":  cfg.MaxBodyBytes,
			},
		})
	})

	api := r.Group(cfg.APIBasePath)
	api.Use(
		middleware.BotGuard(),
		middleware.BodyLimit(cfg.MaxBodyBytes),
		middleware.ContentTypeAllowList("application/json"),
		middleware.Authenticate(verifier),
		limiter.Limit(ratelimit.General),
	)

	// Authentication endpoints: the strict per-address class stacks on top
	// of the general one.
	authH := handlers.NewAuthHandler(services.NewAccountService(db), issuer, responder)
	ag := api.Group("/auth")
	ag.POST("/register", limiter.Limit(ratelimit.Auth), authH.Register)
	ag.POST("/login", limiter.Limit(ratelimit.Auth), authH.Login)
	ag.GET("/me", middleware.RequireAuth(), authH.Me)

	// Portfolio dashboard counts, scoped to the caller.
	stats := services.NewStatsService(db)
	api.GET("/stats", middleware.RequireAuth(), func(c *gin.Context) {
		id, err := middleware.MustIdentity(c)
		if err != nil {
			responder.Respond(c, err)
			return
		}
		st, err := stats.Portfolio(c.Request.Context(), id.ID)
		if err != nil {
			responder.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	})

	env := crud.Env{Responder: responder, Limiter: limiter}
	units := services.NewUnitService(db)
	maint := services.NewMaintenanceService(db)

	crud.Mount(api, env, crud.Config[domain.Property, services.PropertyCreate, services.PropertyUpdate, services.PropertyQuery]{
		Name:    "property",
		Path:    "/properties",
		Service: services.NewPropertyService(db),
		CustomRoutes: func(g *gin.RouterGroup, env crud.Env) {
			// Nested collection: the units of one property.
			g.GET("/:id/units", func(c *gin.Context) {
				id, err := middleware.MustIdentity(c)
				if err != nil {
					env.Respond(c, err)
					return
				}
				p, err := validate.Params[resourceParams](c)
				if err != nil {
					env.Respond(c, err)
					return
				}
				q, err := validate.Query[services.UnitQuery](c)
				if err != nil {
					env.Respond(c, err)
					return
				}
				page, err := units.ListByProperty(c.Request.Context(), p.ID, id.ID, *q)
				if err != nil {
					env.Respond(c, err)
					return
				}
				c.JSON(http.StatusOK, page)
			})
		},
	})

	crud.Mount(api, env, crud.Config[domain.Unit, services.UnitCreate, services.UnitUpdate, services.UnitQuery]{
		Name:    "unit",
		Path:    "/units",
		Service: units,
	})

	crud.Mount(api, env, crud.Config[domain.Renter, services.RenterCreate, services.RenterUpdate, services.RenterQuery]{
		Name:    "renter",
		Path:    "/renters",
		Service: services.NewRenterService(db),
	})

	crud.Mount(api, env, crud.Config[domain.Lease, services.LeaseCreate, services.LeaseUpdate, services.LeaseQuery]{
		Name:    "lease",
		Path:    "/leases",
		Service: services.NewLeaseService(db),
	})

	crud.Mount(api, env, crud.Config[domain.MaintenanceRequest, services.MaintenanceCreate, services.MaintenanceUpdate, services.MaintenanceQuery]{
		Name:    "maintenance request",
		Path:    "/maintenance-requests",
		Service: maint,
		CustomRoutes: func(g *gin.RouterGroup, env crud.Env) {
			// Action verb: close a request.
			g.POST("/:id/close", env.Limiter.Limit(ratelimit.Write), func(c *gin.Context) {
				id, err := middleware.MustIdentity(c)
				if err != nil {
					env.Respond(c, err)
					return
				}
				rid, err := validate.UUIDParam(c, "id")
				if err != nil {
					env.Respond(c, err)
					return
				}
				row, err := maint.Close(c.Request.Context(), rid, id.ID)
				if err != nil {
					env.Respond(c, err)
					return
				}
				c.JSON(http.StatusOK, row)
			})

			// Attachment metadata, behind the stingier upload class.
			g.POST("/:id/attachments", env.Limiter.Limit(ratelimit.Upload), func(c *gin.Context) {
				id, err := middleware.MustIdentity(c)
				if err != nil {
					env.Respond(c, err)
					return
				}
				rid, err := validate.UUIDParam(c, "id")
				if err != nil {
					env.Respond(c, err)
					return
				}
				in, err := validate.Body[services.AttachmentInput](c)
				if err != nil {
					env.Respond(c, err)
					return
				}
				att, err := maint.AddAttachment(c.Request.Context(), rid, id.ID, *in)
				if err != nil {
					env.Respond(c, err)
					return
				}
				c.JSON(http.StatusCreated, att)
			})

			g.GET("/:id/attachments", func(c *gin.Context) {
				id, err := middleware.MustIdentity(c)
				if err != nil {
					env.Respond(c, err)
					return
				}
				rid, err := validate.UUIDParam(c, "id")
				if err != nil {
					env.Respond(c, err)
					return
				}
				rows, err := maint.Attachments(c.Request.Context(), rid, id.ID)
				if err != nil {
					env.Respond(c, err)
					return
				}
				c.JSON(http.StatusOK, gin.H{"items": rows, "total": len(rows)})
			})
		},
	})
}

// resourceParams binds the ":id" path segment of nested routes.
type resourceParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// corsConfig derives the CORS posture from configuration. With no explicit
// origins the API stays permissive, which suits development and server-to-
// server use; production deployments list their frontends.
func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		c.AllowOrigins = cfg.CORS.AllowedOrigins
	} else {
		c.AllowAllOrigins = true
	}
	c.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	c.ExposeHeaders = []string{
		"X-Request-ID",
		"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset",
		"Retry-After",
	}
	c.MaxAge = 12 * time.Hour
	return c
}
