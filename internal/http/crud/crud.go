// Package crud turns a resource service plus its payload types into a full
// set of authenticated, validated, owner-scoped REST routes. Every resource
// mounted through here gets identical pipeline semantics: one declaration,
// five endpoints, no copy-pasted handlers.
package crud

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/casafolio/go-property-backend/internal/domain"
	"github.com/casafolio/go-property-backend/internal/faults"
	"github.com/casafolio/go-property-backend/internal/http/handlers"
	"github.com/casafolio/go-property-backend/internal/http/middleware"
	"github.com/casafolio/go-property-backend/internal/http/validate"
	"github.com/casafolio/go-property-backend/internal/pagination"
	"github.com/casafolio/go-property-backend/internal/ratelimit"
)

// Resource is the service contract the factory mounts. T is the persisted
// row, C and U the create/update payloads, Q the list query. All operations
// are owner-scoped: the id of the authenticated caller is threaded into
// every call and foreign rows behave exactly like absent ones.
type Resource[T, C, U, Q any] interface {
	FindAllByOwner(ctx context.Context, ownerID string, q Q) (pagination.Page[T], error)
	FindByID(ctx context.Context, id, ownerID string) (*T, error)
	Create(ctx context.Context, ownerID string, in C) (*T, error)
	Update(ctx context.Context, id, ownerID string, in U) (*T, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// Env carries the pipeline collaborators shared by all mounted resources:
// the error normalizer and the rate limiter. Custom routes receive it so ad
// hoc endpoints keep the same semantics as generated ones.
type Env struct {
	Responder handlers.Responder
	Limiter   *middleware.RateLimiter
}

// Respond forwards to the error normalizer; a convenience for custom routes.
func (e Env) Respond(c *gin.Context, err error) { e.Responder.Respond(c, err) }

// Config declares one resource mount.
type Config[T, C, U, Q any] struct {
	// Name is the singular resource name used in not-found messages.
	Name string
	// Path is the collection path under the parent group, e.g. "/properties".
	Path string
	// Service implements the five operations.
	Service Resource[T, C, U, Q]
	// Roles restricts the mount to the given roles; empty means any
	// authenticated account. Admin always passes.
	Roles []domain.Role
	// Middleware runs after the auth gates and before every handler.
	Middleware []gin.HandlerFunc
	// ListTransform reshapes items before they are serialized; nil serializes
	// rows as-is.
	ListTransform func([]T) any
	// DetailTransform reshapes a single row; nil serializes it as-is.
	DetailTransform func(*T) any
	// CustomRoutes registers extra endpoints on the resource group, after
	// the generated five.
	CustomRoutes func(g *gin.RouterGroup, env Env)
}

// listBody is the uniform list-response shape when a transform is applied.
type listBody struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
}

// Mount registers the five standard routes for cfg under parent:
//
//	GET    {path}      list (validated query, {items,total})
//	GET    {path}/:id  fetch (uuid-validated id)
//	POST   {path}      create (201)
//	PUT    {path}/:id  update (200)
//	DELETE {path}/:id  delete (204, empty body)
//
// All five require authentication; mutating verbs additionally pass through
// the write rate-limit class.
func Mount[T, C, U, Q any](parent *gin.RouterGroup, env Env, cfg Config[T, C, U, Q]) {
	g := parent.Group(cfg.Path)
	g.Use(middleware.RequireAuth())
	if len(cfg.Roles) > 0 {
		g.Use(middleware.RequireRole(cfg.Roles...))
	}
	g.Use(cfg.Middleware...)

	write := env.Limiter.Limit(ratelimit.Write)

	g.GET("", listHandler(env, cfg))
	g.GET("/:id", getHandler(env, cfg))
	g.POST("", write, createHandler(env, cfg))
	g.PUT("/:id", write, updateHandler(env, cfg))
	g.DELETE("/:id", write, deleteHandler(env, cfg))

	if cfg.CustomRoutes != nil {
		cfg.CustomRoutes(g, env)
	}
}

func listHandler[T, C, U, Q any](env Env, cfg Config[T, C, U, Q]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := middleware.MustIdentity(c)
		if err != nil {
			env.Respond(c, err)
			return
		}
		q, err := validate.Query[Q](c)
		if err != nil {
			env.Respond(c, err)
			return
		}

		page, err := cfg.Service.FindAllByOwner(c.Request.Context(), id.ID, *q)
		if err != nil {
			env.Respond(c, err)
			return
		}
		if cfg.ListTransform != nil {
			c.JSON(http.StatusOK, listBody{Items: cfg.ListTransform(page.Items), Total: page.Total})
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func getHandler[T, C, U, Q any](env Env, cfg Config[T, C, U, Q]) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		row, err := cfg.Service.FindByID(c.Request.Context(), rid, id.ID)
		if err != nil {
			env.Respond(c, err)
			return
		}
		if row == nil {
			env.Respond(c, faults.NotFound(cfg.Name+" not found"))
			return
		}
		c.JSON(http.StatusOK, detail(cfg, row))
	}
}

func createHandler[T, C, U, Q any](env Env, cfg Config[T, C, U, Q]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := middleware.MustIdentity(c)
		if err != nil {
			env.Respond(c, err)
			return
		}
		in, err := validate.Body[C](c)
		if err != nil {
			env.Respond(c, err)
			return
		}

		row, err := cfg.Service.Create(c.Request.Context(), id.ID, *in)
		if err != nil {
			env.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, detail(cfg, row))
	}
}

func updateHandler[T, C, U, Q any](env Env, cfg Config[T, C, U, Q]) gin.HandlerFunc {
	return func(c *gin.Context) {
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
		in, err := validate.Body[U](c)
		if err != nil {
			env.Respond(c, err)
			return
		}

		row, err := cfg.Service.Update(c.Request.Context(), rid, id.ID, *in)
		if err != nil {
			env.Respond(c, err)
			return
		}
		if row == nil {
			env.Respond(c, faults.NotFound(cfg.Name+" not found"))
			return
		}
		c.JSON(http.StatusOK, detail(cfg, row))
	}
}

func deleteHandler[T, C, U, Q any](env Env, cfg Config[T, C, U, Q]) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		if err := cfg.Service.Delete(c.Request.Context(), rid, id.ID); err != nil {
			env.Respond(c, err)
			return
		}
		// Deletion always answers 204 with an empty body, whatever the
		// service returned.
		c.Status(http.StatusNoContent)
	}
}

// detail applies the detail transform, when configured.
func detail[T, C, U, Q any](cfg Config[T, C, U, Q], row *T) any {
	if cfg.DetailTransform != nil {
		return cfg.DetailTransform(row)
	}
	return row
}
