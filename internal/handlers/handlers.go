package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/checkout"
	"github.com/01moynul/storefront-golang/internal/media"
	"github.com/01moynul/storefront-golang/internal/middleware"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/store"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Store      *store.Store
	Dispatcher *checkout.Dispatcher
	Media      *media.Signer
	Logger     *zap.Logger
}

// respondError is the single place an error becomes an HTTP response.
// Internal and gateway failures are logged with their cause; the client only
// sees the message.
func (h *Handlers) respondError(c *gin.Context, err error) {
	appErr := apperr.Wrap(err)
	switch appErr.Kind {
	case apperr.KindInternal, apperr.KindGateway:
		h.Logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("kind", appErr.Kind.String()),
			zap.Error(err))
	}
	middleware.Abort(c, appErr)
}

// badRequest reports a body that could not be bound at all.
func (h *Handlers) badRequest(c *gin.Context, err error) {
	h.respondError(c, apperr.ValidationMsg("body", "Invalid input: "+err.Error()))
}

// session returns the caller's session; routes guarded by AuthMiddleware always have one.
func (h *Handlers) session(c *gin.Context) (models.Session, bool) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		h.respondError(c, apperr.Unauthorized(apperr.MsgLoginRequired))
	}
	return sess, ok
}

// idParam parses a positive integer path parameter.
func (h *Handlers) idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(c, apperr.ValidationMsg(name, "Invalid "+name))
		return 0, false
	}
	return id, true
}

// queryInt reads an integer query parameter, falling back to def when absent or malformed.
func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
