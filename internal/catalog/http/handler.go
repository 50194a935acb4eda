package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Backend is the subset of service.Service the handler needs.
type Backend[T any] interface {
	Noun() string
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, doc T) (T, error)
	Update(ctx context.Context, patch []byte) (T, error)
	Delete(ctx context.Context, id string) (T, error)
}

// Handler serves one resource collection: GET lists (or fetches ?id=),
// POST creates, PUT applies a partial update, DELETE removes ?id=.
type Handler[T any] struct {
	svc Backend[T]
}

func NewHandler[T any](svc Backend[T]) *Handler[T] {
	return &Handler[T]{svc: svc}
}

func (h *Handler[T]) get(c *gin.Context) {
	ctx := c.Request.Context()
	if id := strings.TrimSpace(c.Query("id")); id != "" {
		doc, err := h.svc.Get(ctx, id)
		if err != nil {
			writeError(c, h.svc.Noun(), err)
			return
		}
		OK(c, http.StatusOK, doc)
		return
	}

	docs, err := h.svc.List(ctx)
	if err != nil {
		writeError(c, h.svc.Noun(), err)
		return
	}
	OK(c, http.StatusOK, docs)
}

func (h *Handler[T]) create(c *gin.Context) {
	var doc T
	if err := c.ShouldBindJSON(&doc); err != nil {
		Fail(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	out, err := h.svc.Create(c.Request.Context(), doc)
	if err != nil {
		writeError(c, h.svc.Noun(), err)
		return
	}
	OK(c, http.StatusCreated, out)
}

func (h *Handler[T]) update(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || len(strings.TrimSpace(string(body))) == 0 {
		Fail(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	out, err := h.svc.Update(c.Request.Context(), body)
	if err != nil {
		writeError(c, h.svc.Noun(), err)
		return
	}
	OK(c, http.StatusOK, out)
}

func (h *Handler[T]) delete(c *gin.Context) {
	out, err := h.svc.Delete(c.Request.Context(), strings.TrimSpace(c.Query("id")))
	if err != nil {
		writeError(c, h.svc.Noun(), err)
		return
	}
	OK(c, http.StatusOK, out)
}
