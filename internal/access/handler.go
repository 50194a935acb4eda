package access

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	cataloghttp "github.com/tearaglass/godscruiseline/internal/catalog/http"
)

const readyMessage = "Auth API ready. Use POST to validate."

type Handler struct {
	resolver *Resolver
	log      *zap.Logger
}

func NewHandler(resolver *Resolver, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{resolver: resolver, log: log}
}

type resolveReq struct {
	Passphrase string `json:"passphrase"`
}

// resolveResp keeps level as a pointer so "no tier" encodes as null.
type resolveResp struct {
	Success bool    `json:"success"`
	Level   *string `json:"level"`
}

func (h *Handler) ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": readyMessage})
}

func (h *Handler) resolve(c *gin.Context) {
	var req resolveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		cataloghttp.Fail(c, http.StatusBadRequest, ErrPassphraseRequired.Error())
		return
	}

	tier, err := h.resolver.Resolve(req.Passphrase)
	if errors.Is(err, ErrPassphraseRequired) {
		cataloghttp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	resp := resolveResp{Success: true}
	if tier != TierNone {
		level := string(tier)
		resp.Level = &level
	}
	h.log.Info("access tier resolved", zap.String("tier", string(tier)), zap.String("client_ip", c.ClientIP()))
	c.JSON(http.StatusOK, resp)
}

// Register attaches the auth routes. Extra middleware (rate limiting) runs
// on POST only.
func (h *Handler) Register(rg *gin.RouterGroup, postMiddleware ...gin.HandlerFunc) {
	rg.GET("", h.ready)
	rg.POST("", append(postMiddleware, h.resolve)...)
	rg.OPTIONS("", cataloghttp.Preflight)
}
