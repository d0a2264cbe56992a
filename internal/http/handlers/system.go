package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for /api/routes.
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DBCheck pings the database and reports catalog tables that are missing.
func (h Handler) DBCheck(c *gin.Context) {
	if h.Ping == nil {
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "database not configured", "")
		return
	}
	if err := h.Ping(c.Request.Context()); err != nil {
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "database ping failed", "")
		return
	}
	missing := []string{}
	if h.Missing != nil {
		missing = h.Missing(c.Request.Context())
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "missingTables": missing})
}

// Routes lists the registered routes (admin).
func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		respondError(c, http.StatusServiceUnavailable, "not_ready", "router not ready", "")
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{"method": rt.Method, "path": rt.Path})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
