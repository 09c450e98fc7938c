// Package server wires the HTTP surfaces of the service: the employee API and the monitoring endpoints.
package server

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/UnknownOlympus/staffbook/internal/config"
	"github.com/UnknownOlympus/staffbook/internal/metrics"
	"github.com/UnknownOlympus/staffbook/internal/server/handlers"
	"github.com/UnknownOlympus/staffbook/internal/server/mw"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the API engine with every employee route mounted under cfg.PathPrefix.
func NewRouter(
	cfg config.HTTPConfig,
	log *slog.Logger,
	appMetrics *metrics.Metrics,
	tokens mw.TokenVerifier,
	staff handlers.EmployeeService,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(mw.RequestIDMiddleware())
	router.Use(mw.RequestLogger(log))
	router.Use(mw.Instrument(appMetrics))
	router.Use(cors.New(corsConfig(cfg.AllowOrigins)))

	employeeHandler := handlers.NewEmployeeHandler(log, staff)

	employeeRoutes := router.Group(cfg.PathPrefix)
	employeeRoutes.Use(mw.RequireAuth(tokens, log))
	employeeRoutes.POST("/create", employeeHandler.Create)
	employeeRoutes.GET("/get", employeeHandler.List)
	employeeRoutes.GET("/get/:id", employeeHandler.Get)
	employeeRoutes.PATCH("/update/:id", employeeHandler.Update)
	employeeRoutes.DELETE("/delete/:id", employeeHandler.Delete)

	return router
}

func corsConfig(origins []string) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", mw.HeaderAuthorization, mw.HeaderRequestID},
		ExposeHeaders: []string{mw.HeaderRequestID},
	}

	if len(origins) == 0 || slices.Contains(origins, "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}

	return corsCfg
}
