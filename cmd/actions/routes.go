// Package main provides the action server entry point.
package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/unichat-bot/unichat-actions-go/internal/actions"
	"github.com/unichat-bot/unichat-actions-go/internal/config"
	"github.com/unichat-bot/unichat-actions-go/internal/logger"
	"github.com/unichat-bot/unichat-actions-go/internal/rasa"
)

// setupRoutes configures all HTTP routes
func setupRoutes(router *gin.Engine, registry *actions.Registry, promRegistry *prometheus.Registry, cfg *config.Config, log *logger.Logger) {
	// Root endpoint - redirect to the project page
	rootHandler := func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "https://github.com/unichat-bot/unichat-actions-go")
	}
	router.GET("/", rootHandler)
	router.HEAD("/", rootHandler)

	// Liveness Probe - only that the process is running, never dependencies
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness Probe - checks backend API reachability
	readyHandler := func(c *gin.Context) {
		checkCtx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		backendAvailable := false
		req, _ := http.NewRequestWithContext(checkCtx, http.MethodHead, cfg.BackendBaseURL, http.NoBody)
		if resp, err := http.DefaultClient.Do(req); err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode < 500 {
				backendAvailable = true
			}
		}

		if !backendAvailable {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "not ready",
				"backend": false,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ready",
			"backend": true,
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// Action server webhook endpoint
	router.POST("/webhook", webhookHandler(registry, log))

	// Prometheus metrics endpoint, Basic Auth when a password is configured
	metricsHandler := gin.WrapH(promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	if cfg.MetricsPassword != "" {
		authorized := router.Group("/", gin.BasicAuth(gin.Accounts{
			cfg.MetricsUsername: cfg.MetricsPassword,
		}))
		authorized.GET("/metrics", metricsHandler)
	} else {
		router.GET("/metrics", metricsHandler)
	}
}

// webhookHandler decodes the action payload, dispatches it and writes the
// collected events and responses. Unknown actions answer 404 the way the
// dialogue runtime expects.
func webhookHandler(registry *actions.Registry, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req rasa.WebhookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.WithError(err).Warn("Malformed webhook payload")
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		resp, err := registry.Dispatch(c.Request.Context(), &req)
		if err != nil {
			if errors.Is(err, actions.ErrUnknownAction) {
				c.JSON(http.StatusNotFound, gin.H{
					"error":       err.Error(),
					"action_name": req.NextAction,
				})
				return
			}
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "action failed"})
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}
