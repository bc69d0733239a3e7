// Package router sets up the gin engine: middleware, observability
// endpoints and the versioned API routes.
package router

import (
	"net/http"
	"net/url"
	"os"
	"strings"

	v1 "github.com/Incognitol07/expense-tracker-api/internal/controllers/v1"
	"github.com/Incognitol07/expense-tracker-api/internal/httputil"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// This is set at build time, see Makefile.
var version = "0.0.0"

// Config sets up the router and middlewares. The returned teardown function
// releases resources shared between router instances, tests use it to run
// multiple routers in one process.
func Config(url *url.URL) (*gin.Engine, func(), error) {
	// Set up the router and middlewares
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(URLMiddleware(url))
	r.Use(MetricsMiddleware())
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, l zerolog.Logger) zerolog.Logger {
			return l.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	err := registerPrometheusMetrics()
	if err != nil {
		return nil, nil, err
	}
	teardown := func() {
		unregisterPrometheusMetrics()
	}

	// CORS settings
	allowOrigins, ok := os.LookupEnv("CORS_ALLOW_ORIGINS")
	if ok {
		log.Debug().Str("CORS Allowed Origins", allowOrigins).Msg("Router")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Fields(allowOrigins),
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	log.Debug().Str("API Base URL", url.String()).Str("Host", url.Host).Str("Path", url.Path).Msg("Router")
	log.Info().Str("version", version).Msg("Router")

	return r, teardown, nil
}

// AttachRoutes attaches the API routes to the router group that is passed in.
// Separating this from Config allows us to attach the API to different paths
// for different use cases.
func AttachRoutes(api *v1.API, group *gin.RouterGroup) {
	group.GET("", GetRoot)
	group.OPTIONS("", OptionsRoot)
	group.GET("/version", GetVersion)
	group.OPTIONS("/version", OptionsVersion)
	group.GET("/healthz", GetHealth)
	group.OPTIONS("/healthz", OptionsHealth)
	group.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// pprof performance profiles
	enablePprof, ok := os.LookupEnv("ENABLE_PPROF")
	if ok && enablePprof == "true" {
		pprof.RouteRegister(group, "debug/pprof")
	}

	group.GET("/ws/notifications", api.Authenticated(), api.HandleNotificationSocket)

	// API v1 setup
	v1Group := group.Group("/v1")
	{
		v1Group.GET("", GetV1)
		v1Group.OPTIONS("", OptionsV1)
	}

	api.RegisterAuthRoutes(v1Group.Group("/auth"))
	api.RegisterAdminRoutes(v1Group.Group("/admin"))

	authed := v1Group.Group("")
	authed.Use(api.Authenticated())

	api.RegisterCategoryRoutes(authed.Group("/categories"))
	api.RegisterExpenseRoutes(authed.Group("/expenses"))
	api.RegisterBudgetRoutes(authed.Group("/budgets"))
	api.RegisterCategoryBudgetRoutes(authed.Group("/category-budgets"))
	api.RegisterNotificationRoutes(authed.Group("/notifications"))
	api.RegisterGroupRoutes(authed.Group("/groups"))
	api.RegisterDebtRoutes(authed.Group("/debts"))
	api.RegisterAnalyticsRoutes(authed.Group("/analytics"))
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

type RootLinks struct {
	Healthz string `json:"healthz" example:"https://example.com/api/healthz"`
	Version string `json:"version" example:"https://example.com/api/version"`
	V1      string `json:"v1" example:"https://example.com/api/v1"`
}

// GetRoot is the entrypoint for the API, listing all endpoints.
func GetRoot(c *gin.Context) {
	url := httputil.RequestHost(c)

	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Healthz: url + "/healthz",
			Version: url + "/version",
			V1:      httputil.RequestPathV1(c),
		},
	})
}

type VersionResponse struct {
	Data VersionObject `json:"data"`
}
type VersionObject struct {
	Version string `json:"version" example:"1.1.0"`
}

// GetVersion returns the software version of the API.
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Data: VersionObject{
			Version: version,
		},
	})
}

// GetHealth reports whether the API is able to serve requests.
func GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func OptionsRoot(c *gin.Context) {
	httputil.OptionsGet(c)
}

func OptionsVersion(c *gin.Context) {
	httputil.OptionsGet(c)
}

func OptionsHealth(c *gin.Context) {
	httputil.OptionsGet(c)
}

type V1Response struct {
	Links V1Links `json:"links"`
}

type V1Links struct {
	Auth            string `json:"auth" example:"https://example.com/api/v1/auth"`
	Admin           string `json:"admin" example:"https://example.com/api/v1/admin"`
	Categories      string `json:"categories" example:"https://example.com/api/v1/categories"`
	Expenses        string `json:"expenses" example:"https://example.com/api/v1/expenses"`
	Budgets         string `json:"budgets" example:"https://example.com/api/v1/budgets"`
	CategoryBudgets string `json:"categoryBudgets" example:"https://example.com/api/v1/category-budgets"`
	Notifications   string `json:"notifications" example:"https://example.com/api/v1/notifications"`
	Groups          string `json:"groups" example:"https://example.com/api/v1/groups"`
	Debts           string `json:"debts" example:"https://example.com/api/v1/debts"`
	Analytics       string `json:"analytics" example:"https://example.com/api/v1/analytics"`
}

// GetV1 returns general information about the v1 API.
func GetV1(c *gin.Context) {
	base := httputil.RequestPathV1(c)

	c.JSON(http.StatusOK, V1Response{
		Links: V1Links{
			Auth:            base + "/auth",
			Admin:           base + "/admin",
			Categories:      base + "/categories",
			Expenses:        base + "/expenses",
			Budgets:         base + "/budgets",
			CategoryBudgets: base + "/category-budgets",
			Notifications:   base + "/notifications",
			Groups:          base + "/groups",
			Debts:           base + "/debts",
			Analytics:       base + "/analytics",
		},
	})
}

func OptionsV1(c *gin.Context) {
	httputil.OptionsGet(c)
}
