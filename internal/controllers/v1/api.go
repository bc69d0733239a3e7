// Package v1 implements the handlers for the v1 API.
package v1

import (
	"github.com/Incognitol07/expense-tracker-api/internal/auth"
	"github.com/Incognitol07/expense-tracker-api/internal/push"
	"github.com/Incognitol07/expense-tracker-api/internal/reconcile"
	"github.com/Incognitol07/expense-tracker-api/internal/worker"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// API bundles the services the handlers need. It is constructed once at
// startup and its method values are registered as gin handlers.
type API struct {
	reconciler *reconcile.Service
	hub        *push.Hub
	queue      worker.Runner
	secret     []byte
	masterKey  string
}

func New(reconciler *reconcile.Service, hub *push.Hub, queue worker.Runner, secret []byte, masterKey string) *API {
	return &API{
		reconciler: reconciler,
		hub:        hub,
		queue:      queue,
		secret:     secret,
		masterKey:  masterKey,
	}
}

// Authenticated returns the middleware that rejects requests without a
// valid access token.
func (a *API) Authenticated() gin.HandlerFunc {
	return auth.Middleware(a.secret)
}

// HandleNotificationSocket upgrades the request to a WebSocket connection
// that receives the user's notifications as they are dispatched.
func (a *API) HandleNotificationSocket(c *gin.Context) {
	a.hub.Handle(c, auth.UserID(c))
}

// checkBudgets enqueues a full budget re-check for the user. Handlers call
// it after every expense and budget mutation; the check runs outside the
// request/response cycle.
func (a *API) checkBudgets(userID uuid.UUID) {
	a.queue.Submit("check budgets", func() error {
		return a.reconciler.CheckBudget(userID)
	})
	a.queue.Submit("check category budgets", func() error {
		return a.reconciler.CheckCategoryBudgets(userID)
	})
}
