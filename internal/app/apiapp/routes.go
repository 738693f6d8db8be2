package apiapp

import (
	"github.com/go-chi/chi/v5"

	httperrors "github.com/ivankudzin/guildbot/internal/transport/http/errors"
	"github.com/ivankudzin/guildbot/internal/transport/http/handlers"
)

type Dependencies struct {
	Pending handlers.PendingCounter
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	keepAliveHandler := handlers.NewKeepAliveHandler(deps.Pending)

	r.NotFound(httperrors.NotFound)
	r.MethodNotAllowed(httperrors.MethodNotAllowed)

	r.Get("/", keepAliveHandler.Root)
	r.Get("/healthz", keepAliveHandler.Health)
}
