package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/location-api/geocode"
	"github.com/yourorg/location-api/internal/locctx"
)

type ContextService interface {
	GetAllLocationContext(ctx context.Context, address string) (*locctx.LocationContextBundle, error)
}

type ContextDeps struct {
	Service ContextService
}

type ContextRequest struct {
	Address string `json:"address"`
}

func RegisterContext(r chi.Router, d ContextDeps) {
	r.Route("/v1/locations", func(r chi.Router) {
		r.Post("/context", func(w http.ResponseWriter, req *http.Request) {
			var body ContextRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				render.Status(req, http.StatusBadRequest)
				render.JSON(w, req, map[string]any{"error": "invalid_json", "detail": err.Error()})
				return
			}
			serveContext(w, req, d, body.Address)
		})
		r.Get("/context", func(w http.ResponseWriter, req *http.Request) {
			serveContext(w, req, d, req.URL.Query().Get("address"))
		})
	})
}

func serveContext(w http.ResponseWriter, req *http.Request, d ContextDeps, address string) {
	if address == "" {
		render.Status(req, http.StatusBadRequest)
		render.JSON(w, req, map[string]any{"error": "address_required"})
		return
	}
	bundle, err := d.Service.GetAllLocationContext(req.Context(), address)
	if err != nil {
		// Geocoding is the only fatal failure; a partial bundle is normal.
		if errors.Is(err, geocode.ErrGeocode) {
			render.Status(req, http.StatusUnprocessableEntity)
			render.JSON(w, req, map[string]any{"error": "geocode_failed", "address": address})
			return
		}
		render.Status(req, http.StatusInternalServerError)
		render.JSON(w, req, map[string]any{"error": "internal_error"})
		return
	}
	render.JSON(w, req, bundle)
}
