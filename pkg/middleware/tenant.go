package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/veltapack/masterdata/modules/core/domain/entities/tenant"
	"github.com/veltapack/masterdata/modules/core/services"
	"github.com/veltapack/masterdata/pkg/composables"
	"github.com/veltapack/masterdata/pkg/configuration"
)

// RequireTenant resolves the request's tenant from the tenant ID header, or
// from the request host when the header is absent. Requests that cannot be
// mapped to an active tenant never reach the handlers behind it.
func RequireTenant(tenantService *services.TenantService) mux.MiddlewareFunc {
	conf := configuration.Use()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := composables.UseLogger(r.Context())

			var (
				t   *tenant.Tenant
				err error
			)
			if raw := r.Header.Get(conf.TenantIDHeader); raw != "" {
				id, parseErr := uuid.Parse(raw)
				if parseErr != nil {
					logger.WithField("tenant-id", raw).Warn("malformed tenant id header")
					http.Error(w, "malformed tenant id", http.StatusBadRequest)
					return
				}
				t, err = tenantService.GetByID(r.Context(), id)
			} else {
				host := normalizeHost(r.Host)
				if host == "" {
					http.NotFound(w, r)
					return
				}
				t, err = tenantService.GetByDomain(r.Context(), host)
			}

			if err != nil {
				logger.WithField("host", r.Host).WithField("path", r.URL.Path).WithError(err).Warn("tenant not found")
				http.NotFound(w, r)
				return
			}
			if !t.IsActive() {
				logger.WithField("tenant-id", t.ID()).Warn("tenant is deactivated")
				http.NotFound(w, r)
				return
			}

			ctx := composables.WithTenant(r.Context(), &composables.Tenant{
				ID:     t.ID(),
				Name:   t.Name(),
				Schema: t.Schema(),
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func normalizeHost(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(raw); err == nil {
		return strings.TrimSpace(h)
	}
	return raw
}
