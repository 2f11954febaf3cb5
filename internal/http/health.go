package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// healthTimeout bounds the database round trips of a health check.
const healthTimeout = 2 * time.Second

// HealthReport is the JSON body of /health.
type HealthReport struct {
	Status    string    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Driver    string    `json:"driver,omitempty"`
	Database  string    `json:"database"`
	Books     int64     `json:"books"`
	CheckedAt time.Time `json:"checked_at"`
}

// HealthController reports whether the shelf can reach its database.
type HealthController struct {
	db      *database.Database
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{db: db, version: version}
}

// Status answers 200 when the database responds and 503 otherwise.
func (h *HealthController) Status(c *gin.Context) {
	report := HealthReport{
		Status:    "healthy",
		Version:   h.version,
		Database:  "not configured",
		CheckedAt: time.Now().UTC(),
	}
	if h.db != nil {
		report.Driver = string(h.db.Driver())
		h.checkDatabase(c.Request.Context(), &report)
	}

	code := http.StatusOK
	if report.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, report)
}

func (h *HealthController) checkDatabase(ctx context.Context, report *HealthReport) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		log.Warn().Err(err).Msg("Health check: database unreachable")
		report.Status = "unhealthy"
		report.Database = "unreachable"
		return
	}
	if err := h.db.DB.WithContext(ctx).Model(&entities.Book{}).Count(&report.Books).Error; err != nil {
		log.Warn().Err(err).Msg("Health check: books table unreadable")
		report.Status = "unhealthy"
		report.Database = "books table unreadable"
		return
	}
	report.Database = "ok"
}
