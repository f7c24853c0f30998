package deal

import (
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
)

// Session states
const (
	EstadoBorrador    = "BORRADOR"
	EstadoPlanificada = "PLANIFICADA"
	EstadoCancelada   = "CANCELADA"
	EstadoFinalizada  = "FINALIZADA"
)

// Deal is a CRM opportunity, the aggregate owning notes, sessions and students.
type Deal struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	OrganizationName null.String `json:"organization_name"`
	CreatedAt        time.Time   `json:"created_at"` // UTC
	UpdatedAt        time.Time   `json:"updated_at"` // UTC
}

// Note is a free-text CRM note attached to a deal.
type Note struct {
	ID        null.String `json:"id"`
	DealID    string      `json:"deal_id"`
	Content   null.String `json:"content"`
	CreatedAt time.Time   `json:"created_at"` // UTC
}

// Session is one scheduled training occurrence of a deal.
type Session struct {
	ID             string      `json:"id"`
	DealID         string      `json:"deal_id"`
	Estado         string      `json:"estado"`
	FechaInicioUTC null.Time   `json:"fecha_inicio_utc"`
	FechaFinUTC    null.Time   `json:"fecha_fin_utc"`
	NombreCache    null.String `json:"nombre_cache"`
}

func (s Session) IsCancelled() bool {
	return strings.EqualFold(strings.TrimSpace(s.Estado), EstadoCancelada)
}
