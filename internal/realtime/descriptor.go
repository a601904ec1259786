package realtime

import (
	"fmt"
	"strings"

	"github.com/umkmhub/umkm-api/internal/domain"
)

// Callback recibe el evento que coincidió con el descriptor.
type Callback func(ChangeEvent)

// Descriptor qué cambios interesan a una suscripción.
// Table vacío o "*" = todas; Event vacío o "*" = todos; Filter con forma "columna=eq.valor".
type Descriptor struct {
	Table    string
	Event    string
	Filter   string
	Callback Callback
}

// UserFilter construye el filtro por dueño, el más usado.
func UserFilter(userID string) string {
	return "user_id=eq." + userID
}

type eqFilter struct {
	column string
	value  string
}

type compiled struct {
	table  string
	event  string
	filter *eqFilter
	cb     Callback
}

// parseFilter solo admite el operador eq.
func parseFilter(s string) (*eqFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	col, rest, ok := strings.Cut(s, "=")
	if !ok || col == "" {
		return nil, fmt.Errorf("filtro %q: %w", s, domain.ErrInvalidInput)
	}
	op, value, ok := strings.Cut(rest, ".")
	if !ok || op != "eq" {
		return nil, fmt.Errorf("filtro %q: operador no soportado: %w", s, domain.ErrInvalidInput)
	}
	return &eqFilter{column: col, value: value}, nil
}

func compile(d Descriptor) (compiled, error) {
	if d.Callback == nil {
		return compiled{}, fmt.Errorf("descriptor %s sin callback: %w", d.Table, domain.ErrInvalidInput)
	}
	ev := strings.ToUpper(strings.TrimSpace(d.Event))
	switch ev {
	case "", EventAll:
		ev = EventAll
	case EventInsert, EventUpdate, EventDelete:
	default:
		return compiled{}, fmt.Errorf("evento %q: %w", d.Event, domain.ErrInvalidInput)
	}
	f, err := parseFilter(d.Filter)
	if err != nil {
		return compiled{}, err
	}
	table := strings.TrimSpace(d.Table)
	if table == "" {
		table = "*"
	}
	return compiled{table: table, event: ev, filter: f, cb: d.Callback}, nil
}

func (c compiled) matches(ev ChangeEvent) bool {
	if c.table != "*" && c.table != ev.Table {
		return false
	}
	if c.event != EventAll && c.event != ev.Event {
		return false
	}
	if c.filter != nil && ev.Value(c.filter.column) != c.filter.value {
		return false
	}
	return true
}
