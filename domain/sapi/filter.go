package sapi

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"rad-stats/domain/radiology"
)

// AllProviders disables the provider filter, as does an empty Provider.
const AllProviders = "All"

// Filter narrows the loaded records the way the dashboard sidebar does.
// Zero From/To leave that side of the date range open; bounds are inclusive
// and compared by calendar day.
type Filter struct {
	Provider string
	From     time.Time
	To       time.Time
}

// DateLayout is the layout of From/To in ParseFilter.
const DateLayout = "2006-01-02"

// ParseFilter builds a Filter from user input; blank dates are open ends.
func ParseFilter(provider, from, to string) (Filter, error) {
	f := Filter{Provider: strings.TrimSpace(provider)}
	var err error
	if s := strings.TrimSpace(from); s != "" {
		if f.From, err = time.Parse(DateLayout, s); err != nil {
			return Filter{}, fmt.Errorf("invalid from date %q (want %s)", from, DateLayout)
		}
	}
	if s := strings.TrimSpace(to); s != "" {
		if f.To, err = time.Parse(DateLayout, s); err != nil {
			return Filter{}, fmt.Errorf("invalid to date %q (want %s)", to, DateLayout)
		}
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return Filter{}, fmt.Errorf("to date %s is before from date %s", to, from)
	}
	return f, nil
}

// Key identifies the filter for result caching.
func (f Filter) Key() string {
	return fmt.Sprintf("provider=%s;from=%s;to=%s", f.providerKey(), dateKey(f.From), dateKey(f.To))
}

func dateKey(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func (f Filter) providerKey() string {
	p := strings.TrimSpace(f.Provider)
	if p == "" || strings.EqualFold(p, AllProviders) {
		return ""
	}
	return NameKey(p)
}

// Active reports whether any criterion is set.
func (f Filter) Active() bool {
	return f.providerKey() != "" || !f.From.IsZero() || !f.To.IsZero()
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Schedule keeps the shifts matching the provider and date range.
func (f Filter) Schedule(records []radiology.ShiftRecord) []radiology.ShiftRecord {
	key := f.providerKey()
	return lo.Filter(records, func(r radiology.ShiftRecord, _ int) bool {
		if key != "" && NameKey(r.Provider) != key {
			return false
		}
		if !f.From.IsZero() && day(r.Date).Before(day(f.From)) {
			return false
		}
		if !f.To.IsZero() && day(r.Date).After(day(f.To)) {
			return false
		}
		return true
	})
}

// Encounters keeps encounters read by providers present in the filtered
// schedule. With no active criterion every encounter is kept.
func (f Filter) Encounters(encounters []radiology.EncounterRecord, schedule []radiology.ShiftRecord) []radiology.EncounterRecord {
	if !f.Active() {
		return encounters
	}
	scheduled := lo.SliceToMap(f.Schedule(schedule), func(r radiology.ShiftRecord) (string, struct{}) {
		return NameKey(r.Provider), struct{}{}
	})
	return lo.Filter(encounters, func(e radiology.EncounterRecord, _ int) bool {
		_, ok := scheduled[NameKey(e.ProviderName)]
		return ok
	})
}

// SeatRads keeps the rows of the filtered provider.
func (f Filter) SeatRads(rows []radiology.SeatRadRow) []radiology.SeatRadRow {
	key := f.providerKey()
	if key == "" {
		return rows
	}
	return lo.Filter(rows, func(r radiology.SeatRadRow, _ int) bool { return NameKey(r.Radiologist) == key })
}

func (f Filter) Summary(rows []radiology.SapiSummary) []radiology.SapiSummary {
	key := f.providerKey()
	if key == "" {
		return rows
	}
	return lo.Filter(rows, func(r radiology.SapiSummary, _ int) bool { return NameKey(r.Radiologist) == key })
}

// Providers lists the distinct schedule providers as written, sorted.
func Providers(records []radiology.ShiftRecord) []string {
	names := lo.Uniq(lo.FilterMap(records, func(r radiology.ShiftRecord, _ int) (string, bool) {
		p := strings.TrimSpace(r.Provider)
		return p, p != ""
	}))
	sort.Strings(names)
	return names
}
