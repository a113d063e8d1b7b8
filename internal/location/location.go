// Package location resolves free-form place names to coordinates using a
// closed, in-memory table. It is not a geocoder: unknown places fall back to
// a default coordinate instead of failing.
package location

import (
	"strings"
)

// Default coordinate used for queries that match no table entry: the
// geographic centre of the contiguous United States.
const (
	DefaultLatitude  = 39.8283
	DefaultLongitude = -98.5795
)

// Location is the result of resolving a query. It is created per request and
// never modified afterwards.
type Location struct {
	Query        string  `json:"query"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	ResolvedName string  `json:"resolved_name"`
	Resolved     bool    `json:"resolved"`
}

// Entry is one known place.
type Entry struct {
	Name      string   `mapstructure:"name" validate:"required"`
	Region    string   `mapstructure:"region"`
	Aliases   []string `mapstructure:"aliases"`
	Latitude  float64  `mapstructure:"latitude" validate:"latitude"`
	Longitude float64  `mapstructure:"longitude" validate:"longitude"`
}

// DisplayName is the human readable name reported for a match.
func (e Entry) DisplayName() string {
	if e.Region == "" {
		return e.Name
	}
	return e.Name + ", " + e.Region
}

type indexedEntry struct {
	entry  Entry
	names  []string
	region string
}

// Table is an immutable set of known places. Lookups keep insertion order,
// so earlier entries win ties.
type Table struct {
	entries []indexedEntry
}

// NewTable copies entries into a new table.
func NewTable(entries ...[]Entry) *Table {
	t := &Table{}
	for _, group := range entries {
		for _, e := range group {
			ie := indexedEntry{
				entry:  e,
				names:  []string{normalize(e.Name)},
				region: canonicalRegion(normalize(e.Region)),
			}
			ie.entry.Aliases = append([]string(nil), e.Aliases...)
			for _, a := range e.Aliases {
				ie.names = append(ie.names, normalize(a))
			}
			t.entries = append(t.entries, ie)
		}
	}
	return t
}

// Len reports the number of entries in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// Resolver maps location queries to coordinates.
type Resolver struct {
	table *Table
}

func NewResolver(table *Table) *Resolver {
	if table == nil {
		table = NewTable()
	}
	return &Resolver{table: table}
}

// minPartialLen keeps very short queries like "sa" from matching by prefix.
const minPartialLen = 3

// Resolve never fails. Exact matches on name or alias (and region, when the
// query carries one) win over prefix matches; unknown queries get the
// default coordinate and echo the query as the resolved name.
func (r *Resolver) Resolve(query string) Location {
	city, region := splitQuery(query)
	region = canonicalRegion(region)

	if city != "" {
		if e, ok := r.find(city, region, exactName); ok {
			return matched(query, e)
		}
		if len(city) >= minPartialLen {
			if e, ok := r.find(city, region, partialName); ok {
				return matched(query, e)
			}
		}
	}

	return Location{
		Query:        query,
		Latitude:     DefaultLatitude,
		Longitude:    DefaultLongitude,
		ResolvedName: query,
		Resolved:     false,
	}
}

func (r *Resolver) find(city, region string, match func(name, city string) bool) (Entry, bool) {
	for _, ie := range r.table.entries {
		if region != "" && region != ie.region {
			continue
		}
		for _, n := range ie.names {
			if match(n, city) {
				return ie.entry, true
			}
		}
	}
	return Entry{}, false
}

func exactName(name, city string) bool {
	return name == city
}

func partialName(name, city string) bool {
	return strings.HasPrefix(name, city) || strings.HasPrefix(city, name+" ")
}

func matched(query string, e Entry) Location {
	return Location{
		Query:        query,
		Latitude:     e.Latitude,
		Longitude:    e.Longitude,
		ResolvedName: e.DisplayName(),
		Resolved:     true,
	}
}

// splitQuery returns the normalized city part and optional region part of
// "City" or "City, Region".
func splitQuery(query string) (string, string) {
	city, region, _ := strings.Cut(query, ",")
	return normalize(city), normalize(region)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
