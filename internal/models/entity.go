// Package models defines the entity kinds served by the API and the
// document shape shared by the storage and route layers.
package models

import "fmt"

// EntityKind names one document collection served by the API. The set is
// closed: route registration, schema loading, and facade construction all
// iterate over Kinds() at startup.
type EntityKind string

const (
	KindMovie       EntityKind = "movie"
	KindTheater     EntityKind = "theater"
	KindUser        EntityKind = "user"
	KindAccount     EntityKind = "account"
	KindCustomer    EntityKind = "customer"
	KindTransaction EntityKind = "transaction"
)

// collections maps each kind to its storage collection name.
var collections = map[EntityKind]string{
	KindMovie:       "movies",
	KindTheater:     "theaters",
	KindUser:        "users",
	KindAccount:     "accounts",
	KindCustomer:    "customers",
	KindTransaction: "transactions",
}

// Kinds returns every entity kind in registration order.
func Kinds() []EntityKind {
	return []EntityKind{
		KindMovie,
		KindTheater,
		KindUser,
		KindAccount,
		KindCustomer,
		KindTransaction,
	}
}

// ParseKind resolves a kind name (as used in configuration or tests) to an
// EntityKind. It returns an error for anything outside the closed set.
func ParseKind(name string) (EntityKind, error) {
	kind := EntityKind(name)
	if _, ok := collections[kind]; !ok {
		return "", fmt.Errorf("unknown entity kind %q", name)
	}
	return kind, nil
}

// Collection returns the storage collection name for the kind.
func (k EntityKind) Collection() string {
	return collections[k]
}

// String implements fmt.Stringer.
func (k EntityKind) String() string {
	return string(k)
}

// IDField is the reserved identifier field present on every stored entity.
const IDField = "_id"

// Entity is a schema-shaped document. The identifier field holds the
// external 24-hex-character string form once an entity has crossed the
// storage boundary.
type Entity map[string]any

// ID returns the entity's external identifier, or "" if unset.
func (e Entity) ID() string {
	id, _ := e[IDField].(string)
	return id
}
