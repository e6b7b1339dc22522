package item

import (
	"time"
)

// Item is one recorded event. ID stays empty until a Storage saves the item.
type Item struct {
	ID        string
	Timestamp time.Time
}

func NewItem(timestamp time.Time) *Item {
	return &Item{Timestamp: timestamp}
}

// SCHEMA:

type FieldKind string

const FieldInstant FieldKind = "instant"

type Field struct {
	Name     string
	Kind     FieldKind
	Required bool
}

type ModelSchema struct {
	Name   string
	Fields []Field
}

// Schema is what a Storage is told about Item when the tracker registers it.
var Schema = ModelSchema{
	Name: "item",
	Fields: []Field{
		{Name: "timestamp", Kind: FieldInstant, Required: true},
	},
}

// REQUESTS:

type ItemRequest struct {
	Timestamp time.Time
}

type UpdateItemRequest struct {
	ID           string
	NewTimestamp time.Time
}

// ItemList holds the enumeration filters. Zero From/To mean unbounded, zero Limit means all.
type ItemList struct {
	From     time.Time
	To       time.Time
	Limit    int
	IsAllNil bool
}
