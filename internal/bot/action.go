// Package bot implements the message interpretation and action-dispatch core:
// it turns free-form Indonesian chat text into one of a fixed set of catalog
// operations, executes them, and renders the reply.
package bot

import (
	"encoding/json"
	"strings"
)

// ActionKind discriminates the structured operations the bot can perform.
type ActionKind string

const (
	ActionSearchProducts ActionKind = "search_products"
	ActionGetPriceByName ActionKind = "get_price"
	ActionUpsertByName   ActionKind = "update_price"
	ActionUpdateByID     ActionKind = "update_price_by_id"
	ActionDeleteByID     ActionKind = "delete_product_by_id"
	ActionDeleteByName   ActionKind = "delete_product"
	ActionUnrecognized   ActionKind = "unrecognized"
)

// knownKinds is the single discriminator table shared by the interpreter and
// the executor; the wire strings double as the LLM schema discriminators.
var knownKinds = map[ActionKind]bool{
	ActionSearchProducts: true,
	ActionGetPriceByName: true,
	ActionUpsertByName:   true,
	ActionUpdateByID:     true,
	ActionDeleteByID:     true,
	ActionDeleteByName:   true,
}

// Action is the structured, validated representation of one user intent.
// Which fields are meaningful depends on Kind.
type Action struct {
	Kind        ActionKind
	Query       string
	ProductName string
	ProductID   int64
	Price       int64
	Unit        string
}

// actionWire is the JSON shape the language model is instructed to emit.
type actionWire struct {
	Action      string `json:"action"`
	Query       string `json:"query"`
	ProductName string `json:"product_name"`
	ProductID   int64  `json:"product_id"`
	Price       int64  `json:"price"`
	Unit        string `json:"unit"`
}

// DecodeAction parses one JSON object in the wire form. A malformed document
// is an error (the caller falls back to the deterministic parser); a
// well-formed document with an unknown discriminator decodes to Unrecognized.
func DecodeAction(raw string) (Action, error) {
	var w actionWire
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &w); err != nil {
		return Action{}, err
	}
	kind := ActionKind(w.Action)
	if !knownKinds[kind] {
		return Action{Kind: ActionUnrecognized}, nil
	}
	return Action{
		Kind:        kind,
		Query:       w.Query,
		ProductName: w.ProductName,
		ProductID:   w.ProductID,
		Price:       w.Price,
		Unit:        w.Unit,
	}, nil
}
