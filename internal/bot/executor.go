package bot

import (
	"context"
	"errors"

	"github.com/fairyhunter13/warung-price-bot/internal/catalog"
	"github.com/fairyhunter13/warung-price-bot/internal/obs"
)

// Executor routes a structured Action to the catalog gateway and renders the
// localized reply. Each variant issues exactly one gateway operation;
// Unrecognized issues none. Gateway failures are reported to the user and
// never retried here.
type Executor struct {
	gw catalog.Gateway
}

// NewExecutor creates an Executor backed by the given gateway.
func NewExecutor(gw catalog.Gateway) *Executor {
	return &Executor{gw: gw}
}

// Execute performs the action on behalf of userID and returns the reply text.
// It always returns a non-empty string.
func (e *Executor) Execute(ctx context.Context, a Action, userID string) string {
	switch a.Kind {
	case ActionSearchProducts:
		products, err := e.gw.Search(ctx, a.Query)
		if err != nil {
			e.logFailure("search", a, err)
			return replyFailure("mencari", err)
		}
		return replySearchResults(a.Query, products)

	case ActionGetPriceByName:
		p, err := e.gw.FindByName(ctx, a.ProductName)
		if errors.Is(err, catalog.ErrNotFound) {
			return replyNameNotFound(a.ProductName)
		}
		if err != nil {
			e.logFailure("get_price", a, err)
			return replyFailure("mencari", err)
		}
		return replyCurrentPrice(p)

	case ActionUpsertByName:
		if a.Price <= 0 {
			return priceValidationReply
		}
		p, err := e.gw.UpsertByName(ctx, a.ProductName, a.Price, a.Unit, userID)
		if err != nil {
			e.logFailure("upsert_by_name", a, err)
			return replyFailure("memperbarui", err)
		}
		return replyPriceUpdated(p)

	case ActionUpdateByID:
		if a.Price <= 0 {
			return priceValidationReply
		}
		p, err := e.gw.UpdateByID(ctx, a.ProductID, a.Price, a.Unit, userID)
		if errors.Is(err, catalog.ErrNotFound) {
			return replyIDNotFound(a.ProductID)
		}
		if err != nil {
			e.logFailure("update_by_id", a, err)
			return replyFailure("memperbarui", err)
		}
		return replyPriceUpdated(p)

	case ActionDeleteByID:
		err := e.gw.DeleteByID(ctx, a.ProductID, userID)
		if errors.Is(err, catalog.ErrNotFound) {
			return replyIDNotFound(a.ProductID)
		}
		if err != nil {
			e.logFailure("delete_by_id", a, err)
			return replyFailure("menghapus", err)
		}
		return replyDeletedByID(a.ProductID)

	case ActionDeleteByName:
		err := e.gw.DeleteByName(ctx, a.ProductName, userID)
		if errors.Is(err, catalog.ErrNotFound) {
			return replyNameNotFound(a.ProductName)
		}
		if err != nil {
			e.logFailure("delete_by_name", a, err)
			return replyFailure("menghapus", err)
		}
		return replyDeletedByName(a.ProductName)

	default:
		return helpReply
	}
}

func (e *Executor) logFailure(op string, a Action, err error) {
	obs.Logger.Error("catalog_operation_failed",
		"op", op,
		"action", string(a.Kind),
		"error", err,
	)
}
