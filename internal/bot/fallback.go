package bot

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reInteger      = regexp.MustCompile(`\b\d+\b`)
	reTrailingUnit = regexp.MustCompile(`per\s+(\w+)$`)
	reAllDigits    = regexp.MustCompile(`^\d+$`)
)

// ParseFallback maps raw text to an Action using fixed keyword rules. It is
// pure and deterministic and never panics. Keywords are checked in priority
// order on a lower-cased copy of the input; a matched keyword whose extraction
// fails yields Unrecognized.
//
// Numeric extraction uses the first integer-looking token per rule, left to
// right. Inputs mixing several numbers resolve by that precedence; this is a
// documented behavior, not best-effort (product names containing digits will
// confuse the add command's price extraction).
func ParseFallback(raw string) Action {
	text := strings.ToLower(strings.TrimSpace(raw))
	if a, ok := parseSearch(text); ok {
		return a
	}
	if a, ok := parseUpdateByID(text); ok {
		return a
	}
	if a, ok := parseAdd(text); ok {
		return a
	}
	if a, ok := parseDelete(text); ok {
		return a
	}
	return Action{Kind: ActionUnrecognized}
}

// parseSearch handles "cari {query}".
func parseSearch(text string) (Action, bool) {
	rest, ok := strings.CutPrefix(text, "cari ")
	if !ok {
		return Action{}, false
	}
	query := strings.TrimSpace(rest)
	if query == "" {
		return Action{}, false
	}
	return Action{Kind: ActionSearchProducts, Query: query}, true
}

// parseUpdateByID handles "ubah {id} {price} per {unit}": the first integer
// token is the id, the second is the price, and a trailing "per <word>"
// supplies the optional unit.
func parseUpdateByID(text string) (Action, bool) {
	rest, ok := strings.CutPrefix(text, "ubah ")
	if !ok {
		return Action{}, false
	}
	nums := reInteger.FindAllString(rest, 2)
	if len(nums) < 2 {
		return Action{}, false
	}
	id, err := strconv.ParseInt(nums[0], 10, 64)
	if err != nil {
		return Action{}, false
	}
	price, err := strconv.ParseInt(nums[1], 10, 64)
	if err != nil {
		return Action{}, false
	}
	a := Action{Kind: ActionUpdateByID, ProductID: id, Price: price}
	if m := reTrailingUnit.FindStringSubmatch(rest); m != nil {
		a.Unit = m[1]
	}
	return a, true
}

// parseAdd handles "tambah {name} {price} per {unit}": the first integer
// token anywhere in the text is the price; keyword, price token, and trailing
// unit clause are stripped to leave the product name.
func parseAdd(text string) (Action, bool) {
	rest, ok := strings.CutPrefix(text, "tambah ")
	if !ok {
		return Action{}, false
	}
	priceTok := reInteger.FindString(rest)
	if priceTok == "" {
		return Action{}, false
	}
	price, err := strconv.ParseInt(priceTok, 10, 64)
	if err != nil {
		return Action{}, false
	}
	remaining := strings.TrimSpace(strings.Replace(rest, priceTok, "", 1))

	a := Action{Kind: ActionUpsertByName, Price: price}
	if loc := reTrailingUnit.FindStringSubmatchIndex(remaining); loc != nil {
		a.Unit = remaining[loc[2]:loc[3]]
		remaining = strings.TrimSpace(remaining[:loc[0]])
	}
	if remaining == "" {
		return Action{}, false
	}
	a.ProductName = remaining
	return a, true
}

// parseDelete handles "hapus {id}" and "hapus {name}": a pure integer
// remainder deletes by id, any other non-empty remainder deletes by name.
func parseDelete(text string) (Action, bool) {
	rest, ok := strings.CutPrefix(text, "hapus ")
	if !ok {
		return Action{}, false
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return Action{}, false
	}
	if reAllDigits.MatchString(rest) {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return Action{}, false
		}
		return Action{Kind: ActionDeleteByID, ProductID: id}, true
	}
	return Action{Kind: ActionDeleteByName, ProductName: rest}, true
}
