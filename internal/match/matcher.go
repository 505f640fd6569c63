// Package match resolves a requested order line item to exactly one of a
// pharmacy's stock entries. The resolution is an ordered chain of matcher
// strategies; the first strategy that finds an entry wins and there is no
// scoring between candidates.
package match

import (
	"strconv"
	"strings"

	"medifinder/internal/entity"
)

// ItemQuery is the caller-supplied identification of a line item: an opaque
// display id ("med-123" or a bare number) and/or a display name.
type ItemQuery struct {
	ID   string
	Name string
}

// Matcher attempts to resolve a query against a pharmacy's stock listing.
// A nil result means no match; the chain moves on to the next strategy.
type Matcher interface {
	Name() string
	Match(q ItemQuery, stock []entity.StockEntry) *entity.StockEntry
}

// Chain is the canonical resolution order: exact id, exact name, base name,
// compound name+strength formats, then the normalized full scan.
func Chain() []Matcher {
	return []Matcher{
		idMatcher{},
		exactNameMatcher{},
		baseNameMatcher{},
		compoundMatcher{},
		fuzzyScanMatcher{},
	}
}

// Resolve runs the chain and returns the first hit, or nil when every
// strategy misses.
func Resolve(q ItemQuery, stock []entity.StockEntry) *entity.StockEntry {
	q.Name = collapse(q.Name)
	for _, m := range Chain() {
		if hit := m.Match(q, stock); hit != nil {
			return hit
		}
	}
	return nil
}

// idMatcher resolves by the trailing numeric component of the supplied id,
// so "med-123", "stock-123" and "123" all address medicine 123.
type idMatcher struct{}

func (idMatcher) Name() string { return "id" }

func (idMatcher) Match(q ItemQuery, stock []entity.StockEntry) *entity.StockEntry {
	id, ok := numericID(q.ID)
	if !ok {
		return nil
	}
	for i := range stock {
		if stock[i].MedicineID == id {
			return &stock[i]
		}
	}
	return nil
}

func numericID(id string) (int, bool) {
	if id == "" {
		return 0, false
	}
	end := len(id)
	start := end
	for start > 0 && id[start-1] >= '0' && id[start-1] <= '9' {
		start--
	}
	if start < end {
		n, err := strconv.Atoi(id[start:end])
		return n, err == nil
	}
	n, err := strconv.Atoi(id)
	return n, err == nil
}

// exactNameMatcher compares the collapsed query name against the stored
// medicine name, case-insensitively.
type exactNameMatcher struct{}

func (exactNameMatcher) Name() string { return "exact-name" }

func (exactNameMatcher) Match(q ItemQuery, stock []entity.StockEntry) *entity.StockEntry {
	if q.Name == "" {
		return nil
	}
	for i := range stock {
		if strings.EqualFold(strings.TrimSpace(stock[i].Name), q.Name) {
			return &stock[i]
		}
	}
	return nil
}

// baseNameMatcher retries the exact match with the strength part stripped,
// so "Glucose 5% w/v" can still find a medicine stored as just "Glucose".
type baseNameMatcher struct{}

func (baseNameMatcher) Name() string { return "base-name" }

func (baseNameMatcher) Match(q ItemQuery, stock []entity.StockEntry) *entity.StockEntry {
	base, _ := SplitBaseName(q.Name)
	if base == "" || base == q.Name {
		return nil
	}
	return exactNameMatcher{}.Match(ItemQuery{Name: base}, stock)
}

// compoundMatcher compares the query against the stored name and strength
// joined in the three formats the catalog renders them in.
type compoundMatcher struct{}

func (compoundMatcher) Name() string { return "compound" }

func (compoundMatcher) Match(q ItemQuery, stock []entity.StockEntry) *entity.StockEntry {
	if q.Name == "" {
		return nil
	}
	for i := range stock {
		s := &stock[i]
		composites := []string{
			strings.TrimSpace(s.Name + " " + s.Strength),
			strings.TrimSpace(s.Name + " (" + s.Strength + ")"),
			strings.TrimSpace(s.Strength + " " + s.Name),
		}
		for _, c := range composites {
			if strings.EqualFold(c, q.Name) {
				return s
			}
		}
	}
	return nil
}

// fuzzyScanMatcher is the last resort: strip parentheses and percent signs
// from both sides and accept equality, containment in either direction, or
// base-name equality. First stock hit wins.
type fuzzyScanMatcher struct{}

func (fuzzyScanMatcher) Name() string { return "fuzzy-scan" }

func (fuzzyScanMatcher) Match(q ItemQuery, stock []entity.StockEntry) *entity.StockEntry {
	if q.Name == "" {
		return nil
	}
	search := normalizeFuzzy(q.Name)
	if search == "" {
		return nil
	}
	base, _ := SplitBaseName(q.Name)
	normBase := normalizeFuzzy(base)
	for i := range stock {
		s := &stock[i]
		dbName := normalizeFuzzy(s.Name)
		dbFull := normalizeFuzzy(s.Name + " " + s.Strength)
		dbFullParen := normalizeFuzzy(s.Name + " (" + s.Strength + ")")
		if dbName == search ||
			dbFull == search ||
			dbFullParen == search ||
			strings.Contains(dbName, search) ||
			strings.Contains(search, dbName) ||
			(normBase != "" && dbName == normBase) {
			return s
		}
	}
	return nil
}

// SplitBaseName splits a collapsed display name into the base name and the
// strength part, cutting at the first whitespace run that precedes a digit
// or a percent sign. "Glucose 5% w/v" -> ("Glucose", "5% w/v").
func SplitBaseName(name string) (base, strength string) {
	for i := 0; i < len(name); i++ {
		if name[i] != ' ' {
			continue
		}
		j := i
		for j < len(name) && name[j] == ' ' {
			j++
		}
		if j < len(name) && (name[j] == '%' || (name[j] >= '0' && name[j] <= '9')) {
			return strings.TrimSpace(name[:i]), strings.TrimSpace(name[j:])
		}
		i = j - 1
	}
	return name, ""
}

// collapse trims and folds internal whitespace runs to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// normalizeFuzzy strips parentheses and percent signs and lowercases, the
// loosest comparable form of a medicine label.
func normalizeFuzzy(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '(', ')', '%':
		default:
			b.WriteRune(r)
		}
	}
	return strings.ToLower(strings.TrimSpace(b.String()))
}
