package runtime

import (
	"fmt"
	"html"
	"math"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/deicod/goliquid/values"
)

// DefaultFilters returns a fresh registry holding the built-in filters.
func DefaultFilters() map[string]FilterFunc {
	return map[string]FilterFunc{
		// String filters
		"append":        filterAppend,
		"prepend":       filterPrepend,
		"upcase":        filterUpcase,
		"downcase":      filterDowncase,
		"capitalize":    filterCapitalize,
		"strip":         filterStrip,
		"lstrip":        filterLstrip,
		"rstrip":        filterRstrip,
		"replace":       filterReplace,
		"replace_first": filterReplaceFirst,
		"remove":        filterRemove,
		"split":         filterSplit,
		"truncate":      filterTruncate,
		"escape":        filterEscape,

		// Number filters
		"plus":       filterPlus,
		"minus":      filterMinus,
		"times":      filterTimes,
		"divided_by": filterDividedBy,
		"modulo":     filterModulo,
		"abs":        filterAbs,
		"ceil":       filterCeil,
		"floor":      filterFloor,
		"round":      filterRound,

		// List filters
		"join":    filterJoin,
		"size":    filterSize,
		"first":   filterFirst,
		"last":    filterLast,
		"reverse": filterReverse,
		"sort":    filterSort,
		"uniq":    filterUniq,
		"map":     filterMap,
		"compact": filterCompact,
		"concat":  filterConcat,
		"slice":   filterSlice,

		// Utility filters
		"default": filterDefault,
	}
}

// arg returns the i-th filter argument, or Nil when it is missing.
func arg(args []values.Value, i int) values.Value {
	if i < len(args) {
		return args[i]
	}
	return values.Nil
}

func requireArgs(args []values.Value, n int) error {
	if len(args) < n {
		return fmt.Errorf("expected %d argument(s), got %d", n, len(args))
	}
	return nil
}

func str(v values.Value) string {
	return values.ToString(v)
}

func filterAppend(value values.Value, args []values.Value) (values.Value, error) {
	if err := requireArgs(args, 1); err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(str(value))
	for _, a := range args {
		b.WriteString(str(a))
	}
	return values.String(b.String()), nil
}

func filterPrepend(value values.Value, args []values.Value) (values.Value, error) {
	if err := requireArgs(args, 1); err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, a := range args {
		b.WriteString(str(a))
	}
	b.WriteString(str(value))
	return values.String(b.String()), nil
}

func filterUpcase(value values.Value, args []values.Value) (values.Value, error) {
	return values.String(strings.ToUpper(str(value))), nil
}

func filterDowncase(value values.Value, args []values.Value) (values.Value, error) {
	return values.String(strings.ToLower(str(value))), nil
}

func filterCapitalize(value values.Value, args []values.Value) (values.Value, error) {
	s := str(value)
	if s == "" {
		return values.String(s), nil
	}
	r, size := utf8.DecodeRuneInString(s)
	return values.String(string(unicode.ToUpper(r)) + strings.ToLower(s[size:])), nil
}

func filterStrip(value values.Value, args []values.Value) (values.Value, error) {
	return values.String(strings.TrimSpace(str(value))), nil
}

func filterLstrip(value values.Value, args []values.Value) (values.Value, error) {
	return values.String(strings.TrimLeftFunc(str(value), unicode.IsSpace)), nil
}

func filterRstrip(value values.Value, args []values.Value) (values.Value, error) {
	return values.String(strings.TrimRightFunc(str(value), unicode.IsSpace)), nil
}

func filterReplace(value values.Value, args []values.Value) (values.Value, error) {
	if err := requireArgs(args, 1); err != nil {
		return nil, err
	}
	return values.String(strings.ReplaceAll(str(value), str(args[0]), str(arg(args, 1)))), nil
}

func filterReplaceFirst(value values.Value, args []values.Value) (values.Value, error) {
	if err := requireArgs(args, 1); err != nil {
		return nil, err
	}
	return values.String(strings.Replace(str(value), str(args[0]), str(arg(args, 1)), 1)), nil
}

func filterRemove(value values.Value, args []values.Value) (values.Value, error) {
	if err := requireArgs(args, 1); err != nil {
		return nil, err
	}
	return values.String(strings.ReplaceAll(str(value), str(args[0]), "")), nil
}

// filterSplit splits on a separator. An empty separator splits into
// characters; trailing empty fields are dropped.
func filterSplit(value values.Value, args []values.Value) (values.Value, error) {
	if err := requireArgs(args, 1); err != nil {
		return nil, err
	}
	s, sep := str(value), str(args[0])
	if s == "" {
		return values.Array(), nil
	}

	var parts []string
	if sep == "" {
		for _, r := range s {
			parts = append(parts, string(r))
		}
	} else {
		parts = strings.Split(s, sep)
	}
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	items := make([]values.Value, len(parts))
	for i, part := range parts {
		items[i] = values.String(part)
	}
	return values.Array(items...), nil
}

// filterTruncate shortens text to length characters, ellipsis included.
func filterTruncate(value values.Value, args []values.Value) (values.Value, error) {
	length := 50
	if len(args) > 0 {
		length = toInt(args[0])
	}
	ellipsis := "..."
	if len(args) > 1 {
		ellipsis = str(args[1])
	}

	runes := []rune(str(value))
	if len(runes) <= length {
		return values.String(string(runes)), nil
	}
	keep := max(length-utf8.RuneCountInString(ellipsis), 0)
	return values.String(string(runes[:keep]) + ellipsis), nil
}

func filterEscape(value values.Value, args []values.Value) (values.Value, error) {
	if values.IsNil(value) {
		return value, nil
	}
	return values.String(html.EscapeString(str(value))), nil
}

func filterPlus(value values.Value, args []values.Value) (values.Value, error) {
	if err := requireArgs(args, 1); err != nil {
		return nil, err
	}
	return values.Number(values.ToNumber(value) + numberArg(args, 0)), nil
}

func filterMinus(value values.Value, args []values.Value) (values.Value, error) {
	if err := requireArgs(args, 1); err != nil {
		return nil, err
	}
	return values.Number(values.ToNumber(value) - numberArg(args, 0)), nil
}

func filterTimes(value values.Value, args []values.Value) (values.Value, error) {
	if err := requireArgs(args, 1); err != nil {
		return nil, err
	}
	return values.Number(values.ToNumber(value) * numberArg(args, 0)), nil
}

func filterDividedBy(value values.Value, args []values.Value) (values.Value, error) {
	if err := requireArgs(args, 1); err != nil {
		return nil, err
	}
	q, err := divide(values.ToNumber(value), numberArg(args, 0))
	if err != nil {
		return nil, err
	}
	return values.Number(q), nil
}

func filterModulo(value values.Value, args []values.Value) (values.Value, error) {
	if err := requireArgs(args, 1); err != nil {
		return nil, err
	}
	r, err := modulo(values.ToNumber(value), numberArg(args, 0))
	if err != nil {
		return nil, err
	}
	return values.Number(r), nil
}

func filterAbs(value values.Value, args []values.Value) (values.Value, error) {
	return values.Number(math.Abs(values.ToNumber(value))), nil
}

func filterCeil(value values.Value, args []values.Value) (values.Value, error) {
	return values.Number(math.Ceil(values.ToNumber(value))), nil
}

func filterFloor(value values.Value, args []values.Value) (values.Value, error) {
	return values.Number(math.Floor(values.ToNumber(value))), nil
}

func filterRound(value values.Value, args []values.Value) (values.Value, error) {
	return values.Number(roundTo(values.ToNumber(value), toInt(arg(args, 0)))), nil
}

// filterJoin joins array items with a separator, a single space by default.
func filterJoin(value values.Value, args []values.Value) (values.Value, error) {
	items, ok := values.Iterate(value)
	if !ok {
		return values.String(str(value)), nil
	}
	sep := " "
	if len(args) > 0 {
		sep = str(args[0])
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = str(item)
	}
	return values.String(strings.Join(parts, sep)), nil
}

func filterSize(value values.Value, args []values.Value) (values.Value, error) {
	size := values.Member(value, "size")
	if values.IsNil(size) {
		return values.Number(0), nil
	}
	return size, nil
}

func filterFirst(value values.Value, args []values.Value) (values.Value, error) {
	return values.Member(value, "first"), nil
}

func filterLast(value values.Value, args []values.Value) (values.Value, error) {
	return values.Member(value, "last"), nil
}

func filterReverse(value values.Value, args []values.Value) (values.Value, error) {
	items, ok := values.Iterate(value)
	if !ok {
		return value, nil
	}
	reversed := slices.Clone(items)
	slices.Reverse(reversed)
	return values.Array(reversed...), nil
}

// filterSort orders numbers and strings, optionally by a member name.
// Items that cannot be compared keep their relative order after the
// comparable ones, nil last.
func filterSort(value values.Value, args []values.Value) (values.Value, error) {
	items, ok := values.Iterate(value)
	if !ok {
		return value, nil
	}
	key := func(v values.Value) values.Value { return v }
	if len(args) > 0 {
		property := str(args[0])
		key = func(v values.Value) values.Value { return values.Member(v, property) }
	}

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b values.Value) int {
		ka, kb := key(a), key(b)
		if cmp, ok := values.Compare(ka, kb); ok {
			return cmp
		}
		return sortRank(ka) - sortRank(kb)
	})
	return values.Array(sorted...), nil
}

func sortRank(v values.Value) int {
	switch v.Kind() {
	case values.KindNumber:
		return 0
	case values.KindString:
		return 1
	case values.KindNil:
		return 3
	}
	return 2
}

func filterUniq(value values.Value, args []values.Value) (values.Value, error) {
	items, ok := values.Iterate(value)
	if !ok {
		return value, nil
	}
	unique := make([]values.Value, 0, len(items))
	for _, item := range items {
		if !slices.ContainsFunc(unique, func(seen values.Value) bool { return values.Equal(seen, item) }) {
			unique = append(unique, item)
		}
	}
	return values.Array(unique...), nil
}

// filterMap collects a member of every item.
func filterMap(value values.Value, args []values.Value) (values.Value, error) {
	if err := requireArgs(args, 1); err != nil {
		return nil, err
	}
	items, ok := values.Iterate(value)
	if !ok {
		return values.Array(values.Member(value, str(args[0]))), nil
	}
	property := str(args[0])
	mapped := make([]values.Value, len(items))
	for i, item := range items {
		mapped[i] = values.Member(item, property)
	}
	return values.Array(mapped...), nil
}

func filterCompact(value values.Value, args []values.Value) (values.Value, error) {
	items, ok := values.Iterate(value)
	if !ok {
		return value, nil
	}
	compact := make([]values.Value, 0, len(items))
	for _, item := range items {
		if !values.IsNil(item) {
			compact = append(compact, item)
		}
	}
	return values.Array(compact...), nil
}

func filterConcat(value values.Value, args []values.Value) (values.Value, error) {
	if err := requireArgs(args, 1); err != nil {
		return nil, err
	}
	left, _ := values.Iterate(value)
	right, ok := values.Iterate(args[0])
	if !ok {
		return nil, fmt.Errorf("expected an array argument, got %s", args[0].Kind())
	}
	return values.Array(slices.Concat(left, right)...), nil
}

// filterSlice returns length characters or items starting at offset. A
// negative offset counts from the end.
func filterSlice(value values.Value, args []values.Value) (values.Value, error) {
	if err := requireArgs(args, 1); err != nil {
		return nil, err
	}
	offset := toInt(args[0])
	length := 1
	if len(args) > 1 {
		length = toInt(args[1])
	}

	bounds := func(n int) (int, int) {
		start := offset
		if start < 0 {
			start += n
		}
		start = min(max(start, 0), n)
		end := min(start+max(length, 0), n)
		return start, end
	}

	if items, ok := values.Iterate(value); ok {
		start, end := bounds(len(items))
		return values.Array(slices.Clone(items[start:end])...), nil
	}
	runes := []rune(str(value))
	start, end := bounds(len(runes))
	return values.String(string(runes[start:end])), nil
}

// filterDefault substitutes its argument for nil, false and empty values.
func filterDefault(value values.Value, args []values.Value) (values.Value, error) {
	if values.IsEmpty(value) || value == values.False {
		return arg(args, 0), nil
	}
	return value, nil
}
