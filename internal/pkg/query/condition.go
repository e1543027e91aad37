package query

import (
	"fmt"
	"strings"
)

// Condition represents a WHERE clause condition.
// Implementations must generate SQL fragments and parameter maps
// using Spanner's named parameter format (@paramName).
type Condition interface {
	// SQL returns the SQL fragment and parameter map for this condition.
	// paramIndex is used to generate unique parameter names (@p0, @p1, etc.)
	SQL(paramIndex int) (string, map[string]interface{})
}

// eqCondition implements equality comparison (field = value).
type eqCondition struct {
	field string
	value interface{}
}

// Eq creates a WHERE condition for equality comparison.
// Example: Eq("status", "published") generates "status = @p0"
func Eq(field string, value interface{}) Condition {
	return &eqCondition{
		field: field,
		value: value,
	}
}

// SQL generates the SQL fragment for equality comparison.
func (c *eqCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	sql := fmt.Sprintf("%s = @%s", c.field, paramName)
	params := map[string]interface{}{
		paramName: c.value,
	}
	return sql, params
}

// iLikeCondition implements case-insensitive substring matching.
type iLikeCondition struct {
	field string
	term  string
}

// ILike creates a case-insensitive substring match.
// Example: ILike("name", "Card") generates "LOWER(name) LIKE @p0" with "%card%".
// LIKE wildcards inside term are matched literally.
func ILike(field, term string) Condition {
	return &iLikeCondition{field: field, term: term}
}

// SQL generates the SQL fragment for the substring match.
func (c *iLikeCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	sql := fmt.Sprintf("LOWER(%s) LIKE @%s", c.field, paramName)
	return sql, map[string]interface{}{
		paramName: "%" + EscapeLike(strings.ToLower(c.term)) + "%",
	}
}

// containsCondition implements ARRAY containment (value IN UNNEST(field)).
type containsCondition struct {
	field string
	value string
}

// Contains matches rows whose ARRAY<STRING> column holds value.
// Example: Contains("tags", "eco") generates "@p0 IN UNNEST(tags)"
func Contains(field, value string) Condition {
	return &containsCondition{field: field, value: value}
}

// SQL generates the SQL fragment for containment.
func (c *containsCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	sql := fmt.Sprintf("@%s IN UNNEST(%s)", paramName, c.field)
	return sql, map[string]interface{}{
		paramName: c.value,
	}
}

// inCondition implements set membership of a scalar column.
type inCondition struct {
	field  string
	values []string
}

// In matches rows whose field equals any of values.
// Example: In("product_id", ids) generates "product_id IN UNNEST(@p0)"
func In(field string, values []string) Condition {
	return &inCondition{field: field, values: values}
}

// SQL generates the SQL fragment for membership.
func (c *inCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	sql := fmt.Sprintf("%s IN UNNEST(@%s)", c.field, paramName)
	return sql, map[string]interface{}{
		paramName: c.values,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE metacharacters so term matches literally.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}
