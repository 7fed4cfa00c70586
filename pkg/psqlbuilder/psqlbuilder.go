package psqlbuilder

import "github.com/Masterminds/squirrel"

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Select начинает SELECT с плейсхолдерами postgres ($1, $2, ...)
func Select(columns ...string) squirrel.SelectBuilder {
	return builder.Select(columns...)
}

// Update начинает UPDATE с плейсхолдерами postgres
func Update(table string) squirrel.UpdateBuilder {
	return builder.Update(table)
}
