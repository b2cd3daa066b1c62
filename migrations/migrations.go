// Package migrations содержит SQL-миграции хранилища сессий.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
