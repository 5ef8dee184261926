// Package migrations embeds the schema DDL. The service does not apply it;
// operators run it and integration tests load it into their container.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
