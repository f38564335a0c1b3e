// Package migrations 内嵌目录/交互库的 goose 迁移脚本。
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
