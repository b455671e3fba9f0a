// SPDX-License-Identifier: GPL-3.0-or-later
package migrations

import "embed"

//go:embed sql/*.sql
var FS embed.FS

const Root = "sql"
