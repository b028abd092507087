package settings

// Template is the settings.toml content written for a fresh site before the
// install values are patched in. Comments survive later updates.
const Template = `# Masonry site settings.
#
# Created by 'mason site install'. This file may be edited by hand; mason
# preserves comments and unknown keys when it updates values.

[site]
# Human readable site name.
name = ""
# Address used as the From address for outgoing mail.
mail = ""
# Stable identifier tying this site to its exported configuration.
uuid = ""
# Default language code.
langcode = "en"

[database]
# One of: mysql, pgsql, sqlite.
driver = ""
host = ""
port = 0
# For sqlite this is the database file path, relative to this directory.
name = ""
user = ""
# Prefix applied to every table name.
prefix = ""

# The database password is not stored here. Put it in this directory's .env
# file as MASON_DB_PASSWORD.

[config]
# Configuration sync directory, relative to this directory.
sync = "config/sync"
`
