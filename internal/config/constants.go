package config

// SourceFileExt is the extension of source files.
const SourceFileExt = ".tower"

// ConfigFileName is the project configuration file looked up by the CLI.
const ConfigFileName = "tower.yaml"

// BuiltinPrefix marks an identifier as a call into the builtin table.
const BuiltinPrefix = "__"

// DefaultCachePath is relative to the directory holding the config file.
const DefaultCachePath = ".tower/cache.db"

// Version is reported by `tower version` and mixed into cache keys.
var Version = "0.3.0"

// Default builtin names
const (
	PrintlnStrName = "__println_str"
	PrintlnU32Name = "__println_u32"
	HelloName      = "__hello"
)
