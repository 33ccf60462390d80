// Package config loads shell settings.
//
// Values are resolved in this order, highest priority first:
//
//  1. command-line flags (applied by cmd/tsh)
//  2. TSH_* environment variables, including ones set by an optional
//     dotenv file
//  3. the YAML config file
//  4. built-in defaults
//
// Recognized environment variables: TSH_PROMPT, TSH_PROMPT_COLOR,
// TSH_EMIT_PROMPT, TSH_HISTORY_FILE, TSH_MAX_JOBS, TSH_POLL_INTERVAL,
// TSH_LOG_LEVEL, TSH_LOG_FORMAT.
package config
